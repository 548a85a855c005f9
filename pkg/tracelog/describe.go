package tracelog

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/vango-dev/nodetrace/pkg/dom"
)

// Describe returns a short human readable form of x.
func (l *Logger) Describe(x any) string {
	return l.describe(x, false)
}

// describe renders x. Nested values are rendered flat: no child lists and
// no connection marker.
func (l *Logger) describe(x any, sub bool) string {
	switch v := x.(type) {
	case nil:
		return "∅"
	case []any:
		if sub {
			return "Array[...]"
		}
		return l.list("Array", v)
	case []*dom.Node:
		if sub {
			return "Array[...]"
		}
		items := make([]any, len(v))
		for i, n := range v {
			items[i] = n
		}
		return l.list("Array", items)
	case *dom.Node:
		if v == nil {
			return "∅"
		}
		return l.node(v, sub)
	case *dom.Component:
		return "[Function]"
	case string:
		return l.quote(v)
	default:
		if isFunc(x) {
			return "[Function]"
		}
		return l.quote(fmt.Sprint(x))
	}
}

func (l *Logger) node(n *dom.Node, sub bool) string {
	if n.Kind == dom.KindText {
		if n.Text == "" {
			return ""
		}
		return l.quote(n.Text)
	}

	s := l.serialize(n)
	if !sub && l.doc != nil && l.doc.IsConnected(n) {
		s = "🔗 " + s
	}
	children := n.ChildNodes()
	if sub || len(children) == 0 {
		return s
	}
	items := make([]any, len(children))
	for i, c := range children {
		items[i] = c
	}
	return l.list(s, items)
}

// serialize names a node without its children.
func (l *Logger) serialize(n *dom.Node) string {
	if meta, ok := l.tr.Registry().Lookup(n); ok {
		return "<" + meta.Name + "/>"
	}
	name := "[Fragment]"
	if n.Kind != dom.KindFragment {
		name = "<" + n.Tag + ">"
	}
	if l.tr.Tree().Has(n) {
		return "Guard" + name
	}
	return name
}

func (l *Logger) list(head string, items []any) string {
	var tail string
	if extra := len(items) - l.opts.MaxArrayItems; extra > 0 {
		tail = fmt.Sprintf(",(...+%d items)", extra)
		items = items[:l.opts.MaxArrayItems]
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = l.describe(item, true)
	}
	return head + "[" + strings.Join(parts, ",") + tail + "]"
}

func (l *Logger) quote(s string) string {
	s = strings.TrimSpace(s)
	if extra := utf8.RuneCountInString(s) - l.opts.MaxStringLength; extra > 0 {
		r := []rune(s)
		return fmt.Sprintf("%q", string(r[:l.opts.MaxStringLength])+fmt.Sprintf("(...+%d chars)", extra))
	}
	return fmt.Sprintf("%q", s)
}

func isFunc(x any) bool {
	return reflect.TypeOf(x).Kind() == reflect.Func
}

package tracelog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/nodetrace/pkg/dom"
	"github.com/vango-dev/nodetrace/pkg/lifecycle"
	"github.com/vango-dev/nodetrace/pkg/trace"
)

// Options configures a Logger.
type Options struct {
	// MaxArrayItems is the number of list items shown before the rest is
	// summarized as "(...+N items)".
	MaxArrayItems int

	// MaxStringLength is the number of characters of text shown before the
	// rest is summarized as "(...+N chars)".
	MaxStringLength int

	// ComponentAttr, when set, writes each component's name into the
	// data-<ComponentAttr> attribute of the node it produced. Empty
	// disables it.
	ComponentAttr string

	// Level is the level every record is logged at.
	Level slog.Level
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		MaxArrayItems:   3,
		MaxStringLength: 10,
		Level:           slog.LevelDebug,
	}
}

// Logger logs tracer activity for a dom host.
type Logger struct {
	tr     *trace.Tracer[dom.Node]
	doc    *dom.Document
	logger *slog.Logger
	opts   Options

	// parents holds the structural parent of each add in progress.
	parents []*dom.Node
	depth   int

	// last is the metadata of the most recent component.
	last *trace.Meta

	walking bool
	calls   int
}

// New creates a Logger. A nil logger uses slog.Default().
func New(tr *trace.Tracer[dom.Node], doc *dom.Document, logger *slog.Logger, opts Options) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.MaxArrayItems <= 0 {
		opts.MaxArrayItems = defaults.MaxArrayItems
	}
	if opts.MaxStringLength <= 0 {
		opts.MaxStringLength = defaults.MaxStringLength
	}
	return &Logger{
		tr:     tr,
		doc:    doc,
		logger: logger.With("component", "tracelog"),
		opts:   opts,
	}
}

func (l *Logger) log(msg string, args ...any) {
	args = append(args, slog.Int("depth", l.depth))
	l.logger.Log(context.Background(), l.opts.Level, msg, args...)
}

// group logs msg and runs fn one level deeper.
func (l *Logger) group(msg string, fn func(), args ...any) {
	l.log(msg, args...)
	l.depth++
	defer func() { l.depth-- }()
	fn()
}

// Middleware returns a dom.Middleware logging every primitive call.
func (l *Logger) Middleware() dom.Middleware {
	return func(next dom.Primitives) dom.Primitives {
		h, add, rm := next.H, next.Add, next.Rm

		next.H = func(fn any, args ...any) any {
			c, ok := fn.(*dom.Component)
			if !ok {
				return h(fn, args...)
			}
			var out any
			l.group("api.h() 🔶 "+c.Name(), func() {
				l.last = nil
				out = h(fn, args...)
				if _, isNode := out.(*dom.Node); !isNode {
					l.log(c.Name() + ": Function was not a component. Skipping")
					return
				}
				hooks := 0
				if l.last != nil {
					hooks = l.last.HookCount()
				}
				l.log(c.Name()+": Done. Render data:", "name", c.Name(), "hooks", hooks)
			})
			return out
		}

		next.Add = func(parent *dom.Node, value any, end *dom.Node) {
			l.group("api.add()", func() {
				l.parents = append(l.parents, parent)
				defer func() { l.parents = l.parents[:len(l.parents)-1] }()
				add(parent, value, end)
			}, "parent", l.Describe(parent), "value", l.Describe(value))
		}

		next.Rm = func(parent, start, end *dom.Node) {
			l.group("api.rm()", func() {
				rm(parent, start, end)
			}, "parent", l.Describe(parent), "start", l.Describe(start), "end", l.Describe(end))
		}
		return next
	}
}

// Observe is a trace notifier wrapper; pass it to Tracer.Observe.
func (l *Logger) Observe(prev trace.Notifier[dom.Node]) trace.Notifier[dom.Node] {
	return trace.Notifier[dom.Node]{
		OnCreate: func(f trace.Factory, node *dom.Node) {
			if meta, ok := l.tr.Registry().Lookup(node); ok {
				l.last = meta
				l.tag(node, meta.Name)
			}
			prev.OnCreate(f, node)
		},
		OnAttach: func(parent, child *dom.Node) {
			msg := fmt.Sprintf("Tree attach: %s receives %s", l.Describe(parent), l.Describe(child))
			if len(l.parents) == 0 || l.parents[len(l.parents)-1] != parent {
				msg += " (Adoptive parent)"
			}
			l.log(msg)
			prev.OnAttach(parent, child)
		},
		OnDetach: func(parent, child *dom.Node) {
			l.log(fmt.Sprintf("Tree detach: %s unlinks %s", l.Describe(parent), l.Describe(child)))
			prev.OnDetach(parent, child)
		},
	}
}

// tag writes the component name into the node when ComponentAttr is set.
// For a fragment every element child is tagged instead.
func (l *Logger) tag(node *dom.Node, name string) {
	if l.opts.ComponentAttr == "" {
		return
	}
	key := "data-" + l.opts.ComponentAttr
	set := func(n *dom.Node, value string) {
		if n.Kind != dom.KindElement {
			return
		}
		if n.Attrs == nil {
			n.Attrs = make(dom.Attrs)
		}
		n.Attrs[key] = value
	}
	if node.Kind == dom.KindFragment {
		for _, c := range node.ChildNodes() {
			set(c, "Fragment::"+name)
		}
		return
	}
	set(node, name)
}

// CallTree wraps a lifecycle walk; pass it to Lifecycle.Use. The outermost
// call announces the tree, and each hook that runs is numbered.
func (l *Logger) CallTree(next lifecycle.CallTreeFunc[dom.Node]) lifecycle.CallTreeFunc[dom.Node] {
	return func(hook lifecycle.Hook, root *dom.Node) {
		if !l.walking {
			l.walking = true
			l.calls = 0
			defer func() {
				l.walking = false
				l.calls = 0
			}()
			l.log(fmt.Sprintf("%s for tree %s", hook, l.Describe(root)))
		}
		if meta, ok := l.tr.Registry().Lookup(root); ok && meta.Hook(string(hook)) != nil {
			l.calls++
			l.log(fmt.Sprintf("%s (%d) %s", hook, l.calls, l.Describe(root)))
		}
		next(hook, root)
	}
}

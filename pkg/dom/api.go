package dom

import "fmt"

// Primitives are the three tree operations a rendering library performs.
type Primitives struct {
	// H builds a node. fn is a tag name, a *Component, or a slice of
	// children (which yields a fragment).
	H func(fn any, args ...any) any

	// Add inserts value into parent before end (nil end appends).
	// value may be a *Node, a string, a slice of values, or any value
	// printable with fmt.
	Add func(parent *Node, value any, end *Node)

	// Rm removes the sibling run [start, end) from parent.
	Rm func(parent, start, end *Node)
}

// Middleware wraps the current primitives and returns the wrapped set.
type Middleware func(next Primitives) Primitives

// API is the dispatch table used by components and by the defaults
// themselves. Replace primitives with Use rather than assigning fields, so
// the order of wrapping stays explicit.
type API struct {
	Primitives

	doc *Document
}

// NewAPI creates an API bound to doc with the default primitives.
func NewAPI(doc *Document) *API {
	a := &API{doc: doc}
	a.Primitives = Primitives{
		H:   a.h,
		Add: a.add,
		Rm:  a.rm,
	}
	return a
}

// Document returns the document this API builds into.
func (a *API) Document() *Document {
	return a.doc
}

// Use wraps the current primitives with each middleware in order. The last
// middleware is the outermost one.
func (a *API) Use(mws ...Middleware) {
	for _, mw := range mws {
		a.Primitives = mw(a.Primitives)
	}
}

// h is the default H.
func (a *API) h(fn any, args ...any) any {
	switch v := fn.(type) {
	case *Component:
		return v.Render(args...)
	case string:
		el := NewElement(v)
		for _, arg := range args {
			switch x := arg.(type) {
			case nil:
				continue
			case Attrs:
				if el.Attrs == nil {
					el.Attrs = make(Attrs, len(x))
				}
				for k, val := range x {
					el.Attrs[k] = val
				}
			default:
				a.Add(el, x, nil)
			}
		}
		return el
	case []any:
		frag := NewFragment()
		for _, item := range v {
			a.Add(frag, item, nil)
		}
		return frag
	case []*Node:
		frag := NewFragment()
		for _, item := range v {
			a.Add(frag, item, nil)
		}
		return frag
	default:
		return fn
	}
}

// add is the default Add.
func (a *API) add(parent *Node, value any, end *Node) {
	switch v := value.(type) {
	case nil:
		return
	case *Node:
		if v != nil {
			parent.InsertBefore(v, end)
		}
	case string:
		parent.InsertBefore(NewText(v), end)
	case []any, []*Node:
		if frag, ok := a.H(v).(*Node); ok {
			parent.InsertBefore(frag, end)
		}
	default:
		parent.InsertBefore(NewText(fmt.Sprint(v)), end)
	}
}

// rm is the default Rm.
func (a *API) rm(parent, start, end *Node) {
	for c := start; c != nil && c != end; {
		next := c.next
		parent.RemoveChild(c)
		c = next
	}
}

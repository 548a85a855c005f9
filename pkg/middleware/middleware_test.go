package middleware

import (
	"testing"

	"github.com/vango-dev/nodetrace/pkg/dom"
	"github.com/vango-dev/nodetrace/pkg/lifecycle"
	"github.com/vango-dev/nodetrace/pkg/trace"
)

// fixture is a fully instrumented dom runtime.
type fixture struct {
	doc *dom.Document
	api *dom.API
	tr  *trace.Tracer[dom.Node]
	lc  *lifecycle.Lifecycle[dom.Node]
}

func newFixture() *fixture {
	f := &fixture{doc: dom.NewDocument()}
	f.api = dom.NewAPI(f.doc)
	f.tr = trace.New[dom.Node](f.doc)
	f.lc = lifecycle.New(f.tr)
	f.api.Use(
		func(next dom.Primitives) dom.Primitives {
			next.H = f.tr.Create(next.H)
			next.Add = f.tr.Attach(next.Add)
			next.Rm = f.tr.Detach(next.Rm)
			return next
		},
		func(next dom.Primitives) dom.Primitives {
			next.Add = f.lc.Capture(next.Add)
			return next
		},
	)
	return f
}

// component returns a component that binds both hooks and renders tag with
// args as children.
func (f *fixture) component(name, tag string, onAttach func()) *dom.Component {
	return dom.Func(name, func(args ...any) any {
		if onAttach != nil {
			f.lc.OnAttach(onAttach)
		}
		f.lc.OnDetach(func() {})
		return f.api.H(tag, args...)
	})
}

func (f *fixture) build(c *dom.Component, args ...any) *dom.Node {
	return f.api.H(c, args...).(*dom.Node)
}

func TestComponentName(t *testing.T) {
	f := newFixture()
	node := f.build(f.component("Card", "div", nil))

	if got := componentName(f.tr, node); got != "Card" {
		t.Errorf("componentName() = %q, want %q", got, "Card")
	}
	if got := componentName(f.tr, dom.NewElement("p")); got != "" {
		t.Errorf("componentName() = %q, want empty", got)
	}
}

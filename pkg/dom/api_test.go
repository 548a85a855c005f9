package dom

import "testing"

func TestHBuildsElement(t *testing.T) {
	api := NewAPI(NewDocument())

	el := api.H("TR", Attrs{"class": "row"}, nil, "one", NewElement("td"), 7).(*Node)

	if el.Tag != "tr" {
		t.Errorf("Tag = %q, want %q", el.Tag, "tr")
	}
	if el.Attrs["class"] != "row" {
		t.Errorf("class = %q, want %q", el.Attrs["class"], "row")
	}
	if got := childTags(el); !equalStrings(got, []string{"#one", "td", "#7"}) {
		t.Errorf("children = %v, want [#one td #7]", got)
	}
}

func TestHBuildsFragmentFromSlice(t *testing.T) {
	api := NewAPI(NewDocument())

	frag := api.H([]any{"a", NewElement("b")}).(*Node)
	if frag.Kind != KindFragment {
		t.Fatalf("Kind = %v, want Fragment", frag.Kind)
	}
	if got := childTags(frag); !equalStrings(got, []string{"#a", "b"}) {
		t.Errorf("children = %v, want [#a b]", got)
	}
}

func TestHCallsComponent(t *testing.T) {
	api := NewAPI(NewDocument())
	var gotArgs []any
	comp := Func("Cell", func(args ...any) any {
		gotArgs = args
		return api.H("td")
	})

	if comp.Name() != "Cell" {
		t.Errorf("Name() = %q, want %q", comp.Name(), "Cell")
	}
	out := api.H(comp, 1, "x")
	if n, ok := out.(*Node); !ok || n.Tag != "td" {
		t.Errorf("H(component) = %v, want <td>", out)
	}
	if len(gotArgs) != 2 {
		t.Errorf("render args = %v, want 2 values", gotArgs)
	}
}

func TestAddSliceBuildsFragment(t *testing.T) {
	doc := NewDocument()
	api := NewAPI(doc)

	api.Add(doc.Body, []*Node{NewElement("a"), NewElement("b")}, nil)

	if got := childTags(doc.Body); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("children = %v, want [a b]", got)
	}
}

func TestRmRemovesRange(t *testing.T) {
	doc := NewDocument()
	api := NewAPI(doc)
	a, b, c, d := NewElement("a"), NewElement("b"), NewElement("c"), NewElement("d")
	for _, n := range []*Node{a, b, c, d} {
		api.Add(doc.Body, n, nil)
	}

	api.Rm(doc.Body, b, d)

	if got := childTags(doc.Body); !equalStrings(got, []string{"a", "d"}) {
		t.Errorf("children = %v, want [a d]", got)
	}
}

func TestUseWrapsInOrder(t *testing.T) {
	api := NewAPI(NewDocument())
	var order []string

	wrap := func(name string) Middleware {
		return func(next Primitives) Primitives {
			add := next.Add
			next.Add = func(parent *Node, value any, end *Node) {
				order = append(order, name)
				add(parent, value, end)
			}
			return next
		}
	}
	api.Use(wrap("inner"), wrap("outer"))

	api.Add(NewElement("div"), "x", nil)

	if !equalStrings(order, []string{"outer", "inner"}) {
		t.Errorf("order = %v, want [outer inner]", order)
	}
}

func TestNestedCallsDispatchThroughMiddleware(t *testing.T) {
	api := NewAPI(NewDocument())
	adds := 0
	api.Use(func(next Primitives) Primitives {
		add := next.Add
		next.Add = func(parent *Node, value any, end *Node) {
			adds++
			add(parent, value, end)
		}
		return next
	})

	api.H("tr", NewElement("td"), NewElement("td"))

	if adds != 2 {
		t.Errorf("adds = %d, want 2", adds)
	}
}

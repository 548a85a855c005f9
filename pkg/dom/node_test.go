package dom

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindDocument, "Document"},
		{Kind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func childTags(n *Node) []string {
	var tags []string
	for _, c := range n.ChildNodes() {
		if c.Kind == KindText {
			tags = append(tags, "#"+c.Text)
			continue
		}
		tags = append(tags, c.Tag)
	}
	return tags
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInsertBefore(t *testing.T) {
	parent := NewElement("ul")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")

	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertBefore(b, c)

	if got := childTags(parent); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Fatalf("children = %v, want [a b c]", got)
	}
	if b.PrevSibling() != a || b.NextSibling() != c {
		t.Error("sibling links not maintained")
	}
	if parent.FirstChild() != a || parent.LastChild() != c {
		t.Error("first/last child not maintained")
	}
}

func TestInsertBeforeMovesNode(t *testing.T) {
	left, right := NewElement("left"), NewElement("right")
	item := NewElement("item")
	left.AppendChild(item)

	right.AppendChild(item)

	if left.FirstChild() != nil {
		t.Error("item should have been removed from its old parent")
	}
	if item.Parent() != right {
		t.Errorf("item.Parent() = %v, want right", item.Parent())
	}
}

func TestInsertFragmentEmptiesIt(t *testing.T) {
	frag := NewFragment()
	frag.AppendChild(NewElement("a"))
	frag.AppendChild(NewElement("b"))

	parent := NewElement("div")
	parent.AppendChild(NewElement("z"))
	parent.InsertBefore(frag, parent.FirstChild())

	if got := childTags(parent); !equalStrings(got, []string{"a", "b", "z"}) {
		t.Errorf("children = %v, want [a b z]", got)
	}
	if frag.FirstChild() != nil {
		t.Error("fragment should be empty after insertion")
	}
}

func TestInsertAncestorPanics(t *testing.T) {
	tests := []struct {
		name   string
		insert func(outer, inner *Node)
	}{
		{"ancestor", func(outer, inner *Node) { inner.AppendChild(outer) }},
		{"self", func(outer, inner *Node) { outer.AppendChild(outer) }},
		{"fragment holding ancestor", func(outer, inner *Node) {
			frag := NewFragment()
			frag.AppendChild(outer)
			inner.AppendChild(frag)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outer := NewElement("outer")
			inner := NewElement("inner")
			outer.AppendChild(inner)

			defer func() {
				err, ok := recover().(error)
				if !ok || !errors.Is(err, ErrHierarchyRequest) {
					t.Fatalf("recover() = %v, want ErrHierarchyRequest", err)
				}
				if inner.Parent() != outer || inner.FirstChild() != nil {
					t.Error("a rejected insertion must leave the tree unchanged")
				}
			}()
			tt.insert(outer, inner)
		})
	}
}

func TestRemoveChild(t *testing.T) {
	parent := NewElement("div")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	parent.AppendChild(a)
	parent.AppendChild(b)
	parent.AppendChild(c)

	parent.RemoveChild(b)
	if got := childTags(parent); !equalStrings(got, []string{"a", "c"}) {
		t.Errorf("children = %v, want [a c]", got)
	}
	if b.Parent() != nil || b.NextSibling() != nil || b.PrevSibling() != nil {
		t.Error("removed node should be fully unlinked")
	}

	other := NewElement("other")
	other.RemoveChild(a)
	if a.Parent() != parent {
		t.Error("RemoveChild on a non-parent must be a no-op")
	}
}

func TestIsConnected(t *testing.T) {
	doc := NewDocument()
	el := NewElement("section")
	leaf := NewElement("p")
	el.AppendChild(leaf)

	if leaf.IsConnected() {
		t.Error("detached subtree should not be connected")
	}

	doc.Body.AppendChild(el)
	if !leaf.IsConnected() || !doc.IsConnected(leaf) {
		t.Error("subtree under body should be connected")
	}

	other := NewDocument()
	if other.IsConnected(leaf) {
		t.Error("node is not connected to a different document")
	}

	var nilNode *Node
	if nilNode.IsConnected() {
		t.Error("nil node is never connected")
	}
}

func TestTextContent(t *testing.T) {
	p := NewElement("p")
	p.AppendChild(NewText("hello "))
	b := NewElement("b")
	b.AppendChild(NewText("world"))
	p.AppendChild(b)

	if got := p.TextContent(); got != "hello world" {
		t.Errorf("TextContent() = %q, want %q", got, "hello world")
	}
}

package dom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHierarchyRequest is the panic value of an insertion that would make a
// node its own ancestor.
var ErrHierarchyRequest = errors.New("dom: hierarchy request error")

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <td>, etc.
	KindText                 // Plain text node
	KindFragment             // Grouping without wrapper
	KindDocument             // Document body, the root of the connected tree
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// Attrs holds element attributes.
type Attrs map[string]string

// Node is a host tree node. Sibling and parent links are maintained by the
// insertion and removal methods; callers never set them directly.
type Node struct {
	Kind  Kind   // Node type
	Tag   string // Element tag name (e.g., "div")
	Text  string // For KindText
	Attrs Attrs  // Element attributes

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{Kind: KindFragment}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.lastChild }

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil {
		return nil
	}
	return n.next
}

// PrevSibling returns the previous sibling, or nil.
func (n *Node) PrevSibling() *Node { return n.prev }

// ChildNodes returns a copy of the node's children in order.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	cursor := n
	for cursor.parent != nil {
		cursor = cursor.parent
	}
	return cursor
}

// IsConnected reports whether the node is reachable from a document body.
func (n *Node) IsConnected() bool {
	if n == nil {
		return false
	}
	return n.Root().Kind == KindDocument
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cursor := other; cursor != nil; cursor = cursor.parent {
		if cursor == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for c := n.firstChild; c != nil; c = c.next {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// AppendChild inserts child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref, or a ref that is not a
// child of n, appends. Inserting a fragment moves its children in order and
// leaves the fragment empty. A child that already has a parent is moved.
//
// Inserting n itself or one of its ancestors panics with an error wrapping
// ErrHierarchyRequest; the tree is left unchanged.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil || child == ref {
		return
	}
	if child.Contains(n) {
		panic(fmt.Errorf("%w: %s cannot be inserted into its descendant %s",
			ErrHierarchyRequest, child.label(), n.label()))
	}
	if ref != nil && ref.parent != n {
		ref = nil
	}
	if child.Kind == KindFragment {
		for _, c := range child.ChildNodes() {
			n.InsertBefore(c, ref)
		}
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}

	child.parent = n
	if ref == nil {
		child.prev = n.lastChild
		child.next = nil
		if n.lastChild != nil {
			n.lastChild.next = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
		return
	}

	child.next = ref
	child.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = child
	} else {
		n.firstChild = child
	}
	ref.prev = child
}

// label names n in error messages.
func (n *Node) label() string {
	switch n.Kind {
	case KindText:
		return "#text"
	case KindFragment:
		return "#fragment"
	default:
		return "<" + n.Tag + ">"
	}
}

// RemoveChild detaches child from n. It is a no-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		n.firstChild = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		n.lastChild = child.prev
	}
	child.parent = nil
	child.prev = nil
	child.next = nil
}

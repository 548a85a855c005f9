package dom

// Document owns the body node that defines connectivity.
type Document struct {
	Body *Node
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	return &Document{
		Body: &Node{Kind: KindDocument, Tag: "body"},
	}
}

// The methods below let a Document act as the host of a tracer without the
// tracer depending on this package.

// Parent returns n's parent node.
func (d *Document) Parent(n *Node) *Node { return n.Parent() }

// NextSibling returns n's next sibling.
func (d *Document) NextSibling(n *Node) *Node { return n.NextSibling() }

// IsConnected reports whether n is attached under this document's body.
func (d *Document) IsConnected(n *Node) bool {
	return n != nil && n.Root() == d.Body
}

// IsFragment reports whether n is a fragment.
func (d *Document) IsFragment(n *Node) bool { return n.Kind == KindFragment }

// NewFragment creates an empty fragment.
func (d *Document) NewFragment() *Node { return NewFragment() }

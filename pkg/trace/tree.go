package trace

// Tree is the logical tree: each tracked node maps to its logical children.
// A node with an entry but no Meta is a guard.
type Tree[N any] struct {
	entries *WeakMap[N, *Children[N]]
}

// NewTree creates an empty tree.
func NewTree[N any]() *Tree[N] {
	return &Tree[N]{entries: NewWeakMap[N, *Children[N]]()}
}

// Get returns node's entry.
func (t *Tree[N]) Get(node *N) (*Children[N], bool) {
	return t.entries.Get(node)
}

// Has reports whether node has an entry.
func (t *Tree[N]) Has(node *N) bool {
	return t.entries.Has(node)
}

// Ensure returns node's entry, creating an empty one if needed.
func (t *Tree[N]) Ensure(node *N) *Children[N] {
	if c, ok := t.entries.Get(node); ok {
		return c
	}
	c := NewChildren[N]()
	t.entries.Set(node, c)
	return c
}

// Set replaces node's entry.
func (t *Tree[N]) Set(node *N, children *Children[N]) {
	t.entries.Set(node, children)
}

// Delete removes node's entry.
func (t *Tree[N]) Delete(node *N) bool {
	return t.entries.Delete(node)
}

// Snapshot returns node's logical children in insertion order.
func (t *Tree[N]) Snapshot(node *N) []*N {
	c, _ := t.entries.Get(node)
	return c.Snapshot()
}

// Len returns the number of live entries.
func (t *Tree[N]) Len() int {
	return t.entries.Len()
}

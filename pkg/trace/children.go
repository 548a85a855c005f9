package trace

import (
	"weak"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Children is the logical child set of one node. Membership is unique and
// iteration follows insertion order. Members are held weakly: a host node
// links back to its parent, so a strong set would keep every tracked
// ancestor alive through its own entry.
type Children[N any] struct {
	set *orderedmap.OrderedMap[weak.Pointer[N], struct{}]
}

// NewChildren creates a set holding nodes.
func NewChildren[N any](nodes ...*N) *Children[N] {
	c := &Children[N]{set: orderedmap.New[weak.Pointer[N], struct{}]()}
	for _, n := range nodes {
		c.Add(n)
	}
	return c
}

// Add inserts n and reports whether it was new.
func (c *Children[N]) Add(n *N) bool {
	if n == nil {
		return false
	}
	_, present := c.set.Set(weak.Make(n), struct{}{})
	return !present
}

// Remove deletes n and reports whether it was present.
func (c *Children[N]) Remove(n *N) bool {
	if n == nil {
		return false
	}
	_, present := c.set.Delete(weak.Make(n))
	return present
}

// Has reports whether n is in the set.
func (c *Children[N]) Has(n *N) bool {
	if c == nil || n == nil {
		return false
	}
	_, present := c.set.Get(weak.Make(n))
	return present
}

// Len returns the number of live children.
func (c *Children[N]) Len() int {
	return len(c.Snapshot())
}

// Merge adds every member of other, keeping other's order for new members.
func (c *Children[N]) Merge(other *Children[N]) {
	if other == nil || other == c {
		return
	}
	for _, n := range other.Snapshot() {
		c.Add(n)
	}
}

// Snapshot returns the live members in insertion order. The slice is a
// copy and stays valid while the set is mutated. Members that have been
// collected are pruned.
func (c *Children[N]) Snapshot() []*N {
	if c == nil {
		return nil
	}
	out := make([]*N, 0, c.set.Len())
	var dead []weak.Pointer[N]
	for pair := c.set.Oldest(); pair != nil; pair = pair.Next() {
		if n := pair.Key.Value(); n != nil {
			out = append(out, n)
		} else {
			dead = append(dead, pair.Key)
		}
	}
	for _, wp := range dead {
		c.set.Delete(wp)
	}
	return out
}

package trace

// Host is the read side of the host tree the tracer observes.
type Host[N any] interface {
	// Parent returns n's structural parent, or nil for a root.
	Parent(n *N) *N

	// NextSibling returns the sibling after n, or nil.
	NextSibling(n *N) *N

	// IsConnected reports whether n is part of the live tree.
	IsConnected(n *N) bool

	// IsFragment reports whether n is a fragment, which gives its children
	// away on insertion instead of gaining a parent.
	IsFragment(n *N) bool

	// NewFragment creates an empty fragment node. Sequences passed to
	// attach are collected into one so they can be tracked as a unit.
	NewFragment() *N
}

// Factory is a component factory. Any value passed as the first argument of
// create that implements Factory starts a construction.
type Factory interface {
	Name() string
}

// Notifier holds the tracer's notification callbacks.
type Notifier[N any] struct {
	// OnCreate fires when a factory produced a host node.
	OnCreate func(f Factory, node *N)

	// OnAttach fires after value was linked under parent, which is the
	// structural parent or the adoptive parent that took the children.
	// child may be a guard: its children have already been merged into
	// parent's entry, and its own entry is deleted right after the callback
	// returns. A collapse therefore produces one OnAttach(parent, guard), not
	// one per collapsed component.
	OnAttach func(parent, child *N)

	// OnDetach fires for every logical child removed from parent.
	OnDetach func(parent, child *N)
}

// fill replaces nil callbacks with the ones from prev, or no-ops.
func (n Notifier[N]) fill(prev Notifier[N]) Notifier[N] {
	if n.OnCreate == nil {
		n.OnCreate = prev.OnCreate
	}
	if n.OnAttach == nil {
		n.OnAttach = prev.OnAttach
	}
	if n.OnDetach == nil {
		n.OnDetach = prev.OnDetach
	}
	if n.OnCreate == nil {
		n.OnCreate = func(Factory, *N) {}
	}
	if n.OnAttach == nil {
		n.OnAttach = func(*N, *N) {}
	}
	if n.OnDetach == nil {
		n.OnDetach = func(*N, *N) {}
	}
	return n
}

// Tracer is the process-wide tracing context: it owns the render stack, the
// node registry, the logical tree and the notifier chain.
type Tracer[N any] struct {
	host     Host[N]
	stack    *Stack
	registry *Registry[N]
	tree     *Tree[N]
	notify   Notifier[N]
}

// New creates a Tracer observing host.
func New[N any](host Host[N]) *Tracer[N] {
	return &Tracer[N]{
		host:     host,
		stack:    &Stack{},
		registry: NewRegistry[N](),
		tree:     NewTree[N](),
		notify:   Notifier[N]{}.fill(Notifier[N]{}),
	}
}

// Observe installs a notifier built from the current one. The returned
// notifier should call through to prev; nil callbacks keep prev's.
func (t *Tracer[N]) Observe(wrap func(prev Notifier[N]) Notifier[N]) {
	prev := t.notify
	t.notify = wrap(prev).fill(prev)
}

// Host returns the observed host.
func (t *Tracer[N]) Host() Host[N] { return t.host }

// Stack returns the render stack.
func (t *Tracer[N]) Stack() *Stack { return t.stack }

// Registry returns the node registry.
func (t *Tracer[N]) Registry() *Registry[N] { return t.registry }

// Tree returns the logical tree.
func (t *Tracer[N]) Tree() *Tree[N] { return t.tree }

// IsComponent reports whether node carries component metadata.
func (t *Tracer[N]) IsComponent(node *N) bool {
	return t.registry.Has(node)
}

// IsGuard reports whether node has a logical entry but no metadata.
func (t *Tracer[N]) IsGuard(node *N) bool {
	return t.tree.Has(node) && !t.registry.Has(node)
}

// Children returns node's logical children in insertion order.
func (t *Tracer[N]) Children(node *N) []*N {
	return t.tree.Snapshot(node)
}

// AdoptiveParent returns the nearest strict ancestor of start that has a
// logical entry. If there is none, it returns the topmost ancestor reached,
// or start itself when start has no parent.
func (t *Tracer[N]) AdoptiveParent(start *N) *N {
	cursor := start
	for p := t.host.Parent(cursor); p != nil; p = t.host.Parent(p) {
		if t.tree.Has(p) {
			return p
		}
		cursor = p
	}
	return cursor
}

package trace

// Meta is the metadata committed for a component node.
type Meta struct {
	// Name is the component name.
	Name string

	hooks map[string]func()
}

// Hook returns the callback bound under name, or nil.
func (m *Meta) Hook(name string) func() {
	if m == nil {
		return nil
	}
	return m.hooks[name]
}

// HookCount returns the number of hooks the component bound.
func (m *Meta) HookCount() int {
	if m == nil {
		return 0
	}
	return len(m.hooks)
}

// Registry maps component nodes to their Meta.
type Registry[N any] struct {
	meta *WeakMap[N, *Meta]
}

// NewRegistry creates an empty registry.
func NewRegistry[N any]() *Registry[N] {
	return &Registry[N]{meta: NewWeakMap[N, *Meta]()}
}

// Commit records frame as the metadata of node.
func (r *Registry[N]) Commit(node *N, frame *Frame) *Meta {
	m := &Meta{Name: frame.Name, hooks: frame.Hooks}
	r.meta.Set(node, m)
	return m
}

// Lookup returns the metadata for node.
func (r *Registry[N]) Lookup(node *N) (*Meta, bool) {
	return r.meta.Get(node)
}

// Has reports whether node is a component.
func (r *Registry[N]) Has(node *N) bool {
	return r.meta.Has(node)
}

// Len returns the number of live components.
func (r *Registry[N]) Len() int {
	return r.meta.Len()
}

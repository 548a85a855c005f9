package trace

// CreateFunc is the host's create primitive.
type CreateFunc func(fn any, args ...any) any

// AttachFunc is the host's attach primitive.
type AttachFunc[N any] func(parent *N, value any, end *N)

// DetachFunc is the host's detach primitive.
type DetachFunc[N any] func(parent, start, end *N)

// Create wraps next so factory calls are tracked on the render stack and,
// when they produce a host node, committed to the registry and tree.
func (t *Tracer[N]) Create(next CreateFunc) CreateFunc {
	return func(fn any, args ...any) any {
		f, ok := fn.(Factory)
		if !ok {
			return next(fn, args...)
		}

		frame, out := t.construct(f, next, args)

		node, ok := out.(*N)
		if !ok || node == nil {
			return out
		}

		// Nested constructions may already have given the node an entry.
		t.tree.Ensure(node)
		t.registry.Commit(node, frame)
		t.notify.OnCreate(f, node)
		return out
	}
}

// construct runs one factory call between a balanced push and pop.
func (t *Tracer[N]) construct(f Factory, next CreateFunc, args []any) (*Frame, any) {
	frame := t.stack.Push(f.Name())
	defer t.stack.Pop()
	return frame, next(f, args...)
}

// Attach wraps next so every attach updates the logical tree after the
// physical insertion. Slices are collected into a fragment first.
func (t *Tracer[N]) Attach(next AttachFunc[N]) AttachFunc[N] {
	var attach AttachFunc[N]
	attach = func(parent *N, value any, end *N) {
		if items, ok := sequence[N](value); ok {
			frag := t.host.NewFragment()
			for _, item := range items {
				attach(frag, item, nil)
			}
			value = frag
		}

		node, isNode := value.(*N)
		if !isNode || node == nil {
			next(parent, value, end)
			return
		}

		// The previous owner must be resolved before the node moves.
		var prevOwner *N
		if t.registry.Has(node) && t.host.Parent(node) != nil {
			prevOwner = t.AdoptiveParent(node)
		}

		next(parent, node, end)

		// The logical tree only follows insertions the host performed.
		if !t.host.IsFragment(node) && t.host.Parent(node) != parent {
			return
		}
		t.link(parent, node, prevOwner)
	}
	return attach
}

// link records value under parent in the logical tree and notifies.
func (t *Tracer[N]) link(parent, value, prevOwner *N) {
	valueChildren, tracked := t.tree.Get(value)
	if !tracked {
		return
	}
	isComponent := t.registry.Has(value)

	effective := parent
	if parentChildren, ok := t.tree.Get(parent); ok {
		if isComponent {
			parentChildren.Add(value)
		} else {
			parentChildren.Merge(valueChildren)
		}
	} else {
		children := valueChildren
		if isComponent {
			children = NewChildren(value)
		}
		if t.host.Parent(parent) == nil {
			t.tree.Set(parent, children)
		} else {
			effective = t.AdoptiveParent(parent)
			if adopted, ok := t.tree.Get(effective); ok {
				adopted.Merge(children)
			} else {
				t.tree.Set(effective, children)
			}
		}
	}

	if prevOwner != nil && prevOwner != effective {
		if owned, ok := t.tree.Get(prevOwner); ok {
			owned.Remove(value)
		}
	}

	t.notify.OnAttach(effective, value)

	// A guard never survives an attach: its children now live one level up.
	if !isComponent {
		t.tree.Delete(value)
	}
}

// Detach wraps next so logical children in [start, end) are unlinked from
// their owner before the physical removal.
func (t *Tracer[N]) Detach(next DetachFunc[N]) DetachFunc[N] {
	return func(parent, start, end *N) {
		if start != nil {
			owner := t.AdoptiveParent(start)
			if children, ok := t.tree.Get(owner); ok {
				for c := start; c != nil && c != end; c = t.host.NextSibling(c) {
					if children.Remove(c) {
						t.notify.OnDetach(owner, c)
					}
				}
			}
		}
		next(parent, start, end)
	}
}

// sequence reports whether value is an ordered sequence to attach as one
// fragment.
func sequence[N any](value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []*N:
		items := make([]any, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, true
	default:
		return nil, false
	}
}

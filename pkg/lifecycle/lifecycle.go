package lifecycle

import "github.com/vango-dev/nodetrace/pkg/trace"

// Hook names a lifecycle callback.
type Hook string

const (
	// OnAttach runs when a component becomes connected.
	OnAttach Hook = "onAttach"

	// OnDetach runs when a component is removed from a connected parent.
	OnDetach Hook = "onDetach"
)

// CallTreeFunc runs hook for root and its logical subtree.
type CallTreeFunc[N any] func(hook Hook, root *N)

// capture is the connectivity of an attach value sampled before the host
// mutation.
type capture[N any] struct {
	// connected is set when the value, or every item of a sequence, was
	// connected.
	connected bool

	// items holds the sequence items that were already connected.
	items map[*N]bool
}

// Lifecycle propagates attach and detach notifications to component hooks.
type Lifecycle[N any] struct {
	tr       *trace.Tracer[N]
	captured []capture[N]
	callTree CallTreeFunc[N]
}

// New creates a Lifecycle and registers it as an observer of tr.
func New[N any](tr *trace.Tracer[N]) *Lifecycle[N] {
	l := &Lifecycle[N]{tr: tr}
	l.callTree = l.walk
	tr.Observe(l.observe)
	return l
}

// Capture wraps the traced attach primitive. It records whether the value
// was connected before next runs; the record is consumed by the attach
// notification that next emits.
func (l *Lifecycle[N]) Capture(next trace.AttachFunc[N]) trace.AttachFunc[N] {
	return func(parent *N, value any, end *N) {
		l.captured = append(l.captured, l.sample(value))
		defer func() {
			l.captured = l.captured[:len(l.captured)-1]
		}()
		next(parent, value, end)
	}
}

// sample records the connectivity of value. Sequences are sampled per item.
func (l *Lifecycle[N]) sample(value any) capture[N] {
	host := l.tr.Host()
	var items []*N
	switch v := value.(type) {
	case *N:
		return capture[N]{connected: v != nil && host.IsConnected(v)}
	case []*N:
		items = v
	case []any:
		for _, item := range v {
			n, _ := item.(*N)
			items = append(items, n)
		}
	default:
		return capture[N]{}
	}

	c := capture[N]{connected: len(items) > 0}
	for _, n := range items {
		if n == nil || !host.IsConnected(n) {
			c.connected = false
			continue
		}
		if c.items == nil {
			c.items = make(map[*N]bool)
		}
		c.items[n] = true
	}
	return c
}

// current returns the innermost capture. Without one the value is treated
// as previously disconnected.
func (l *Lifecycle[N]) current() capture[N] {
	if len(l.captured) == 0 {
		return capture[N]{}
	}
	return l.captured[len(l.captured)-1]
}

func (l *Lifecycle[N]) observe(prev trace.Notifier[N]) trace.Notifier[N] {
	host := l.tr.Host()
	return trace.Notifier[N]{
		OnAttach: func(parent, child *N) {
			if host.IsConnected(parent) {
				l.attached(child, l.current())
			}
			prev.OnAttach(parent, child)
		},
		OnDetach: func(parent, child *N) {
			if host.IsConnected(parent) {
				l.CallTree(OnDetach, child)
			}
			prev.OnDetach(parent, child)
		},
	}
}

// attached runs onAttach for child unless it was connected before. For a
// sequence, child is the fragment holding the items; roots that were
// already connected are skipped.
func (l *Lifecycle[N]) attached(child *N, c capture[N]) {
	switch {
	case c.connected:
	case len(c.items) > 0:
		for _, root := range l.tr.Children(child) {
			if !c.items[root] {
				l.CallTree(OnAttach, root)
			}
		}
	default:
		l.CallTree(OnAttach, child)
	}
}

// CallTree runs hook for root, then for each logical child in insertion
// order, depth first.
func (l *Lifecycle[N]) CallTree(hook Hook, root *N) {
	l.callTree(hook, root)
}

// Use wraps the tree walk. Recursive calls go through the wrapped function,
// so a wrapper sees every node of the walk.
func (l *Lifecycle[N]) Use(wrap func(next CallTreeFunc[N]) CallTreeFunc[N]) {
	l.callTree = wrap(l.callTree)
}

func (l *Lifecycle[N]) walk(hook Hook, root *N) {
	if fn := l.Lookup(hook, root); fn != nil {
		fn()
	}
	// The snapshot keeps the walk stable if a hook mutates the tree.
	for _, child := range l.tr.Children(root) {
		l.callTree(hook, child)
	}
}

// Lookup returns the hook node bound during construction, or nil.
func (l *Lifecycle[N]) Lookup(hook Hook, node *N) func() {
	meta, ok := l.tr.Registry().Lookup(node)
	if !ok {
		return nil
	}
	return meta.Hook(string(hook))
}

// Bind registers fn as the hook of the component currently constructing.
// It panics with a T001 error when no construction is active.
func (l *Lifecycle[N]) Bind(hook Hook, fn func()) {
	frame, err := l.tr.Stack().Peek()
	if err != nil {
		panic(err)
	}
	frame.Bind(string(hook), fn)
}

// OnAttach binds fn as the onAttach hook of the constructing component.
func (l *Lifecycle[N]) OnAttach(fn func()) { l.Bind(OnAttach, fn) }

// OnDetach binds fn as the onDetach hook of the constructing component.
func (l *Lifecycle[N]) OnDetach(fn func()) { l.Bind(OnDetach, fn) }

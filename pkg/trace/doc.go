// Package trace maintains a logical component tree alongside a host node tree.
//
// A Tracer wraps the host's create, attach and detach primitives. While a
// component factory runs, a frame sits on the render stack; when the factory
// returns a host node, the frame is committed as that node's metadata and
// the node gets a logical tree entry. Attaches then link components to the
// nearest tracked ancestor, collapsing plain wrapper nodes ("guards") so the
// logical tree only ever contains components.
//
// # Core Types
//
// Stack is the render stack of in-progress constructions. Registry maps
// component nodes to their Meta. Tree maps nodes to their logical children.
// Both maps are weak: entries vanish once the host drops the node.
//
// Notifier carries the OnCreate, OnAttach and OnDetach callbacks. Consumers
// compose with Observe, wrapping the previous notifier:
//
//	tr.Observe(func(prev trace.Notifier[dom.Node]) trace.Notifier[dom.Node] {
//	    return trace.Notifier[dom.Node]{
//	        OnAttach: func(parent, child *dom.Node) {
//	            log.Println("attach", child)
//	            prev.OnAttach(parent, child)
//	        },
//	    }
//	})
//
// # Threading
//
// A Tracer is not safe for concurrent use. Every primitive runs to
// completion before the next one starts; only the weak maps tolerate the
// garbage collector evicting entries from another goroutine.
package trace

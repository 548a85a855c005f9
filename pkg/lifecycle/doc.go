// Package lifecycle runs onAttach and onDetach hooks for components when
// they really connect to or disconnect from the live tree.
//
// A Lifecycle observes a trace.Tracer. When the tracer reports an attach
// under a connected parent, and the attached value was not connected before
// the mutation, every component in the value's logical subtree runs its
// onAttach hook in pre-order. Detaches from a connected parent run onDetach
// the same way. Moving an already connected component runs nothing.
//
// Hooks are bound while a component constructs:
//
//	cell := dom.Func("Cell", func(args ...any) any {
//	    lc.OnAttach(func() { fmt.Println("cell mounted") })
//	    return dom.NewElement("td")
//	})
//
// Capture must wrap the traced attach primitive so connectivity is sampled
// before the host mutation happens.
package lifecycle

// Package dom is a minimal mutable node tree with hyperscript-style
// primitives, in the spirit of a browser DOM driven by a fine-grained
// rendering library.
//
// A Document owns a body node; a node is connected when its topmost ancestor
// is that body. Fragments group children without a wrapper and are emptied
// when inserted, exactly like a DOM DocumentFragment.
//
// # Primitives
//
// API exposes three replaceable primitives:
//
//	H(fn, args...)          // build an element, fragment or component
//	Add(parent, value, end) // insert value before end (nil appends)
//	Rm(parent, start, end)  // remove the sibling run [start, end)
//
// Nested calls made by the defaults always dispatch through the API's
// current primitives, so middleware installed with Use observes every
// call, including the ones H makes on its own behalf:
//
//	api := dom.NewAPI(dom.NewDocument())
//	api.Use(func(next dom.Primitives) dom.Primitives {
//	    add := next.Add
//	    next.Add = func(p *dom.Node, v any, end *dom.Node) {
//	        log.Println("add", p, v)
//	        add(p, v, end)
//	    }
//	    return next
//	})
package dom

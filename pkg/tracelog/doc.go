// Package tracelog writes a readable account of tracer activity to a
// log/slog logger.
//
// A Logger has three parts, installed separately:
//
//	lg := tracelog.New(tr, doc, slog.Default(), tracelog.DefaultOptions())
//	api.Use(tracedPrimitives, lg.Middleware())  // api.h, api.add, api.rm
//	tr.Observe(lg.Observe)                      // Tree attach / Tree detach
//	lc.Use(lg.CallTree)                         // onAttach for tree ...
//
// The middleware must be outside the tracer's own middleware so the
// structural parent of an add is known before the tracer reports where the
// child was actually linked. Attaches to any other parent are marked
// "(Adoptive parent)".
//
// Nodes are rendered by Describe: components as <Name/>, guards as
// Guard<tag>, fragments as [Fragment], text quoted and truncated, child lists
// truncated, and a 🔗 prefix on nodes that are connected to the document.
package tracelog

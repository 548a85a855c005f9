// Package nodetrace wires a traced dom host: a document, its primitives,
// the tracer that keeps the logical component tree and the lifecycle that
// runs component hooks.
//
// Create a Runtime with New and build through its primitives:
//
//	rt := nodetrace.New(nodetrace.Config{Debug: true})
//
//	cell := dom.Func("Cell", func(args ...any) any {
//	    rt.OnAttach(func() { fmt.Println("cell attached") })
//	    return rt.H("td", args...)
//	})
//	rt.Add(rt.Body(), rt.H("table", rt.H("tr", rt.H(cell, "a"))), nil)
package nodetrace

import (
	"log/slog"

	"github.com/vango-dev/nodetrace/pkg/dom"
	"github.com/vango-dev/nodetrace/pkg/lifecycle"
	"github.com/vango-dev/nodetrace/pkg/middleware"
	"github.com/vango-dev/nodetrace/pkg/trace"
	"github.com/vango-dev/nodetrace/pkg/tracelog"
)

// Version is the nodetrace release.
const Version = "0.1.0"

// Runtime is one traced document.
type Runtime struct {
	doc       *dom.Document
	api       *dom.API
	tracer    *trace.Tracer[dom.Node]
	lifecycle *lifecycle.Lifecycle[dom.Node]

	log     *tracelog.Logger
	metrics *middleware.Metrics

	config Config
	logger *slog.Logger
}

// New creates a runtime with the given configuration.
func New(cfg Config) *Runtime {
	cfg = cfg.withDefaults()

	doc := dom.NewDocument()
	tr := trace.New[dom.Node](doc)
	rt := &Runtime{
		doc:       doc,
		api:       dom.NewAPI(doc),
		tracer:    tr,
		lifecycle: lifecycle.New(tr),
		config:    cfg,
		logger:    cfg.Logger.With("component", "nodetrace"),
	}

	// The lifecycle capture must sit outside the tracer so connectivity is
	// read before the host mutation.
	rt.api.Use(Traced(tr), Captured(rt.lifecycle))

	if cfg.Metrics.Enabled {
		rt.metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(cfg.Metrics.Registry),
		)
		tr.Observe(middleware.ObserveMetrics(rt.metrics, tr))
		rt.lifecycle.Use(middleware.CallTreeMetrics(rt.metrics, rt.lifecycle))
	}

	if cfg.Tracing.Enabled {
		opts := []middleware.OTelOption{middleware.WithTracerName(cfg.Tracing.TracerName)}
		if cfg.Tracing.Provider != nil {
			opts = append(opts, middleware.WithTracerProvider(cfg.Tracing.Provider))
		}
		if cfg.Tracing.Notifications {
			tr.Observe(middleware.ObserveSpans(tr, opts...))
		}
		rt.lifecycle.Use(middleware.CallTreeSpans(tr, rt.lifecycle, opts...))
	}

	if cfg.Debug {
		rt.log = tracelog.New(tr, doc, cfg.Logger, cfg.Log.options())
		rt.api.Use(rt.log.Middleware())
		tr.Observe(rt.log.Observe)
		rt.lifecycle.Use(rt.log.CallTree)
	}

	rt.logger.Debug("runtime created",
		"debug", cfg.Debug,
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled,
	)
	return rt
}

// Traced returns the middleware installing tr's interceptors.
func Traced(tr *trace.Tracer[dom.Node]) dom.Middleware {
	return func(next dom.Primitives) dom.Primitives {
		next.H = tr.Create(next.H)
		next.Add = tr.Attach(next.Add)
		next.Rm = tr.Detach(next.Rm)
		return next
	}
}

// Captured returns the middleware sampling connectivity for lc. It must be
// installed after Traced.
func Captured(lc *lifecycle.Lifecycle[dom.Node]) dom.Middleware {
	return func(next dom.Primitives) dom.Primitives {
		next.Add = lc.Capture(next.Add)
		return next
	}
}

// =============================================================================
// Primitives
// =============================================================================

// H builds a node through the traced primitives.
func (r *Runtime) H(fn any, args ...any) any {
	return r.api.H(fn, args...)
}

// Add inserts value into parent before end through the traced primitives.
func (r *Runtime) Add(parent *dom.Node, value any, end *dom.Node) {
	r.api.Add(parent, value, end)
}

// Rm removes [start, end) from parent through the traced primitives.
func (r *Runtime) Rm(parent, start, end *dom.Node) {
	r.api.Rm(parent, start, end)
}

// Use installs additional primitive middleware outside the existing ones.
func (r *Runtime) Use(mws ...dom.Middleware) {
	r.api.Use(mws...)
}

// Observe installs a tracer notifier wrapper.
func (r *Runtime) Observe(wrap func(prev trace.Notifier[dom.Node]) trace.Notifier[dom.Node]) {
	r.tracer.Observe(wrap)
}

// OnAttach binds fn as the onAttach hook of the constructing component.
func (r *Runtime) OnAttach(fn func()) {
	r.lifecycle.OnAttach(fn)
}

// OnDetach binds fn as the onDetach hook of the constructing component.
func (r *Runtime) OnDetach(fn func()) {
	r.lifecycle.OnDetach(fn)
}

// =============================================================================
// Accessors
// =============================================================================

// Document returns the traced document.
func (r *Runtime) Document() *dom.Document { return r.doc }

// Body returns the document body.
func (r *Runtime) Body() *dom.Node { return r.doc.Body }

// API returns the primitive dispatch table.
func (r *Runtime) API() *dom.API { return r.api }

// Tracer returns the tracer.
func (r *Runtime) Tracer() *trace.Tracer[dom.Node] { return r.tracer }

// Lifecycle returns the lifecycle propagator.
func (r *Runtime) Lifecycle() *lifecycle.Lifecycle[dom.Node] { return r.lifecycle }

// TraceLog returns the trace logger, or nil when Debug is off.
func (r *Runtime) TraceLog() *tracelog.Logger { return r.log }

// Metrics returns the metrics, or nil when disabled.
func (r *Runtime) Metrics() *middleware.Metrics { return r.metrics }

// Config returns the runtime configuration with defaults applied.
func (r *Runtime) Config() Config { return r.config }

// Logger returns the runtime logger.
func (r *Runtime) Logger() *slog.Logger { return r.logger }

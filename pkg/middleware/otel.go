package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/nodetrace/pkg/lifecycle"
	"github.com/vango-dev/nodetrace/pkg/trace"
)

// Default tracer name for nodetrace spans.
const defaultTracerName = "nodetrace"

// OTelConfig configures the OpenTelemetry wrappers.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "nodetrace").
	TracerName string

	// Provider is the tracer provider. Nil uses the global provider.
	Provider oteltrace.TracerProvider

	// Filter determines which walks to trace.
	// Return true to trace the walk, false to skip.
	// If nil, all walks are traced.
	Filter func(hook lifecycle.Hook) bool

	// tracer is the resolved tracer instance.
	tracer oteltrace.Tracer
}

// OTelOption configures the OpenTelemetry wrappers.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider oteltrace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.Provider = provider
	}
}

// WithHookFilter sets a filter function for walks.
func WithHookFilter(filter func(hook lifecycle.Hook) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

func resolveOTel(opts []OTelOption) OTelConfig {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider != nil {
		config.tracer = config.Provider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}
	return config
}

// componentName returns node's component name, or "" for plain nodes.
func componentName[N any](tr *trace.Tracer[N], node *N) string {
	if meta, ok := tr.Registry().Lookup(node); ok {
		return meta.Name
	}
	return ""
}

// CallTreeSpans returns a walk wrapper that records one span per lifecycle
// walk. The span carries the root component and the number of hooks run; a
// panicking hook is recorded as an error and the panic continues. Pass it to
// Lifecycle.Use.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	lc.Use(middleware.CallTreeSpans(tr, lc, middleware.WithTracerProvider(tp)))
func CallTreeSpans[N any](tr *trace.Tracer[N], lc *lifecycle.Lifecycle[N], opts ...OTelOption) func(next lifecycle.CallTreeFunc[N]) lifecycle.CallTreeFunc[N] {
	config := resolveOTel(opts)

	return func(next lifecycle.CallTreeFunc[N]) lifecycle.CallTreeFunc[N] {
		var (
			active oteltrace.Span
			calls  int
		)
		event := func(hook lifecycle.Hook, root *N) {
			if lc.Lookup(hook, root) == nil {
				return
			}
			calls++
			active.AddEvent(string(hook), oteltrace.WithAttributes(
				attribute.String("nodetrace.component", componentName(tr, root)),
			))
		}
		return func(hook lifecycle.Hook, root *N) {
			if active != nil {
				event(hook, root)
				next(hook, root)
				return
			}
			if config.Filter != nil && !config.Filter(hook) {
				next(hook, root)
				return
			}

			_, span := config.tracer.Start(
				context.Background(),
				fmt.Sprintf("nodetrace.%s", hook),
				oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
				oteltrace.WithAttributes(
					attribute.String("nodetrace.hook", string(hook)),
					attribute.String("nodetrace.root", componentName(tr, root)),
				),
			)
			active = span
			defer func() {
				r := recover()
				span.SetAttributes(attribute.Int("nodetrace.hook_calls", calls))
				if r != nil {
					span.RecordError(fmt.Errorf("hook panicked: %v", r))
					span.SetStatus(codes.Error, "hook panicked")
				} else {
					span.SetStatus(codes.Ok, "")
				}
				span.End()
				active = nil
				calls = 0
				if r != nil {
					panic(r)
				}
			}()
			event(hook, root)
			next(hook, root)
		}
	}
}

// ObserveSpans returns a notifier wrapper that records a span for every
// logical attach and detach. Pass it to Tracer.Observe.
func ObserveSpans[N any](tr *trace.Tracer[N], opts ...OTelOption) func(prev trace.Notifier[N]) trace.Notifier[N] {
	config := resolveOTel(opts)

	record := func(name string, parent, child *N, fn func()) {
		_, span := config.tracer.Start(
			context.Background(),
			name,
			oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
			oteltrace.WithAttributes(
				attribute.String("nodetrace.parent", componentName(tr, parent)),
				attribute.String("nodetrace.child", componentName(tr, child)),
				attribute.Bool("nodetrace.guard", tr.IsGuard(child)),
			),
		)
		defer span.End()
		fn()
	}

	return func(prev trace.Notifier[N]) trace.Notifier[N] {
		return trace.Notifier[N]{
			OnAttach: func(parent, child *N) {
				record("nodetrace.attach", parent, child, func() { prev.OnAttach(parent, child) })
			},
			OnDetach: func(parent, child *N) {
				record("nodetrace.detach", parent, child, func() { prev.OnDetach(parent, child) })
			},
		}
	}
}

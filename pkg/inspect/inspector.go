package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/nodetrace"
	traceerrors "github.com/vango-dev/nodetrace/internal/errors"
	"github.com/vango-dev/nodetrace/pkg/dom"
	"github.com/vango-dev/nodetrace/pkg/trace"
)

// Option configures an Inspector.
type Option func(*Inspector)

// WithLabeler sets how nodes are named in snapshots and events.
func WithLabeler(l Labeler) Option {
	return func(i *Inspector) {
		i.label = l
	}
}

// WithGatherer sets the metrics source of /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(i *Inspector) {
		i.gatherer = g
	}
}

// Inspector publishes snapshots of a runtime and serves them over HTTP.
type Inspector struct {
	rt       *nodetrace.Runtime
	label    Labeler
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	hub      *Hub

	seq      int
	snapshot atomic.Pointer[Snapshot]
	server   *http.Server
}

// New creates an inspector for rt and registers its notifier. It must be
// called on the goroutine that drives rt.
func New(rt *nodetrace.Runtime, opts ...Option) *Inspector {
	i := &Inspector{
		rt:       rt,
		gatherer: prometheus.DefaultGatherer,
		logger:   rt.Logger().With("component", "inspect"),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.label == nil {
		i.label = DefaultLabel(rt)
	}
	i.hub = NewHub(i.logger, i.Snapshot)
	i.Publish()
	rt.Observe(i.observe)
	return i
}

func (i *Inspector) observe(prev trace.Notifier[dom.Node]) trace.Notifier[dom.Node] {
	return trace.Notifier[dom.Node]{
		OnAttach: func(parent, child *dom.Node) {
			prev.OnAttach(parent, child)
			i.emit("attach", parent, child)
		},
		OnDetach: func(parent, child *dom.Node) {
			prev.OnDetach(parent, child)
			i.emit("detach", parent, child)
		},
	}
}

// emit publishes a fresh snapshot, then streams the event.
func (i *Inspector) emit(kind string, parent, child *dom.Node) {
	e := &Event{Kind: kind, Parent: i.label(parent), Node: i.label(child)}
	s := i.Publish()
	e.Seq = s.Seq
	i.hub.Broadcast(newMessage(MessageEvent, e, nil))
}

// Publish takes a snapshot and makes it the current one. It must run on the
// goroutine that drives the runtime.
func (i *Inspector) Publish() *Snapshot {
	i.seq++
	s := Take(i.rt, i.label, i.seq)
	i.snapshot.Store(s)
	return s
}

// Snapshot returns the latest published snapshot. Safe for concurrent use.
func (i *Inspector) Snapshot() *Snapshot {
	return i.snapshot.Load()
}

// Hub returns the event hub.
func (i *Inspector) Hub() *Hub {
	return i.hub
}

// Handler returns the inspector's routes.
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/tree", i.handleTree)
	r.Get("/events", i.hub.HandleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(i.gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

func (i *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(i.Snapshot()); err != nil {
		i.logger.Error("encode snapshot", "error", err)
	}
}

// Serve listens on addr until ctx is canceled.
func (i *Inspector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return traceerrors.New("T300").WithDetail("cannot listen on " + addr).Wrap(err)
	}
	return i.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is canceled.
func (i *Inspector) ServeListener(ctx context.Context, ln net.Listener) error {
	i.server = &http.Server{
		Handler:           i.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	i.logger.Info("inspector listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := i.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		i.Stop()
		return nil
	case err := <-errCh:
		i.Stop()
		if err != nil {
			return traceerrors.New("T300").Wrap(err)
		}
		return nil
	}
}

// Stop closes client connections and shuts the server down.
func (i *Inspector) Stop() {
	i.hub.Close()
	if i.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		i.server.Shutdown(ctx)
	}
}

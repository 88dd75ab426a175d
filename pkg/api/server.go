// Package api serves a loaded family tree over HTTP.
//
// The server holds one immutable [pipeline.Result] and answers read-only
// queries against it: the header, individuals with their relations,
// ancestor and descendant walks, families and the diagnostics raised while
// loading. When a [store.Store] is configured, the loaded graph can also be
// published as a snapshot and earlier snapshots listed, fetched or deleted.
//
// Routes:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/header
//	GET    /api/individuals
//	GET    /api/individuals/{id}
//	GET    /api/individuals/{id}/ancestors?mode=bfs|dfs
//	GET    /api/individuals/{id}/descendants
//	GET    /api/families
//	GET    /api/diagnostics?severity=warning
//	GET    /api/snapshots
//	POST   /api/snapshots
//	GET    /api/snapshots/{id}
//	DELETE /api/snapshots/{id}
//
// Errors are JSON objects {"error": message, "code": code}; the status is
// derived from the [errors.Code].
package api

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/store"
)

// DefaultShutdownTimeout bounds graceful shutdown in [Server.Run].
const DefaultShutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	// Name labels snapshots published from this server. Defaults to the
	// base name of Source, or "lineage".
	Name string

	// Source is the input file, recorded on published snapshots.
	Source string

	// Store enables the snapshot routes. Nil disables them.
	Store store.Store

	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	result *pipeline.Result
	graph  graph.Graph // serialized once; shared read-only by all requests
	opts   Options
	logger *log.Logger

	nodeIndex map[string]int
}

// NewServer creates and configures the HTTP server for res.
func NewServer(res *pipeline.Result, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Name == "" {
		opts.Name = defaultName(opts.Source)
	}

	gj := graph.FromGenealogy(res.Graph)
	gj.Version = res.HeaderVersion().OrElse("")

	s := &Server{
		result:    res,
		graph:     gj,
		opts:      opts,
		logger:    opts.Logger,
		nodeIndex: make(map[string]int, len(gj.Nodes)),
	}
	for i, n := range gj.Nodes {
		s.nodeIndex[n.ID] = i
	}
	s.setupRoutes()
	return s
}

func defaultName(source string) string {
	if source == "" {
		return "lineage"
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(instrument)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/header", s.handleHeader)
		r.Get("/families", s.handleFamilies)
		r.Get("/diagnostics", s.handleDiagnostics)

		r.Route("/individuals", func(r chi.Router) {
			r.Get("/", s.handleListIndividuals)
			r.Get("/{id}", s.handleGetIndividual)
			r.Get("/{id}/ancestors", s.handleAncestors)
			r.Get("/{id}/descendants", s.handleDescendants)
		})

		if s.opts.Store != nil {
			r.Route("/snapshots", func(r chi.Router) {
				r.Get("/", s.handleListSnapshots)
				r.Post("/", s.handlePublish)
				r.Get("/{id}", s.handleGetSnapshot)
				r.Delete("/{id}", s.handleDeleteSnapshot)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "route not found"})
	})

	s.router = r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout (DefaultShutdownTimeout when zero).
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	if shutdownTimeout == 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

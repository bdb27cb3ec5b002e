// Package server exposes one scenario session over HTTP for the map UI.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/source"
)

// Options configures a Server.
type Options struct {
	Store  *scenario.Store
	Source source.Source
	// Where and Fields are passed to Source on load.
	Where  string
	Fields []string
	// SampleSize is used when a load request does not name one.
	SampleSize int

	// AllowedOrigins lists the origins the map UI may be served from.
	// Empty allows any origin.
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server is the HTTP API of one planning session. The store is
// single-threaded, so every handler holds mu while it touches it.
type Server struct {
	mu    sync.Mutex
	store *scenario.Store

	source     source.Source
	where      string
	fields     []string
	sampleSize int
	origins    []string

	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around opts.Store.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:      opts.Store,
		source:     opts.Source,
		where:      opts.Where,
		fields:     opts.Fields,
		sampleSize: opts.SampleSize,
		origins:    opts.AllowedOrigins,
		logger:     logger.With("component", "server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", TraceHeader},
		ExposedHeaders: []string{TraceHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/load", s.handleLoad)
		r.Post("/reset", s.handleReset)

		r.Get("/buildings", s.handleListBuildings)
		r.Post("/buildings", s.handleCreateBuilding)
		r.Route("/buildings/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetBuilding)
			r.Post("/attributes", s.handleUpdateAttribute)
			r.Post("/translate", s.handleTranslate)
			r.Post("/revert", s.handleRevert)
			r.Get("/stack", s.handleStack)
			r.Get("/original", s.handleOriginal)
		})

		r.Post("/pick", s.handlePick)
		r.Post("/deselect", s.handleDeselect)

		r.Route("/drag", func(r chi.Router) {
			r.Post("/start", s.handleDragStart)
			r.Post("/update", s.handleDragUpdate)
			r.Post("/end", s.handleDragEnd)
			r.Post("/abort", s.handleDragAbort)
		})

		r.Get("/report", s.handleReport)
		r.Get("/changes", s.handleChanges)
		r.Get("/scene", s.handleScene)
		r.Get("/scene/validation", s.handleSceneValidation)
		r.Get("/plan", s.handlePlan)
	})

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.origins) == 0 {
		return []string{"*"}
	}
	return s.origins
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. A drag in progress is abandoned.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("could not start server: %w", err)
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)

	s.mu.Lock()
	s.store.AbortDrag()
	s.mu.Unlock()
	return err
}

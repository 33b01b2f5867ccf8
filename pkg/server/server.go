// Package server exposes lattice construction and queries over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /lattices                          build from an input document and store it
//	GET    /lattices                          list stored lattices
//	GET    /lattices/{id}                     lattice document
//	DELETE /lattices/{id}
//	GET    /lattices/{id}/ranks/{rank}        nodes of one rank
//	GET    /lattices/{id}/ranks/{from}/{to}   nodes of a rank range
//	GET    /lattices/{id}/vertices/{v}        node of a vertex
//	GET    /lattices/{id}/dual-faces          facets above every node
//	DELETE /lattices/{id}/nodes/{node}        delete a node and renumber
//	GET    /lattices/{id}/dot                 Graphviz source
//	GET    /lattices/{id}/render/{format}     svg, png or dot drawing
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hasse/pkg/observability"
	"github.com/matzehuels/hasse/pkg/pipeline"
	"github.com/matzehuels/hasse/pkg/store"
)

// maxBodySize bounds input documents.
const maxBodySize = 10 << 20

// Server holds the router and its collaborators.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server with all routes configured.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: st, logger: logger}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/lattices", func(r chi.Router) {
		r.Post("/", s.handleBuild)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/ranks/{rank}", s.handleRank)
			r.Get("/ranks/{from}/{to}", s.handleRankRange)
			r.Get("/vertices/{v}", s.handleVertex)
			r.Get("/dual-faces", s.handleDualFaces)
			r.Delete("/nodes/{node}", s.handleDeleteNode)
			r.Get("/dot", s.handleDOT)
			r.Get("/render/{format}", s.handleRender)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

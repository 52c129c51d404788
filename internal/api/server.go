package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
)

// Options configure the HTTP boundary.
type Options struct {
	Port           int
	APIToken       string
	Timezone       string // default when the request has no tz
	Keywords       int
	RequestTimeout time.Duration
	MaxUploadBytes int64
	CacheName      string
}

type Server struct {
	router *chi.Mux
	http   *http.Server
	pipe   *pipeline.Pipeline
	opts   Options
	logger *slog.Logger
}

func NewServer(opts Options, pipe *pipeline.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = time.Minute
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		pipe:   pipe,
		opts:   opts,
		logger: logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1/wrapped", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(opts.APIToken))
			r.Use(middleware.Timeout(opts.RequestTimeout))
			r.Post("/summary", s.summary)
			r.Post("/messages.csv", s.messagesCSV)
			r.Post("/conversations.csv", s.conversationsCSV)
			r.Post("/report.html", s.reportHTML)
			r.Post("/tables/{table}", s.tableCSV)
		})
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	sel := s.pipe.Tokens()
	cache := s.opts.CacheName
	if cache == "" {
		cache = "none"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":     "wrapped",
		"tokenizer": sel.Counter.Name(),
		"precise":   sel.UsingPrecise,
		"note":      sel.Note,
		"cache":     cache,
		"timezone":  s.opts.Timezone,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

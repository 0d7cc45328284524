package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"itus/internal/api/middleware"
	"itus/internal/config"
	"itus/internal/departures"
	"itus/internal/telemetry"
)

// BoardService builds departure boards. *departures.Service satisfies it.
type BoardService interface {
	StopBoards(ctx context.Context, stopID string, opts departures.Options) (departures.Result, error)
	QuayBoards(ctx context.Context, quayIDs []string, opts departures.Options) (departures.Result, error)
}

type Server struct {
	cfg      config.ServerConfig
	defaults config.BoardConfig

	service  BoardService
	gatherer prometheus.Gatherer
	metrics  *telemetry.Metrics
	logger   *log.Logger
	now      func() time.Time

	srv *http.Server
}

func NewServer(cfg config.ServerConfig, defaults config.BoardConfig, service BoardService, gatherer prometheus.Gatherer, metrics *telemetry.Metrics, logger *log.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		defaults: defaults,
		service:  service,
		gatherer: gatherer,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Security)
	s.registerRoutes(r)
	return r
}

func (s *Server) Start() error {
	s.logger.Printf("api: starting server on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		s.logger.Printf("api: server stopped")
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Print("api: shutting down server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Printf("api: error during server shutdown: %v", err)
		return err
	}
	return nil
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "X-Request-ID"},
		ExposedHeaders:   []string{unsupportedHeader, "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.healthHandler)
	r.Get("/v1/quays/{quay_id}/board", s.quayBoardHandler)
	r.Get("/v1/stops/{stop_id}/board", s.stopBoardHandler)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// helper for consistent JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package web serves the browser interface for prompt optimization.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/HartBrook/promptcraft/internal/optimize"
)

const shutdownTimeout = 5 * time.Second

// Server is the web UI. Each browser gets its own optimize.Session.
type Server struct {
	cfg       *config.Config
	optimizer *optimize.Optimizer
	store     *Store
	logger    *slog.Logger
	addr      string
	started   time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAddr overrides the listen address from the config.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// NewServer creates a web server. New sessions start with the config defaults.
func NewServer(cfg *config.Config, optimizer *optimize.Optimizer, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		optimizer: optimizer,
		logger:    slog.Default(),
		addr:      cfg.Server.Addr,
		started:   time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store = NewStore(cfg.Server.SessionTTLDuration(), optimize.Settings{
		Model:       cfg.Model,
		Temperature: cfg.GenerationTemperature(),
		Count:       cfg.Suggestions,
	})
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.page(s.handleIndex))
	mux.Handle("POST /optimize", s.page(s.handleOptimize))
	mux.Handle("POST /select", s.page(s.handleSelect))
	mux.Handle("POST /explain", s.page(s.handleExplain))
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Generation calls can take as long as the API timeout
		WriteTimeout: s.cfg.API.TimeoutDuration() + 10*time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web UI listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: serve: %w", err)
	}
	s.logger.Info("web UI stopped")
	return nil
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:   "ok",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Sessions: s.store.Len(),
	})
}

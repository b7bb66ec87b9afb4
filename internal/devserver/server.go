// Package devserver runs the fake booking API as a standalone HTTP server for
// trying the client locally.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Config holds configuration for the HTTP server
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig serves on the port the client expects by default
func DefaultConfig() Config {
	return Config{
		Host:            "",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server wraps the HTTP server with graceful shutdown support
type Server struct {
	server *http.Server
	logger *slog.Logger
	config Config
}

// New creates a server. The handler is mounted under /api so the client's
// default base URL reaches it unchanged.
func New(handler http.Handler, config Config, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", handler))

	return &Server{
		server: &http.Server{
			Addr:         net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
			Handler:      mux,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		logger: logger,
		config: config,
	}
}

// Addr is the address the server listens on
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler is the root handler, for serving without a listener
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Seed loads demo accounts and courts into a fake API
func Seed(api interface {
	AddAccount(name, email, password, role string)
	AddCourt(court map[string]any)
}) {
	api.AddAccount("Demo User", "user@example.com", "password", "user")
	api.AddAccount("Demo Admin", "admin@example.com", "password", "admin")
	api.AddCourt(map[string]any{"id": "1", "name": "Centre Court", "location": "Main building", "surface": "hard", "status": "active"})
	api.AddCourt(map[string]any{"id": "2", "name": "Clay Court", "location": "North field", "surface": "clay", "status": "active"})
	api.AddCourt(map[string]any{"id": "3", "name": "Grass Court", "location": "Garden", "surface": "grass", "status": "active"})
}

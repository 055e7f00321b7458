package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server of the blog
type Server struct {
	mux         *http.ServeMux
	server      *http.Server
	logger      *slog.Logger
	moreLimiter *RateLimiter
	port        string
}

// NewServer creates a new HTTP server. register adds the application routes
// to the server mux.
func NewServer(port string, moreLimiter *RateLimiter, register func(mux *http.ServeMux)) *Server {
	mux := http.NewServeMux()
	logger := app.Logger()

	server := &Server{
		mux:         mux,
		logger:      logger,
		moreLimiter: moreLimiter,
		port:        port,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           nil,               // Will be set in Run
			ReadHeaderTimeout: 10 * time.Second,  // Mitigate Slowloris
			ReadTimeout:       30 * time.Second,  // Time to read entire request (including body)
			WriteTimeout:      30 * time.Second,  // Time to write response
			IdleTimeout:       120 * time.Second, // Keep-alive timeout
		},
	}

	server.registerHandlers(register)

	return server
}

// registerHandlers sets up all routes
func (s *Server) registerHandlers(register func(mux *http.ServeMux)) {
	register(s.mux)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the mux wrapped with middleware
func (s *Server) Handler() http.Handler {
	return RequestID(Logger(s.mux))
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	s.server.Handler = s.Handler()

	// Set BaseContext to pass the parent context
	s.server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	// Register shutdown handler
	s.server.RegisterOnShutdown(func() {
		s.logger.Info("Server is shutting down...")
	})

	if s.moreLimiter != nil {
		go s.cleanupLimiter(ctx)
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	// Create a timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited gracefully")

	return nil
}

func (s *Server) cleanupLimiter(ctx context.Context) {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.moreLimiter.Cleanup()
		}
	}
}

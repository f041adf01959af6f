package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"user-management-service/internal/config"
)

// Server owns the HTTP listener serving the API, the docs and the UI bundle.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server

	ready chan string
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler http.Handler) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              cfg.App.Address(),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		ready: make(chan string, 1),
	}
}

// Start listens on the configured address and serves until Shutdown.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.HTTP.Addr, err)
	}

	addr := lis.Addr().String()
	s.Logger.Info("HTTP server running",
		zap.String("address", addr),
		zap.String("swagger", "http://"+addr+"/swagger/index.html"),
	)
	s.ready <- addr

	if err := s.HTTP.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Ready yields the bound address once the listener is open.
func (s *Server) Ready() <-chan string {
	return s.ready
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTP.Shutdown(ctx)
}

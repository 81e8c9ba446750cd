package statusapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Server runs the status API on a TCP address.
type Server struct {
	server *http.Server
	logger *log.Logger
}

// NewServer creates a Server for handler on address.
func NewServer(address string, handler *Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		server: &http.Server{
			Addr:         address,
			Handler:      handler.Router(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (server *Server) ListenAndServe() error {
	server.logger.Printf("status API listening on %s", server.server.Addr)
	if err := server.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status api: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (server *Server) Shutdown(ctx context.Context) error {
	return server.server.Shutdown(ctx)
}

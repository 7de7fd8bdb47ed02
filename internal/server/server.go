// Package server exposes the configured endpoints over HTTP behind the
// Basic authentication gate.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/mo"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server timeouts.
const (
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 120 * time.Second
)

// Server wraps http.Server with rolegate configuration.
type Server struct {
	httpServer *http.Server
	addr       string
}

// NewServer creates a Server listening on addr. When enableHTTP2 is set the
// handler also accepts HTTP/2 cleartext (h2c) connections.
func NewServer(addr string, handler http.Handler, enableHTTP2 bool, writeTimeout mo.Option[time.Duration]) *Server {
	if enableHTTP2 {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: writeTimeout.OrElse(DefaultWriteTimeout),
			IdleTimeout:  DefaultIdleTimeout,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server (blocks).
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

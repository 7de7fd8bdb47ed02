package di

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/omarluq/rolegate/internal/server"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 30 * time.Second

// ServerService wraps the HTTP server.
type ServerService struct {
	Server *server.Server
}

// NewHTTPServer creates the HTTP server. Listen address and HTTP/2 setting
// are fixed at startup.
func NewHTTPServer(i do.Injector) (*ServerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	handlerSvc := do.MustInvoke[*HandlerService](i)

	cfg := cfgSvc.Get().Server
	srv := server.NewServer(cfg.Listen, handlerSvc.Handler, cfg.EnableHTTP2, cfg.GetTimeoutOption())

	return &ServerService{Server: srv}, nil
}

// Shutdown implements do.Shutdowner.
func (s *ServerService) Shutdown() error {
	if s.Server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.Server.Shutdown(ctx)
}

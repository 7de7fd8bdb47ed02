package di

import (
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/omarluq/rolegate/internal/auth"
	"github.com/omarluq/rolegate/internal/config"
	"github.com/omarluq/rolegate/internal/server"
	"github.com/omarluq/rolegate/internal/userstore"
)

// HandlerService holds the root HTTP handler. Routes and realm are rebuilt
// on every accepted config reload.
type HandlerService struct {
	Handler http.Handler
}

// NewHandler builds the route table and subscribes it to config reloads.
func NewHandler(i do.Injector) (*HandlerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	authSvc := do.MustInvoke[*AuthenticatorService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	var breaker server.BreakerStater
	if authSvc.Remote != nil {
		breaker = authSvc.Remote
	}

	live, err := server.NewLiveHandler(cfgSvc.Get(), func(cfg *config.Config) (http.Handler, error) {
		gate := auth.NewGate[userstore.Principal](authSvc.Authenticator, cfg.Auth.GetRealm())
		return server.SetupRoutes(cfg, gate, breaker)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build routes: %w", err)
	}

	cfgSvc.OnReload(func(cfg *config.Config) error {
		if err := live.Rebuild(cfg); err != nil {
			return fmt.Errorf("routes kept from previous config: %w", err)
		}
		logSvc.Logger.Info().Int("endpoints", len(cfg.Endpoints)).Msg("routes rebuilt")
		return nil
	})

	return &HandlerService{
		Handler: server.WithLogger(*logSvc.Logger)(live),
	}, nil
}

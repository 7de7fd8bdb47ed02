package di

import (
	"github.com/samber/do/v2"

	"github.com/omarluq/rolegate/internal/auth"
	"github.com/omarluq/rolegate/internal/remote"
	"github.com/omarluq/rolegate/internal/userstore"
)

// AuthenticatorService holds the authenticator chain behind the gate:
// configured users first, then the remote identity service when enabled.
type AuthenticatorService struct {
	Authenticator auth.Authenticator[userstore.Principal]
	// Remote is nil when auth.remote.url is unset.
	Remote *remote.Authenticator
}

// NewAuthenticator builds the chain. Users are read live from the runtime;
// the remote endpoint and its breaker settings are fixed at startup.
func NewAuthenticator(i do.Injector) (*AuthenticatorService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	cacheSvc := do.MustInvoke[*CacheService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	cfg := cfgSvc.Get()

	store := userstore.New(cfgSvc,
		userstore.WithCache(cacheSvc.Cache, cfg.Cache.GetTTL()),
		userstore.WithLogger(logSvc.Logger.With().Str("component", "userstore").Logger()),
	)
	svc := &AuthenticatorService{Authenticator: store}

	if cfg.Auth.Remote.IsEnabled() {
		svc.Remote = remote.New(&cfg.Auth.Remote,
			remote.WithLogger(logSvc.Logger.With().Str("component", "remote").Logger()))
		svc.Authenticator = auth.NewChain[userstore.Principal](store, svc.Remote)
	}

	return svc, nil
}

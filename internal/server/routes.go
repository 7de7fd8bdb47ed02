package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/omarluq/rolegate/internal/auth"
	"github.com/omarluq/rolegate/internal/config"
	"github.com/omarluq/rolegate/internal/remote"
	"github.com/omarluq/rolegate/internal/userstore"
)

// Gate is the gate type served by rolegate.
type Gate = auth.Gate[userstore.Principal]

// BreakerStater reports the state of a guarded dependency for /health.
type BreakerStater interface {
	State() remote.State
}

// Identity is the JSON body written by protected endpoints.
type Identity struct {
	Principal     *userstore.Principal `json:"principal,omitempty"`
	Endpoint      string               `json:"endpoint"`
	RequiredRoles []string             `json:"required_roles"`
	Authenticated bool                 `json:"authenticated"`
}

// EndpointFromConfig converts a configured endpoint to its gate declaration.
func EndpointFromConfig(e *config.EndpointConfig) auth.Endpoint {
	return auth.NewEndpoint(e.Roles...).WithRequired(e.IsRequired())
}

// SetupRoutes builds the handler for cfg:
//   - every configured endpoint, behind the gate
//   - GET /health, unauthenticated
//
// Middleware order is request ID, access log, gate. An endpoint pattern that
// ServeMux rejects is returned as an error.
func SetupRoutes(cfg *config.Config, gate *Gate, breaker BreakerStater) (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc(config.HealthPattern, healthHandler(breaker))

	for i := range cfg.Endpoints {
		e := &cfg.Endpoints[i]
		endpoint := EndpointFromConfig(e)

		var h http.Handler = identityHandler(e.Pattern(), endpoint)
		h = auth.Middleware(gate, endpoint)(h)
		h = AccessLogMiddleware()(h)
		h = RequestIDMiddleware()(h)

		if err := config.RegisterPattern(mux, e.Pattern(), h); err != nil {
			return nil, fmt.Errorf("failed to register endpoint %q: %w", e.Pattern(), err)
		}
	}

	return mux, nil
}

func identityHandler(pattern string, endpoint auth.Endpoint) http.HandlerFunc {
	required := endpoint.Roles()
	if required == nil {
		required = []string{}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		body := Identity{Endpoint: pattern, RequiredRoles: required}
		if p, ok := auth.PrincipalFromContext[userstore.Principal](r.Context()).Get(); ok {
			body.Authenticated = true
			body.Principal = &p
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("failed to write identity response")
		}
	}
}

func healthHandler(breaker BreakerStater) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body := []byte(`{"status":"ok"}`)

		if breaker != nil {
			state := breaker.State()
			body, _ = sjson.SetBytes(body, "remote", state.String()) //nolint:errcheck // static path
			if state == remote.StateOpen {
				body, _ = sjson.SetBytes(body, "status", "degraded") //nolint:errcheck // static path
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body) //nolint:errcheck // client went away
	}
}

// LiveHandler serves the routes of the most recent configuration. Rebuild is
// called from the config reload path; in-flight requests finish on the
// handler they started with.
type LiveHandler struct {
	current atomic.Pointer[http.Handler]
	build   func(*config.Config) (http.Handler, error)
}

// NewLiveHandler creates a LiveHandler and builds routes for cfg.
func NewLiveHandler(cfg *config.Config, build func(*config.Config) (http.Handler, error)) (*LiveHandler, error) {
	h := &LiveHandler{build: build}
	if err := h.Rebuild(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// Rebuild replaces the served routes. When the build fails the previous
// routes stay in place.
func (h *LiveHandler) Rebuild(cfg *config.Config) error {
	handler, err := h.build(cfg)
	if err != nil {
		return err
	}
	h.current.Store(&handler)
	return nil
}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*h.current.Load()).ServeHTTP(w, r)
}

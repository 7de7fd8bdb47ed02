// Package remote authenticates Basic credentials against an HTTP identity
// service.
//
// The service receives a JSON body
//
//	{"username": "...", "password": "...", "roles": ["..."]}
//
// and answers 200 with {"name": "...", "roles": ["..."]} for a match, or
// 401, 403 or 404 for a mismatch. Anything else is an internal failure.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/time/rate"

	"github.com/omarluq/rolegate/internal/auth"
	"github.com/omarluq/rolegate/internal/config"
	"github.com/omarluq/rolegate/internal/userstore"
)

const maxResponseBytes = 1 << 20

// Authenticator delegates to an identity service. It is safe for concurrent use.
type Authenticator struct {
	client  *http.Client
	limiter *rate.Limiter
	breaker *breaker
	log     zerolog.Logger
	url     string
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithHTTPClient replaces the default client. Its Timeout is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Authenticator) {
		a.client = client
	}
}

// WithLogger sets the logger for breaker state changes.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Authenticator) {
		a.log = logger
	}
}

// New creates an Authenticator for cfg.URL.
func New(cfg *config.RemoteConfig, opts ...Option) *Authenticator {
	a := &Authenticator{
		client: &http.Client{Timeout: cfg.GetTimeout()},
		log:    zerolog.Nop(),
		url:    cfg.URL,
	}
	for _, opt := range opts {
		opt(a)
	}

	if rps, ok := cfg.GetRateLimitOption().Get(); ok {
		a.limiter = rate.NewLimiter(rate.Limit(rps), cfg.GetBurst())
	}
	a.breaker = newBreaker("remote-auth", cfg.CircuitBreaker, &a.log)

	return a
}

// State returns the breaker state for health reporting.
func (a *Authenticator) State() State {
	return a.breaker.state()
}

// Authenticate implements auth.Authenticator.
func (a *Authenticator) Authenticate(ctx context.Context, creds auth.Credentials) (mo.Option[userstore.Principal], error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return mo.None[userstore.Principal](), fmt.Errorf("%w: rate limit: %w", ErrUnavailable, err)
		}
	}

	done, err := a.breaker.allow()
	if err != nil {
		return mo.None[userstore.Principal](), err
	}

	principal, err := a.call(ctx, creds)
	done(err)
	return principal, err
}

func (a *Authenticator) call(ctx context.Context, creds auth.Credentials) (mo.Option[userstore.Principal], error) {
	none := mo.None[userstore.Principal]()

	body, err := requestBody(creds)
	if err != nil {
		return none, fmt.Errorf("%w: encode request: %w", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return none, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return none, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // body fully read below

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return none, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	zerolog.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("identity service answered")

	switch resp.StatusCode {
	case http.StatusOK:
		return parsePrincipal(payload, creds.Username())
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return none, nil
	default:
		return none, &StatusError{Code: resp.StatusCode}
	}
}

func requestBody(creds auth.Credentials) ([]byte, error) {
	roles := creds.RequiredRoles()
	if roles == nil {
		roles = []string{}
	}

	body, err := sjson.SetBytes([]byte(`{}`), "username", creds.Username())
	if err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "password", creds.Password()); err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "roles", roles)
}

// parsePrincipal reads {"name", "roles"}. A missing name falls back to the
// submitted username.
func parsePrincipal(payload []byte, username string) (mo.Option[userstore.Principal], error) {
	if !gjson.ValidBytes(payload) {
		return mo.None[userstore.Principal](), fmt.Errorf("%w: invalid JSON response", ErrUnavailable)
	}

	result := gjson.ParseBytes(payload)
	name := result.Get("name").String()
	if name == "" {
		name = username
	}
	roles := lo.Map(result.Get("roles").Array(), func(r gjson.Result, _ int) string {
		return r.String()
	})

	return mo.Some(userstore.Principal{Name: name, Roles: roles}), nil
}

var _ auth.Authenticator[userstore.Principal] = (*Authenticator)(nil)

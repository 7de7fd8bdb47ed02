package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Gate decides, for one request and one endpoint declaration, whether the
// request proceeds with a principal, proceeds anonymously, or is rejected.
//
// A Gate holds only its authenticator and realm and is safe for concurrent use.
type Gate[P any] struct {
	authenticator Authenticator[P]
	challenge     string
	realm         string
}

// NewGate creates a gate that delegates to authenticator and advertises realm
// in the WWW-Authenticate challenge.
func NewGate[P any](authenticator Authenticator[P], realm string) *Gate[P] {
	return &Gate[P]{
		authenticator: authenticator,
		realm:         realm,
		challenge:     fmt.Sprintf(`%s realm="%s"`, SchemeBasic, realm),
	}
}

// Realm returns the realm advertised in challenges.
func (g *Gate[P]) Realm() string {
	return g.realm
}

// AuthorizeRequest authorizes r against endpoint using the first
// Authorization header value.
func (g *Gate[P]) AuthorizeRequest(r *http.Request, endpoint Endpoint) Outcome[P] {
	return g.Authorize(r.Context(), r.Header.Get(HeaderAuthorization), endpoint)
}

// Authorize runs the decision procedure for one Authorization header value.
// An empty header is treated as absent. Malformed headers never produce an
// error; they behave exactly like a missing header.
func (g *Gate[P]) Authorize(ctx context.Context, header string, endpoint Endpoint) Outcome[P] {
	logger := zerolog.Ctx(ctx)

	username, password, err := parseBasic(header)
	if err != nil {
		if loggable(err) {
			logger.Debug().Err(err).Msg("error decoding credentials")
		}
		return g.withoutPrincipal(endpoint)
	}

	creds := NewCredentials(username, password, endpoint.roles)

	principal, err := g.authenticator.Authenticate(ctx, creds)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("username", username).
			Strs("required_roles", endpoint.roles).
			Msg("error authenticating credentials")
		return failureOutcome[P](err)
	}

	if p, ok := principal.Get(); ok {
		return principalOutcome(p)
	}

	return g.withoutPrincipal(endpoint)
}

func (g *Gate[P]) withoutPrincipal(endpoint Endpoint) Outcome[P] {
	if endpoint.Required() {
		return unauthorizedOutcome[P](g.challenge)
	}
	return anonymousOutcome[P]()
}

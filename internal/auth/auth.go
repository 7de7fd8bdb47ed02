// Package auth provides HTTP Basic authentication with per-endpoint required roles.
// It extracts credentials from the Authorization header, hands them together with
// the endpoint's declared roles to a pluggable Authenticator, and maps the result
// to a principal, an anonymous pass-through, or an HTTP rejection.
package auth

import (
	"context"
	"errors"

	"github.com/samber/mo"
)

// Header and scheme constants used by the gate.
const (
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	SchemeBasic           = "Basic"
)

// ErrAuthenticator marks an internal failure reported by an Authenticator.
// Outcomes rejected with 500 carry an error wrapping it.
var ErrAuthenticator = errors.New("auth: authenticator failure")

// Authenticator resolves credentials to a principal.
//
// A None result means the credentials did not match (unknown user, wrong
// password, missing roles). A non-nil error means the authentication system
// itself failed and the request cannot be decided.
type Authenticator[P any] interface {
	Authenticate(ctx context.Context, creds Credentials) (mo.Option[P], error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc[P any] func(ctx context.Context, creds Credentials) (mo.Option[P], error)

// Authenticate calls f(ctx, creds).
func (f AuthenticatorFunc[P]) Authenticate(ctx context.Context, creds Credentials) (mo.Option[P], error) {
	return f(ctx, creds)
}

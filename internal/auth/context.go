package auth

import (
	"context"

	"github.com/samber/mo"
)

// principalKey is a private type for the principal context key.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
func WithPrincipal[P any](ctx context.Context, principal P) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext retrieves the principal stored by WithPrincipal.
// Returns None for anonymous requests or when the stored value has another type.
func PrincipalFromContext[P any](ctx context.Context) mo.Option[P] {
	if v, ok := ctx.Value(principalKey{}).(P); ok {
		return mo.Some(v)
	}
	return mo.None[P]()
}

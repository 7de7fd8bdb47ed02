package auth

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Chain tries multiple authenticators in order.
// The first authenticator to resolve a principal wins. The first internal
// failure stops the chain and is returned.
type Chain[P any] struct {
	authenticators []Authenticator[P]
}

// NewChain creates a chain of authenticators, tried in the given order.
func NewChain[P any](authenticators ...Authenticator[P]) *Chain[P] {
	return &Chain[P]{authenticators: authenticators}
}

// Len returns the number of chained authenticators.
func (c *Chain[P]) Len() int {
	return len(c.authenticators)
}

type chainState[P any] struct {
	err    error
	result mo.Option[P]
}

func (s chainState[P]) done() bool {
	return s.err != nil || s.result.IsPresent()
}

// Authenticate implements Authenticator. An empty chain resolves nothing.
func (c *Chain[P]) Authenticate(ctx context.Context, creds Credentials) (mo.Option[P], error) {
	state := lo.Reduce(c.authenticators, func(acc chainState[P], authn Authenticator[P], _ int) chainState[P] {
		if acc.done() {
			return acc
		}
		result, err := authn.Authenticate(ctx, creds)
		return chainState[P]{result: result, err: err}
	}, chainState[P]{result: mo.None[P]()})

	if state.err != nil {
		return mo.None[P](), state.err
	}
	return state.result, nil
}

var _ Authenticator[struct{}] = (*Chain[struct{}])(nil)

package remote

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/omarluq/rolegate/internal/config"
)

// State is the circuit breaker state.
type State = gobreaker.State

// Breaker states.
const (
	StateClosed   = gobreaker.StateClosed
	StateOpen     = gobreaker.StateOpen
	StateHalfOpen = gobreaker.StateHalfOpen
)

// breaker guards calls to the identity service. Rejections (401/403/404) are
// answers, not failures; only transport errors and unexpected statuses count.
type breaker struct {
	cb *gobreaker.TwoStepCircuitBreaker[struct{}]
}

func newBreaker(name string, cfg config.CircuitBreakerConfig, logger *zerolog.Logger) *breaker {
	threshold := uint32(cfg.GetFailureThreshold()) //nolint:gosec // getter returns a positive value
	probes := uint32(cfg.GetHalfOpenProbes())      //nolint:gosec // getter returns a positive value

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: probes,
		Timeout:     cfg.GetOpenDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			event := logger.Info()
			if to == gobreaker.StateOpen {
				event = logger.Warn()
			}
			event.
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &breaker{cb: gobreaker.NewTwoStepCircuitBreaker[struct{}](settings)}
}

func (b *breaker) allow() (done func(err error), err error) {
	d, err := b.cb.Allow()
	if err != nil {
		return nil, ErrCircuitOpen
	}
	return d, nil
}

func (b *breaker) state() State {
	return b.cb.State()
}

package remote

import (
	"errors"
	"fmt"
)

// Sentinel errors. Each one reaches the gate as an authenticator failure.
var (
	// ErrUnavailable is returned when the identity service cannot be reached
	// or returns an unreadable answer.
	ErrUnavailable = errors.New("remote: identity service unavailable")

	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = errors.New("remote: circuit breaker is open")

	// ErrUnexpectedStatus is wrapped by StatusError.
	ErrUnexpectedStatus = errors.New("remote: unexpected status")
)

// StatusError reports a response status the authenticator cannot map.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: unexpected status %d", e.Code)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

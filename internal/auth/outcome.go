package auth

import (
	"fmt"
	"io"
	"net/http"

	"github.com/samber/mo"
)

// Decision is the terminal result kind of one authorization.
type Decision int

// The zero Decision is not a valid result and is handled as a rejection.
const (
	decisionUnknown Decision = iota
	// DecisionPrincipal means the authenticator resolved a principal.
	DecisionPrincipal
	// DecisionAnonymous means no principal was found and the endpoint is optional.
	DecisionAnonymous
	// DecisionRejected means the request must be halted with Rejection.
	DecisionRejected
)

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case decisionUnknown:
		return "unknown"
	case DecisionPrincipal:
		return "principal"
	case DecisionAnonymous:
		return "anonymous"
	case DecisionRejected:
		return "rejected"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// UnauthorizedMessage is the plain-text body of a 401 rejection.
const UnauthorizedMessage = "Credentials are required to access this resource."

// Rejection describes the HTTP response that halts a request.
type Rejection struct {
	Header http.Header
	Body   string
	Status int
}

// Write sends the rejection to w.
func (r *Rejection) Write(w http.ResponseWriter) {
	for name, values := range r.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(r.Status)
	if r.Body != "" {
		_, _ = io.WriteString(w, r.Body) //nolint:errcheck // client went away
	}
}

// Outcome is the result of one authorization.
//
//nolint:govet // field order chosen for readability
type Outcome[P any] struct {
	Decision  Decision
	Principal P
	Rejection *Rejection
	// Err is set for 500 rejections and wraps ErrAuthenticator.
	Err error
}

// PrincipalOption returns the principal as an Option. It is None unless the
// decision is DecisionPrincipal.
func (o Outcome[P]) PrincipalOption() mo.Option[P] {
	if o.Decision != DecisionPrincipal {
		return mo.None[P]()
	}
	return mo.Some(o.Principal)
}

// IsRejected reports whether the request must be halted. Any decision other
// than DecisionPrincipal or DecisionAnonymous halts it.
func (o Outcome[P]) IsRejected() bool {
	return o.Decision != DecisionPrincipal && o.Decision != DecisionAnonymous
}

// RejectionOrDefault returns the rejection to write for a halted request,
// falling back to a bare 500 when none was recorded.
func (o Outcome[P]) RejectionOrDefault() *Rejection {
	if o.Rejection != nil {
		return o.Rejection
	}
	return internalErrorRejection()
}

func principalOutcome[P any](p P) Outcome[P] {
	return Outcome[P]{Decision: DecisionPrincipal, Principal: p}
}

func anonymousOutcome[P any]() Outcome[P] {
	return Outcome[P]{Decision: DecisionAnonymous}
}

func unauthorizedOutcome[P any](challenge string) Outcome[P] {
	header := make(http.Header, 2)
	header.Set(HeaderWWWAuthenticate, challenge)
	header.Set("Content-Type", "text/plain; charset=utf-8")

	return Outcome[P]{
		Decision: DecisionRejected,
		Rejection: &Rejection{
			Status: http.StatusUnauthorized,
			Header: header,
			Body:   UnauthorizedMessage,
		},
	}
}

func failureOutcome[P any](err error) Outcome[P] {
	return Outcome[P]{
		Decision: DecisionRejected,
		Rejection: internalErrorRejection(),
		Err:       fmt.Errorf("%w: %w", ErrAuthenticator, err),
	}
}

func internalErrorRejection() *Rejection {
	return &Rejection{
		Status: http.StatusInternalServerError,
		Header: http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:   http.StatusText(http.StatusInternalServerError),
	}
}

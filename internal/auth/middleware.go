package auth

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Middleware protects a handler with gate using the endpoint declaration.
//
// Principal outcomes continue with the principal in the request context,
// anonymous outcomes continue without one, and rejections are written to the
// client without calling next. An outcome with no recognised decision is
// written as a 500.
func Middleware[P any](gate *Gate[P], endpoint Endpoint) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			outcome := gate.AuthorizeRequest(request, endpoint)

			switch outcome.Decision {
			case DecisionPrincipal:
				zerolog.Ctx(request.Context()).Debug().
					Strs("required_roles", endpoint.roles).
					Msg("authentication succeeded")
				next.ServeHTTP(writer, request.WithContext(WithPrincipal(request.Context(), outcome.Principal)))
			case DecisionAnonymous:
				next.ServeHTTP(writer, request)
			default:
				outcome.RejectionOrDefault().Write(writer)
			}
		})
	}
}

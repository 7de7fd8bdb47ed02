package auth

import "slices"

// Endpoint declares the authentication requirements of one protected operation.
// It is built once at registration time and shared read-only by all requests.
type Endpoint struct {
	roles    []string
	optional bool
}

// NewEndpoint declares an endpoint that requires credentials and passes roles,
// in order, to the authenticator.
func NewEndpoint(roles ...string) Endpoint {
	return Endpoint{roles: slices.Clone(roles)}
}

// Optional returns a copy of e for which missing or rejected credentials
// yield an anonymous outcome instead of a 401.
func (e Endpoint) Optional() Endpoint {
	return Endpoint{roles: e.roles, optional: true}
}

// WithRequired returns a copy of e with the required flag set explicitly.
func (e Endpoint) WithRequired(required bool) Endpoint {
	return Endpoint{roles: e.roles, optional: !required}
}

// Required reports whether the absence of a principal aborts the request.
func (e Endpoint) Required() bool {
	return !e.optional
}

// Roles returns a copy of the declared roles.
func (e Endpoint) Roles() []string {
	return slices.Clone(e.roles)
}

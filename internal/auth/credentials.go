package auth

import "slices"

// Credentials carries one request's decoded Basic credentials together with the
// roles the invoked endpoint requires. Values are immutable.
type Credentials struct {
	username      string
	password      string
	requiredRoles []string
}

// NewCredentials stores username, password and roles verbatim.
// The roles slice is copied so later changes by the caller are not observed.
func NewCredentials(username, password string, roles []string) Credentials {
	return Credentials{
		username:      username,
		password:      password,
		requiredRoles: slices.Clone(roles),
	}
}

// Username returns the decoded user name.
func (c Credentials) Username() string {
	return c.username
}

// Password returns the decoded password. It may be empty.
func (c Credentials) Password() string {
	return c.password
}

// RequiredRoles returns a copy of the roles in declaration order.
func (c Credentials) RequiredRoles() []string {
	return slices.Clone(c.requiredRoles)
}

// String hides the password so credentials can be logged safely.
func (c Credentials) String() string {
	return "Credentials{username=" + c.username + ", password=[redacted]}"
}

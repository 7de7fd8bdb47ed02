package config

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

var validRolePolicies = map[string]bool{
	"":            true,
	RolePolicyAll: true,
	RolePolicyAny: true,
}

var validLogLevels = map[string]bool{
	"":         true,
	LevelDebug: true,
	LevelInfo:  true,
	LevelWarn:  true,
	LevelError: true,
}

var validLogFormats = map[string]bool{
	"":        true,
	"json":    true,
	"console": true,
	"text":    true,
	"pretty":  true,
}

var validMethods = map[string]bool{
	"GET":     true,
	"HEAD":    true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"OPTIONS": true,
}

// Validate checks the configuration for errors.
// Returns a ValidationError listing every problem, or nil.
func (c *Config) Validate() error {
	errs := &ValidationError{}

	validateServer(c, errs)
	validateAuth(c, errs)
	validateEndpoints(c, errs)
	validateLogging(c, errs)

	if err := c.Cache.Validate(); err != nil {
		errs.Add(err.Error())
	}

	return errs.ToError()
}

func validateServer(c *Config, errs *ValidationError) {
	if c.Server.Listen == "" {
		errs.Add("server.listen is required")
	} else if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		errs.Addf("server.listen must be in host:port format (got %q)", c.Server.Listen)
	}

	if c.Server.TimeoutMS < 0 {
		errs.Add("server.timeout_ms must be >= 0")
	}
}

func validateAuth(c *Config, errs *ValidationError) {
	if strings.ContainsRune(c.Auth.Realm, '"') {
		errs.Add("auth.realm must not contain double quotes")
	}

	if !validRolePolicies[strings.ToLower(c.Auth.RolePolicy)] {
		errs.Addf("auth.role_policy must be %q or %q (got %q)", RolePolicyAll, RolePolicyAny, c.Auth.RolePolicy)
	}

	seen := make(map[string]bool, len(c.Auth.Users))
	for i := range c.Auth.Users {
		validateUser(i, &c.Auth.Users[i], seen, errs)
	}

	validateRemote(&c.Auth.Remote, errs)
}

func validateUser(idx int, u *UserConfig, seen map[string]bool, errs *ValidationError) {
	switch {
	case u.Name == "":
		errs.Addf("auth.users[%d].name is required", idx)
	case strings.Contains(u.Name, ":"):
		errs.Addf("auth.users[%d].name must not contain ':'", idx)
	case seen[u.Name]:
		errs.Addf("auth.users[%d].name %q is duplicated", idx, u.Name)
	}
	seen[u.Name] = true

	switch {
	case u.Password == "" && u.PasswordHash == "":
		errs.Addf("auth.users[%d] needs password or password_hash", idx)
	case u.Password != "" && u.PasswordHash != "":
		errs.Addf("auth.users[%d] sets both password and password_hash", idx)
	case u.PasswordHash != "":
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			errs.Addf("auth.users[%d].password_hash is not a bcrypt hash: %v", idx, err)
		}
	}

	if lo.Contains(u.Roles, "") {
		errs.Addf("auth.users[%d].roles must not contain empty names", idx)
	}
}

func validateRemote(r *RemoteConfig, errs *ValidationError) {
	if !r.IsEnabled() {
		return
	}

	parsed, err := url.Parse(r.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs.Addf("auth.remote.url must be an absolute http(s) URL (got %q)", r.URL)
	}
	if r.TimeoutMS < 0 {
		errs.Add("auth.remote.timeout_ms must be >= 0")
	}
	if r.RequestsPerSecond < 0 {
		errs.Add("auth.remote.requests_per_second must be >= 0")
	}
	if r.Burst < 0 {
		errs.Add("auth.remote.burst must be >= 0")
	}
}

func validateEndpoints(c *Config, errs *ValidationError) {
	if len(c.Endpoints) > 0 && len(c.Auth.Users) == 0 && !c.Auth.Remote.IsEnabled() {
		errs.Add("endpoints are declared but no users or remote authenticator are configured")
	}

	// Patterns are registered on a scratch mux so that syntax errors and
	// conflicts surface here instead of as a panic when routes are built.
	mux := http.NewServeMux()
	mux.Handle(HealthPattern, http.NotFoundHandler())

	seen := make(map[string]bool, len(c.Endpoints))
	for i := range c.Endpoints {
		e := &c.Endpoints[i]
		usable := true

		if !strings.HasPrefix(e.Path, "/") {
			errs.Addf("endpoints[%d].path must start with '/' (got %q)", i, e.Path)
			usable = false
		}
		if e.Path == HealthPath {
			errs.Addf("endpoints[%d].path %q is reserved for the health check", i, e.Path)
			usable = false
		}
		if !validMethods[e.GetMethod()] {
			errs.Addf("endpoints[%d].method %q is not supported", i, e.Method)
			usable = false
		}
		if seen[e.Pattern()] {
			errs.Addf("endpoints[%d] duplicates %q", i, e.Pattern())
			usable = false
		}
		seen[e.Pattern()] = true

		if usable {
			if err := RegisterPattern(mux, e.Pattern(), http.NotFoundHandler()); err != nil {
				errs.Addf("endpoints[%d] pattern %q is invalid: %v", i, e.Pattern(), err)
			}
		}

		if lo.Contains(e.Roles, "") {
			errs.Addf("endpoints[%d].roles must not contain empty names", i)
		}
	}
}

// RegisterPattern adds h to mux under pattern, returning the parse or
// conflict error that ServeMux would otherwise panic with.
func RegisterPattern(mux *http.ServeMux, pattern string, h http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	mux.Handle(pattern, h)
	return nil
}

func validateLogging(c *Config, errs *ValidationError) {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs.Addf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs.Addf("logging.format must be one of json, console, text, pretty (got %q)", c.Logging.Format)
	}
}

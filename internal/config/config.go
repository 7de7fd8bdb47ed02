// Package config provides configuration loading, validation and hot-reload for rolegate.
package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/omarluq/rolegate/internal/cache"
)

// RuntimeConfig gives components access to the current configuration.
// Components that must observe hot-reloaded values call Get per request
// instead of holding a *Config.
type RuntimeConfig interface {
	Get() *Config
}

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Role policy constants.
const (
	RolePolicyAll = "all"
	RolePolicyAny = "any"
)

// DefaultRealm is advertised when auth.realm is not set.
const DefaultRealm = "rolegate"

// Config represents the complete rolegate configuration.
type Config struct {
	Auth      AuthConfig       `yaml:"auth" toml:"auth"`
	Logging   LoggingConfig    `yaml:"logging" toml:"logging"`
	Server    ServerConfig     `yaml:"server" toml:"server"`
	Endpoints []EndpointConfig `yaml:"endpoints" toml:"endpoints"`
	Cache     cache.Config     `yaml:"cache" toml:"cache"`
}

// ServerConfig defines server-level settings.
type ServerConfig struct {
	Listen      string `yaml:"listen" toml:"listen"`
	TimeoutMS   int    `yaml:"timeout_ms" toml:"timeout_ms"`
	EnableHTTP2 bool   `yaml:"enable_http2" toml:"enable_http2"`
}

// GetTimeoutOption returns the write timeout, None when unset.
func (s *ServerConfig) GetTimeoutOption() mo.Option[time.Duration] {
	if s.TimeoutMS <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(s.TimeoutMS) * time.Millisecond)
}

// AuthConfig defines the gate realm and the authenticators behind it.
type AuthConfig struct {
	// Realm is advertised in WWW-Authenticate challenges.
	Realm string `yaml:"realm" toml:"realm"`

	// RolePolicy decides how required roles are matched against a user's
	// granted roles: "all" (default) or "any".
	RolePolicy string `yaml:"role_policy" toml:"role_policy"`

	Users  []UserConfig `yaml:"users" toml:"users"`
	Remote RemoteConfig `yaml:"remote" toml:"remote"`
}

// GetRealm returns the realm with default fallback.
func (a *AuthConfig) GetRealm() string {
	if a.Realm == "" {
		return DefaultRealm
	}
	return a.Realm
}

// GetRolePolicy returns the role policy with default fallback.
func (a *AuthConfig) GetRolePolicy() string {
	if a.RolePolicy == "" {
		return RolePolicyAll
	}
	return strings.ToLower(a.RolePolicy)
}

// FindUser returns the user with the given name.
func (a *AuthConfig) FindUser(name string) mo.Option[UserConfig] {
	for i := range a.Users {
		if a.Users[i].Name == name {
			return mo.Some(a.Users[i])
		}
	}
	return mo.None[UserConfig]()
}

// UserConfig declares one local user.
type UserConfig struct {
	Name string `yaml:"name" toml:"name"`

	// Password is compared in constant time. Supports ${ENV_VAR}.
	Password string `yaml:"password" toml:"password"`

	// PasswordHash is a bcrypt hash, as produced by "rolegate hash-password".
	PasswordHash string `yaml:"password_hash" toml:"password_hash"`

	Roles []string `yaml:"roles" toml:"roles"`
}

// RemoteConfig configures delegation to an HTTP identity service.
type RemoteConfig struct {
	URL               string               `yaml:"url" toml:"url"`
	CircuitBreaker    CircuitBreakerConfig `yaml:"circuit_breaker" toml:"circuit_breaker"`
	TimeoutMS         int                  `yaml:"timeout_ms" toml:"timeout_ms"`
	RequestsPerSecond float64              `yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int                  `yaml:"burst" toml:"burst"`
}

// DefaultRemoteTimeout applies when remote.timeout_ms is unset.
const DefaultRemoteTimeout = 5 * time.Second

// IsEnabled reports whether a remote identity service is configured.
func (r *RemoteConfig) IsEnabled() bool {
	return r.URL != ""
}

// GetTimeout returns the request timeout with default fallback.
func (r *RemoteConfig) GetTimeout() time.Duration {
	if r.TimeoutMS <= 0 {
		return DefaultRemoteTimeout
	}
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// GetRateLimitOption returns the outbound request rate, None for unlimited.
func (r *RemoteConfig) GetRateLimitOption() mo.Option[float64] {
	if r.RequestsPerSecond <= 0 {
		return mo.None[float64]()
	}
	return mo.Some(r.RequestsPerSecond)
}

// GetBurst returns the limiter burst, at least 1.
func (r *RemoteConfig) GetBurst() int {
	if r.Burst <= 0 {
		return 1
	}
	return r.Burst
}

// Circuit breaker defaults.
const (
	DefaultFailureThreshold = 5
	DefaultOpenDurationMS   = 30000
	DefaultHalfOpenProbes   = 1
)

// CircuitBreakerConfig defines when the remote authenticator stops calling a
// failing identity service.
type CircuitBreakerConfig struct {
	FailureThreshold int `yaml:"failure_threshold" toml:"failure_threshold"`
	OpenDurationMS   int `yaml:"open_duration_ms" toml:"open_duration_ms"`
	HalfOpenProbes   int `yaml:"half_open_probes" toml:"half_open_probes"`
}

// GetFailureThreshold returns consecutive failures before opening, default 5.
func (c *CircuitBreakerConfig) GetFailureThreshold() int {
	if c.FailureThreshold <= 0 {
		return DefaultFailureThreshold
	}
	return c.FailureThreshold
}

// GetOpenDuration returns how long the circuit stays open, default 30s.
func (c *CircuitBreakerConfig) GetOpenDuration() time.Duration {
	if c.OpenDurationMS <= 0 {
		return time.Duration(DefaultOpenDurationMS) * time.Millisecond
	}
	return time.Duration(c.OpenDurationMS) * time.Millisecond
}

// GetHalfOpenProbes returns probes allowed while half-open, default 1.
func (c *CircuitBreakerConfig) GetHalfOpenProbes() int {
	if c.HalfOpenProbes <= 0 {
		return DefaultHalfOpenProbes
	}
	return c.HalfOpenProbes
}

// EndpointConfig declares one protected operation.
type EndpointConfig struct {
	// Required defaults to true when omitted.
	Required *bool    `yaml:"required" toml:"required"`
	Method   string   `yaml:"method" toml:"method"`
	Path     string   `yaml:"path" toml:"path"`
	Roles    []string `yaml:"roles" toml:"roles"`
}

// IsRequired returns whether missing credentials abort the request.
func (e *EndpointConfig) IsRequired() bool {
	if e.Required == nil {
		return true
	}
	return *e.Required
}

// GetMethod returns the upper-cased method, GET when unset.
func (e *EndpointConfig) GetMethod() string {
	if e.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(e.Method)
}

// HealthPath is served by rolegate itself and cannot be declared as an endpoint.
const HealthPath = "/health"

// HealthPattern is the ServeMux pattern of the built-in health check.
const HealthPattern = http.MethodGet + " " + HealthPath

// Pattern returns the ServeMux pattern for the endpoint.
func (e *EndpointConfig) Pattern() string {
	return e.GetMethod() + " " + e.Path
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json, console, pretty
	Output string `yaml:"output" toml:"output"` // stdout, stderr, or file path
	Pretty bool   `yaml:"pretty" toml:"pretty"`
}

// ParseLevel converts the level string to a zerolog.Level, InfoLevel when unknown.
func (l *LoggingConfig) ParseLevel() zerolog.Level {
	switch strings.ToLower(l.Level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Package userstore authenticates Basic credentials against the users declared
// in the rolegate configuration.
package userstore

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/crypto/bcrypt"

	"github.com/omarluq/rolegate/internal/auth"
	"github.com/omarluq/rolegate/internal/cache"
	"github.com/omarluq/rolegate/internal/config"
)

// ErrInvalidHash is returned when a configured password hash cannot be used.
// The gate turns it into a 500.
var ErrInvalidHash = errors.New("userstore: invalid password hash")

// Principal is the identity produced for a verified user.
type Principal struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// HasRole reports whether role was granted to p.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Store is an auth.Authenticator backed by config.AuthConfig.Users.
// Users are read through the runtime on every call, so a reload applies
// to the next request.
type Store struct {
	runtime config.RuntimeConfig
	cache   cache.Cache
	log     zerolog.Logger
	// keySecret keys the verdict cache HMAC. It never leaves the process.
	keySecret []byte
	ttl       time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithCache remembers successful password checks for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Store) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// New creates a Store reading users from runtime.
func New(runtime config.RuntimeConfig, opts ...Option) *Store {
	s := &Store{
		runtime:   runtime,
		log:       zerolog.Nop(),
		keySecret: make([]byte, sha256.Size),
		ttl:       cache.DefaultTTL,
	}
	_, _ = rand.Read(s.keySecret) //nolint:errcheck // crypto/rand.Read never fails
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate implements auth.Authenticator.
//
// Unknown users, wrong passwords and unsatisfied roles all yield None.
// Only an unusable stored hash is reported as an error.
func (s *Store) Authenticate(ctx context.Context, creds auth.Credentials) (mo.Option[Principal], error) {
	authCfg := s.runtime.Get().Auth

	user, ok := authCfg.FindUser(creds.Username()).Get()
	if !ok {
		return mo.None[Principal](), nil
	}

	verified, err := s.verify(ctx, &user, creds.Password())
	if err != nil {
		return mo.None[Principal](), err
	}
	if !verified {
		return mo.None[Principal](), nil
	}

	if !Satisfies(authCfg.GetRolePolicy(), user.Roles, creds.RequiredRoles()) {
		s.logger(ctx).Debug().
			Str("username", user.Name).
			Strs("required_roles", creds.RequiredRoles()).
			Msg("user lacks required roles")
		return mo.None[Principal](), nil
	}

	return mo.Some(Principal{Name: user.Name, Roles: slices.Clone(user.Roles)}), nil
}

// Satisfies reports whether granted roles meet required under policy.
// Policy "any" passes when at least one required role is granted, or when
// nothing is required. Every other policy requires all of them.
func Satisfies(policy string, granted, required []string) bool {
	if policy == config.RolePolicyAny {
		return len(required) == 0 || lo.Some(granted, required)
	}
	return lo.Every(granted, required)
}

func (s *Store) verify(ctx context.Context, user *config.UserConfig, password string) (bool, error) {
	if s.cache == nil {
		return checkPassword(user, password)
	}

	key := s.verdictKey(user, password)
	log := s.logger(ctx)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil && string(cached) == user.Name:
		return true, nil
	case err != nil && !errors.Is(err, cache.ErrNotFound):
		log.Debug().Err(err).Msg("verdict cache lookup failed")
	}

	ok, err := checkPassword(user, password)
	if err != nil || !ok {
		return ok, err
	}

	if err := s.cache.Set(ctx, key, []byte(user.Name), s.ttl); err != nil {
		log.Debug().Err(err).Msg("verdict cache store failed")
	}
	return true, nil
}

func (s *Store) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}

func checkPassword(user *config.UserConfig, password string) (bool, error) {
	if user.PasswordHash == "" {
		want := sha256.Sum256([]byte(user.Password))
		got := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare(want[:], got[:]) == 1, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w for user %q: %w", ErrInvalidHash, user.Name, err)
	}
}

// verdictKey binds a cached verdict to the submitted password and the stored
// secret, so changing either in the config misses the cache. Keys are an
// HMAC under the store's random secret and cannot be recomputed from a
// password guess outside the process.
func (s *Store) verdictKey(user *config.UserConfig, password string) string {
	h := hmac.New(sha256.New, s.keySecret)
	for _, part := range []string{user.Name, password, user.Password, user.PasswordHash} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "verdict:" + hex.EncodeToString(h.Sum(nil))
}

var _ auth.Authenticator[Principal] = (*Store)(nil)

package cache

import (
	"errors"
	"fmt"
	"time"
)

// Mode represents the cache operating mode.
type Mode string

const (
	// ModeSingle uses the local Ristretto cache.
	ModeSingle Mode = "single"

	// ModeDisabled uses the noop cache.
	ModeDisabled Mode = "disabled"
)

// DefaultTTL bounds how long a verified password is trusted without re-checking.
const DefaultTTL = 5 * time.Minute

// Config defines cache configuration.
type Config struct {
	Mode      Mode            `yaml:"mode" toml:"mode"`
	Ristretto RistrettoConfig `yaml:"ristretto" toml:"ristretto"`
	TTLMS     int             `yaml:"ttl_ms" toml:"ttl_ms"`
}

// RistrettoConfig configures the Ristretto local cache.
type RistrettoConfig struct {
	// NumCounters should be about 10x the expected number of distinct users.
	NumCounters int64 `yaml:"num_counters" toml:"num_counters"`

	// MaxCost is measured in bytes of cached values.
	MaxCost int64 `yaml:"max_cost" toml:"max_cost"`

	// BufferItems is the number of keys per Get buffer. Default 64.
	BufferItems int64 `yaml:"buffer_items" toml:"buffer_items"`
}

// GetTTL returns the verdict lifetime, DefaultTTL when unset.
func (c *Config) GetTTL() time.Duration {
	if c.TTLMS <= 0 {
		return DefaultTTL
	}
	return time.Duration(c.TTLMS) * time.Millisecond
}

// GetMode returns the configured mode. An empty mode disables caching.
func (c *Config) GetMode() Mode {
	if c.Mode == "" {
		return ModeDisabled
	}
	return c.Mode
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.TTLMS < 0 {
		return errors.New("cache: ttl_ms must be >= 0")
	}

	switch c.GetMode() {
	case ModeSingle:
		if c.Ristretto.MaxCost <= 0 {
			return errors.New("cache: ristretto.max_cost must be positive")
		}
		if c.Ristretto.NumCounters <= 0 {
			return errors.New("cache: ristretto.num_counters must be positive")
		}
	case ModeDisabled:
	default:
		return fmt.Errorf("cache: unknown mode %q", c.Mode)
	}
	return nil
}

// DefaultRistrettoConfig sizes the cache for roughly 10K users.
func DefaultRistrettoConfig() RistrettoConfig {
	return RistrettoConfig{
		NumCounters: 100_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	}
}

package cache

import (
	"fmt"

	"github.com/rs/zerolog"
)

// New creates the cache selected by cfg.Mode, logging through the package logger.
func New(cfg *Config) (Cache, error) {
	return newWithLogger(cfg, logger())
}

func newWithLogger(cfg *Config, log zerolog.Logger) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.GetMode() {
	case ModeSingle:
		c, err := newRistrettoCache(cfg.Ristretto, log)
		if err != nil {
			return nil, fmt.Errorf("cache: ristretto init: %w", err)
		}
		return c, nil
	case ModeDisabled:
		return newNoopCache(log), nil
	default:
		return nil, fmt.Errorf("cache: unknown mode %q", cfg.Mode)
	}
}

package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// noopCache stores nothing. Writes succeed, reads miss.
type noopCache struct {
	log    zerolog.Logger
	closed atomic.Bool
}

func newNoopCache(log zerolog.Logger) *noopCache {
	log = log.With().Str("backend", "noop").Logger()
	log.Debug().Msg("verdict caching disabled")
	return &noopCache{log: log}
}

func (c *noopCache) Get(_ context.Context, _ string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return nil, ErrNotFound
}

func (c *noopCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (c *noopCache) Delete(_ context.Context, _ string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (c *noopCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.log.Debug().Msg("noop cache closed")
	return nil
}

func (c *noopCache) Stats() Stats {
	return Stats{}
}

var (
	_ Cache         = (*noopCache)(nil)
	_ StatsProvider = (*noopCache)(nil)
)

package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog"
)

// ristrettoCache implements Cache on top of Ristretto.
type ristrettoCache struct {
	cache  *ristretto.Cache[string, []byte]
	log    zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

var (
	_ Cache         = (*ristrettoCache)(nil)
	_ StatsProvider = (*ristrettoCache)(nil)
)

func newRistrettoCache(cfg RistrettoConfig, log zerolog.Logger) (*ristrettoCache, error) {
	log = log.With().Str("backend", "ristretto").Logger()

	bufferItems := cfg.BufferItems
	if bufferItems <= 0 {
		bufferItems = 64
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: bufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("num_counters", cfg.NumCounters).
		Int64("max_cost", cfg.MaxCost).
		Msg("ristretto cache created")

	return &ristrettoCache{cache: c, log: log}, nil
}

// acquire read-locks the cache for one operation.
func (r *ristrettoCache) acquire(ctx context.Context) (release func(), err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrClosed
	}
	return r.mu.RUnlock, nil
}

func (r *ristrettoCache) Get(ctx context.Context, key string) ([]byte, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	value, found := r.cache.Get(key)
	if !found {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

func (r *ristrettoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	release, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if !r.cache.SetWithTTL(key, slices.Clone(value), int64(len(value)), ttl) {
		r.log.Debug().Str("key", key).Msg("cache set dropped by admission policy")
	}
	return nil
}

func (r *ristrettoCache) Delete(ctx context.Context, key string) error {
	release, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	r.cache.Del(key)
	return nil
}

func (r *ristrettoCache) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.cache.Wait()
	r.cache.Close()

	r.log.Info().Msg("ristretto cache closed")
	return nil
}

func (r *ristrettoCache) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed || r.cache.Metrics == nil {
		return Stats{}
	}
	m := r.cache.Metrics
	return Stats{
		Hits:      m.Hits(),
		Misses:    m.Misses(),
		KeysAdded: m.KeysAdded(),
		Evictions: m.KeysEvicted(),
	}
}

// wait blocks until buffered writes are applied.
func (r *ristrettoCache) wait() {
	r.cache.Wait()
}

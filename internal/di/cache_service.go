package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/omarluq/rolegate/internal/cache"
)

// CacheService wraps the verdict cache.
type CacheService struct {
	Cache cache.Cache
}

// NewCache creates the cache selected by cache.mode.
func NewCache(i do.Injector) (*CacheService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	cache.SetLogger(logSvc.Logger)

	cfg := cfgSvc.Get().Cache
	c, err := cache.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &CacheService{Cache: c}, nil
}

// Shutdown implements do.Shutdowner.
func (c *CacheService) Shutdown() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}

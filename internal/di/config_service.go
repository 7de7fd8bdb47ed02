package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"

	"github.com/omarluq/rolegate/internal/config"
)

// ConfigService holds the validated configuration behind a config.Runtime and
// owns the file watcher. Reloads that fail to parse or validate are dropped.
type ConfigService struct {
	*config.Runtime
	watcher *config.Watcher
	path    string
}

// Path returns the config file path.
func (c *ConfigService) Path() string {
	return c.path
}

// OnReload registers cb to run after each accepted reload, once the runtime
// already holds the new configuration. It is a no-op without a watcher.
func (c *ConfigService) OnReload(cb config.ReloadCallback) {
	if c.watcher != nil {
		c.watcher.OnReload(cb)
	}
}

// StartWatching runs the watcher until ctx is canceled.
func (c *ConfigService) StartWatching(ctx context.Context) {
	if c.watcher == nil {
		return
	}

	go func() {
		if err := c.watcher.Watch(ctx); err != nil {
			log.Error().Err(err).Msg("config watcher error")
		}
	}()

	log.Info().Str("path", c.path).Msg("config file watcher started")
}

// Shutdown implements do.Shutdowner.
func (c *ConfigService) Shutdown() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// NewConfig loads and validates the config file. A watcher that cannot be
// created only disables hot reload.
func NewConfig(i do.Injector) (*ConfigService, error) {
	path := do.MustInvokeNamed[string](i, ConfigPathKey)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	svc := &ConfigService{
		Runtime: config.NewRuntime(cfg),
		path:    path,
	}

	watcher, err := config.NewWatcher(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config watcher creation failed, hot-reload disabled")
		return svc, nil
	}

	watcher.OnReload(func(next *config.Config) error {
		svc.Store(next)
		return nil
	})
	svc.watcher = watcher

	return svc, nil
}

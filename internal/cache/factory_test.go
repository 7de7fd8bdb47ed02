package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/rolegate/internal/cache"
)

func TestNew(t *testing.T) {
	t.Parallel()

	single, err := cache.New(&cache.Config{Mode: cache.ModeSingle, Ristretto: cache.DefaultRistrettoConfig()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = single.Close() })
	_, isStats := single.(cache.StatsProvider)
	assert.True(t, isStats)

	disabled, err := cache.New(&cache.Config{})
	require.NoError(t, err)
	_, err = disabled.Get(context.Background(), "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	_, err = cache.New(&cache.Config{Mode: "bogus"})
	assert.Error(t, err)
}

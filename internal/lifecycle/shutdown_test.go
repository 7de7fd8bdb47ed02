package lifecycle_test

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/samber/ro"
	"github.com/stretchr/testify/assert"

	"github.com/omarluq/rolegate/internal/lifecycle"
)

func TestShutdownSignals(t *testing.T) {
	t.Parallel()

	assert.Contains(t, lifecycle.ShutdownSignals, syscall.SIGINT)
	assert.Contains(t, lifecycle.ShutdownSignals, syscall.SIGTERM)
}

func TestNotifyContextCancelsOnSignal(t *testing.T) {
	t.Parallel()

	ctx, stop := lifecycle.NotifyContextFrom(context.Background(), ro.Just[os.Signal](syscall.SIGTERM))
	defer stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled by the signal")
	}
}

func TestNotifyContextFollowsParent(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	silent := ro.NewObservableWithContext(func(_ context.Context, _ ro.Observer[os.Signal]) ro.Teardown {
		return func() {}
	})
	ctx, stop := lifecycle.NotifyContextFrom(parent, silent)
	defer stop()

	assert.NoError(t, ctx.Err())
	cancelParent()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not follow its parent")
	}
}

func TestNotifyContextStop(t *testing.T) {
	t.Parallel()

	ctx, stop := lifecycle.NotifyContext(context.Background())
	stop()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

// Package lifecycle turns OS shutdown signals into a context for the server.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/samber/ro"
)

// ShutdownSignals trigger graceful shutdown.
var ShutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// Signals emits the first of sigs received, then completes. It errors when
// the subscriber context ends first.
func Signals(sigs ...os.Signal) ro.Observable[os.Signal] {
	return ro.NewObservableWithContext(func(ctx context.Context, observer ro.Observer[os.Signal]) ro.Teardown {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sigs...)

		go func() {
			select {
			case sig := <-ch:
				observer.NextWithContext(ctx, sig)
				observer.CompleteWithContext(ctx)
			case <-ctx.Done():
				observer.ErrorWithContext(ctx, ctx.Err())
			}
		}()

		return func() {
			signal.Stop(ch)
		}
	})
}

// NotifyContext returns a context canceled on the first of ShutdownSignals
// or when parent ends. The signal is logged through parent's logger.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return notifyContext(parent, Signals(ShutdownSignals...))
}

func notifyContext(parent context.Context, source ro.Observable[os.Signal]) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sub := source.SubscribeWithContext(ctx, ro.OnNextWithContext(func(_ context.Context, sig os.Signal) {
		zerolog.Ctx(parent).Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()
	}))

	return ctx, func() {
		cancel()
		sub.Unsubscribe()
	}
}

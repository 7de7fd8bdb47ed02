package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	listenErr error
	stopped   chan struct{}
	shutdown  bool
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{listenErr: listenErr, stopped: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdown = true
	close(f.stopped)
	return nil
}

func (f *fakeServer) Addr() string { return "127.0.0.1:0" }

func TestServeUntilDoneShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, srv.shutdown)
	case <-time.After(2 * time.Second):
		t.Fatal("serveUntilDone did not return")
	}
}

func TestServeUntilDoneReturnsListenError(t *testing.T) {
	t.Parallel()

	listenErr := errors.New("address in use")
	err := serveUntilDone(context.Background(), newFakeServer(listenErr))
	assert.ErrorIs(t, err, listenErr)
}

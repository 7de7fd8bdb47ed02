package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWatchedConfig(t *testing.T, path, realm string) {
	t.Helper()

	content := []byte("server:\n  listen: \"127.0.0.1:8080\"\nauth:\n  realm: \"" + realm + "\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestNewWatcherResolvesAbsolutePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolegate.yaml")
	writeWatchedConfig(t, path, "a")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Expected absolute path, got %s", w.Path())
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher("/nonexistent/rolegate/config.yaml")
	if err == nil {
		w.Close()
		t.Fatal("Expected error for missing directory")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolegate.yaml")
	writeWatchedConfig(t, path, "a")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Expected ErrWatcherClosed, got %v", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolegate.yaml")
	writeWatchedConfig(t, path, "before")

	w, err := NewWatcher(path, WithDebounceDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan string, 4)
	w.OnReload(func(cfg *Config) error {
		reloaded <- cfg.Auth.Realm
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	writeWatchedConfig(t, path, "after")

	select {
	case realm := <-reloaded:
		if realm != "after" {
			t.Errorf("Expected realm after, got %s", realm)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}

func TestWatcherSkipsInvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolegate.yaml")
	writeWatchedConfig(t, path, "before")

	w, err := NewWatcher(path, WithDebounceDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan struct{}, 1)
	w.OnReload(func(*Config) error {
		reloaded <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("server:\n  listen: \"nope\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("Expected invalid config to be rejected")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rolegate.yaml")
	writeWatchedConfig(t, path, "a")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

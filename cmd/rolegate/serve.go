package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omarluq/rolegate/internal/di"
	"github.com/omarluq/rolegate/internal/lifecycle"
	"github.com/omarluq/rolegate/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rolegate server",
	Long: `Start the HTTP server. Configured endpoints are served behind the
Basic authentication gate and the config file is watched for changes.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath := resolveConfigPath()

	container, err := di.NewContainer(configPath)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	defer func() {
		if err := container.Shutdown(); err != nil {
			log.Error().Err(err).Msg("container shutdown error")
		}
	}()

	if err := container.HealthCheck(); err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("failed to initialize services")
		return err
	}

	logger := di.MustInvoke[*di.LoggerService](container).Logger
	log.Logger = *logger
	zerolog.DefaultContextLogger = logger

	ctx, stop := lifecycle.NotifyContext(logger.WithContext(cmd.Context()))
	defer stop()

	cfgSvc := di.MustInvoke[*di.ConfigService](container)
	cfgSvc.StartWatching(ctx)

	srv := di.MustInvoke[*di.ServerService](container).Server
	return serveUntilDone(ctx, srv)
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Addr() string
}

// serveUntilDone runs srv until it fails or ctx is canceled, then shuts it down.
func serveUntilDone(ctx context.Context, srv httpServer) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", srv.Addr()).Str("version", version.Short()).Msg("starting rolegate")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), di.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-events/server/internal/api"
	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/config"
	"github.com/campus-events/server/internal/engine"
	"github.com/campus-events/server/internal/metrics"
	"github.com/campus-events/server/internal/seed"
	"github.com/campus-events/server/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables
- Load the seed dataset (SEED_PATH, --seed, or the embedded default)
- Serve the JSON API, health probes and Prometheus metrics
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with a custom dataset and readable logs
  server serve --seed ./campus.yaml --log-format console`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting campus events server")

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	ds, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	eng, err := engine.New(ds, logger, audit.NewLogger(logger))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(eng, cfg, logger, buildInfo()),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return serve(ctx, server, cfg.Server.ShutdownTimeout, logger)
}

// serve runs server until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
			return err
		}
		logger.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

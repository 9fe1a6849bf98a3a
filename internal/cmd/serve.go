package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cargofree/cargo-free/internal/config"
	"github.com/cargofree/cargo-free/internal/core/resolver"
	apperrors "github.com/cargofree/cargo-free/internal/errors"
	"github.com/cargofree/cargo-free/internal/metrics"
	"github.com/cargofree/cargo-free/internal/observability"
	"github.com/cargofree/cargo-free/internal/server"
	"github.com/cargofree/cargo-free/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve crate lookups over HTTP",
	Long: `Start an HTTP server exposing the same lookups as the CLI.

Endpoints:
  GET  /v1/crates/{name}?timeout=2s
  POST /v1/check        {"names":[...],"timeout":"2s","show_errors":false}
  GET  /health, /version, /metrics

Ctrl+C (SIGINT) or SIGTERM shuts the server down gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().Duration("timeout", resolver.DefaultTimeout, "default per-name lookup timeout")
	serveCmd.Flags().Int("concurrency", 4, "maximum lookups in flight per request")
}

var serveFlagKeys = map[string]string{
	"host":        "server.host",
	"port":        "server.port",
	"timeout":     "lookup.timeout",
	"concurrency": "lookup.concurrency",
}

// configHealthChecker re-validates the configuration last stored by config.Load.
type configHealthChecker struct{}

func (configHealthChecker) CheckHealth(context.Context) error {
	return config.GetConfig().Validate()
}

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return apperrors.NewInternalError("telemetry system not initialized")
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return &ConfigError{Err: configErr}
	}
	v := viper.GetViper()
	for flagName, key := range serveFlagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return &ConfigError{Err: err}
	}

	observability.InitServerLogger(BinaryName, cfg.Logging.Level, "production")
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(BinaryName, cfg.Metrics.Port, ""); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return err
		}
		metrics.SetServerStartTime(time.Now().Unix())
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	srv := server.New(server.Options{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		Resolver:      newRegistryResolver(ctx, cfg, versionInfo.Version),
		LookupTimeout: cfg.Lookup.Timeout,
		Concurrency:   cfg.Lookup.Concurrency,
		MaxNames:      handlers.DefaultMaxNames,
		Version:       versionInfo.Version,
	})
	srv.Health().RegisterChecker("config", configHealthChecker{})
	if cfg.Metrics.Enabled {
		srv.Health().RegisterChecker("telemetry", telemetryHealthChecker{})
	}

	logger.Info("Initializing server",
		zap.String("version", versionInfo.Version),
		zap.String("registry", cfg.Registry.BaseURL),
		zap.String("addr", srv.Addr()),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Int("metrics_port", observability.GetMetricsPort()))

	// Shutdown handlers run LIFO: the server stops before the logger flushes.
	signals.OnShutdown(func(ctx context.Context) error {
		if err := logger.Sync(); err != nil {
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})
	signals.OnShutdown(func(ctx context.Context) error {
		shutdownCtx, cancelShutdown := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return apperrors.WrapExternalService(ctx, err, "server shutdown failed")
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	errChan := make(chan error, 2)
	go func() {
		err := srv.Start()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errChan <- err
	}()
	go func() {
		if err := signals.Listen(ctx); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	return <-errChan
}

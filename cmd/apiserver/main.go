// API server entry point for CaseTrack-Analytics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/turtacn/CaseTrack-Analytics/internal/application/analytics"
	"github.com/turtacn/CaseTrack-Analytics/internal/config"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/upstream"
	httpserver "github.com/turtacn/CaseTrack-Analytics/internal/interfaces/http"
	"github.com/turtacn/CaseTrack-Analytics/internal/interfaces/http/handlers"
)

func main() {
	var (
		configPath string
		port       int
	)

	root := &cobra.Command{
		Use:   "apiserver",
		Short: "Case analytics API server",
		Long: "Serves ML analytics over the case-management deadline and document " +
			"streams: risk scoring, clustering, anomaly detection, reconstruction " +
			"ranking, regression and near-duplicate matching.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			return run(cmd.Context(), cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to configuration file")
	root.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.NewLogger(logging.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	logger.Info("starting case analytics server",
		logging.Int("port", cfg.Server.Port),
		logging.String("deadlines_url", cfg.Upstream.DeadlinesURL),
		logging.String("documents_url", cfg.Upstream.DocumentsURL),
	)

	metrics := prometheus.NewMetrics(cfg.Metrics.Namespace)

	deadlines := upstream.NewHTTPDeadlineClient(cfg.Upstream.DeadlinesURL, cfg.Upstream.FetchTimeout, logger, metrics)
	documents := upstream.NewHTTPDocumentClient(cfg.Upstream.DocumentsURL, cfg.Upstream.FetchTimeout, logger, metrics)

	service, err := app.NewService(deadlines, documents, cfg.Analytics, logger, metrics)
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		MLHandler:      handlers.NewMLHandler(service),
		DocsHandler:    handlers.NewDocsHandler(service),
		HealthHandler:  handlers.NewHealthHandler(service, cfg.Upstream.ReadinessTimeout),
		Logger:         logger,
		HTTPObserver:   metrics,
		MetricsHandler: metrics.Handler(),
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	case <-ctx.Done():
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("shutdown error", logging.Err(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// Command apiserver serves the patent search and litigation graph HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/patent-litigation-graph/internal/bootstrap"
	"github.com/turtacn/patent-litigation-graph/internal/config"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/patent-litigation-graph/internal/interfaces/http"
)

// Injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: PLG_* environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if err := cfg.ValidateForServer(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)
	if configPath != "" {
		if err := watchLogLevel(configPath, logger); err != nil {
			logger.Warn("Config watch disabled", logging.Err(err))
		}
	}

	collector, err := prometheus.NewMetricsCollector(cfg.Monitoring, logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, logger, metrics, bootstrap.All)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Error("Failed to close infrastructure", logging.Err(err))
		}
	}()

	handler, stopLimiter, err := buildRouter(app, collector)
	if err != nil {
		return err
	}
	defer stopLimiter()

	srv := httpserver.NewServer(cfg.Server, handler, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("API server started",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("kafka", cfg.Messaging.Kafka.Enabled),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return srv.Stop(context.Background())
}

//Personal.AI order the ending

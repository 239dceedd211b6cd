// Command worker consumes patent.searched events and pre-builds the
// litigation graphs of the inventors found, so detail views hit the cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/patent-litigation-graph/internal/bootstrap"
	"github.com/turtacn/patent-litigation-graph/internal/config"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/handlers"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/worker"
)

const defaultHealthPort = 8081

// Injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: PLG_* environment only)")
	concurrency := flag.Int("workers", 0, "inventors warmed in parallel per event (overrides config)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and metrics")
	flag.Parse()

	if err := run(*configPath, *concurrency, *healthPort); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, concurrency, healthPort int) error {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Worker.Concurrency = concurrency
	}
	if !cfg.Messaging.Kafka.Enabled {
		return fmt.Errorf("messaging.kafka.enabled must be true for the worker")
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	collector, err := prometheus.NewMetricsCollector(cfg.Monitoring, logger)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Events lets the graph service publish litigation.graph.built.
	app, err := bootstrap.Open(ctx, cfg, logger, metrics, bootstrap.Graph|bootstrap.Cache|bootstrap.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Error("Failed to close infrastructure", logging.Err(err))
		}
	}()

	graphs, err := app.GraphService()
	if err != nil {
		return err
	}
	warmer := worker.NewWarmer(graphs, logger.Named("warmer"),
		worker.WithLocks(app.Locks(), cfg.Worker.LockTTL),
		worker.WithConcurrency(cfg.Worker.Concurrency),
		worker.WithTimeout(cfg.Worker.WarmTimeout),
		worker.WithMetrics(metrics),
	)

	consumer, err := kafka.NewConsumer(cfg.Messaging.Kafka.ConsumerConfig(kafka.TopicPatentSearched), logger)
	if err != nil {
		return err
	}
	consumer.Subscribe(kafka.TopicPatentSearched, warmer.HandleSearched)

	health := startHealthServer(healthPort, app, collector, cfg.Monitoring, logger)

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("Worker started",
		logging.String("version", version),
		logging.String("topic", kafka.TopicPatentSearched),
		logging.Int("concurrency", cfg.Worker.Concurrency),
	)

	<-ctx.Done()
	logger.Info("Shutting down worker")

	if err := consumer.Close(); err != nil {
		logger.Error("Consumer close failed", logging.Err(err))
	}
	consumed, processed, failed := consumer.Stats()
	logger.Info("Consumer stopped",
		logging.Int64("consumed", consumed),
		logging.Int64("processed", processed),
		logging.Int64("failed", failed))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return health.Shutdown(shutdownCtx)
}

func startHealthServer(port int, app *bootstrap.App, collector prometheus.MetricsCollector, mc prometheus.CollectorConfig, logger logging.Logger) *http.Server {
	h := handlers.NewHealthHandler(version, app.Metrics, app.HealthCheckers()...)

	r := chi.NewRouter()
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
	if mc.Enabled {
		r.Handle(mc.Path, collector.Handler())
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", logging.Err(err))
		}
	}()
	return srv
}

//Personal.AI order the ending

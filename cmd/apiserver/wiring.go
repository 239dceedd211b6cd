package main

import (
	"net/http"

	"github.com/turtacn/patent-litigation-graph/internal/bootstrap"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/patent-litigation-graph/internal/interfaces/http"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/handlers"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/middleware"
)

// buildRouter assembles handlers over the services of app. The returned stop
// function releases the rate limiter's cleanup goroutine.
func buildRouter(app *bootstrap.App, collector prometheus.MetricsCollector) (http.Handler, func(), error) {
	cfg := app.Config

	graphs, err := app.GraphService()
	if err != nil {
		return nil, nil, err
	}
	patents, err := app.PatentService()
	if err != nil {
		return nil, nil, err
	}
	holders, err := app.HolderService()
	if err != nil {
		return nil, nil, err
	}
	accounts, err := app.AccountService()
	if err != nil {
		return nil, nil, err
	}
	tokens, err := app.Tokens()
	if err != nil {
		return nil, nil, err
	}

	rc := httpserver.RouterConfig{
		Health:      handlers.NewHealthHandler(version, app.Metrics, app.HealthCheckers()...),
		Auth:        handlers.NewAuthHandler(accounts),
		Patents:     handlers.NewPatentHandler(patents),
		Graphs:      handlers.NewGraphHandler(graphs),
		Holders:     handlers.NewHolderHandler(holders),
		Tokens:      tokens,
		Logger:      app.Logger.Named("http"),
		Metrics:     app.Metrics,
		MetricsPath: cfg.Monitoring.Path,
		Server:      cfg.Server,
	}
	if cfg.Monitoring.Enabled {
		rc.Collector = collector
	}

	stop := func() {}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter := middleware.NewKeyedLimiter(rl.RequestsPerSecond, rl.Burst, rl.CleanupInterval)
		rc.Limiter = limiter
		stop = limiter.Stop
	}
	return httpserver.NewRouter(rc), stop, nil
}

//Personal.AI order the ending

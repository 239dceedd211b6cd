package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/patent-litigation-graph/internal/config"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/handlers"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/middleware"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/response"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Patents *handlers.PatentHandler
	Graphs  *handlers.GraphHandler
	Holders *handlers.HolderHandler

	// Tokens guards everything under /api/v1 except signup and login.
	// Without it the protected routes are not mounted.
	Tokens  middleware.TokenValidator
	Limiter middleware.RateLimiter

	Logger      logging.Logger
	Metrics     *prometheus.AppMetrics
	Collector   prometheus.MetricsCollector
	MetricsPath string
	Server      config.ServerConfig
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = config.DefaultMetricsPath
	}
	logCfg := middleware.DefaultLoggingConfig()
	logCfg.SkipPaths = append(logCfg.SkipPaths, cfg.MetricsPath)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.Server.CORS))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics, logCfg))
	if cfg.Limiter != nil {
		r.Use(middleware.RateLimit(cfg.Limiter, "/healthz", "/readyz", cfg.MetricsPath))
	}
	if cfg.Server.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.Server.MaxBodySize))
	}
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, errors.NotFound("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, errors.New(errors.ErrCodeMethodNotAllowed, "method not allowed"))
	})

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Liveness)
		r.Get("/readyz", cfg.Health.Readiness)
	}
	if cfg.Collector != nil {
		r.Handle(cfg.MetricsPath, cfg.Collector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.Auth != nil {
			api.Post("/auth/signup", cfg.Auth.Signup)
			api.Post("/auth/login", cfg.Auth.Login)
		}
		if cfg.Tokens == nil {
			return
		}
		api.Group(func(priv chi.Router) {
			priv.Use(middleware.Authenticate(cfg.Tokens))
			if cfg.Auth != nil {
				priv.Post("/auth/logout", cfg.Auth.Logout)
			}
			registerPatentRoutes(priv, cfg.Patents)
			registerGraphRoutes(priv, cfg.Graphs)
			registerHolderRoutes(priv, cfg.Holders)
		})
	})

	return r
}

func registerPatentRoutes(r chi.Router, h *handlers.PatentHandler) {
	if h == nil {
		return
	}
	r.Route("/patents", func(pr chi.Router) {
		pr.Get("/search", h.Search)
		pr.Get("/{id}", h.Get)
	})
}

func registerGraphRoutes(r chi.Router, h *handlers.GraphHandler) {
	if h == nil {
		return
	}
	r.Get("/litigation/graph", h.Get)
}

func registerHolderRoutes(r chi.Router, h *handlers.HolderHandler) {
	if h == nil {
		return
	}
	r.Route("/holders", func(hr chi.Router) {
		hr.Get("/", h.Search)
		hr.Post("/", h.Create)
	})
}

//Personal.AI order the ending

// Package bootstrap opens the infrastructure a binary asks for and builds the
// application services on top of it. The API server, the worker and the CLI's
// local mode share it so that every process wires caches, events and metrics
// the same way.
package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/turtacn/patent-litigation-graph/internal/application/account"
	"github.com/turtacn/patent-litigation-graph/internal/application/holder"
	"github.com/turtacn/patent-litigation-graph/internal/application/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/application/patent"
	"github.com/turtacn/patent-litigation-graph/internal/config"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/auth/token"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/neo4j"
	neo4jrepo "github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/neo4j/repositories"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/postgres"
	pgrepo "github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/redis"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/patentapi"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/handlers"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// Component selects a piece of infrastructure for Open.
type Component uint8

const (
	// Graph is the Neo4j litigation store.
	Graph Component = 1 << iota
	// Accounts is PostgreSQL, holding users and patent holders.
	Accounts
	// Cache is Redis: search and graph caches, the token denylist and locks.
	Cache
	// Events is the Kafka producer. It stays closed when messaging is disabled.
	Events
	// Upstream is the patent search API client.
	Upstream

	All = Graph | Accounts | Cache | Events | Upstream
)

// App holds opened infrastructure and lazily built services. It is not safe
// for concurrent construction; build everything from main before serving.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	Neo4j     *neo4j.Driver
	Postgres  *postgres.Connection
	Redis     *redis.Client
	Producer  *kafka.Producer
	PatentAPI *patentapi.Client

	litigationRepo neo4jrepo.LitigationRepository
	cache          redis.Cache
	publisher      *kafka.EventPublisher
	tokens         *token.Manager
	graphs         litigation.GraphService

	closers []func(ctx context.Context) error
}

// Open connects to every component in want. On failure everything opened so
// far is closed again.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics, want Component) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "bootstrap: nil config")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: metrics}

	steps := []struct {
		c    Component
		name string
		open func(context.Context) error
	}{
		{Graph, "neo4j", a.openGraph},
		{Accounts, "postgres", a.openAccounts},
		{Cache, "redis", a.openCache},
		{Events, "kafka", a.openEvents},
		{Upstream, "patent api", a.openUpstream},
	}
	for _, s := range steps {
		if want&s.c == 0 {
			continue
		}
		if err := s.open(ctx); err != nil {
			_ = a.Close(context.Background())
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return a, nil
}

func (a *App) openGraph(ctx context.Context) error {
	d, err := neo4j.NewDriver(a.Config.Database.Neo4j, a.Logger)
	if err != nil {
		return err
	}
	a.Neo4j = d
	a.closers = append(a.closers, d.Close)

	a.litigationRepo = neo4jrepo.NewNeo4jLitigationRepo(d, a.Logger)
	if err := a.litigationRepo.EnsureIndexes(ctx); err != nil {
		a.Logger.Warn("Neo4j index setup failed", logging.Err(err))
	}
	return nil
}

func (a *App) openAccounts(ctx context.Context) error {
	conn, err := postgres.NewConnection(a.Config.Database.Postgres, a.Logger)
	if err != nil {
		return err
	}
	a.Postgres = conn
	a.closers = append(a.closers, func(context.Context) error { return conn.Close() })
	return conn.EnsureSchema(ctx)
}

func (a *App) openCache(_ context.Context) error {
	rc := a.Config.Cache.Redis
	c, err := redis.NewClient(&rc, a.Logger)
	if err != nil {
		return err
	}
	a.Redis = c
	a.closers = append(a.closers, func(context.Context) error { return c.Close() })
	a.cache = redis.NewRedisCache(c, a.Logger,
		redis.WithPrefix(rc.KeyPrefix),
		redis.WithDefaultTTL(rc.SearchTTL),
	)
	return nil
}

func (a *App) openEvents(ctx context.Context) error {
	kc := a.Config.Messaging.Kafka
	if !kc.Enabled {
		a.Logger.Info("Kafka disabled; domain events are dropped")
		return nil
	}
	if kc.AutoCreateTopics {
		tm, err := kafka.NewTopicManager(kc.Brokers, a.Logger)
		if err != nil {
			return err
		}
		err = tm.EnsureTopics(ctx, kafka.DefaultTopics(kc.Partitions, kc.ReplicationFactor))
		_ = tm.Close()
		if err != nil {
			return err
		}
	}
	p, err := kafka.NewProducer(kc.ProducerConfig(), a.Logger)
	if err != nil {
		return err
	}
	a.Producer = p
	a.closers = append(a.closers, func(context.Context) error { return p.Close() })
	a.publisher = kafka.NewEventPublisher(p, kc.PublishTimeout, a.Logger)
	return nil
}

func (a *App) openUpstream(_ context.Context) error {
	c, err := patentapi.NewClient(a.Config.PatentAPI, a.Logger, patentapi.WithMetrics(a.Metrics))
	if err != nil {
		return err
	}
	a.PatentAPI = c
	return nil
}

func missing(component string) error {
	return errors.New(errors.ErrCodeServiceUnavailable, component+" is not configured for this process")
}

// GraphService builds the litigation graph service once. Redis and Kafka are
// used when open.
func (a *App) GraphService() (litigation.GraphService, error) {
	if a.graphs != nil {
		return a.graphs, nil
	}
	if a.litigationRepo == nil {
		return nil, missing("neo4j")
	}
	opts := []litigation.Option{
		litigation.WithWriter(a.litigationRepo),
		litigation.WithMetrics(a.Metrics),
	}
	if a.cache != nil {
		opts = append(opts, litigation.WithCache(redis.NewGraphCache(a.cache, a.Config.Cache.Redis.GraphTTL, a.Logger)))
	}
	if a.publisher != nil {
		opts = append(opts, litigation.WithPublisher(a.publisher))
	}
	a.graphs = litigation.NewGraphService(a.litigationRepo, a.Logger.Named("litigation"), opts...)
	return a.graphs, nil
}

// PatentService needs the upstream client and the graph store.
func (a *App) PatentService() (patent.Service, error) {
	if a.PatentAPI == nil {
		return nil, missing("patent api")
	}
	graphs, err := a.GraphService()
	if err != nil {
		return nil, err
	}
	opts := []patent.Option{
		patent.WithMetrics(a.Metrics),
		patent.WithEnrichConcurrency(a.Config.PatentAPI.EnrichConcurrency),
	}
	if a.cache != nil {
		opts = append(opts, patent.WithSearchCache(redis.NewSearchCache(a.cache, a.Config.Cache.Redis.SearchTTL)))
	}
	if a.publisher != nil {
		opts = append(opts, patent.WithPublisher(a.publisher))
	}
	return patent.NewService(a.PatentAPI, graphs, a.Logger.Named("patent"), opts...), nil
}

func (a *App) HolderService() (holder.Service, error) {
	if a.Postgres == nil {
		return nil, missing("postgres")
	}
	repo := pgrepo.NewPostgresHolderRepo(a.Postgres, a.Logger)
	return holder.NewService(repo, a.Logger.Named("holder"), holder.WithMetrics(a.Metrics)), nil
}

// Tokens returns the JWT manager. Revocation is backed by Redis when open;
// without it logout cannot revoke anything.
func (a *App) Tokens() (*token.Manager, error) {
	if a.tokens != nil {
		return a.tokens, nil
	}
	var opts []token.Option
	if a.Redis != nil {
		opts = append(opts, token.WithDenylist(redis.NewTokenDenylist(a.Redis)))
	}
	m, err := token.NewManager(a.Config.Auth, opts...)
	if err != nil {
		return nil, err
	}
	a.tokens = m
	return m, nil
}

func (a *App) AccountService() (account.Service, error) {
	if a.Postgres == nil {
		return nil, missing("postgres")
	}
	tokens, err := a.Tokens()
	if err != nil {
		return nil, err
	}
	users := pgrepo.NewPostgresUserRepo(a.Postgres, a.Logger)
	return account.NewService(users, tokens, a.Logger.Named("account"),
		account.WithMetrics(a.Metrics),
		account.WithBcryptCost(a.Config.Auth.BcryptCost),
	), nil
}

// Locks returns the Redis lock factory, or nil without Redis.
func (a *App) Locks() redis.LockFactory {
	if a.Redis == nil {
		return nil
	}
	return redis.NewLockFactory(a.Redis, a.Logger)
}

// HealthCheckers lists a readiness probe per open store.
func (a *App) HealthCheckers() []handlers.HealthChecker {
	var checks []handlers.HealthChecker
	if a.Neo4j != nil {
		checks = append(checks, handlers.NamedCheck("neo4j", a.Neo4j.HealthCheck))
	}
	if a.Postgres != nil {
		checks = append(checks, handlers.NamedCheck("postgres", a.Postgres.HealthCheck))
	}
	if a.Redis != nil {
		checks = append(checks, handlers.NamedCheck("redis", a.Redis.HealthCheck))
	}
	return checks
}

// Close releases components in reverse opening order and joins the errors.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return stderrors.Join(errs...)
}

//Personal.AI order the ending

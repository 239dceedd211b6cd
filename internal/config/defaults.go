package config

import (
	"time"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/patentapi"
)

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080

	DefaultNeo4jURI      = "bolt://localhost:7687"
	DefaultNeo4jDatabase = "neo4j"

	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresDatabase = "litigraph"

	DefaultRedisMode = "standalone"
	DefaultRedisAddr = "localhost:6379"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "litigraph-worker"
	DefaultKafkaClient  = "litigraph"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "litigraph"

	DefaultWorkerConcurrency = 4

	// UnsetMaxRetries marks patent_api.max_retries as not configured. The
	// loader starts from it so that an explicit 0 disables retries.
	UnsetMaxRetries   = -1
	DefaultMaxRetries = 2
)

// ApplyDefaults fills zero-value fields with defaults. Explicit values are
// never overwritten. Secrets have no defaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// server
	s := &cfg.Server
	if s.Host == "" {
		s.Host = DefaultServerHost
	}
	if s.Port == 0 {
		s.Port = DefaultServerPort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 15 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = 60 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 30 * time.Second
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 60 * time.Second
	}
	if s.MaxBodySize == 0 {
		s.MaxBodySize = 1 << 20
	}
	if len(s.CORS.AllowedMethods) == 0 {
		s.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(s.CORS.AllowedHeaders) == 0 {
		s.CORS.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
	}
	if s.CORS.MaxAge == 0 {
		s.CORS.MaxAge = 300
	}
	if s.RateLimit.RequestsPerSecond == 0 {
		s.RateLimit.RequestsPerSecond = 10
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 20
	}
	if s.RateLimit.CleanupInterval == 0 {
		s.RateLimit.CleanupInterval = 5 * time.Minute
	}

	// database
	n := &cfg.Database.Neo4j
	if n.URI == "" {
		n.URI = DefaultNeo4jURI
	}
	if n.Database == "" {
		n.Database = DefaultNeo4jDatabase
	}
	if n.MaxConnectionPoolSize == 0 {
		n.MaxConnectionPoolSize = 50
	}
	if n.QueryTimeout == 0 {
		n.QueryTimeout = 10 * time.Second
	}
	p := &cfg.Database.Postgres
	if p.Host == "" {
		p.Host = DefaultPostgresHost
	}
	if p.Port == 0 {
		p.Port = DefaultPostgresPort
	}
	if p.Database == "" {
		p.Database = DefaultPostgresDatabase
	}
	if p.SSLMode == "" {
		p.SSLMode = "disable"
	}
	if p.MaxOpenConns == 0 {
		p.MaxOpenConns = 25
	}
	if p.MaxIdleConns == 0 {
		p.MaxIdleConns = 5
	}

	// cache
	r := &cfg.Cache.Redis
	if r.Mode == "" {
		r.Mode = DefaultRedisMode
	}
	if r.Addr == "" && r.Mode == DefaultRedisMode {
		r.Addr = DefaultRedisAddr
	}
	if r.KeyPrefix == "" {
		r.KeyPrefix = "plg:"
	}
	if r.SearchTTL == 0 {
		r.SearchTTL = 10 * time.Minute
	}
	if r.GraphTTL == 0 {
		r.GraphTTL = time.Hour
	}

	// messaging
	k := &cfg.Messaging.Kafka
	if len(k.Brokers) == 0 {
		k.Brokers = []string{DefaultKafkaBroker}
	}
	if k.GroupID == "" {
		k.GroupID = DefaultKafkaGroupID
	}
	if k.ClientID == "" {
		k.ClientID = DefaultKafkaClient
	}
	if k.AutoOffsetReset == "" {
		k.AutoOffsetReset = "earliest"
	}
	if k.PublishTimeout == 0 {
		k.PublishTimeout = 5 * time.Second
	}

	// patent_api
	a := &cfg.PatentAPI
	if a.BaseURL == "" {
		a.BaseURL = patentapi.DefaultBaseURL
	}
	if a.Timeout == 0 {
		a.Timeout = 10 * time.Second
	}
	if a.MaxRetries < 0 {
		a.MaxRetries = DefaultMaxRetries
	}
	if a.EnrichConcurrency == 0 {
		a.EnrichConcurrency = 4
	}

	// auth
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "patent-litigation-graph"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}

	// worker
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.LockTTL == 0 {
		cfg.Worker.LockTTL = 30 * time.Second
	}
	if cfg.Worker.WarmTimeout == 0 {
		cfg.Worker.WarmTimeout = 20 * time.Second
	}

	// log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// monitoring
	if cfg.Monitoring.Path == "" {
		cfg.Monitoring.Path = DefaultMetricsPath
	}
	if cfg.Monitoring.Namespace == "" {
		cfg.Monitoring.Namespace = DefaultMetricsNamespace
	}
}

//Personal.AI order the ending

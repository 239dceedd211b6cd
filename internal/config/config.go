// Package config defines the configuration tree shared by the API server,
// the worker and the CLI. Component sections reuse the config types of the
// infrastructure packages they feed.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/auth/token"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/neo4j"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/redis"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/patentapi"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host"`
	Port            int             `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration   `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodySize     int64           `mapstructure:"max_body_size" yaml:"max_body_size"`
	RequestTimeout  time.Duration   `mapstructure:"request_timeout" yaml:"request_timeout"`
	CORS            CORSConfig      `mapstructure:"cors" yaml:"cors"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// Addr is host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// RateLimitConfig is a per-client-IP token bucket.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled" yaml:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

type DatabaseConfig struct {
	Neo4j    neo4j.Neo4jConfig       `mapstructure:"neo4j" yaml:"neo4j"`
	Postgres postgres.PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

type CacheConfig struct {
	Redis redis.RedisConfig `mapstructure:"redis" yaml:"redis"`
}

type MessagingConfig struct {
	Kafka kafka.Config `mapstructure:"kafka" yaml:"kafka"`
}

// WorkerConfig drives cmd/worker.
type WorkerConfig struct {
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	LockTTL     time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
	WarmTimeout time.Duration `mapstructure:"warm_timeout" yaml:"warm_timeout"`
}

// Config is the root of the configuration tree.
type Config struct {
	Server     ServerConfig               `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig             `mapstructure:"database" yaml:"database"`
	Cache      CacheConfig                `mapstructure:"cache" yaml:"cache"`
	Messaging  MessagingConfig            `mapstructure:"messaging" yaml:"messaging"`
	PatentAPI  patentapi.Config           `mapstructure:"patent_api" yaml:"patent_api"`
	Auth       token.Config               `mapstructure:"auth" yaml:"auth"`
	Worker     WorkerConfig               `mapstructure:"worker" yaml:"worker"`
	Log        logging.LogConfig          `mapstructure:"log" yaml:"log"`
	Monitoring prometheus.CollectorConfig `mapstructure:"monitoring" yaml:"monitoring"`
}

// Validate checks the settings every binary relies on. It returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: server.rate_limit.requests_per_second must be > 0")
	}

	if c.Database.Neo4j.URI == "" {
		return fmt.Errorf("config: database.neo4j.uri is required")
	}
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("config: database.postgres.host is required")
	}
	if c.Database.Postgres.Port < 1 || c.Database.Postgres.Port > 65535 {
		return fmt.Errorf("config: database.postgres.port %d is out of range [1, 65535]", c.Database.Postgres.Port)
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("config: database.postgres.database is required")
	}

	switch c.Cache.Redis.Mode {
	case "standalone":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("config: cache.redis.addr is required")
		}
	case "sentinel":
		if c.Cache.Redis.MasterName == "" || len(c.Cache.Redis.SentinelAddrs) == 0 {
			return fmt.Errorf("config: cache.redis sentinel mode needs master_name and sentinel_addrs")
		}
	case "cluster":
		if len(c.Cache.Redis.ClusterAddrs) == 0 {
			return fmt.Errorf("config: cache.redis.cluster_addrs is required in cluster mode")
		}
	default:
		return fmt.Errorf("config: cache.redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Cache.Redis.Mode)
	}
	if c.Cache.Redis.DB < 0 {
		return fmt.Errorf("config: cache.redis.db must be >= 0, got %d", c.Cache.Redis.DB)
	}

	if c.Messaging.Kafka.Enabled {
		if len(c.Messaging.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: messaging.kafka.brokers must contain at least one broker address")
		}
		if c.Messaging.Kafka.GroupID == "" {
			return fmt.Errorf("config: messaging.kafka.group_id is required")
		}
	}

	if u, err := url.Parse(c.PatentAPI.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: patent_api.base_url %q must be an absolute http(s) URL", c.PatentAPI.BaseURL)
	}
	if c.PatentAPI.EnrichConcurrency < 1 {
		return fmt.Errorf("config: patent_api.enrich_concurrency must be >= 1, got %d", c.PatentAPI.EnrichConcurrency)
	}

	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}

// ValidateForServer additionally requires the secrets the API server cannot
// run without. Neither has a default.
func (c *Config) ValidateForServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.PatentAPI.APIKey == "" {
		return fmt.Errorf("config: patent_api.api_key is required (set PLG_PATENT_API_API_KEY)")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 bytes (set PLG_AUTH_JWT_SECRET)")
	}
	return nil
}

//Personal.AI order the ending

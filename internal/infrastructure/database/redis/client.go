package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeCacheError, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

type RedisConfig struct {
	Mode            string        `mapstructure:"mode" yaml:"mode"` // standalone, sentinel, cluster
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	MasterName      string        `mapstructure:"master_name" yaml:"master_name"`
	SentinelAddrs   []string      `mapstructure:"sentinel_addrs" yaml:"sentinel_addrs"`
	ClusterAddrs    []string      `mapstructure:"cluster_addrs" yaml:"cluster_addrs"`
	Password        string        `mapstructure:"password" yaml:"password"`
	Username        string        `mapstructure:"username" yaml:"username"`
	DB              int           `mapstructure:"db" yaml:"db"`
	PoolSize        int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	TLSEnabled      bool          `mapstructure:"tls_enabled" yaml:"tls_enabled"`
	TLSCAFile       string        `mapstructure:"tls_ca_file" yaml:"tls_ca_file"`
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries"`
	KeyPrefix       string        `mapstructure:"key_prefix" yaml:"key_prefix"`
	SearchTTL       time.Duration `mapstructure:"search_ttl" yaml:"search_ttl"`
	GraphTTL        time.Duration `mapstructure:"graph_ttl" yaml:"graph_ttl"`
	MinRetryBackoff time.Duration `mapstructure:"min_retry_backoff" yaml:"min_retry_backoff"`
}

// Client wraps a go-redis UniversalClient and refuses commands after Close.
type Client struct {
	rdb    redis.UniversalClient
	config *RedisConfig
	logger logging.Logger
	closed atomic.Bool
}

// NewClient connects in the configured mode (standalone, sentinel or cluster)
// and pings once. An unreachable server gives ErrConnectionFailed.
func NewClient(cfg *RedisConfig, log logging.Logger) (*Client, error) {
	applyDefaults(cfg)

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts := &redis.UniversalOptions{
		Addrs:           []string{cfg.Addr},
		MasterName:      cfg.MasterName,
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		TLSConfig:       tlsConfig,
	}

	var rdb redis.UniversalClient
	switch cfg.Mode {
	case "cluster":
		opts.Addrs = cfg.ClusterAddrs
		rdb = redis.NewClusterClient(opts.Cluster())
	case "sentinel":
		opts.Addrs = cfg.SentinelAddrs
		rdb = redis.NewFailoverClient(opts.Failover())
	case "", "standalone":
		rdb = redis.NewClient(opts.Simple())
	default:
		log.Warn("Unknown redis mode, using standalone", logging.String("mode", cfg.Mode))
		rdb = redis.NewClient(opts.Simple())
	}

	c := &Client{rdb: rdb, config: cfg, logger: log}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err)
	}

	log.Info("Redis client connected", logging.String("mode", cfg.Mode), logging.Strings("addrs", opts.Addrs))
	return c, nil
}

// NewClientWith wraps an existing go-redis client.
func NewClientWith(rdb redis.UniversalClient, cfg *RedisConfig, log logging.Logger) *Client {
	if cfg == nil {
		cfg = &RedisConfig{}
	}
	applyDefaults(cfg)
	return &Client{rdb: rdb, config: cfg, logger: log}
}

func applyDefaults(cfg *RedisConfig) {
	orDefault(&cfg.PoolSize, 10*runtime.GOMAXPROCS(0))
	orDefault(&cfg.MinIdleConns, 2)
	orDefault(&cfg.MaxRetries, 3)
	orDefault(&cfg.DialTimeout, 5*time.Second)
	orDefault(&cfg.ReadTimeout, 3*time.Second)
	orDefault(&cfg.WriteTimeout, 3*time.Second)
	orDefault(&cfg.MinRetryBackoff, 8*time.Millisecond)
	orDefault(&cfg.SearchTTL, 10*time.Minute)
	orDefault(&cfg.GraphTTL, time.Hour)
	orDefault(&cfg.KeyPrefix, "plg:")
}

func orDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

func buildTLSConfig(cfg *RedisConfig) (*tls.Config, error) {
	if !cfg.TLSEnabled {
		return nil, nil
	}
	tc := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.TLSCAFile == "" {
		return tc, nil
	}
	pem, err := os.ReadFile(cfg.TLSCAFile)
	if err != nil {
		return nil, fmt.Errorf("read redis ca file: %w", err)
	}
	tc.RootCAs = x509.NewCertPool()
	if !tc.RootCAs.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("redis ca file %s holds no PEM certificates", cfg.TLSCAFile)
	}
	return tc, nil
}

// Config returns the effective configuration after defaults.
func (c *Client) Config() RedisConfig { return *c.config }

// Universal exposes the go-redis client for scripts and pipelines.
func (c *Client) Universal() redis.UniversalClient { return c.rdb }

func (c *Client) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// HealthCheck wraps ping failures as ErrCodeCacheError.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis ping failed")
	}
	return nil
}

// Close is idempotent.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("Failed to close Redis client", logging.Err(err))
		return err
	}
	c.logger.Info("Closed Redis client")
	return nil
}

func closedCmd[C interface{ SetErr(error) }](cmd C) C {
	cmd.SetErr(ErrClientClosed)
	return cmd
}

func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewStringCmd(ctx))
	}
	return c.rdb.Get(ctx, key)
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewStatusCmd(ctx))
	}
	return c.rdb.Set(ctx, key, value, ttl)
}

func (c *Client) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewBoolCmd(ctx))
	}
	return c.rdb.SetNX(ctx, key, value, ttl)
}

func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewIntCmd(ctx))
	}
	return c.rdb.Del(ctx, keys...)
}

func (c *Client) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewIntCmd(ctx))
	}
	return c.rdb.Exists(ctx, keys...)
}

func (c *Client) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	if c.closed.Load() {
		return closedCmd(redis.NewScanCmd(ctx, nil))
	}
	return c.rdb.Scan(ctx, cursor, match, count)
}

//Personal.AI order the ending

package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")

	// errNullCached reports a live null marker; callers see ErrCacheMiss.
	errNullCached = stderrors.New("cached null")
)

// nullMarker is stored when a loader produced no value, so repeated misses for
// the same key do not reach the backing store until it expires.
const nullMarker = "__null__"

// Cache is a JSON value cache with key prefixing and collapsed fills.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	// GetOrLoad reads key into dest. On a miss, loader runs once per key across
	// concurrent callers; a nil loader value is cached as a short-lived null and
	// reported as ErrCacheMiss.
	GetOrLoad(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
}

type redisCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	defaultTTL   time.Duration
	nullCacheTTL time.Duration
	fills        singleflight.Group
}

type CacheOption func(*redisCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// WithNullCacheTTL sets how long a "loader found nothing" marker lives.
func WithNullCacheTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.nullCacheTTL = ttl }
}

func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:       client,
		logger:       log,
		prefix:       client.config.KeyPrefix,
		defaultTTL:   15 * time.Minute,
		nullCacheTTL: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) key(k string) string { return c.prefix + k }

// jitterTTL spreads expirations by +/-10%.
func (c *redisCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	spread := float64(ttl) / 10
	return ttl + time.Duration(spread*(2*rand.Float64()-1))
}

// read returns the raw value, ErrCacheMiss for an absent key and
// errNullCached for a null marker.
func (c *redisCache) read(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case stderrors.Is(err, redis.Nil):
		return nil, ErrCacheMiss
	case err != nil:
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "cache read failed").WithDetail(key)
	case string(raw) == nullMarker:
		return nil, errNullCached
	}
	return raw, nil
}

func (c *redisCache) write(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache write failed").WithDetail(key)
	}
	return nil
}

func decode(raw []byte, dest interface{}) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.read(ctx, key)
	if err == errNullCached {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return decode(raw, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	return c.write(ctx, key, raw, c.jitterTTL(ttl))
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	return n > 0, err
}

// GetOrLoad shares one loader call and its encoded result between concurrent
// callers of the same key. Cache errors are logged and never hide the loader.
func (c *redisCache) GetOrLoad(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	raw, err := c.read(ctx, key)
	switch {
	case err == nil:
		return decode(raw, dest)
	case err == errNullCached:
		return ErrCacheMiss
	case err != ErrCacheMiss:
		c.logger.Warn("Cache read failed, loading from source", logging.String("key", key), logging.Err(err))
	}

	v, err, shared := c.fills.Do(key, func() (interface{}, error) {
		return c.fill(ctx, key, ttl, loader)
	})
	if err != nil {
		return err
	}
	if shared {
		c.logger.Debug("Cache fill shared", logging.String("key", key))
	}
	filled, _ := v.([]byte)
	if filled == nil {
		return ErrCacheMiss
	}
	return decode(filled, dest)
}

// fill runs loader and stores its JSON, or the null marker when it found
// nothing. A nil slice means nothing was found.
func (c *redisCache) fill(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) ([]byte, error) {
	v, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if v == nil {
		if err := c.write(ctx, key, []byte(nullMarker), c.nullCacheTTL); err != nil {
			c.logger.Warn("Failed to cache null value", logging.String("key", key), logging.Err(err))
		}
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, ErrSerializationFailed.WithCause(err)
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.write(ctx, key, raw, c.jitterTTL(ttl)); err != nil {
		c.logger.Warn("Failed to populate cache", logging.String("key", key), logging.Err(err))
	}
	return raw, nil
}

// DeleteByPrefix scans and deletes every key under prefix in batches of 100.
func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)
	pattern := c.key(prefix) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		if cursor = next; cursor == 0 {
			return deleted, nil
		}
	}
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending

package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "failed to acquire lock")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// DistributedLock is a single-owner lease. Workers use it so that only one of
// them rebuilds a given inventor's graph at a time.
type DistributedLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
}

type LockFactory interface {
	NewMutex(name string, opts ...LockOption) DistributedLock
}

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

type lockConfig struct {
	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

var defaultLockConfig = lockConfig{
	ttl:        30 * time.Second,
	retryDelay: 100 * time.Millisecond,
	retryCount: 30,
}

type redisLockFactory struct {
	client *Client
	log    logging.Logger
}

func NewLockFactory(client *Client, log logging.Logger) LockFactory {
	return &redisLockFactory{client: client, log: log}
}

// NewMutex returns an unheld lock on "<prefix>lock:<name>". Each mutex carries
// a random owner token, so only the holder can release or extend it.
func (f *redisLockFactory) NewMutex(name string, opts ...LockOption) DistributedLock {
	cfg := defaultLockConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &redisMutex{
		client: f.client,
		key:    f.client.config.KeyPrefix + "lock:" + name,
		owner:  uuid.NewString(),
		cfg:    cfg,
		logger: f.log,
	}
}

type redisMutex struct {
	client *Client
	key    string
	owner  string
	cfg    lockConfig
	logger logging.Logger
}

// ownedScript runs DEL or PEXPIRE on KEYS[1] only while ARGV[1] owns it.
var ownedScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
if ARGV[2] == "release" then
	return redis.call("DEL", KEYS[1])
end
return redis.call("PEXPIRE", KEYS[1], ARGV[3])
`)

func (m *redisMutex) runOwned(ctx context.Context, op string, ttl time.Duration) (bool, error) {
	n, err := ownedScript.Run(ctx, m.client.Universal(), []string{m.key}, m.owner, op, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "lock "+op+" failed").WithDetail(m.key)
	}
	return n == 1, nil
}

// Lock polls TryLock up to retryCount times.
func (m *redisMutex) Lock(ctx context.Context) error {
	for attempt := 0; attempt < m.cfg.retryCount; attempt++ {
		if ok, err := m.TryLock(ctx); err != nil || ok {
			return err
		}
		t := time.NewTimer(m.cfg.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return ErrLockNotAcquired
}

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key, m.owner, m.cfg.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "lock acquire failed").WithDetail(m.key)
	}
	return ok, nil
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	released, err := m.runOwned(ctx, "release", 0)
	if err != nil {
		return err
	}
	if !released {
		m.logger.Warn("Lock expired or taken over before release", logging.String("key", m.key))
		return ErrLockNotHeld
	}
	return nil
}

// Extend resets the TTL. It reports false once the lease has been lost.
func (m *redisMutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	return m.runOwned(ctx, "extend", ttl)
}

//Personal.AI order the ending

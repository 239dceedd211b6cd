package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
)

func TestMutex_LockUnlock(t *testing.T) {
	client, mr := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("warm:Acme", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("plg:lock:warm:Acme"))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("plg:lock:warm:Acme"))
}

func TestMutex_Contention(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	first := factory.NewMutex("warm:Beta", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))
	second := factory.NewMutex("warm:Beta", WithRetryCount(2), WithRetryDelay(10*time.Millisecond))

	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, second.Lock(ctx), ErrLockNotAcquired)

	assert.ErrorIs(t, second.Unlock(ctx), ErrLockNotHeld)
	require.NoError(t, first.Unlock(ctx))

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_ExpiresAndExtend(t *testing.T) {
	client, mr := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())
	ctx := context.Background()

	lock := factory.NewMutex("warm:Gamma", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	extended, err := lock.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, extended)
	assert.Equal(t, 10*time.Second, mr.TTL("plg:lock:warm:Gamma"))

	mr.FastForward(11 * time.Second)
	extended, err = lock.Extend(ctx, time.Second)
	require.NoError(t, err)
	assert.False(t, extended)
}

func TestMutex_LockHonoursContext(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	holder := factory.NewMutex("warm:Delta")
	require.NoError(t, holder.Lock(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiter := factory.NewMutex("warm:Delta", WithRetryDelay(time.Second))
	assert.ErrorIs(t, waiter.Lock(ctx), context.Canceled)
}

//Personal.AI order the ending

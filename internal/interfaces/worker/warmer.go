// Package worker holds the event handlers run by cmd/worker.
package worker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/database/redis"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

const lockPrefix = "warm:"

// GraphWarmer is satisfied by litigation.GraphService.
type GraphWarmer interface {
	Warm(ctx context.Context, names []string) (int, error)
}

type Option func(*Warmer)

// WithLocks makes workers skip inventors another worker is already building.
func WithLocks(f redis.LockFactory, ttl time.Duration) Option {
	return func(w *Warmer) {
		w.locks = f
		w.lockTTL = ttl
	}
}

func WithConcurrency(n int) Option { return func(w *Warmer) { w.concurrency = n } }

// WithTimeout bounds each inventor's graph build.
func WithTimeout(d time.Duration) Option { return func(w *Warmer) { w.timeout = d } }

func WithMetrics(m *prometheus.AppMetrics) Option { return func(w *Warmer) { w.metrics = m } }

// Warmer pre-builds litigation graphs for the inventors of every search so
// that the following detail views hit the graph cache.
type Warmer struct {
	graphs      GraphWarmer
	locks       redis.LockFactory
	lockTTL     time.Duration
	concurrency int
	timeout     time.Duration
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
}

func NewWarmer(graphs GraphWarmer, logger logging.Logger, opts ...Option) *Warmer {
	w := &Warmer{
		graphs:      graphs,
		lockTTL:     30 * time.Second,
		concurrency: 4,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.concurrency < 1 {
		w.concurrency = 1
	}
	if w.metrics == nil {
		w.metrics = prometheus.NewNopAppMetrics()
	}
	return w
}

// HandleSearched is a kafka.MessageHandler for patent.searched. Undecodable
// messages and degraded searches are acknowledged without work. A store
// failure is returned so the consumer retries and then dead-letters.
func (w *Warmer) HandleSearched(ctx context.Context, msg *common.ConsumerMessage) (err error) {
	defer func() { prometheus.RecordEventConsumed(w.metrics, msg.Topic, err) }()

	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		w.logger.Warn("Dropping malformed message", logging.Int64("offset", msg.Offset), logging.Err(err))
		return nil
	}
	var ev patent.SearchedEvent
	if err := env.DecodePayload(&ev); err != nil {
		w.logger.Warn("Dropping malformed event", logging.String("event_id", env.EventID), logging.Err(err))
		return nil
	}
	if ev.Degraded || len(ev.Inventors) == 0 {
		return nil
	}

	warmed, err := w.WarmAll(ctx, ev.Inventors)
	w.logger.Debug("Search event handled",
		logging.String("query", ev.Query),
		logging.Int("inventors", len(ev.Inventors)),
		logging.Int("warmed", warmed))
	return err
}

// WarmAll builds graphs for names with bounded concurrency and returns how
// many of them have a graph. Names locked by another worker are skipped.
func (w *Warmer) WarmAll(ctx context.Context, names []string) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	results := make([]int, len(names))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			n, err := w.warmOne(gctx, name)
			results[i] = n
			return err
		})
	}
	err := g.Wait()

	total := 0
	for _, n := range results {
		total += n
	}
	return total, err
}

func (w *Warmer) warmOne(ctx context.Context, name string) (int, error) {
	if w.locks != nil {
		lock := w.locks.NewMutex(lockPrefix+name, redis.WithLockTTL(w.lockTTL))
		ok, err := lock.TryLock(ctx)
		if err != nil {
			// Redis down: build without the lock.
			w.logger.Warn("Warm lock unavailable", logging.String("name", name), logging.Err(err))
		} else if !ok {
			return 0, nil
		} else {
			defer func() {
				if err := lock.Unlock(context.Background()); err != nil {
					w.logger.Debug("Warm lock release failed", logging.String("name", name), logging.Err(err))
				}
			}()
		}
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.graphs.Warm(ctx, []string{name})
}

//Personal.AI order the ending

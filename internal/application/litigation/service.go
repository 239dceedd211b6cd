// Package litigation orchestrates litigation graph lookups, imports and cache
// warming on top of the litigation store.
package litigation

import (
	"context"
	"strings"
	"time"

	domain "github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
	"github.com/turtacn/patent-litigation-graph/pkg/validation"
)

const (
	queryJoined   = "joined"
	queryTwoStage = "two_stage"
	storeName     = "neo4j"
)

// GraphService builds litigation graphs rooted at a plaintiff name.
type GraphService interface {
	// GraphFor returns the graph for name. (nil, nil) means no plaintiff
	// record names it. Store failures carry ErrCodeStoreUnavailable.
	GraphFor(ctx context.Context, name string) (*domain.Graph, error)
	// Import stores records and drops cached graphs. It returns the number
	// of records written.
	Import(ctx context.Context, records []domain.Record) (int, error)
	// Warm builds and caches graphs for names. It returns how many names
	// have a graph.
	Warm(ctx context.Context, names []string) (int, error)
}

// GraphCache is satisfied by the Redis graph cache.
type GraphCache interface {
	GraphFor(ctx context.Context, name string, build func(ctx context.Context) (*domain.Graph, error)) (*domain.Graph, error)
	Invalidate(ctx context.Context) error
}

// EventPublisher is satisfied by the Kafka event publisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev common.DomainEvent) error
}

// Option configures the service.
type Option func(*graphService)

func WithCache(c GraphCache) Option { return func(s *graphService) { s.cache = c } }

func WithPublisher(p EventPublisher) Option { return func(s *graphService) { s.publisher = p } }

func WithMetrics(m *prometheus.AppMetrics) Option { return func(s *graphService) { s.metrics = m } }

// WithWriter sets the import target. Without it Import uses the repository
// when it implements domain.RecordWriter.
func WithWriter(w domain.RecordWriter) Option { return func(s *graphService) { s.writer = w } }

// WithJoinedQuery toggles the single round trip lookup for stores that
// support it. It is on by default.
func WithJoinedQuery(enabled bool) Option { return func(s *graphService) { s.joined = enabled } }

type graphService struct {
	repo      domain.GraphRepository
	writer    domain.RecordWriter
	cache     GraphCache
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	joined    bool
}

// NewGraphService wires a GraphService over repo.
func NewGraphService(repo domain.GraphRepository, logger logging.Logger, opts ...Option) GraphService {
	s := &graphService{repo: repo, logger: logger, joined: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.writer == nil {
		if w, ok := repo.(domain.RecordWriter); ok {
			s.writer = w
		}
	}
	return s
}

func (s *graphService) GraphFor(ctx context.Context, name string) (*domain.Graph, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if s.cache == nil {
		return s.build(ctx, name)
	}

	built := false
	g, err := s.cache.GraphFor(ctx, name, func(ctx context.Context) (*domain.Graph, error) {
		built = true
		return s.build(ctx, name)
	})
	prometheus.RecordCacheAccess(s.metrics, "graph", !built)
	return g, err
}

// build runs the store lookups and assembles the graph.
func (s *graphService) build(ctx context.Context, name string) (*domain.Graph, error) {
	start := time.Now()
	query := queryTwoStage
	var (
		plaintiffs []string
		defendants []domain.Defendant
		err        error
	)
	if jr, ok := s.repo.(domain.JoinedGraphRepository); ok && s.joined {
		query = queryJoined
		plaintiffs, defendants, err = s.lookupJoined(ctx, jr, name)
	} else {
		plaintiffs, defendants, err = s.lookupTwoStage(ctx, name)
	}
	prometheus.RecordStoreQuery(s.metrics, storeName, query, time.Since(start), err)

	if err != nil {
		prometheus.RecordGraphBuild(s.metrics, query, 0, time.Since(start), err)
		s.logger.Error("Litigation store lookup failed", logging.String("name", name), logging.String("query", query), logging.Err(err))
		return nil, storeUnavailable(err)
	}
	if len(plaintiffs) == 0 {
		prometheus.RecordGraphBuild(s.metrics, query, -1, time.Since(start), nil)
		s.logger.Debug("No plaintiff record", logging.String("name", name))
		return nil, nil
	}

	g := domain.BuildGraph(name, defendants)
	prometheus.RecordGraphBuild(s.metrics, query, len(g.Nodes), time.Since(start), nil)
	s.publish(ctx, domain.NewGraphBuiltEvent(name, len(plaintiffs), g))
	return g, nil
}

func (s *graphService) lookupJoined(ctx context.Context, jr domain.JoinedGraphRepository, name string) ([]string, []domain.Defendant, error) {
	l, err := jr.LitigantsByPlaintiffName(ctx, name)
	if err != nil || l == nil {
		return nil, nil, err
	}
	return l.PlaintiffIDs, l.Defendants, nil
}

func (s *graphService) lookupTwoStage(ctx context.Context, name string) ([]string, []domain.Defendant, error) {
	ids, err := s.repo.PlaintiffIDsByName(ctx, name)
	if err != nil || len(ids) == 0 {
		return nil, nil, err
	}
	var defendants []domain.Defendant
	for _, id := range ids {
		ds, err := s.repo.DefendantsByPlaintiffID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		defendants = append(defendants, ds...)
	}
	return ids, defendants, nil
}

func (s *graphService) publish(ctx context.Context, ev common.DomainEvent) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, ev)
	prometheus.RecordEventPublished(s.metrics, ev.EventType(), err)
	if err != nil {
		s.logger.Warn("Failed to publish event", logging.String("type", ev.EventType()), logging.Err(err))
	}
}

func (s *graphService) Import(ctx context.Context, records []domain.Record) (int, error) {
	if s.writer == nil {
		return 0, errors.New(errors.ErrCodeNotImplemented, "litigation store does not accept imports")
	}
	if len(records) == 0 {
		return 0, nil
	}
	for i := range records {
		if err := validation.Check(&records[i]); err != nil {
			return 0, errors.Wrap(err, errors.ErrCodeValidation, "invalid litigation record").WithDetail(records[i].ID)
		}
	}

	start := time.Now()
	n, err := s.writer.SaveRecords(ctx, records)
	prometheus.RecordStoreQuery(s.metrics, storeName, "import", time.Since(start), err)
	if err != nil {
		return n, storeUnavailable(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Graph cache invalidation failed", logging.Err(err))
		}
	}
	s.logger.Info("Litigation records imported", logging.Int("records", n))
	return n, nil
}

func (s *graphService) Warm(ctx context.Context, names []string) (int, error) {
	seen := make(map[string]struct{}, len(names))
	warmed := 0
	var firstErr error
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		g, err := s.GraphFor(ctx, name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if g != nil {
			warmed++
		}
	}
	return warmed, firstErr
}

func storeUnavailable(err error) error {
	if errors.IsStoreUnavailable(err) {
		return err
	}
	return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "litigation store unavailable")
}

//Personal.AI order the ending

// Package patent provides the application-level service for patent search
// and single-patent detail views.
package patent

import (
	"context"
	"strings"

	"github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	domain "github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

// Service defines the interface for patent application operations.
type Service interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
	Detail(ctx context.Context, externalID string) (*DetailResult, error)
}

// SearchResult is returned by Search. Degraded is set when the upstream
// search failed and Patents is empty for that reason.
type SearchResult struct {
	Query    string                 `json:"query"`
	Patents  []*domain.PatentRecord `json:"patents"`
	Degraded bool                   `json:"degraded"`
	Cached   bool                   `json:"cached"`
}

// DetailResult pairs a patent detail with the litigation graph of its
// inventor. Graph is nil when the inventor has no litigation record.
type DetailResult struct {
	Detail *domain.Detail    `json:"detail"`
	Graph  *litigation.Graph `json:"graph"`
}

// Upstream is the external patent API.
type Upstream interface {
	DetailSource
	Search(ctx context.Context, query string) ([]*domain.PatentRecord, error)
}

// GraphProvider resolves litigation graphs by plaintiff name.
type GraphProvider interface {
	GraphFor(ctx context.Context, name string) (*litigation.Graph, error)
}

// SearchCache is satisfied by the Redis search cache.
type SearchCache interface {
	GetSearch(ctx context.Context, query string) ([]*domain.PatentRecord, bool, error)
	PutSearch(ctx context.Context, query string, records []*domain.PatentRecord) error
}

// EventPublisher is satisfied by the Kafka event publisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev common.DomainEvent) error
}

// Option configures the service.
type Option func(*serviceImpl)

func WithSearchCache(c SearchCache) Option { return func(s *serviceImpl) { s.cache = c } }

func WithPublisher(p EventPublisher) Option { return func(s *serviceImpl) { s.publisher = p } }

func WithMetrics(m *prometheus.AppMetrics) Option { return func(s *serviceImpl) { s.metrics = m } }

func WithEnrichConcurrency(n int) Option { return func(s *serviceImpl) { s.concurrency = n } }

type serviceImpl struct {
	upstream    Upstream
	graphs      GraphProvider
	cache       SearchCache
	publisher   EventPublisher
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
	concurrency int
	enricher    *Enricher
}

// NewService creates a new patent application service.
func NewService(upstream Upstream, graphs GraphProvider, logger logging.Logger, opts ...Option) Service {
	s := &serviceImpl{upstream: upstream, graphs: graphs, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.enricher = NewEnricher(upstream, s.concurrency, logger, s.metrics)
	return s
}

// Search serves query from the cache when possible. Otherwise it queries the
// upstream API, enriches every hit and caches the result. An upstream
// failure is logged and answered with an empty, degraded result.
func (s *serviceImpl) Search(ctx context.Context, query string) (*SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.Validation("q", "search query is required")
	}

	if s.cache != nil {
		records, hit, err := s.cache.GetSearch(ctx, q)
		switch {
		case err != nil:
			s.logger.Warn("Search cache read failed", logging.String("query", q), logging.Err(err))
		case hit:
			prometheus.RecordCacheAccess(s.metrics, "search", true)
			prometheus.RecordSearchResults(s.metrics, "cache", len(records))
			return &SearchResult{Query: q, Patents: records, Cached: true}, nil
		default:
			prometheus.RecordCacheAccess(s.metrics, "search", false)
		}
	}

	records, err := s.upstream.Search(ctx, q)
	if err != nil {
		s.logger.Warn("Patent search failed, returning no results",
			logging.String("query", q),
			logging.String("code", string(errors.GetCode(err))),
			logging.Err(err))
		s.publish(ctx, domain.NewSearchedEvent(q, nil, true))
		return &SearchResult{Query: q, Patents: []*domain.PatentRecord{}, Degraded: true}, nil
	}

	records = s.enricher.Enrich(ctx, records)
	prometheus.RecordSearchResults(s.metrics, "upstream", len(records))

	if s.cache != nil {
		if err := s.cache.PutSearch(ctx, q, records); err != nil {
			s.logger.Warn("Search cache write failed", logging.String("query", q), logging.Err(err))
		}
	}
	s.publish(ctx, domain.NewSearchedEvent(q, records, false))

	return &SearchResult{Query: q, Patents: records}, nil
}

// Detail fetches one patent and the litigation graph of its inventor.
func (s *serviceImpl) Detail(ctx context.Context, externalID string) (*DetailResult, error) {
	id := strings.TrimSpace(externalID)
	if id == "" {
		return nil, errors.Validation("id", "patent id is required")
	}

	d, err := s.upstream.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	g, err := s.graphs.GraphFor(ctx, d.Inventor)
	if err != nil {
		return nil, err
	}
	return &DetailResult{Detail: d, Graph: g}, nil
}

func (s *serviceImpl) publish(ctx context.Context, ev common.DomainEvent) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, ev)
	prometheus.RecordEventPublished(s.metrics, ev.EventType(), err)
	if err != nil {
		s.logger.Warn("Failed to publish event", logging.String("type", ev.EventType()), logging.Err(err))
	}
}

//Personal.AI order the ending

package patent

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
)

const DefaultEnrichConcurrency = 4

// DetailSource performs single-patent lookups.
type DetailSource interface {
	Detail(ctx context.Context, externalID string) (*domain.Detail, error)
}

// ExtractExternalID returns the second-to-last "/"-separated segment of link,
// counted after any "scheme://" prefix. Links with fewer than three segments,
// or whose candidate segment is empty, carry no id.
func ExtractExternalID(link string) (string, bool) {
	rest := link
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 3 {
		return "", false
	}
	id := parts[len(parts)-2]
	if id == "" {
		return "", false
	}
	return id, true
}

// Enricher overwrites title, inventor and abstract of search hits with the
// result of a detail lookup.
type Enricher struct {
	source  DetailSource
	limit   int
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

func NewEnricher(source DetailSource, limit int, logger logging.Logger, metrics *prometheus.AppMetrics) *Enricher {
	if limit <= 0 {
		limit = DefaultEnrichConcurrency
	}
	return &Enricher{source: source, limit: limit, metrics: metrics, logger: logger}
}

// Enrich returns copies of records in the same order. Each record is looked up
// independently: a failed lookup leaves that record as it was and never
// affects the others.
func (e *Enricher) Enrich(ctx context.Context, records []*domain.PatentRecord) []*domain.PatentRecord {
	out := make([]*domain.PatentRecord, len(records))

	var g errgroup.Group
	g.SetLimit(e.limit)
	for i, rec := range records {
		i, rec := i, rec
		out[i] = rec.Clone()
		if rec == nil {
			continue
		}
		id, ok := ExtractExternalID(rec.Link)
		if !ok {
			prometheus.RecordEnrichment(e.metrics, prometheus.OutcomeSkipped)
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				prometheus.RecordEnrichment(e.metrics, prometheus.OutcomeSkipped)
				return nil
			}
			d, err := e.source.Detail(ctx, id)
			if err != nil || d == nil {
				prometheus.RecordEnrichment(e.metrics, prometheus.OutcomeFailure)
				e.logger.Warn("Patent detail lookup failed",
					logging.String("patent_id", rec.ID),
					logging.String("external_id", id),
					logging.Err(err))
				return nil
			}
			out[i].ApplyDetail(d)
			prometheus.RecordEnrichment(e.metrics, prometheus.OutcomeSuccess)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

//Personal.AI order the ending

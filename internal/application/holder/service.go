// Package holder serves the patent ownership registry.
package holder

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// SearchInput selects a page of holders whose name matches Query.
type SearchInput struct {
	Query    string
	Page     int
	PageSize int
}

// SearchResult is one page of matches.
type SearchResult struct {
	Holders    []*patent.PatentHolder `json:"holders"`
	Pagination common.Pagination      `json:"pagination"`
}

type Service interface {
	Search(ctx context.Context, in SearchInput) (*SearchResult, error)
	Create(ctx context.Context, h *patent.PatentHolder) error
}

type Option func(*serviceImpl)

func WithMetrics(m *prometheus.AppMetrics) Option { return func(s *serviceImpl) { s.metrics = m } }

type serviceImpl struct {
	repo    patent.HolderRepository
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

func NewService(repo patent.HolderRepository, logger logging.Logger, opts ...Option) Service {
	s := &serviceImpl{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search matches Query case-insensitively as a regular expression against
// the holder name. A malformed expression is reported by the store as
// ErrCodeHolderInvalidQuery.
func (s *serviceImpl) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return nil, errors.Validation("q", "holder query is required")
	}
	page := common.Pagination{Page: in.Page, PageSize: in.PageSize}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.PageSize <= 0 {
		page.PageSize = DefaultPageSize
	}
	if page.PageSize > MaxPageSize {
		page.PageSize = MaxPageSize
	}

	start := time.Now()
	holders, total, err := s.repo.SearchByHolder(ctx, q, page.PageSize, page.Offset())
	prometheus.RecordStoreQuery(s.metrics, "postgres", "holder_search", time.Since(start), err)
	if err != nil {
		if !errors.IsValidation(err) {
			s.logger.Error("Patent holder search failed", logging.String("query", q), logging.Err(err))
		}
		return nil, err
	}
	page.Total = total
	return &SearchResult{Holders: holders, Pagination: page}, nil
}

func (s *serviceImpl) Create(ctx context.Context, h *patent.PatentHolder) error {
	if h == nil {
		return errors.InvalidParam("patent holder is required")
	}
	if err := h.Validate(); err != nil {
		return err
	}

	start := time.Now()
	err := s.repo.Create(ctx, h)
	prometheus.RecordStoreQuery(s.metrics, "postgres", "holder_create", time.Since(start), err)
	if err != nil {
		if !errors.IsConflict(err) && !errors.IsValidation(err) {
			s.logger.Error("Failed to create patent holder",
				logging.String("reference_id", h.ReferenceID), logging.Err(err))
		}
		return err
	}
	s.logger.Info("Patent holder created",
		logging.String("reference_id", h.ReferenceID),
		logging.String("holder", h.PatentHolder))
	return nil
}

//Personal.AI order the ending

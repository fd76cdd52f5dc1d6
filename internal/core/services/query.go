package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
	"github.com/custodia-labs/cvemirror/internal/logger"
	"github.com/custodia-labs/cvemirror/internal/metrics"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers filtered, paginated queries over the mirror.
type QueryService struct {
	records driven.RecordStore
	now     func() time.Time
}

// NewQueryService creates a query service reading from records.
func NewQueryService(records driven.RecordStore) *QueryService {
	return &QueryService{
		records: records,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for relative date filters.
func (s *QueryService) WithClock(now func() time.Time) *QueryService {
	s.now = now
	return s
}

// Query validates raw parameters and returns one page of matches.
// Invalid parameters never fail the query; they fall back to defaults.
func (s *QueryService) Query(ctx context.Context, params domain.QueryParams) (*domain.QueryResult, error) {
	return s.Search(ctx, domain.ParseQuery(params))
}

// Search runs an already validated query.
func (s *QueryService) Search(ctx context.Context, q domain.Query) (*domain.QueryResult, error) {
	q.Options = q.Options.Normalise()
	metrics.QueriesTotal.WithLabelValues("list").Inc()
	logger.Debug("query: page=%d limit=%d sort=%s %s",
		q.Options.Page, q.Options.Limit, q.Options.SortBy, q.Options.Order)

	result, err := s.records.Query(ctx, q, s.now())
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	if result.Results == nil {
		result.Results = []domain.RecordSummary{}
	}
	return result, nil
}

// GetRaw returns a record's raw payload verbatim.
func (s *QueryService) GetRaw(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrInvalidInput)
	}
	metrics.QueriesTotal.WithLabelValues("detail").Inc()
	return s.records.GetRaw(ctx, id)
}

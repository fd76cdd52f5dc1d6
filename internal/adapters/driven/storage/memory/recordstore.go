package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Queries evaluate domain.QueryFilter.Matches over every record.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.Record),
	}
}

// UpsertBatch replaces every record in the batch. The batch is validated
// before any record is written, so a rejected batch changes nothing.
func (s *RecordStore) UpsertBatch(_ context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: empty batch", domain.ErrInvalidInput)
	}
	for i := range records {
		if records[i].ID == "" {
			return &domain.StoreError{Op: "upsert", Err: fmt.Errorf("record %d has no id", i)}
		}
		if !json.Valid(records[i].Raw) {
			return &domain.StoreError{Op: "upsert", Err: fmt.Errorf("record %s: raw is not valid JSON", records[i].ID)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		r.Raw = append(json.RawMessage(nil), r.Raw...)
		s.records[r.ID] = r
	}
	return nil
}

// Query filters, sorts and pages the stored records.
func (s *RecordStore) Query(_ context.Context, q domain.Query, now time.Time) (*domain.QueryResult, error) {
	opts := q.Options.Normalise()

	s.mu.RLock()
	matches := make([]domain.RecordSummary, 0)
	for id := range s.records {
		rec := s.records[id]
		summary := rec.Summary()
		if q.Filter.Matches(&summary, now) {
			matches = append(matches, summary)
		}
	}
	s.mu.RUnlock()

	domain.SortSummaries(matches, opts)

	result := &domain.QueryResult{
		Total:   len(matches),
		Page:    opts.Page,
		Limit:   opts.Limit,
		Results: []domain.RecordSummary{},
	}
	start := opts.Offset()
	if start < 0 || start >= len(matches) {
		return result, nil
	}
	end := min(start+opts.Limit, len(matches))
	result.Results = matches[start:end]
	return result, nil
}

// GetRaw returns the stored raw payload.
func (s *RecordStore) GetRaw(_ context.Context, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append(json.RawMessage(nil), rec.Raw...), nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Get returns a stored record. Used by tests to inspect full rows.
func (s *RecordStore) Get(id string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

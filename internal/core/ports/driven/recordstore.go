package driven

import (
	"context"
	"encoding/json"
	"time"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// RecordStore persists mirrored records.
// Only the sync engine writes; queries may run concurrently with a write.
type RecordStore interface {
	// UpsertBatch inserts or fully replaces every record in one transaction.
	// On failure nothing from the batch is visible and a *domain.StoreError
	// is returned. An empty batch returns domain.ErrInvalidInput.
	UpsertBatch(ctx context.Context, records []domain.Record) error

	// Query returns the total match count and one page of summaries.
	// now anchors relative date filters.
	Query(ctx context.Context, q domain.Query, now time.Time) (*domain.QueryResult, error)

	// GetRaw returns the stored raw payload verbatim.
	// Returns domain.ErrNotFound if the ID is unknown.
	GetRaw(ctx context.Context, id string) (json.RawMessage, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

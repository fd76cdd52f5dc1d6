package driven

import (
	"context"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// SyncRunStore persists sync run history.
type SyncRunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.SyncRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.SyncRun, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

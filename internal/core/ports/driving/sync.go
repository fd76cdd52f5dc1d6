package driving

import (
	"context"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// ProgressFunc receives progress notifications from a running sync.
type ProgressFunc func(domain.SyncProgress)

// SyncService mirrors the remote feed into the local store.
type SyncService interface {
	// FullSync walks the feed from offset 0 and upserts every page.
	// It returns a *domain.SyncError on failure and domain.ErrSyncInProgress
	// if another run is active in this process.
	FullSync(ctx context.Context, progress ProgressFunc) error

	// Status returns the state of the current run.
	Status(ctx context.Context) (*SyncStatus, error)

	// Runs returns recent sync runs, newest first.
	Runs(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// RunID identifies the active run. Empty when idle.
	RunID string `json:"runId,omitempty"`

	// Running indicates if sync is currently in progress.
	Running bool `json:"running"`

	// Offset is the feed position of the next page.
	Offset int `json:"offset"`

	// Total is the feed's reported total, nil when unknown.
	Total *int `json:"total,omitempty"`
}

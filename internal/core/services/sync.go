package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
	"github.com/custodia-labs/cvemirror/internal/logger"
	"github.com/custodia-labs/cvemirror/internal/metrics"
)

// Ensure SyncEngine implements the interface.
var _ driving.SyncService = (*SyncEngine)(nil)

// SyncEngine mirrors the feed into the record store one page at a time.
// Each page is committed before the next is fetched, so an aborted run
// leaves every earlier page in place.
type SyncEngine struct {
	feed       driven.FeedClient
	normaliser driven.Normaliser
	records    driven.RecordStore
	runs       driven.SyncRunStore
	pageSize   int

	running atomic.Bool

	mu     sync.Mutex
	status driving.SyncStatus
}

// NewSyncEngine creates a sync engine. runs may be nil, in which case run
// history is not recorded. pageSize outside [1, MaxFeedPageSize] is clamped.
func NewSyncEngine(
	feed driven.FeedClient,
	normaliser driven.Normaliser,
	records driven.RecordStore,
	runs driven.SyncRunStore,
	pageSize int,
) *SyncEngine {
	if pageSize < 1 || pageSize > domain.MaxFeedPageSize {
		pageSize = domain.MaxFeedPageSize
	}
	return &SyncEngine{
		feed:       feed,
		normaliser: normaliser,
		records:    records,
		runs:       runs,
		pageSize:   pageSize,
	}
}

// FullSync walks the feed from offset 0 until it is exhausted.
func (e *SyncEngine) FullSync(ctx context.Context, progress driving.ProgressFunc) error {
	if !e.running.CompareAndSwap(false, true) {
		return domain.ErrSyncInProgress
	}
	defer e.running.Store(false)

	if progress == nil {
		progress = func(domain.SyncProgress) {}
	}

	run := domain.SyncRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    domain.SyncRunning,
	}
	e.setStatus(driving.SyncStatus{RunID: run.ID, Running: true})
	e.saveRun(ctx, run)
	metrics.SyncInProgress.Set(1)
	logger.Info("sync %s: started (page size %d)", run.ID, e.pageSize)

	processed, total, err := e.walk(ctx, progress)

	run.EndedAt = time.Now().UTC()
	run.Processed = processed
	run.Total = total
	if err != nil {
		run.Status = domain.SyncFailed
		run.Error = err.Error()
		logger.Error("sync %s: %v", run.ID, err)
	} else {
		run.Status = domain.SyncSucceeded
		logger.Info("sync %s: finished, %d records in %s", run.ID, processed, run.Duration())
	}
	// The run record is written even when ctx was cancelled.
	e.saveRun(context.WithoutCancel(ctx), run)

	e.setStatus(driving.SyncStatus{})
	metrics.SyncInProgress.Set(0)
	metrics.SyncRunsTotal.WithLabelValues(string(run.Status)).Inc()
	metrics.SyncRunDuration.Observe(run.Duration().Seconds())

	return err
}

// walk runs the page loop and returns how many records were committed and
// the last total the feed reported.
func (e *SyncEngine) walk(ctx context.Context, progress driving.ProgressFunc) (int, *int, error) {
	offset := 0
	var total *int

	for {
		progress(domain.SyncProgress{Stage: domain.StageFetching, Offset: offset, Processed: offset, Total: total})

		if err := ctx.Err(); err != nil {
			return offset, total, &domain.SyncError{Offset: offset, Err: err}
		}

		logger.Debug("sync: fetching offset=%d size=%d", offset, e.pageSize)
		page, err := e.feed.FetchPage(ctx, offset, e.pageSize)
		if err != nil {
			return offset, total, &domain.SyncError{Offset: offset, Err: err}
		}
		if page.Total != nil {
			total = page.Total
		}

		received := len(page.Records)
		if received == 0 {
			logger.Debug("sync: empty page at offset %d", offset)
			return offset, total, nil
		}

		batch, err := e.normaliseBatch(page.Records)
		if err != nil {
			return offset, total, &domain.SyncError{Offset: offset, Err: err}
		}

		if err := e.records.UpsertBatch(ctx, batch); err != nil {
			return offset, total, &domain.SyncError{Offset: offset, Err: err}
		}
		metrics.SyncPagesTotal.Inc()
		metrics.SyncRecordsTotal.Add(float64(received))

		offset += received
		e.setProgress(offset, total)

		progress(domain.SyncProgress{Stage: domain.StageCommitted, Offset: offset, Processed: offset, Total: total})
		if shouldStop(offset, received, e.pageSize, total) {
			return offset, total, nil
		}
	}
}

// shouldStop decides termination after a committed page. A reported total
// is authoritative; without one a short page marks the end of the feed.
func shouldStop(offset, received, pageSize int, total *int) bool {
	if total != nil {
		return offset >= *total
	}
	return received < pageSize
}

// normaliseBatch maps a whole page. One bad item rejects the page.
func (e *SyncEngine) normaliseBatch(raws []domain.RawRecord) ([]domain.Record, error) {
	batch := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := e.normaliser.Normalise(raw)
		if err != nil {
			var ne *domain.NormalizationError
			if errors.As(err, &ne) {
				return nil, err
			}
			return nil, &domain.NormalizationError{Offset: raw.Offset, Reason: "normaliser failed", Err: err}
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

// Status returns the state of the current run.
func (e *SyncEngine) Status(_ context.Context) (*driving.SyncStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	status := e.status
	return &status, nil
}

// Runs returns recent sync runs, newest first.
func (e *SyncEngine) Runs(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if e.runs == nil {
		return nil, nil
	}
	runs, err := e.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

func (e *SyncEngine) setStatus(s driving.SyncStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = s
}

func (e *SyncEngine) setProgress(offset int, total *int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.Offset = offset
	e.status.Total = total
}

// saveRun records run history. Failures are logged, never returned.
func (e *SyncEngine) saveRun(ctx context.Context, run domain.SyncRun) {
	if e.runs == nil {
		return
	}
	if err := e.runs.Save(ctx, run); err != nil {
		logger.Warn("sync %s: failed to save run: %v", run.ID, err)
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
)

// runTimeLayout is fixed-width so started_at sorts chronologically as text.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z"

// syncRunStore implements driven.SyncRunStore.
type syncRunStore struct {
	store *Store
}

var _ driven.SyncRunStore = (*syncRunStore)(nil)

// syncRunRow is the sync_runs row shape.
type syncRunRow struct {
	ID        string         `db:"id"`
	StartedAt string         `db:"started_at"`
	EndedAt   sql.NullString `db:"ended_at"`
	Status    string         `db:"status"`
	Processed int            `db:"processed"`
	Total     sql.NullInt64  `db:"total"`
	Error     sql.NullString `db:"error"`
}

func (r *syncRunRow) toDomain() domain.SyncRun {
	run := domain.SyncRun{
		ID:        r.ID,
		Status:    domain.SyncRunStatus(r.Status),
		Processed: r.Processed,
		Error:     r.Error.String,
	}
	if t, err := time.Parse(runTimeLayout, r.StartedAt); err == nil {
		run.StartedAt = t
	}
	if r.EndedAt.Valid {
		if t, err := time.Parse(runTimeLayout, r.EndedAt.String); err == nil {
			run.EndedAt = t
		}
	}
	if r.Total.Valid {
		total := int(r.Total.Int64)
		run.Total = &total
	}
	return run
}

// Save stores or updates a run.
func (s *syncRunStore) Save(ctx context.Context, run domain.SyncRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	var endedAt any
	if !run.EndedAt.IsZero() {
		endedAt = run.EndedAt.UTC().Format(runTimeLayout)
	}
	var total any
	if run.Total != nil {
		total = *run.Total
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, started_at, ended_at, status, processed, total, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ended_at = excluded.ended_at,
			status = excluded.status,
			processed = excluded.processed,
			total = excluded.total,
			error = excluded.error
	`, run.ID, run.StartedAt.UTC().Format(runTimeLayout), endedAt, string(run.Status),
		run.Processed, total, nullString(run.Error))
	if err != nil {
		return fmt.Errorf("saving sync run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *syncRunStore) Get(ctx context.Context, id string) (*domain.SyncRun, error) {
	var row syncRunRow
	err := s.store.db.GetContext(ctx, &row, `
		SELECT id, started_at, ended_at, status, processed, total, error
		FROM sync_runs WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting sync run: %w", err)
	}
	run := row.toDomain()
	return &run, nil
}

// List returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (s *syncRunStore) List(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	var rows []syncRunRow
	err := s.store.db.SelectContext(ctx, &rows, `
		SELECT id, started_at, ended_at, status, processed, total, error
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}

	runs := make([]domain.SyncRun, 0, len(rows))
	for i := range rows {
		runs = append(runs, rows[i].toDomain())
	}
	return runs, nil
}

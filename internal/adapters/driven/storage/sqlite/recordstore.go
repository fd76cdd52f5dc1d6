package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
)

// cutoffLayout is the text form SQLite's datetime() produces.
const cutoffLayout = "2006-01-02 15:04:05"

// effectiveScoreExpr is the score used by min/max filters.
const effectiveScoreExpr = "COALESCE(baseScoreV3, baseScoreV2)"

var summaryColumns = []string{
	"id", "publishedDate", "lastModifiedDate", "description", "baseScoreV2", "baseScoreV3",
}

const upsertRecordSQL = `
	INSERT INTO cves (id, publishedDate, lastModifiedDate, description, baseScoreV2, baseScoreV3, raw)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		publishedDate = excluded.publishedDate,
		lastModifiedDate = excluded.lastModifiedDate,
		description = excluded.description,
		baseScoreV2 = excluded.baseScoreV2,
		baseScoreV3 = excluded.baseScoreV3,
		raw = excluded.raw
`

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// UpsertBatch writes every record in one transaction.
func (s *recordStore) UpsertBatch(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: empty batch", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin upsert", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	stmt, err := tx.PreparexContext(ctx, upsertRecordSQL)
	if err != nil {
		return &domain.StoreError{Op: "prepare upsert", Err: err}
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		if r.ID == "" {
			return &domain.StoreError{Op: "upsert", Err: fmt.Errorf("record %d has no id", i)}
		}
		_, err := stmt.ExecContext(ctx,
			r.ID,
			nullableString(r.PublishedDate),
			nullableString(r.LastModifiedDate),
			nullableString(r.Description),
			nullableFloat(r.ScoreV2),
			nullableFloat(r.ScoreV3),
			string(r.Raw),
		)
		if err != nil {
			return &domain.StoreError{Op: "upsert " + r.ID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit upsert", Err: err}
	}
	return nil
}

// Query counts and pages the matching records inside one read transaction,
// so total and results describe the same snapshot.
func (s *recordStore) Query(ctx context.Context, q domain.Query, now time.Time) (*domain.QueryResult, error) {
	opts := q.Options.Normalise()

	countSQL, countArgs := countBuilder(q.Filter, now).Build()
	pageSQL, pageArgs := pageBuilder(q.Filter, opts, now).Build()

	tx, err := s.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &domain.StoreError{Op: "begin query", Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // nothing is written

	result := &domain.QueryResult{
		Page:    opts.Page,
		Limit:   opts.Limit,
		Results: []domain.RecordSummary{},
	}
	if err := tx.GetContext(ctx, &result.Total, countSQL, countArgs...); err != nil {
		return nil, &domain.StoreError{Op: "count", Err: err}
	}
	if err := tx.SelectContext(ctx, &result.Results, pageSQL, pageArgs...); err != nil {
		return nil, &domain.StoreError{Op: "query", Err: err}
	}
	if result.Results == nil {
		result.Results = []domain.RecordSummary{}
	}
	return result, nil
}

// GetRaw returns the stored raw payload verbatim.
func (s *recordStore) GetRaw(ctx context.Context, id string) (json.RawMessage, error) {
	var raw string
	err := s.store.db.GetContext(ctx, &raw, "SELECT raw FROM cves WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "get raw", Err: err}
	}
	return json.RawMessage(raw), nil
}

// Count returns the number of stored records.
func (s *recordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM cves"); err != nil {
		return 0, &domain.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

func countBuilder(f domain.QueryFilter, now time.Time) *sqlbuilder.SelectBuilder {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("COUNT(*)").From("cves")
	applyFilter(sb, f, now)
	return sb
}

func pageBuilder(f domain.QueryFilter, opts domain.QueryOptions, now time.Time) *sqlbuilder.SelectBuilder {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(summaryColumns...).From("cves")
	applyFilter(sb, f, now)

	// SortBy and Order are whitelisted by Normalise.
	dir := string(opts.Order)
	sb.OrderBy(string(opts.SortBy)+" "+dir, "id "+dir)
	sb.Limit(opts.Limit).Offset(opts.Offset())
	return sb
}

// applyFilter adds the AND-combined predicate shared by count and page.
func applyFilter(sb *sqlbuilder.SelectBuilder, f domain.QueryFilter, now time.Time) {
	var where []string
	if f.ID != "" {
		where = append(where, sb.Equal("id", f.ID))
	}
	if f.Year != nil {
		where = append(where, sb.Equal("strftime('%Y', publishedDate)", fmt.Sprintf("%04d", *f.Year)))
	}
	if f.MinScore != nil {
		where = append(where, sb.GreaterEqualThan(effectiveScoreExpr, *f.MinScore))
	}
	if f.MaxScore != nil {
		where = append(where, sb.LessEqualThan(effectiveScoreExpr, *f.MaxScore))
	}
	if cutoff, ok := f.Cutoff(now); ok {
		where = append(where, "datetime(lastModifiedDate) >= datetime("+sb.Var(cutoff.Format(cutoffLayout))+")")
	}
	if len(where) > 0 {
		sb.Where(where...)
	}
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

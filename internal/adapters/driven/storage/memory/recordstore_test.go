package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func testRecord(id, published string) domain.Record {
	return domain.Record{
		ID:               id,
		PublishedDate:    strPtr(published),
		LastModifiedDate: strPtr(published),
		Raw:              json.RawMessage(fmt.Sprintf(`{"cve":{"id":%q}}`, id)),
	}
}

func TestRecordStore_UpsertBatch_Overwrites(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	first := testRecord("CVE-2024-0001", "2024-01-01T00:00:00.000")
	first.ScoreV3 = floatPtr(9.8)
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{first}))

	second := testRecord("CVE-2024-0001", "2024-02-01T00:00:00.000")
	second.Raw = json.RawMessage(`{"cve":{"id":"CVE-2024-0001","v":2}}`)
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{second}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, ok := store.Get("CVE-2024-0001")
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Nil(t, got.ScoreV3)
}

func TestRecordStore_UpsertBatch_Empty(t *testing.T) {
	store := NewRecordStore()

	err := store.UpsertBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordStore_UpsertBatch_InvalidRawRejectsWholeBatch(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	bad := testRecord("CVE-2024-0002", "2024-01-01")
	bad.Raw = json.RawMessage(`{not json`)

	err := store.UpsertBatch(ctx, []domain.Record{testRecord("CVE-2024-0001", "2024-01-01"), bad})
	require.Error(t, err)
	assert.True(t, domain.IsStore(err))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordStore_GetRaw(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{testRecord("CVE-TEST-0001", "2024-01-01")}))

	raw, err := store.GetRaw(ctx, "CVE-TEST-0001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cve":{"id":"CVE-TEST-0001"}}`, string(raw))

	_, err = store.GetRaw(ctx, "CVE-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStore_Query_PagesAreDisjoint(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	batch := make([]domain.Record, 15)
	for i := range batch {
		batch[i] = testRecord(fmt.Sprintf("CVE-2024-%04d", i), fmt.Sprintf("2024-01-%02dT00:00:00", i+1))
	}
	require.NoError(t, store.UpsertBatch(ctx, batch))

	opts := domain.QueryOptions{Page: 1, Limit: 10, SortBy: domain.SortPublishedDate, Order: domain.OrderAsc}
	page1, err := store.Query(ctx, domain.Query{Options: opts}, time.Now())
	require.NoError(t, err)
	opts.Page = 2
	page2, err := store.Query(ctx, domain.Query{Options: opts}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 15, page1.Total)
	assert.Len(t, page1.Results, 10)
	assert.Len(t, page2.Results, 5)

	var all []string
	for _, r := range append(page1.Results, page2.Results...) {
		all = append(all, r.ID)
	}
	for i, id := range all {
		assert.Equal(t, fmt.Sprintf("CVE-2024-%04d", i), id)
	}
}

func TestRecordStore_Query_PageBeyondEnd(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{testRecord("CVE-2024-0001", "2024-01-01")}))

	q := domain.Query{Options: domain.QueryOptions{Page: 5, Limit: 10}}
	result, err := store.Query(ctx, q, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 5, result.Page)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
}

func TestRecordStore_Query_HugePage(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{
		testRecord("CVE-2024-0001", "2024-01-01"),
		testRecord("CVE-2024-0002", "2024-01-02"),
	}))

	q := domain.ParseQuery(domain.QueryParams{Page: "92233720368547760", Limit: "100"})
	result, err := store.Query(ctx, q, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, domain.MaxPage, result.Page)
	assert.Empty(t, result.Results)
}

func TestRecordStore_Query_ScoreFilter(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	rec := testRecord("CVE-2024-0001", "2024-01-01")
	rec.ScoreV3 = floatPtr(6.1)
	rec.ScoreV2 = floatPtr(5.0)
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{rec}))

	run := func(params domain.QueryParams) int {
		result, err := store.Query(ctx, domain.ParseQuery(params), time.Now())
		require.NoError(t, err)
		return result.Total
	}

	assert.Equal(t, 1, run(domain.QueryParams{MinScore: "6", MaxScore: "6.5"}))
	assert.Equal(t, 0, run(domain.QueryParams{MinScore: "6.2"}))
}

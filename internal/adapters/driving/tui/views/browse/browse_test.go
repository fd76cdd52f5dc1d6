package browse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cvemirror/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/services"
)

// newTestView returns a view over n records published on consecutive days,
// showing three per page.
func newTestView(t *testing.T, n int) *View {
	t.Helper()

	store := memory.NewRecordStore()
	records := make([]domain.Record, n)
	for i := range records {
		id := fmt.Sprintf("CVE-2024-%04d", i+1)
		published := fmt.Sprintf("2024-01-%02dT10:00:00.000", i+1)
		records[i] = domain.Record{
			ID:               id,
			PublishedDate:    &published,
			LastModifiedDate: &published,
			Raw:              json.RawMessage(fmt.Sprintf(`{"cve":{"id":%q}}`, id)),
		}
	}
	if n > 0 {
		require.NoError(t, store.UpsertBatch(context.Background(), records))
	}

	v := NewView(nil, services.NewQueryService(store), 3)
	v.SetDimensions(120, 30)
	return v
}

// run executes cmd and feeds its message back into the view.
func run(t *testing.T, v *View, cmd tea.Cmd) *View {
	t.Helper()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func firstID(v *View) string {
	if r := v.Result(); r != nil && len(r.Results) > 0 {
		return r.Results[0].ID
	}
	return ""
}

type failingQueryService struct{}

func (failingQueryService) Query(context.Context, domain.QueryParams) (*domain.QueryResult, error) {
	return nil, errors.New("database is locked")
}

func (failingQueryService) Search(context.Context, domain.Query) (*domain.QueryResult, error) {
	return nil, errors.New("database is locked")
}

func (failingQueryService) GetRaw(context.Context, string) (json.RawMessage, error) {
	return nil, domain.ErrNotFound
}

func TestNewView_Defaults(t *testing.T) {
	v := NewView(nil, nil, 0)

	params := v.Params()
	assert.Equal(t, "1", params.Page)
	assert.Equal(t, "10", params.Limit)
	assert.Equal(t, "publishedDate", params.SortBy)
	assert.Equal(t, "desc", params.Order)
	assert.Empty(t, params.ID)
	assert.Equal(t, 1, v.Pages())
}

func TestNewView_ClampsLimit(t *testing.T) {
	assert.Equal(t, "100", NewView(nil, nil, 500).Params().Limit)
}

func TestView_InitLoadsFirstPage(t *testing.T) {
	v := newTestView(t, 7)

	cmd := v.Init()
	assert.True(t, v.Loading())
	v = run(t, v, cmd)

	require.NoError(t, v.Err())
	assert.False(t, v.Loading())
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 7, v.Result().Total)
	assert.Len(t, v.Result().Results, 3)
	assert.Equal(t, 3, v.Pages())
	assert.Equal(t, "CVE-2024-0007", firstID(v))
	assert.Contains(t, v.View(), "Page 1 of 3")
}

func TestView_Paging(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())

	v, cmd := v.Update(keyRunes("n"))
	assert.Equal(t, 2, v.Page())
	v = run(t, v, cmd)
	assert.Equal(t, "CVE-2024-0004", firstID(v))

	v, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRight})
	v = run(t, v, cmd)
	assert.Equal(t, 3, v.Page())
	assert.Len(t, v.Result().Results, 1)

	v, cmd = v.Update(keyRunes("n"))
	assert.Nil(t, cmd, "no page after the last")
	assert.Equal(t, 3, v.Page())

	v, cmd = v.Update(keyRunes("p"))
	v = run(t, v, cmd)
	assert.Equal(t, 2, v.Page())
}

func TestView_PrevOnFirstPage(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyLeft})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, v.Page())
}

func TestView_PagingIgnoredWhileLoading(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())
	v, _ = v.Update(keyRunes("r"))
	require.True(t, v.Loading())

	_, cmd := v.Update(keyRunes("n"))

	assert.Nil(t, cmd)
}

func TestView_FilterByID(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())
	v, _ = v.Update(keyRunes("n"))

	v, _ = v.Update(keyRunes("/"))
	require.True(t, v.Filtering())
	assert.Contains(t, v.View(), "CVE ID:")

	v, _ = v.Update(keyRunes("CVE-2024-0003"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, v.Filtering())
	assert.Equal(t, "CVE-2024-0003", v.IDFilter())
	assert.Equal(t, 1, v.Page())
	v = run(t, v, cmd)
	assert.Equal(t, 1, v.Result().Total)
	assert.Equal(t, "CVE-2024-0003", firstID(v))
	assert.Contains(t, v.View(), "Filter: CVE-2024-0003")
}

func TestView_FilterCancel(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())

	v, _ = v.Update(keyRunes("/"))
	v, _ = v.Update(keyRunes("CVE-9"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.Filtering())
	assert.Empty(t, v.IDFilter())
}

func TestView_FilterKeysDoNotPage(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())

	v, _ = v.Update(keyRunes("/"))
	v, _ = v.Update(keyRunes("n"))

	assert.True(t, v.Filtering())
	assert.Equal(t, 1, v.Page())
}

func TestView_EscClearsFilter(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())
	v, _ = v.Update(keyRunes("/"))
	v, _ = v.Update(keyRunes("CVE-2024-0003"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = run(t, v, cmd)

	v, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	v = run(t, v, cmd)

	assert.Empty(t, v.IDFilter())
	assert.Equal(t, 7, v.Result().Total)
}

func TestView_EscWithoutFilterIsNoop(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
}

func TestView_SortAndOrder(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())
	v, cmd := v.Update(keyRunes("n"))
	v = run(t, v, cmd)

	v, cmd = v.Update(keyRunes("s"))
	assert.Equal(t, "lastModifiedDate", v.Params().SortBy)
	assert.Equal(t, 1, v.Page())
	v = run(t, v, cmd)

	v, cmd = v.Update(keyRunes("o"))
	assert.Equal(t, "asc", v.Params().Order)
	v = run(t, v, cmd)
	assert.Equal(t, "CVE-2024-0001", firstID(v))
	assert.Contains(t, v.View(), "lastModifiedDate asc")

	v, _ = v.Update(keyRunes("s"))
	assert.Equal(t, "publishedDate", v.Params().SortBy)
	v, _ = v.Update(keyRunes("o"))
	assert.Equal(t, "desc", v.Params().Order)
}

func TestView_SelectRecord(t *testing.T) {
	v := newTestView(t, 7)
	v = run(t, v, v.Init())
	v, _ = v.Update(keyRunes("j"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.RecordSelected{ID: "CVE-2024-0006"}, cmd())
}

func TestView_SelectOnEmptyList(t *testing.T) {
	v := newTestView(t, 0)
	v = run(t, v, v.Init())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "No CVEs match")
	assert.Equal(t, 1, v.Pages())
}

func TestView_Quit(t *testing.T) {
	v := newTestView(t, 1)

	_, cmd := v.Update(keyRunes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_QueryError(t *testing.T) {
	v := NewView(nil, failingQueryService{}, 10)
	v.SetDimensions(120, 30)

	v = run(t, v, v.Init())

	assert.EqualError(t, v.Err(), "database is locked")
	assert.Contains(t, v.View(), "Error: database is locked")
}

func TestView_NoQueryService(t *testing.T) {
	v := NewView(nil, nil, 10)

	v = run(t, v, v.Init())

	assert.ErrorIs(t, v.Err(), errNoQueryService)
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, 10)

	v, cmd := v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Nil(t, cmd)
	assert.Equal(t, 100, v.width)
	assert.Equal(t, 40, v.height)
}

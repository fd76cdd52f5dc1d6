package tui

import (
	"context"
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cvemirror/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/services"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	store := memory.NewRecordStore()
	published := "2024-03-29T17:15:21.150"
	require.NoError(t, store.UpsertBatch(context.Background(), []domain.Record{
		{ID: "CVE-2024-3094", PublishedDate: &published, Raw: json.RawMessage(`{"cve":{"id":"CVE-2024-3094"}}`)},
	}))

	app, err := NewApp(&Ports{Query: services.NewQueryService(store)}, 10)
	require.NoError(t, err)
	return app
}

// step feeds msg to the app and returns the command it produced.
func step(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := app.Update(msg)
	return cmd
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
	assert.False(t, app.Ready())
	assert.NotNil(t, app.Init())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	for name, ports := range map[string]*Ports{
		"nil ports": nil,
		"nil query": {},
	} {
		t.Run(name, func(t *testing.T) {
			app, err := NewApp(ports, 10)

			assert.ErrorIs(t, err, ErrMissingQueryService)
			assert.Nil(t, app)
		})
	}
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t)

	cmd := step(t, app, tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "CVE Mirror")
}

func TestApp_BrowseToRecordAndBack(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 30)

	step(t, app, app.browseView.Init()())
	require.NoError(t, app.Err())
	assert.Contains(t, app.View(), "CVE-2024-3094")

	selected := step(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, selected)

	loaded := step(t, app, selected())
	assert.Equal(t, messages.ViewRecord, app.CurrentView())
	require.NotNil(t, loaded)

	step(t, app, loaded())
	require.NoError(t, app.Err())
	assert.Contains(t, app.View(), "\"id\": \"CVE-2024-3094\"")

	back := step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, back)
	step(t, app, back())
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_RecordNotFound(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 30)

	loaded := step(t, app, messages.RecordSelected{ID: "CVE-0000-0000"})
	step(t, app, loaded())

	assert.EqualError(t, app.Err(), "CVE CVE-0000-0000 not found")
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 30)

	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "next page")

	step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_HelpKeyWhileFiltering(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 30)

	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})

	assert.Equal(t, messages.ViewBrowse, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"quit message", messages.Quit{}},
		{"q in browse", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			cmd := step(t, app, tt.msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestApp_QueryErrorRecorded(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(120, 30)

	step(t, app, messages.QueryCompleted{Err: assert.AnError})

	assert.ErrorIs(t, app.Err(), assert.AnError)
	assert.Contains(t, app.View(), "Error:")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	step(t, app, messages.ErrorOccurred{Err: assert.AnError})

	assert.ErrorIs(t, app.Err(), assert.AnError)
}

// Package browse provides the paginated CVE list view for the TUI.
package browse

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
)

// errNoQueryService is reported when the view has nothing to query.
var errNoQueryService = errors.New("query service not available")

// View lists one page of CVEs and drives paging, sorting and filtering.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	query  driving.QueryService
	ctx    context.Context

	list   *list.CVEList
	filter *input.FilterInput
	bar    *status.Bar

	idFilter string
	page     int
	limit    int
	sortBy   domain.SortField
	order    domain.SortOrder

	result    *domain.QueryResult
	filtering bool
	loading   bool
	err       error
	width     int
	height    int
}

// NewView creates a browse view showing limit records per page.
func NewView(s *styles.Styles, query driving.QueryService, limit int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	v := &View{
		styles: s,
		keymap: km,
		query:  query,
		ctx:    context.Background(),
		list:   list.NewCVEList(s),
		filter: input.NewFilterInput(s),
		bar:    status.NewBar(s, km),
		page:   1,
		limit:  domain.QueryOptions{Limit: limit}.Normalise().Limit,
		sortBy: domain.SortPublishedDate,
		order:  domain.OrderDesc,
	}
	v.bar.SetSort(v.sortLabel())
	return v
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the first page.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// Params returns the query parameters for the current state.
func (v *View) Params() domain.QueryParams {
	return domain.QueryParams{
		ID:     v.idFilter,
		Page:   strconv.Itoa(v.page),
		Limit:  strconv.Itoa(v.limit),
		SortBy: string(v.sortBy),
		Order:  strings.ToLower(string(v.order)),
	}
}

// load returns a command that fetches the current page.
func (v *View) load() tea.Cmd {
	v.loading = true
	v.bar.SetState(status.StateLoading)

	params := v.Params()
	query := v.query
	ctx := v.ctx
	return func() tea.Msg {
		if query == nil {
			return messages.QueryCompleted{Params: params, Err: errNoQueryService}
		}
		result, err := query.Query(ctx, params)
		return messages.QueryCompleted{Params: params, Result: result, Err: err}
	}
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilterKey(msg)
		}
		return v.handleKeyMsg(msg)
	}

	if v.filtering {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.result = msg.Result
	v.page = msg.Result.Page
	v.list.SetRecords(msg.Result.Results)
	v.bar.SetPage(v.page, v.Pages(), msg.Result.Total)
	v.bar.SetMessage("")
	if v.filtering {
		v.bar.SetState(status.StateFiltering)
	} else {
		v.bar.SetState(status.StateReady)
	}
}

// handleFilterKey handles keys while the ID filter is being edited.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only enter and esc leave the input
	switch msg.Type {
	case tea.KeyEnter:
		v.stopFiltering()
		v.idFilter = v.filter.Value()
		v.page = 1
		return v, v.load()
	case tea.KeyEsc:
		v.stopFiltering()
		v.filter.SetValue(v.idFilter)
		return v, nil
	default:
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}
}

func (v *View) stopFiltering() {
	v.filtering = false
	v.filter.Blur()
	v.bar.SetState(status.StateReady)
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case k == "q":
		return v, tea.Quit
	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(k, v.keymap.Select):
		if r := v.list.SelectedRecord(); r != nil {
			id := r.ID
			return v, func() tea.Msg { return messages.RecordSelected{ID: id} }
		}
	case keymap.Matches(k, v.keymap.NextPage):
		if !v.loading && v.page < v.Pages() {
			v.page++
			return v, v.load()
		}
	case keymap.Matches(k, v.keymap.PrevPage):
		if !v.loading && v.page > 1 {
			v.page--
			return v, v.load()
		}
	case keymap.Matches(k, v.keymap.Filter):
		v.filtering = true
		v.bar.SetState(status.StateFiltering)
		return v, v.filter.Focus()
	case keymap.Matches(k, v.keymap.Sort):
		if v.sortBy == domain.SortPublishedDate {
			v.sortBy = domain.SortLastModifiedDate
		} else {
			v.sortBy = domain.SortPublishedDate
		}
		v.page = 1
		v.bar.SetSort(v.sortLabel())
		return v, v.load()
	case keymap.Matches(k, v.keymap.Order):
		if v.order == domain.OrderDesc {
			v.order = domain.OrderAsc
		} else {
			v.order = domain.OrderDesc
		}
		v.page = 1
		v.bar.SetSort(v.sortLabel())
		return v, v.load()
	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.load()
	case keymap.Matches(k, v.keymap.Back):
		if v.idFilter != "" {
			v.idFilter = ""
			v.filter.Reset()
			v.page = 1
			return v, v.load()
		}
	}
	return v, nil
}

// Pages returns the number of pages for the last result, at least one.
func (v *View) Pages() int {
	if v.result == nil || v.result.Total == 0 {
		return 1
	}
	return (v.result.Total + v.limit - 1) / v.limit
}

func (v *View) sortLabel() string {
	return string(v.sortBy) + " " + strings.ToLower(string(v.order))
}

// View renders the browse view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("CVE Mirror"))
	b.WriteString("\n\n")

	if v.filtering {
		b.WriteString(v.filter.View())
	} else {
		filter := "(none)"
		if v.idFilter != "" {
			filter = v.idFilter
		}
		b.WriteString(v.styles.Muted.Render("Filter: " + filter))
	}
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.result == nil && v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// Title, filter line, spacing and status bar
	v.list.SetDimensions(width, height-8)
	v.filter.SetWidth(width)
	v.bar.SetWidth(width)
}

// Page returns the current page number.
func (v *View) Page() int {
	return v.page
}

// IDFilter returns the applied ID filter.
func (v *View) IDFilter() string {
	return v.idFilter
}

// Filtering reports whether the ID filter is being edited.
func (v *View) Filtering() bool {
	return v.filtering
}

// Loading reports whether a query is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Result returns the last query result.
func (v *View) Result() *domain.QueryResult {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

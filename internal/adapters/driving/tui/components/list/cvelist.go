// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/cvemirror/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// Column widths.
const (
	idWidth    = 18
	dateWidth  = 10
	scoreWidth = 5
)

// CVEList displays one page of CVE summaries in a navigable list.
type CVEList struct {
	records  []domain.RecordSummary
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCVEList creates a new CVE list component.
func NewCVEList(s *styles.Styles) *CVEList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CVEList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *CVEList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *CVEList) Update(msg tea.Msg) (*CVEList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *CVEList) View() string {
	if len(l.records) == 0 {
		return l.styles.Muted.Render("No CVEs match the current filter")
	}

	lines := make([]string, 0, len(l.records)+1)
	lines = append(lines, l.styles.Header.Render(fmt.Sprintf("  %-*s  %-*s  %*s  %s",
		idWidth, "ID", dateWidth, "PUBLISHED", scoreWidth, "SCORE", "DESCRIPTION")))

	start, end := l.visibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, &l.records[i]))
	}

	return strings.Join(lines, "\n")
}

// visibleRange returns the window of rows that fits the height and keeps
// the selection in view.
func (l *CVEList) visibleRange() (int, int) {
	visible := l.height - 1
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.records) {
		end = len(l.records)
	}
	return start, end
}

func (l *CVEList) renderRow(index int, r *domain.RecordSummary) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	score := r.EffectiveScore()
	scoreText := "-"
	if score != nil {
		scoreText = strconv.FormatFloat(*score, 'f', 1, 64)
	}

	descWidth := l.width - idWidth - dateWidth - scoreWidth - 10
	if descWidth < 10 {
		descWidth = 10
	}
	desc := ""
	if r.Description != nil {
		desc = truncate(*r.Description, descWidth)
	}

	left := fmt.Sprintf("%s%-*s  %-*s  ", indicator, idWidth, r.ID, dateWidth, datePart(r.PublishedDate))
	scoreCell := fmt.Sprintf("%*s", scoreWidth, scoreText)

	if index == l.selected {
		return l.styles.Selected.Render(left + scoreCell + "  " + desc)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		l.styles.Normal.Render(left),
		l.styles.Severity(score).Render(scoreCell),
		l.styles.Muted.Render("  "+desc),
	)
}

// SetRecords replaces the list contents and resets the selection.
func (l *CVEList) SetRecords(records []domain.RecordSummary) {
	l.records = records
	l.selected = 0
}

// Records returns the current records.
func (l *CVEList) Records() []domain.RecordSummary {
	return l.records
}

// Selected returns the index of the selected record.
func (l *CVEList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *CVEList) SetSelected(index int) {
	if index >= 0 && index < len(l.records) {
		l.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (l *CVEList) SelectedRecord() *domain.RecordSummary {
	if l.selected < 0 || l.selected >= len(l.records) {
		return nil
	}
	return &l.records[l.selected]
}

// MoveUp moves selection up.
func (l *CVEList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *CVEList) MoveDown() {
	if l.selected < len(l.records)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *CVEList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of records.
func (l *CVEList) Count() int {
	return len(l.records)
}

func datePart(s *string) string {
	if s == nil {
		return "-"
	}
	if i := strings.IndexByte(*s, 'T'); i > 0 {
		return (*s)[:i]
	}
	return *s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"encoding/json"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowse is the paginated CVE list.
	ViewBrowse ViewType = iota
	// ViewRecord shows the raw feed item for one CVE.
	ViewRecord
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewRecord:
		return "record"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// QueryCompleted carries one page of query results back to the model.
type QueryCompleted struct {
	Params domain.QueryParams
	Result *domain.QueryResult
	Err    error
}

// RecordSelected is sent when a CVE is chosen from the list.
type RecordSelected struct {
	ID string
}

// RecordLoaded carries a record's raw payload.
type RecordLoaded struct {
	ID  string
	Raw json.RawMessage
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

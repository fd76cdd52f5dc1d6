package domain

import "time"

// SyncStage identifies when a progress notification was emitted.
type SyncStage int

const (
	// StageFetching is reported before a page is requested.
	StageFetching SyncStage = iota

	// StageCommitted is reported after a page has been written.
	StageCommitted
)

// String returns the stage name.
func (s SyncStage) String() string {
	switch s {
	case StageFetching:
		return "fetching"
	case StageCommitted:
		return "committed"
	default:
		return unknownDescription
	}
}

// SyncProgress is a progress notification from a running sync.
type SyncProgress struct {
	Stage SyncStage

	// Offset is the feed position of the next page to fetch.
	Offset int

	// Processed is the number of records committed so far.
	Processed int

	// Total is the feed's reported total, nil when not reported.
	Total *int
}

// SyncRunStatus is the lifecycle state of a sync run.
type SyncRunStatus string

// Sync run states.
const (
	SyncRunning   SyncRunStatus = "running"
	SyncSucceeded SyncRunStatus = "succeeded"
	SyncFailed    SyncRunStatus = "failed"
)

// SyncRun is the persisted record of one full sync pass.
type SyncRun struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt,omitempty"`
	Status    SyncRunStatus `json:"status"`
	Processed int           `json:"processed"`
	Total     *int          `json:"total,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Duration returns how long the run took, or zero while it is running.
func (r *SyncRun) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

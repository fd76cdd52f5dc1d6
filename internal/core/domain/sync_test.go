package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncStage_String(t *testing.T) {
	assert.Equal(t, "fetching", StageFetching.String())
	assert.Equal(t, "committed", StageCommitted.String())
	assert.Equal(t, "Unknown", SyncStage(99).String())
}

func TestSyncRun_Duration(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	run := SyncRun{StartedAt: start, Status: SyncRunning}
	assert.Zero(t, run.Duration())

	run.EndedAt = start.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, run.Duration())
}

package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
)

func TestStatusCmd_Idle(t *testing.T) {
	started := time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)
	sync := &stubSyncService{runs: []domain.SyncRun{
		{ID: "run-2", StartedAt: started, EndedAt: started.Add(90 * time.Second), Status: domain.SyncSucceeded, Processed: 4517},
		{ID: "run-1", StartedAt: started.Add(-6 * time.Hour), Status: domain.SyncFailed, Processed: 2000, Error: "connection reset"},
	}}
	withServices(t, sync, queryFixture()...)
	resetFlags(t, statusCmd)

	out, err := executeCommand(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "Sync: idle")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "4517 records in 1m30s")
	assert.Contains(t, out, "error: connection reset")
}

func TestStatusCmd_Running(t *testing.T) {
	withServices(t, &stubSyncService{status: driving.SyncStatus{Running: true, Offset: 6000}})
	resetFlags(t, statusCmd)

	out, err := executeCommand(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Sync: running (offset 6000)")
	assert.Contains(t, out, "No sync runs recorded.")
}

func TestStatusCmd_Limit(t *testing.T) {
	sync := &stubSyncService{runs: []domain.SyncRun{
		{ID: "run-2", Status: domain.SyncSucceeded, Processed: 2},
		{ID: "run-1", Status: domain.SyncSucceeded, Processed: 1},
	}}
	withServices(t, sync)
	resetFlags(t, statusCmd)

	out, err := executeCommand(t, "status", "--limit", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "2 records")
	assert.NotContains(t, out, "1 records")
}

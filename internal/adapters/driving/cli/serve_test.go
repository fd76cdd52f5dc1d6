package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/cvemirror/internal/adapters/driving/mcp"
)

// withoutServices clears every service for one test.
func withoutServices(t *testing.T) {
	t.Helper()
	oldSync, oldQuery, oldSettings, oldScheduler, oldBuilder := syncService, queryService, settingsService, schedulerService, builder
	syncService, queryService, settingsService, schedulerService, builder = nil, nil, nil, nil, nil
	t.Cleanup(func() {
		syncService, queryService, settingsService, schedulerService, builder = oldSync, oldQuery, oldSettings, oldScheduler, oldBuilder
	})
}

func TestServeCmd_Flags(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
	assert.NotNil(t, serveCmd.Flags().Lookup("no-scheduler"))
}

func TestBrowseCmd_Flags(t *testing.T) {
	f := browseCmd.Flags().Lookup("limit")

	if assert.NotNil(t, f) {
		assert.Equal(t, "10", f.DefValue)
		assert.Equal(t, "n", f.Shorthand)
	}
}

func TestMCPServeCmd_Flags(t *testing.T) {
	f := mcpServeCmd.Flags().Lookup("port")

	if assert.NotNil(t, f) {
		assert.Equal(t, "0", f.DefValue)
	}
}

func TestCommands_RequireQueryService(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"serve"}, "query service not configured"},
		{[]string{"browse"}, "query service not configured"},
		{[]string{"query"}, "query service not configured"},
		{[]string{"show", "CVE-2024-3094"}, "query service not configured"},
		{[]string{"sync"}, "sync service not configured"},
		{[]string{"status"}, "sync service not configured"},
		{[]string{"settings"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			withoutServices(t)

			_, err := executeCommand(t, tt.args...)

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestMCPServeCmd_RequiresQueryService(t *testing.T) {
	withoutServices(t)

	_, err := executeCommand(t, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingQueryService)
}

func TestMCPServeCmd_InvalidPort(t *testing.T) {
	withServices(t, &stubSyncService{})
	resetFlags(t, mcpServeCmd)

	_, err := executeCommand(t, "mcp", "serve", "--port=-1")

	assert.ErrorContains(t, err, "invalid port -1")
}

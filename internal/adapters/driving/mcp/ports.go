package mcp

import (
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query reads the mirror.
	Query driving.QueryService

	// Sync reports sync runs. Optional; the sync_status tool is only
	// registered when it is set.
	Sync driving.SyncService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}

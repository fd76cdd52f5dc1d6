// Package mcp provides an MCP (Model Context Protocol) server adapter for cvemirror.
// It lets AI assistants query the local CVE mirror and read raw feed items.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

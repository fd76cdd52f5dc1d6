package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// uriScheme is the URI scheme for CVE resources.
const uriScheme = "cve://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{id}",
		Name:        "cve",
		Description: "The raw NVD record for a CVE",
		MIMEType:    "application/json",
	}, s.handleCVEResource)
}

// handleCVEResource returns the raw feed item named by a cve:// URI.
func (s *Server) handleCVEResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractCVEID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	raw, err := s.ports.Query.GetRaw(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(raw),
		}},
	}, nil
}

// extractCVEID extracts the id from cve://{id}.
func extractCVEID(uri string) string {
	id, ok := strings.CutPrefix(uri, uriScheme)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return strings.TrimSpace(id)
}

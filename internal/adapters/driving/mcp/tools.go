package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

// defaultRunsLimit is the number of runs sync_status reports.
const defaultRunsLimit = 5

// QueryInput is the input schema for the query_cves tool.
type QueryInput struct {
	ID               string   `json:"id,omitempty" jsonschema:"exact CVE identifier, e.g. CVE-2024-3094"`
	Year             *int     `json:"year,omitempty" jsonschema:"publication year"`
	MinScore         *float64 `json:"minScore,omitempty" jsonschema:"minimum CVSS base score (v3, falling back to v2)"`
	MaxScore         *float64 `json:"maxScore,omitempty" jsonschema:"maximum CVSS base score (v3, falling back to v2)"`
	LastModifiedDays *int     `json:"lastModifiedDays,omitempty" jsonschema:"only CVEs modified within this many days"`
	Page             int      `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	Limit            int      `json:"limit,omitempty" jsonschema:"results per page, 1 to 100 (default 10)"`
	SortBy           string   `json:"sortBy,omitempty" jsonschema:"publishedDate or lastModifiedDate"`
	Order            string   `json:"order,omitempty" jsonschema:"asc or desc (default desc)"`
}

// params converts the typed input into raw query parameters so the tool
// shares validation with the HTTP API.
func (in QueryInput) params() domain.QueryParams {
	p := domain.QueryParams{
		ID:     in.ID,
		SortBy: in.SortBy,
		Order:  in.Order,
	}
	if in.Year != nil {
		p.Year = strconv.Itoa(*in.Year)
	}
	if in.MinScore != nil {
		p.MinScore = strconv.FormatFloat(*in.MinScore, 'f', -1, 64)
	}
	if in.MaxScore != nil {
		p.MaxScore = strconv.FormatFloat(*in.MaxScore, 'f', -1, 64)
	}
	if in.LastModifiedDays != nil {
		p.LastModifiedDays = strconv.Itoa(*in.LastModifiedDays)
	}
	if in.Page != 0 {
		p.Page = strconv.Itoa(in.Page)
	}
	if in.Limit != 0 {
		p.Limit = strconv.Itoa(in.Limit)
	}
	return p
}

// QueryOutput is the output schema for the query_cves tool.
type QueryOutput struct {
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
	Results []CVESummary `json:"results"`
}

// CVESummary is one query_cves result row.
type CVESummary struct {
	ID               string   `json:"id"`
	PublishedDate    string   `json:"publishedDate,omitempty"`
	LastModifiedDate string   `json:"lastModifiedDate,omitempty"`
	Description      string   `json:"description,omitempty"`
	BaseScoreV2      *float64 `json:"baseScoreV2,omitempty"`
	BaseScoreV3      *float64 `json:"baseScoreV3,omitempty"`
}

// GetInput is the input schema for the get_cve tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"the CVE identifier"`
}

// SyncStatusOutput is the output schema for the sync_status tool.
type SyncStatusOutput struct {
	Running bool             `json:"running"`
	Offset  int              `json:"offset"`
	Runs    []domain.SyncRun `json:"runs"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "query_cves",
		Description: "Search the local CVE mirror by id, year, score range and modification age",
	}, s.handleQuery)

	addTool(s, &mcp.Tool{
		Name:        "get_cve",
		Description: "Return the complete NVD record for one CVE as JSON",
	}, s.handleGet)

	if s.ports.Sync != nil {
		addTool(s, &mcp.Tool{
			Name:        "sync_status",
			Description: "Report whether a feed sync is running and list recent runs",
		}, s.handleSyncStatus)
	}
}

// addTool registers a typed tool and records its name.
func addTool[In, Out any](s *Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(s.server, tool, handler)
	s.tools = append(s.tools, tool.Name)
}

// handleQuery handles the query_cves tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	result, err := s.ports.Query.Query(ctx, input.params())
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Total:   result.Total,
		Page:    result.Page,
		Limit:   result.Limit,
		Results: make([]CVESummary, len(result.Results)),
	}
	for i := range result.Results {
		r := &result.Results[i]
		output.Results[i] = CVESummary{
			ID:               r.ID,
			PublishedDate:    deref(r.PublishedDate),
			LastModifiedDate: deref(r.LastModifiedDate),
			Description:      deref(r.Description),
			BaseScoreV2:      r.BaseScoreV2,
			BaseScoreV3:      r.BaseScoreV3,
		}
	}

	return nil, output, nil
}

// handleGet handles the get_cve tool invocation. The raw item is returned
// as text so it reaches the client byte-for-byte.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, any, error) {
	raw, err := s.ports.Query.GetRaw(ctx, input.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("CVE %s not found", input.ID)
	}
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

// handleSyncStatus handles the sync_status tool invocation.
func (s *Server) handleSyncStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, SyncStatusOutput, error) {
	status, err := s.ports.Sync.Status(ctx)
	if err != nil {
		return nil, SyncStatusOutput{}, err
	}
	runs, err := s.ports.Sync.Runs(ctx, defaultRunsLimit)
	if err != nil {
		return nil, SyncStatusOutput{}, err
	}
	if runs == nil {
		runs = []domain.SyncRun{}
	}

	return nil, SyncStatusOutput{
		Running: status.Running,
		Offset:  status.Offset,
		Runs:    runs,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

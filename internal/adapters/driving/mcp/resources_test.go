package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCVEID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid URI", "cve://CVE-2024-0001", "CVE-2024-0001"},
		{"invalid scheme", "file://CVE-2024-0001", ""},
		{"nested path", "cve://CVE-2024-0001/extra", ""},
		{"empty id", "cve://", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCVEID(tt.uri))
		})
	}
}

func TestServer_handleCVEResource(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(&Ports{Query: &mockQueryService{raw: map[string]json.RawMessage{
		"CVE-2024-0001": json.RawMessage(`{"cve":{"id":"CVE-2024-0001"}}`),
	}}})
	require.NoError(t, err)

	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return server.handleCVEResource(ctx, &mcp.ReadResourceRequest{
			Params: &mcp.ReadResourceParams{URI: uri},
		})
	}

	t.Run("returns raw item", func(t *testing.T) {
		result, err := read("cve://CVE-2024-0001")

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Equal(t, `{"cve":{"id":"CVE-2024-0001"}}`, result.Contents[0].Text)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := read("cve://CVE-0000-0000")
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := read("cve://a/b")
		assert.Error(t, err)
	})
}

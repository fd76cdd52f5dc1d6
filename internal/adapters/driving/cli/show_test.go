package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

func TestShowCmd_Indented(t *testing.T) {
	withServices(t, nil, domain.Record{ID: "CVE-TEST-0001", Raw: json.RawMessage(`{"cve":{"id":"CVE-TEST-0001"}}`)})
	resetFlags(t, showCmd)

	out, err := executeCommand(t, "show", "CVE-TEST-0001")

	require.NoError(t, err)
	assert.Contains(t, out, "{\n  \"cve\": {\n    \"id\": \"CVE-TEST-0001\"\n  }\n}")
}

func TestShowCmd_Raw(t *testing.T) {
	withServices(t, nil, domain.Record{ID: "CVE-TEST-0001", Raw: json.RawMessage(`{"cve":{"id":"CVE-TEST-0001"}}`)})
	resetFlags(t, showCmd)

	out, err := executeCommand(t, "show", "--raw", "CVE-TEST-0001")

	require.NoError(t, err)
	assert.Equal(t, "{\"cve\":{\"id\":\"CVE-TEST-0001\"}}\n", out)
}

func TestShowCmd_NotFound(t *testing.T) {
	withServices(t, nil)
	resetFlags(t, showCmd)

	_, err := executeCommand(t, "show", "CVE-0000-0000")

	assert.EqualError(t, err, "CVE not found: CVE-0000-0000")
}

func TestShowCmd_RequiresID(t *testing.T) {
	withServices(t, nil)

	_, err := executeCommand(t, "show")

	assert.Error(t, err)
}

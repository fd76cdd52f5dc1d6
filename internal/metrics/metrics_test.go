package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GathersCollectors(t *testing.T) {
	SyncRunsTotal.WithLabelValues("succeeded").Inc()
	FeedRequestsTotal.WithLabelValues("200").Inc()

	families, err := Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["cvemirror_sync_runs_total"])
	assert.True(t, names["cvemirror_feed_requests_total"])
	assert.True(t, names["go_goroutines"])
}

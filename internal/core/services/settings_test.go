package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cvemirror/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cvemirror/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Feed, settings.Feed)
	assert.Equal(t, defaults.Server, settings.Server)
	assert.Empty(t, settings.Storage.DataDir)
	assert.True(t, settings.Scheduler.Enabled)
	assert.Equal(t, domain.DefaultSyncInterval, settings.Scheduler.GetTaskConfig(domain.TaskIDCVESync).Interval)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyFeedBaseURL:      "http://localhost:9000/cves",
		KeyFeedAPIKey:       "secret",
		KeyFeedPageSize:     int64(500),
		KeyFeedTimeout:      "30s",
		KeyStorageDataDir:   "/var/lib/cvemirror",
		KeyServerAddr:       ":8080",
		KeySchedulerEnabled: false,
		KeySyncInterval:     "1h",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/cves", settings.Feed.BaseURL)
	assert.Equal(t, "secret", settings.Feed.APIKey)
	assert.Equal(t, 500, settings.Feed.PageSize)
	assert.Equal(t, 30*time.Second, settings.Feed.Timeout)
	assert.Equal(t, "/var/lib/cvemirror", settings.Storage.DataDir)
	assert.Equal(t, ":8080", settings.Server.Addr)
	assert.False(t, settings.Scheduler.Enabled)
	assert.Equal(t, time.Hour, settings.Scheduler.GetTaskConfig(domain.TaskIDCVESync).Interval)
}

func TestSettingsService_Get_EnvStyleStrings(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyFeedPageSize:     "100",
		KeySchedulerEnabled: "true",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 100, settings.Feed.PageSize)
	assert.True(t, settings.Scheduler.Enabled)
}

func TestSettingsService_Get_InvalidDurationFallsBack(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyFeedTimeout:  "soon",
		KeySyncInterval: "-1h",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFeedTimeout, settings.Feed.Timeout)
	assert.Equal(t, domain.DefaultSyncInterval, settings.Scheduler.GetTaskConfig(domain.TaskIDCVESync).Interval)
}

func TestSettingsService_Get_InvalidFeedSettings(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyFeedPageSize: 5000})
	service := NewSettingsService(store)

	_, err := service.Get()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultSettings()
	settings.Feed.PageSize = 250
	settings.Feed.Timeout = 45 * time.Second
	settings.Server.Addr = ":9090"
	settings.Scheduler.TaskConfigs[domain.TaskIDCVESync] = domain.TaskConfig{Enabled: true, Interval: 3 * time.Hour}

	require.NoError(t, service.Save(&settings))

	_, hasKey := store.Get(KeyFeedAPIKey)
	assert.False(t, hasKey, "empty API key is not written")

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 250, got.Feed.PageSize)
	assert.Equal(t, 45*time.Second, got.Feed.Timeout)
	assert.Equal(t, ":9090", got.Server.Addr)
	assert.Equal(t, 3*time.Hour, got.Scheduler.GetTaskConfig(domain.TaskIDCVESync).Interval)
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultSettings()
	settings.Feed.BaseURL = "not a url"

	err := service.Save(&settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

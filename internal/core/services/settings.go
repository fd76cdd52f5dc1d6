package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
	"github.com/custodia-labs/cvemirror/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyFeedBaseURL      = "feed.base_url"
	KeyFeedAPIKey       = "feed.api_key"
	KeyFeedPageSize     = "feed.page_size"
	KeyFeedTimeout      = "feed.timeout"
	KeyStorageDataDir   = "storage.data_dir"
	KeyServerAddr       = "server.addr"
	KeySchedulerEnabled = "scheduler.enabled"
	KeySyncInterval     = "scheduler.sync_interval"
)

// SettingsService resolves runtime settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns stored values over the built-in defaults.
// Unparsable values are ignored with a warning.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Feed: domain.FeedSettings{
			BaseURL:  s.getString(KeyFeedBaseURL, defaults.Feed.BaseURL),
			APIKey:   s.configStore.GetString(KeyFeedAPIKey),
			PageSize: s.getInt(KeyFeedPageSize, defaults.Feed.PageSize),
			Timeout:  s.getDuration(KeyFeedTimeout, defaults.Feed.Timeout),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(KeyServerAddr, defaults.Server.Addr),
		},
		Scheduler: defaults.Scheduler,
	}

	settings.Scheduler.Enabled = s.getBool(KeySchedulerEnabled, defaults.Scheduler.Enabled)
	syncTask := defaults.Scheduler.GetTaskConfig(domain.TaskIDCVESync)
	syncTask.Interval = s.getDuration(KeySyncInterval, syncTask.Interval)
	settings.Scheduler.TaskConfigs = map[string]domain.TaskConfig{
		domain.TaskIDCVESync: syncTask,
	}

	if err := settings.Feed.Validate(); err != nil {
		return nil, fmt.Errorf("feed settings: %w", err)
	}
	return settings, nil
}

// Save persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Feed.Validate(); err != nil {
		return fmt.Errorf("feed settings: %w", err)
	}

	type setting struct {
		key   string
		value any
	}
	values := []setting{
		{KeyFeedBaseURL, settings.Feed.BaseURL},
		{KeyFeedPageSize, settings.Feed.PageSize},
		{KeyFeedTimeout, settings.Feed.Timeout.String()},
		{KeyStorageDataDir, settings.Storage.DataDir},
		{KeyServerAddr, settings.Server.Addr},
		{KeySchedulerEnabled, settings.Scheduler.Enabled},
		{KeySyncInterval, settings.Scheduler.GetTaskConfig(domain.TaskIDCVESync).Interval.String()},
	}
	// An empty API key is not written.
	if settings.Feed.APIKey != "" {
		values = append(values, setting{KeyFeedAPIKey, settings.Feed.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration reads a Go duration string such as "90s" or "6h".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		logger.Warn("settings: ignoring %s=%q: not a positive duration", key, val)
		return defaultVal
	}
	return d
}

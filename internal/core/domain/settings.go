package domain

import (
	"fmt"
	"net/url"
	"time"
)

const unknownDescription = "Unknown"

// Feed defaults for the NVD CVE API 2.0.
const (
	DefaultFeedBaseURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	DefaultFeedTimeout = 120 * time.Second
	DefaultServerAddr  = ":3000"

	// MaxFeedPageSize is the largest resultsPerPage the feed accepts.
	MaxFeedPageSize = 2000
)

// Settings is the complete runtime configuration.
type Settings struct {
	Feed      FeedSettings
	Storage   StorageSettings
	Server    ServerSettings
	Scheduler SchedulerConfig
}

// FeedSettings configures the feed client.
type FeedSettings struct {
	// BaseURL is the feed endpoint.
	BaseURL string

	// APIKey is sent in the apiKey header when set.
	APIKey string

	// PageSize is the resultsPerPage requested per fetch.
	PageSize int

	// Timeout bounds each request.
	Timeout time.Duration
}

// StorageSettings configures the local store.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.cvemirror/data.
	DataDir string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Feed: FeedSettings{
			BaseURL:  DefaultFeedBaseURL,
			PageSize: MaxFeedPageSize,
			Timeout:  DefaultFeedTimeout,
		},
		Server:    ServerSettings{Addr: DefaultServerAddr},
		Scheduler: DefaultSchedulerConfig(),
	}
}

// Validate checks the feed settings.
func (f FeedSettings) Validate() error {
	u, err := url.Parse(f.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: feed base URL %q", ErrInvalidInput, f.BaseURL)
	}
	if f.PageSize < 1 || f.PageSize > MaxFeedPageSize {
		return fmt.Errorf("%w: page size %d outside [1, %d]", ErrInvalidInput, f.PageSize, MaxFeedPageSize)
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("%w: feed timeout must be positive", ErrInvalidInput)
	}
	return nil
}

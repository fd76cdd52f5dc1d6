package nvd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driven"
	"github.com/custodia-labs/cvemirror/internal/logger"
	"github.com/custodia-labs/cvemirror/internal/metrics"
)

// Ensure Client implements the interface.
var _ driven.FeedClient = (*Client)(nil)

const (
	// HeaderAPIKey carries the NVD API key.
	HeaderAPIKey = "apiKey"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

// Config configures a Client.
type Config struct {
	// BaseURL is the CVE API endpoint.
	BaseURL string

	// APIKey is sent in the apiKey header when set.
	APIKey string

	// Timeout bounds each request, including reading the body.
	// Zero means domain.DefaultFeedTimeout.
	Timeout time.Duration

	// UserAgent identifies this client to NVD.
	UserAgent string

	// Limiter overrides the default rate limiter.
	Limiter *RateLimiter

	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
}

// Client fetches pages from the NVD CVE API. It never retries.
type Client struct {
	baseURL     *url.URL
	apiKey      string
	userAgent   string
	http        *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates an NVD client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("nvd: parse base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultFeedTimeout
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(cfg.APIKey != "")
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "cvemirror"
	}

	return &Client{
		baseURL:   base,
		apiKey:    cfg.APIKey,
		userAgent: userAgent,
		http: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
		rateLimiter: limiter,
	}, nil
}

// response is the subset of the CVE API 2.0 envelope the mirror reads.
type response struct {
	TotalResults    *int              `json:"totalResults"`
	Vulnerabilities []json.RawMessage `json:"vulnerabilities"`
}

// FetchPage returns up to pageSize records starting at offset.
func (c *Client) FetchPage(ctx context.Context, offset, pageSize int) (*domain.FeedPage, error) {
	if offset < 0 || pageSize < 1 || pageSize > domain.MaxFeedPageSize {
		return nil, fmt.Errorf("%w: offset %d, page size %d", domain.ErrInvalidInput, offset, pageSize)
	}

	pageURL := c.pageURL(offset, pageSize)

	waitStart := time.Now()
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{URL: pageURL, Err: err}
	}
	metrics.FeedRateLimitWait.Observe(time.Since(waitStart).Seconds())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &domain.TransportError{URL: pageURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	logger.Debug("nvd: GET %s", pageURL)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.FeedRequestsTotal.WithLabelValues("error").Inc()
		return nil, &domain.TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	metrics.FeedRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		tErr := &domain.TransportError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
		if rlErr := c.rateLimiter.CheckResponse(resp); rlErr != nil {
			tErr.Err = rlErr
		}
		return nil, tErr
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.TransportError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	metrics.FeedRequestDuration.Observe(time.Since(start).Seconds())

	page := &domain.FeedPage{
		Records: make([]domain.RawRecord, 0, len(payload.Vulnerabilities)),
		Total:   payload.TotalResults,
	}
	for i, item := range payload.Vulnerabilities {
		page.Records = append(page.Records, domain.RawRecord{Offset: offset + i, Content: item})
	}

	logger.Debug("nvd: offset=%d received=%d total=%s", offset, len(page.Records), formatTotal(page.Total))
	return page, nil
}

// pageURL returns the base URL with paging parameters set. Existing query
// parameters on the base URL are kept.
func (c *Client) pageURL(offset, pageSize int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("startIndex", strconv.Itoa(offset))
	q.Set("resultsPerPage", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	return u.String()
}

func formatTotal(total *int) string {
	if total == nil {
		return "unknown"
	}
	return strconv.Itoa(*total)
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

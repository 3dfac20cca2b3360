package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultSubmissionsBaseURL = "https://data.sec.gov/submissions/"
	defaultArchivesBaseURL    = "https://www.sec.gov/Archives/edgar/data/"
	defaultTimeout            = 15 * time.Second
	defaultRetries            = 2
	defaultCacheTTL           = 10 * time.Minute
)

// Cache is an optional read-through cache for the submissions index.
// A nil cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// ClientConfig carries everything the client needs explicitly; nothing is
// read from the environment here.
type ClientConfig struct {
	// UserAgent is the contact string EDGAR requires on every request.
	UserAgent          string
	SubmissionsBaseURL string
	ArchivesBaseURL    string
	Timeout            time.Duration
	// Retries is the number of extra attempts after a transport failure.
	// HTTP error statuses are never retried. Zero means the default;
	// negative disables retries.
	Retries  int
	Cache    Cache
	CacheTTL time.Duration
}

// Client fetches submission indexes and filing documents from EDGAR.
type Client struct {
	http            *http.Client
	userAgent       string
	submissionsBase string
	archivesBase    string
	retries         int
	cache           Cache
	cacheTTL        time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.SubmissionsBaseURL == "" {
		cfg.SubmissionsBaseURL = defaultSubmissionsBaseURL
	}
	if cfg.ArchivesBaseURL == "" {
		cfg.ArchivesBaseURL = defaultArchivesBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	return &Client{
		http:            &http.Client{Timeout: cfg.Timeout},
		userAgent:       cfg.UserAgent,
		submissionsBase: cfg.SubmissionsBaseURL,
		archivesBase:    cfg.ArchivesBaseURL,
		retries:         cfg.Retries,
		cache:           cfg.Cache,
		cacheTTL:        cfg.CacheTTL,
	}
}

// get performs one GET with the headers EDGAR requires, retrying transport
// failures a bounded number of times. The caller owns the response body.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, ctx.Err())
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, lastErr)
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrSourceUnavailable, err)
	}
	return b, nil
}

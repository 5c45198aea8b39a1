// Package fetch retrieves raw page bodies. The default backend is a plain
// HTTP client with a browser-like user agent; a chromedp backend is
// available for sources that only render under a real browser.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mnhthng/marketpulse/config"
)

const (
	// NoRetries is the deliberate retry policy for every source fetch: a
	// slow or bot-blocked source is treated as unavailable for this run.
	NoRetries = 0

	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Fetcher retrieves the body of a page. A non-2xx status is reported via the
// status return, not as an error; callers decide whether that is fatal.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body string, status int, err error)
}

// Type selects a fetcher backend.
type Type string

const (
	HTTPType     Type = "http"
	ChromedpType Type = "chromedp"
)

// New builds the fetcher named by the configuration, applying the package
// defaults for unset timeout and user agent.
func New(cfg config.FetchConfig) (Fetcher, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	switch Type(cfg.Type) {
	case HTTPType, "":
		return NewHTTPFetcher(timeout, userAgent), nil
	case ChromedpType:
		return &ChromedpFetcher{Timeout: timeout, UserAgent: userAgent}, nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", cfg.Type)
	}
}

// HTTPFetcher fetches pages with net/http. It makes exactly one attempt per
// call (NoRetries).
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}

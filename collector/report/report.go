// Package report watches the sales-report listing page for a newly published
// PDF. A report is downloaded and extracted only when its absolute URL
// differs from the stored change marker; the marker is advanced only after
// the extracted report has been durably saved, so a failed run is retried
// from scratch on the next cycle, never silently skipped.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/fetch"
	"github.com/mnhthng/marketpulse/internal/models"
	"github.com/mnhthng/marketpulse/internal/store"
)

const (
	defaultLinkPattern = "summary.pdf"
	defaultDownloadDir = "reports"
	downloadFile       = "latest_summary.pdf"
	downloadTimeout    = 20 * time.Second
)

// ExtractFunc turns a downloaded document into text. Swappable so tests can
// simulate extraction outcomes without real PDF bytes.
type ExtractFunc func(path string) (string, error)

type Collector struct {
	cfg     config.SalesReportConfig
	fetcher fetch.Fetcher
	client  *http.Client
	store   store.Store
	logger  *log.Logger

	// ExtractText defaults to ExtractPDFText.
	ExtractText ExtractFunc
}

// New validates the watcher configuration. Listing and base URLs are
// required; pattern and download dir fall back to defaults.
func New(cfg config.SalesReportConfig, fetcher fetch.Fetcher, st store.Store) (*Collector, error) {
	if strings.TrimSpace(cfg.ListingURL) == "" {
		return nil, errors.New("report: listing_url is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("report: base_url is required")
	}
	if cfg.LinkPattern == "" {
		cfg.LinkPattern = defaultLinkPattern
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaultDownloadDir
	}
	return &Collector{
		cfg:         cfg,
		fetcher:     fetcher,
		client:      &http.Client{Timeout: downloadTimeout},
		store:       st,
		logger:      log.New(log.Writer(), "[REPORT] ", log.LstdFlags),
		ExtractText: ExtractPDFText,
	}, nil
}

func (c *Collector) Name() string { return "report" }

// Collect runs one pass of the change-detection state machine. A missing
// link or an unchanged link is a normal terminal state, not an error.
func (c *Collector) Collect(ctx context.Context) error {
	body, status, err := c.fetcher.Fetch(ctx, c.cfg.ListingURL)
	if err != nil {
		return fmt.Errorf("fetching listing page: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("listing page returned status %d", status)
	}

	href, title, found := findReportLink(body, c.cfg.LinkPattern)
	if !found {
		c.logger.Printf("no %q link on listing page; nothing to do", c.cfg.LinkPattern)
		return nil
	}

	absURL, err := resolveURL(c.cfg.BaseURL, href)
	if err != nil {
		return fmt.Errorf("resolving report link %q: %w", href, err)
	}

	// Marker comparison is absolute-to-absolute, always: a relative marker
	// would flag every cycle as changed.
	last, err := c.store.Marker(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("loading change marker: %w", err)
	}
	if err == nil && absURL == last {
		c.logger.Printf("report unchanged (%s); nothing to do", absURL)
		return nil
	}
	c.logger.Printf("new report found: %s", title)

	path, err := c.download(ctx, absURL)
	if err != nil {
		return fmt.Errorf("downloading report: %w", err)
	}

	text, err := c.ExtractText(path)
	if err != nil {
		return fmt.Errorf("extracting report text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		// Marker stays put so the same link is retried next cycle instead
		// of being accepted as done.
		return fmt.Errorf("report %s produced no text", absURL)
	}

	rep := models.DocumentReport{
		Title:         title,
		SourceURL:     absURL,
		ProcessedAt:   time.Now(),
		ExtractedText: text,
	}
	if err := c.store.SaveReport(ctx, rep); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	// Only after the report is durably saved.
	if err := c.store.SetMarker(ctx, absURL); err != nil {
		return fmt.Errorf("updating change marker: %w", err)
	}
	c.logger.Printf("processed report %s", absURL)
	return nil
}

// findReportLink returns the href and visible text of the first anchor whose
// text contains pattern, case-insensitively.
func findReportLink(body, pattern string) (href, title string, found bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", "", false
	}
	pattern = strings.ToLower(pattern)
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.Contains(strings.ToLower(text), pattern) {
			return true
		}
		h, ok := s.Attr("href")
		if !ok || strings.TrimSpace(h) == "" {
			return true
		}
		href, title, found = strings.TrimSpace(h), text, true
		return false
	})
	return href, title, found
}

func resolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	h, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	abs := b.ResolveReference(h)
	if !abs.IsAbs() {
		return "", fmt.Errorf("resolved url %q is not absolute", abs)
	}
	return abs.String(), nil
}

func (c *Collector) download(ctx context.Context, absURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, absURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(c.cfg.DownloadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(c.cfg.DownloadDir, downloadFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

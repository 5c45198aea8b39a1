// Package news collects topic-scoped news articles: search, scrape, cap and
// persist. The article store is replaced wholesale on every run.
package news

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mnhthng/marketpulse/collector/news/newsapi"
	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/models"
	"github.com/mnhthng/marketpulse/internal/store"
)

const (
	defaultTopN         = 2
	defaultLookbackDays = 30
	sortByRelevancy     = "relevancy"
)

// Searcher is the slice of the news-search provider this collector needs.
type Searcher interface {
	Everything(ctx context.Context, query string, from, to time.Time, sortBy string) ([]newsapi.Article, error)
}

// TextExtractor returns the cleaned text of a page, or "" when the page is
// unavailable (best-effort contract).
type TextExtractor interface {
	Extract(ctx context.Context, url string) string
}

type Collector struct {
	cfg       config.NewsAPIConfig
	searcher  Searcher
	extractor TextExtractor
	store     store.Store
	logger    *log.Logger
}

func New(cfg config.NewsAPIConfig, searcher Searcher, extractor TextExtractor, st store.Store) *Collector {
	return &Collector{
		cfg:       cfg,
		searcher:  searcher,
		extractor: extractor,
		store:     st,
		logger:    log.New(log.Writer(), "[NEWS] ", log.LstdFlags),
	}
}

func (c *Collector) Name() string { return "news" }

// Collect runs every configured query, scrapes the top results and replaces
// the article store with whatever was gathered. A failing query or an
// unscrapable article is logged and skipped; an empty result set is valid.
func (c *Collector) Collect(ctx context.Context) error {
	topN := c.cfg.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	lookback := c.cfg.LookbackDays
	if lookback <= 0 {
		lookback = defaultLookbackDays
	}
	to := time.Now()
	from := to.AddDate(0, 0, -lookback)

	// URLs already handled in this run; queries overlap, articles must not.
	seen := make(map[string]struct{})
	collected := []models.Article{}

	for _, query := range c.cfg.Queries {
		results, err := c.searcher.Everything(ctx, query, from, to, sortByRelevancy)
		if err != nil {
			c.logger.Printf("WARN: query %q failed: %v", query, err)
			continue
		}
		if len(results) > topN {
			results = results[:topN]
		}
		for _, r := range results {
			if r.URL == "" {
				continue
			}
			if _, ok := seen[r.URL]; ok {
				continue
			}
			seen[r.URL] = struct{}{}

			text := c.extractor.Extract(ctx, r.URL)
			if text == "" {
				c.logger.Printf("WARN: no content extracted from %s, skipping", r.URL)
				continue
			}
			article, err := models.NewArticle(r.Title, r.URL, r.PublishedAt, text, c.cfg.CharLimit)
			if err != nil {
				c.logger.Printf("WARN: dropping result from query %q: %v", query, err)
				continue
			}
			collected = append(collected, article)
		}
	}

	if err := c.store.SaveArticles(ctx, collected); err != nil {
		return fmt.Errorf("saving articles: %w", err)
	}
	c.logger.Printf("saved %d articles", len(collected))
	return nil
}

// Package extract turns a URL into cleaned plain text. Extraction is
// best-effort by contract: any failure yields an empty string and a warning
// log, never an error, because one missing article must not abort a run.
package extract

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/mnhthng/marketpulse/internal/fetch"
)

// strippedTags are removed before flattening: boilerplate that would drown
// the article text in navigation noise.
var strippedTags = []string{"script", "style", "nav", "footer", "header", "aside"}

type Extractor struct {
	fetcher fetch.Fetcher
	logger  *log.Logger
}

func New(fetcher fetch.Fetcher) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		logger:  log.New(log.Writer(), "[EXTRACT] ", log.LstdFlags),
	}
}

// Extract fetches the page and returns its readable text. Readability runs
// first; when it fails or finds nothing the raw tag-strip fallback is used.
// Timeouts, non-2xx statuses and parse failures all return "".
func (e *Extractor) Extract(ctx context.Context, rawURL string) string {
	body, status, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		e.logger.Printf("WARN: fetching %s: %v", rawURL, err)
		return ""
	}
	if status < 200 || status >= 300 {
		e.logger.Printf("WARN: fetching %s: status %d", rawURL, status)
		return ""
	}

	if text := readableText(body, rawURL); text != "" {
		return text
	}
	return FlattenHTML(body)
}

func readableText(body, rawURL string) string {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// FlattenHTML strips the non-content tags and joins the remaining text
// nodes, one per line.
func FlattenHTML(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find(strings.Join(strippedTags, ", ")).Remove()

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(lines, "\n")
}

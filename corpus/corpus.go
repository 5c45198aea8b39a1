// Package corpus merges the three persisted stores into one delimited text
// blob — the only contract the downstream synthesis consumer depends on.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mnhthng/marketpulse/internal/store"
)

// Section markers let the consumer find section boundaries without any
// structured parsing. All three sections are always present.
const (
	NewsStart    = "--- START OF NEWS ARTICLES ---"
	NewsEnd      = "--- END OF NEWS ARTICLES ---"
	WeatherStart = "--- START OF WEATHER REPORTS ---"
	WeatherEnd   = "--- END OF WEATHER REPORTS ---"
	ReportStart  = "--- START OF SALES REPORT (Raw PDF Text) ---"
	ReportEnd    = "--- END OF SALES REPORT ---"
)

type Assembler struct {
	store  store.Store
	logger *log.Logger
}

func New(st store.Store) *Assembler {
	return &Assembler{
		store:  st,
		logger: log.New(log.Writer(), "[CORPUS] ", log.LstdFlags),
	}
}

// Build reads the three stores independently and returns the combined blob.
// A missing or unreadable store degrades to an inline placeholder in its own
// section; it never aborts assembly of the other two.
func (a *Assembler) Build(ctx context.Context) string {
	var b strings.Builder
	a.writeNews(ctx, &b)
	a.writeWeather(ctx, &b)
	a.writeReport(ctx, &b)
	return b.String()
}

func (a *Assembler) writeNews(ctx context.Context, b *strings.Builder) {
	b.WriteString(NewsStart + "\n")
	defer b.WriteString(NewsEnd + "\n\n")

	articles, err := a.store.Articles(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound) || (err == nil && len(articles) == 0):
		b.WriteString("No news articles available.\n")
	case err != nil:
		a.logger.Printf("WARN: reading articles: %v", err)
		fmt.Fprintf(b, "ERROR: news data unavailable: %v\n", err)
	default:
		for i, art := range articles {
			fmt.Fprintf(b, "\n--- ARTICLE %d ---\nTITLE: %s\nURL: %s\nCONTENT:\n%s\n", i+1, art.Title, art.URL, art.RawText)
		}
	}
}

func (a *Assembler) writeWeather(ctx context.Context, b *strings.Builder) {
	b.WriteString(WeatherStart + "\n")
	defer b.WriteString(WeatherEnd + "\n\n")

	forecasts, err := a.store.Forecasts(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound) || (err == nil && len(forecasts) == 0):
		b.WriteString("No weather reports available.\n")
	case err != nil:
		a.logger.Printf("WARN: reading forecasts: %v", err)
		fmt.Fprintf(b, "ERROR: weather data unavailable: %v\n", err)
	default:
		data, err := json.MarshalIndent(forecasts, "", "  ")
		if err != nil {
			fmt.Fprintf(b, "ERROR: weather data unavailable: %v\n", err)
			return
		}
		b.Write(data)
		b.WriteString("\n")
	}
}

func (a *Assembler) writeReport(ctx context.Context, b *strings.Builder) {
	b.WriteString(ReportStart + "\n")
	defer b.WriteString(ReportEnd + "\n")

	report, err := a.store.Report(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound) || (err == nil && strings.TrimSpace(report.ExtractedText) == ""):
		b.WriteString("No sales report available.\n")
	case err != nil:
		a.logger.Printf("WARN: reading report: %v", err)
		fmt.Fprintf(b, "ERROR: sales report unavailable: %v\n", err)
	default:
		fmt.Fprintf(b, "REPORT TITLE: %s\n%s\n", report.Title, report.ExtractedText)
	}
}

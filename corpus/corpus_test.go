package corpus

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mnhthng/marketpulse/internal/models"
	"github.com/mnhthng/marketpulse/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func assertSectionOrder(t *testing.T, corpus string) {
	t.Helper()
	markers := []string{NewsStart, NewsEnd, WeatherStart, WeatherEnd, ReportStart, ReportEnd}
	last := -1
	for _, m := range markers {
		idx := strings.Index(corpus, m)
		if idx < 0 {
			t.Fatalf("corpus missing marker %q:\n%s", m, corpus)
		}
		if idx <= last {
			t.Fatalf("marker %q out of order:\n%s", m, corpus)
		}
		last = idx
	}
}

func TestBuildEmptyStoresUsePlaceholders(t *testing.T) {
	t.Parallel()
	a := New(newTestStore(t))
	corpus := a.Build(context.Background())

	assertSectionOrder(t, corpus)
	for _, want := range []string{
		"No news articles available.",
		"No weather reports available.",
		"No sales report available.",
	} {
		if !strings.Contains(corpus, want) {
			t.Fatalf("corpus missing placeholder %q:\n%s", want, corpus)
		}
	}
}

func TestBuildPopulatedStores(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	articles := []models.Article{
		{Title: "Parts exports climb", URL: "https://example.com/1", PublishedAt: time.Now(), RawText: "export body"},
		{Title: "Port delays", URL: "https://example.com/2", PublishedAt: time.Now(), RawText: "delay body"},
	}
	if err := st.SaveArticles(ctx, articles); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	forecasts := []models.CityForecast{
		{City: "Hanoi", CurrentTemp: 28.5, CurrentCondition: "light rain", StormWarning7d: true},
	}
	if err := st.SaveForecasts(ctx, forecasts); err != nil {
		t.Fatalf("SaveForecasts: %v", err)
	}
	report := models.DocumentReport{
		Title:         "Summary.pdf Oct-25",
		SourceURL:     "http://example.org/data/oct25_summary.pdf",
		ExtractedText: "\n--- PAGE 1 ---\nsales figures",
	}
	if err := st.SaveReport(ctx, report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	corpus := New(st).Build(ctx)
	assertSectionOrder(t, corpus)

	for _, want := range []string{
		"--- ARTICLE 1 ---",
		"TITLE: Parts exports climb",
		"URL: https://example.com/2",
		"CONTENT:\ndelay body",
		`"city": "Hanoi"`,
		`"storm_warning_7d": true`,
		"REPORT TITLE: Summary.pdf Oct-25",
		"--- PAGE 1 ---",
	} {
		if !strings.Contains(corpus, want) {
			t.Fatalf("corpus missing %q:\n%s", want, corpus)
		}
	}
	for _, placeholder := range []string{"No news articles", "No weather reports", "No sales report"} {
		if strings.Contains(corpus, placeholder) {
			t.Fatalf("populated corpus should not carry placeholder %q:\n%s", placeholder, corpus)
		}
	}
}

// brokenStore fails every read, to exercise per-section degradation.
type brokenStore struct {
	store.Store
}

func (brokenStore) Articles(context.Context) ([]models.Article, error) {
	return nil, errors.New("disk error")
}

func (brokenStore) Forecasts(context.Context) ([]models.CityForecast, error) {
	return nil, errors.New("disk error")
}

func (brokenStore) Report(context.Context) (models.DocumentReport, error) {
	return models.DocumentReport{}, errors.New("disk error")
}

func TestBuildDegradesPerSection(t *testing.T) {
	t.Parallel()
	corpus := New(brokenStore{}).Build(context.Background())

	assertSectionOrder(t, corpus)
	for _, want := range []string{
		"ERROR: news data unavailable: disk error",
		"ERROR: weather data unavailable: disk error",
		"ERROR: sales report unavailable: disk error",
	} {
		if !strings.Contains(corpus, want) {
			t.Fatalf("corpus missing degradation line %q:\n%s", want, corpus)
		}
	}
}

func TestBuildOneSectionFailureLeavesOthersIntact(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()
	if err := st.SaveArticles(ctx, []models.Article{{Title: "Still here", URL: "https://example.com/1"}}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}

	corpus := New(reportlessStore{st}).Build(ctx)
	if !strings.Contains(corpus, "TITLE: Still here") {
		t.Fatalf("news section should survive a report failure:\n%s", corpus)
	}
	if !strings.Contains(corpus, "ERROR: sales report unavailable") {
		t.Fatalf("report section should degrade inline:\n%s", corpus)
	}
}

type reportlessStore struct {
	store.Store
}

func (reportlessStore) Report(context.Context) (models.DocumentReport, error) {
	return models.DocumentReport{}, errors.New("corrupt file")
}

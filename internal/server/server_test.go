package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/corpus"
	"github.com/mnhthng/marketpulse/internal/models"
	"github.com/mnhthng/marketpulse/internal/store"
)

func newTestServer(t *testing.T, metrics bool) *Server {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := st.SaveArticles(context.Background(), []models.Article{
		{Title: "Parts exports climb", URL: "https://example.com/1", RawText: "body"},
	}); err != nil {
		t.Fatalf("SaveArticles: %v", err)
	}
	return New(config.ServerConfig{Address: ":0"}, corpus.New(st), metrics)
}

func TestCorpusEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/corpus", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{corpus.NewsStart, corpus.WeatherStart, corpus.ReportStart, "TITLE: Parts exports climb"} {
		if !strings.Contains(body, want) {
			t.Fatalf("corpus response missing %q:\n%s", want, body)
		}
	}
}

func TestHealthzEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpointToggle(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestServer(t, true).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics enabled: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newTestServer(t, false).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics disabled: status = %d", rec.Code)
	}
}

// Package newsapi is a minimal client for the NewsAPI "everything" endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mnhthng/marketpulse/config"
)

// Article is one search result as NewsAPI returns it.
type Article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

type response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Client queries NewsAPI. The zero HTTPClient falls back to a default with a
// bounded timeout.
type Client struct {
	APIKey     string
	Endpoint   string
	Language   string
	HTTPClient *http.Client
}

// New validates the configuration and returns a ready client. A missing API
// key is a construction failure so the collector can be disabled with one
// clear diagnostic instead of failing every cycle.
func New(cfg config.NewsAPIConfig) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Client{}, errors.New("newsapi: api key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2/everything"
	}
	return Client{
		APIKey:     cfg.APIKey,
		Endpoint:   endpoint,
		Language:   cfg.Language,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Everything runs one free-text query windowed to [from, to], ordered by
// sortBy (relevancy, popularity or publishedAt).
func (c Client) Everything(ctx context.Context, query string, from, to time.Time, sortBy string) ([]Article, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("from", from.Format("2006-01-02"))
	params.Add("to", to.Format("2006-01-02"))
	params.Add("sortBy", sortBy)
	if c.Language != "" {
		params.Add("language", c.Language)
	}
	params.Add("apiKey", c.APIKey)

	reqURL := fmt.Sprintf("%s?%s", c.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	httpc := c.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi error: %s", resp.Status)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Articles, nil
}

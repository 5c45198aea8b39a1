// Package models defines the typed records the collectors produce and the
// corpus assembler consumes. Each record maps to exactly one persisted store;
// construction validates required fields at the boundary so loosely shaped
// provider responses never leak further into the pipeline.
package models

import (
	"errors"
	"strings"
	"time"
)

// Article is one scraped news item. The URL is the identity key within a
// collection run; the full article set is replaced on every run.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	RawText     string    `json:"raw_text"`
}

// NewArticle builds an Article from a search result and its extracted text,
// truncating the text to charLimit when charLimit is positive.
func NewArticle(title, url string, publishedAt time.Time, rawText string, charLimit int) (Article, error) {
	if strings.TrimSpace(url) == "" {
		return Article{}, errors.New("article url is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "(untitled)"
	}
	if charLimit > 0 && len(rawText) > charLimit {
		rawText = rawText[:charLimit]
	}
	return Article{
		Title:       title,
		URL:         url,
		PublishedAt: publishedAt,
		RawText:     rawText,
	}, nil
}

// DailyForecast is one day of a city's forecast window.
type DailyForecast struct {
	Date      string  `json:"date"`
	MaxTemp   float64 `json:"max_temp"`
	Condition string  `json:"condition"`
	IsStorm   bool    `json:"is_storm"`
}

// CityForecast is the full weather report for one monitored city: current
// conditions plus the multi-day forecast. Replaced wholesale each run.
type CityForecast struct {
	City             string          `json:"city"`
	CurrentTemp      float64         `json:"current_temp"`
	CurrentCondition string          `json:"current_condition"`
	StormWarning7d   bool            `json:"storm_warning_7d"`
	Daily            []DailyForecast `json:"daily_forecast"`
}

// NewCityForecast assembles a CityForecast and derives StormWarning7d as the
// OR of IsStorm over the daily window.
func NewCityForecast(city string, currentTemp float64, currentCondition string, daily []DailyForecast) (CityForecast, error) {
	if strings.TrimSpace(city) == "" {
		return CityForecast{}, errors.New("forecast city is required")
	}
	warning := false
	for _, d := range daily {
		if d.IsStorm {
			warning = true
			break
		}
	}
	return CityForecast{
		City:             city,
		CurrentTemp:      currentTemp,
		CurrentCondition: currentCondition,
		StormWarning7d:   warning,
		Daily:            daily,
	}, nil
}

// DocumentReport is the extracted text of the last processed sales report
// PDF. SourceURL is absolute and doubles as the change-detection identity.
type DocumentReport struct {
	Title         string    `json:"report_title"`
	SourceURL     string    `json:"report_url"`
	ProcessedAt   time.Time `json:"processed_at"`
	ExtractedText string    `json:"extracted_text"`
}

// Outcome is the terminal state of a single job execution.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// JobRun records one collector execution for logging. It is never persisted.
type JobRun struct {
	ID        string
	JobName   string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   Outcome
	Reason    string
}

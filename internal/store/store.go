// Package store persists the three collector outputs and the report change
// marker. Every record is replaced whole on write; each record has exactly
// one writer, so no cross-writer coordination exists beyond the marker-after
// -persist ordering the report collector enforces.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/models"
)

// ErrNotFound reports that a record has never been written. Callers treat it
// as an expected, non-fatal condition, distinct from a read failure.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract shared by all backends.
type Store interface {
	SaveArticles(ctx context.Context, articles []models.Article) error
	Articles(ctx context.Context) ([]models.Article, error)

	SaveForecasts(ctx context.Context, forecasts []models.CityForecast) error
	Forecasts(ctx context.Context) ([]models.CityForecast, error)

	SaveReport(ctx context.Context, report models.DocumentReport) error
	Report(ctx context.Context) (models.DocumentReport, error)

	// Marker returns the absolute URL of the last successfully processed
	// report, or ErrNotFound before the first one.
	Marker(ctx context.Context) (string, error)
	SetMarker(ctx context.Context, url string) error
}

// Type selects a storage backend.
type Type string

const (
	FileType  Type = "file"
	RedisType Type = "redis"
)

// New builds the store backend named by the configuration.
func New(cfg config.StorageConfig) (Store, error) {
	switch Type(cfg.Type) {
	case FileType, "":
		return NewFileStore(cfg.File.DataDir)
	case RedisType:
		if err := cfg.Redis.Validate(); err != nil {
			return nil, err
		}
		return NewRedisStore(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

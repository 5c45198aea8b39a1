package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mnhthng/marketpulse/internal/models"
)

const (
	articlesFile  = "articles.json"
	forecastsFile = "forecasts.json"
	reportFile    = "report.json"
	markerFile    = "report_marker.txt"
)

// FileStore keeps each record as a JSON file in a data directory. Writes go
// through a temp file plus rename so readers never observe a partial record.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) SaveArticles(_ context.Context, articles []models.Article) error {
	return s.writeJSON(articlesFile, articles)
}

func (s *FileStore) Articles(_ context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := s.readJSON(articlesFile, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *FileStore) SaveForecasts(_ context.Context, forecasts []models.CityForecast) error {
	return s.writeJSON(forecastsFile, forecasts)
}

func (s *FileStore) Forecasts(_ context.Context) ([]models.CityForecast, error) {
	var forecasts []models.CityForecast
	if err := s.readJSON(forecastsFile, &forecasts); err != nil {
		return nil, err
	}
	return forecasts, nil
}

func (s *FileStore) SaveReport(_ context.Context, report models.DocumentReport) error {
	return s.writeJSON(reportFile, report)
}

func (s *FileStore) Report(_ context.Context) (models.DocumentReport, error) {
	var report models.DocumentReport
	if err := s.readJSON(reportFile, &report); err != nil {
		return models.DocumentReport{}, err
	}
	return report, nil
}

func (s *FileStore) Marker(_ context.Context) (string, error) {
	data, err := s.readFile(markerFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) SetMarker(_ context.Context, url string) error {
	return s.writeFile(markerFile, []byte(url))
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return s.writeFile(name, data)
}

func (s *FileStore) readJSON(name string, v any) error {
	data, err := s.readFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

func (s *FileStore) readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

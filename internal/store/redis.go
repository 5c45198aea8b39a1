package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/models"
)

const (
	articlesKey  = "marketpulse:articles"
	forecastsKey = "marketpulse:forecasts"
	reportKey    = "marketpulse:report"
	markerKey    = "marketpulse:report_marker"
)

// RedisStore implements Store over Redis string keys, one key per record.
// Values carry no TTL: a record lives until the next run replaces it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) SaveArticles(ctx context.Context, articles []models.Article) error {
	return s.setJSON(ctx, articlesKey, articles)
}

func (s *RedisStore) Articles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := s.getJSON(ctx, articlesKey, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *RedisStore) SaveForecasts(ctx context.Context, forecasts []models.CityForecast) error {
	return s.setJSON(ctx, forecastsKey, forecasts)
}

func (s *RedisStore) Forecasts(ctx context.Context) ([]models.CityForecast, error) {
	var forecasts []models.CityForecast
	if err := s.getJSON(ctx, forecastsKey, &forecasts); err != nil {
		return nil, err
	}
	return forecasts, nil
}

func (s *RedisStore) SaveReport(ctx context.Context, report models.DocumentReport) error {
	return s.setJSON(ctx, reportKey, report)
}

func (s *RedisStore) Report(ctx context.Context) (models.DocumentReport, error) {
	var report models.DocumentReport
	if err := s.getJSON(ctx, reportKey, &report); err != nil {
		return models.DocumentReport{}, err
	}
	return report, nil
}

func (s *RedisStore) Marker(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, markerKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) SetMarker(ctx context.Context, url string) error {
	return s.client.Set(ctx, markerKey, url, 0).Err()
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v any) error {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(val), v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

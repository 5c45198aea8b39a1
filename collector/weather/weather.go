// Package weather collects current conditions and the multi-day forecast for
// the monitored cities, flagging storm days. The forecast store is replaced
// wholesale each run; cities that fail geocoding are simply absent.
package weather

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mnhthng/marketpulse/collector/weather/owm"
	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/internal/models"
	"github.com/mnhthng/marketpulse/internal/store"
)

// stormKeywords classify a forecast-day condition. Substring match, so
// compound descriptions like "light rain and thunderstorm" still count.
var stormKeywords = []string{"storm", "thunderstorm", "cyclone", "typhoon", "hurricane"}

// IsStormCondition reports whether a condition description names a storm.
func IsStormCondition(condition string) bool {
	condition = strings.ToLower(condition)
	for _, kw := range stormKeywords {
		if strings.Contains(condition, kw) {
			return true
		}
	}
	return false
}

// ForecastSource is the slice of the weather provider this collector needs.
type ForecastSource interface {
	Geocode(ctx context.Context, query string) (owm.Coordinates, error)
	OneCall(ctx context.Context, coord owm.Coordinates) (owm.OneCallResponse, error)
}

type Collector struct {
	cfg    config.OpenWeatherConfig
	source ForecastSource
	store  store.Store
	logger *log.Logger
}

func New(cfg config.OpenWeatherConfig, source ForecastSource, st store.Store) *Collector {
	return &Collector{
		cfg:    cfg,
		source: source,
		store:  st,
		logger: log.New(log.Writer(), "[WEATHER] ", log.LstdFlags),
	}
}

func (c *Collector) Name() string { return "weather" }

// Collect builds one CityForecast per successfully resolved city and
// replaces the forecast store. Geocoding or forecast failures skip the city,
// logged, never fatal to the run.
func (c *Collector) Collect(ctx context.Context) error {
	reports := []models.CityForecast{}

	for _, city := range c.cfg.Cities {
		query := city
		if c.cfg.CountryCode != "" {
			query = fmt.Sprintf("%s,%s", city, c.cfg.CountryCode)
		}

		coord, err := c.source.Geocode(ctx, query)
		if err != nil {
			c.logger.Printf("WARN: geocoding %s: %v", city, err)
			continue
		}
		oneCall, err := c.source.OneCall(ctx, coord)
		if err != nil {
			c.logger.Printf("WARN: forecast for %s: %v", city, err)
			continue
		}

		daily := make([]models.DailyForecast, 0, len(oneCall.Daily))
		for _, day := range oneCall.Daily {
			condition := conditionText(day.Weather)
			entry := models.DailyForecast{
				Date:      time.Unix(day.Dt, 0).UTC().Format("2006-01-02"),
				MaxTemp:   day.Temp.Max,
				Condition: condition,
				IsStorm:   IsStormCondition(condition),
			}
			if entry.IsStorm {
				c.logger.Printf("upcoming storm warning for %s on %s: %s", city, entry.Date, condition)
			}
			daily = append(daily, entry)
		}

		report, err := models.NewCityForecast(city, oneCall.Current.Temp, conditionText(oneCall.Current.Weather), daily)
		if err != nil {
			c.logger.Printf("WARN: dropping forecast for %s: %v", city, err)
			continue
		}
		reports = append(reports, report)
	}

	if err := c.store.SaveForecasts(ctx, reports); err != nil {
		return fmt.Errorf("saving forecasts: %w", err)
	}
	c.logger.Printf("saved %d city forecasts", len(reports))
	return nil
}

func conditionText(weather []owm.Weather) string {
	if len(weather) == 0 {
		return ""
	}
	return strings.ToLower(weather[0].Description)
}

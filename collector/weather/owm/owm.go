// Package owm is a client for the OpenWeather geocoding and One Call APIs.
package owm

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

// Coordinates is a geocoded location.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Weather is one condition entry in an OpenWeather response.
type Weather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// CurrentConditions is the "current" block of a One Call response.
type CurrentConditions struct {
	Temp    float64   `json:"temp"`
	Weather []Weather `json:"weather"`
}

// DailyTemp carries the per-day temperature aggregates we use.
type DailyTemp struct {
	Max float64 `json:"max"`
}

// DailyEntry is one day of the forecast window.
type DailyEntry struct {
	Dt      int64     `json:"dt"`
	Temp    DailyTemp `json:"temp"`
	Weather []Weather `json:"weather"`
}

// OneCallResponse carries current conditions plus the daily forecast window.
// Minutely and hourly detail is excluded at request time.
type OneCallResponse struct {
	Current CurrentConditions `json:"current"`
	Daily   []DailyEntry      `json:"daily"`
}

type Client struct {
	APIKey          string
	GeocodeEndpoint string
	OneCallEndpoint string
	HTTPClient      *http.Client
}

// New validates the configuration and returns a ready client; a missing API
// key fails construction so the weather collector is disabled once, loudly.
func New(cfg config.OpenWeatherConfig) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Client{}, errors.New("openweather: api key is required")
	}
	geocode := cfg.GeocodeEndpoint
	if geocode == "" {
		geocode = "https://api.openweathermap.org/geo/1.0/direct"
	}
	onecall := cfg.OneCallEndpoint
	if onecall == "" {
		onecall = "https://api.openweathermap.org/data/3.0/onecall"
	}
	return Client{
		APIKey:          cfg.APIKey,
		GeocodeEndpoint: geocode,
		OneCallEndpoint: onecall,
		HTTPClient:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Geocode resolves a "city,country-code" query to coordinates, taking the
// first result.
func (c Client) Geocode(ctx context.Context, query string) (Coordinates, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("limit", "1")
	params.Add("appid", c.APIKey)

	var results []Coordinates
	if err := c.getJSON(ctx, c.GeocodeEndpoint, params, &results); err != nil {
		return Coordinates{}, err
	}
	if len(results) == 0 {
		return Coordinates{}, fmt.Errorf("no geocoding result for %q", query)
	}
	return results[0], nil
}

// OneCall fetches current conditions and the daily forecast for coord, in
// metric units, excluding sub-daily granularity.
func (c Client) OneCall(ctx context.Context, coord Coordinates) (OneCallResponse, error) {
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%f", coord.Lat))
	params.Add("lon", fmt.Sprintf("%f", coord.Lon))
	params.Add("exclude", "minutely,hourly")
	params.Add("units", "metric")
	params.Add("appid", c.APIKey)

	var result OneCallResponse
	if err := c.getJSON(ctx, c.OneCallEndpoint, params, &result); err != nil {
		return OneCallResponse{}, err
	}
	return result, nil
}

func (c Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	httpc := c.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openweather error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

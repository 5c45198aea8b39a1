package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the collection pipeline. It is built
// once at process start and passed by reference; no component reads ambient
// environment state directly.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains the corpus hand-off HTTP server settings. An empty
// address disables the server.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// ScheduleConfig drives the collection cycle. Every is the fixed interval
// between cycles; when Cron is set it takes precedence and is parsed as a
// cron expression. RunOnStart triggers an immediate first cycle.
type ScheduleConfig struct {
	Every      time.Duration `mapstructure:"every"`
	Cron       string        `mapstructure:"cron"`
	RunOnStart bool          `mapstructure:"run_on_start"`
}

func (s ScheduleConfig) Validate() error {
	if strings.TrimSpace(s.Cron) == "" && s.Every <= 0 {
		return fmt.Errorf("schedule.every must be > 0 when schedule.cron is not set")
	}
	return nil
}

// SourcesConfig groups the per-collector source settings.
type SourcesConfig struct {
	NewsAPI     NewsAPIConfig     `mapstructure:"newsapi"`
	OpenWeather OpenWeatherConfig `mapstructure:"openweather"`
	SalesReport SalesReportConfig `mapstructure:"sales_report"`
}

// NewsAPIConfig contains the news search settings. A missing APIKey is not a
// config-load failure: it fails the news collector's construction only.
type NewsAPIConfig struct {
	APIKey       string   `mapstructure:"api_key"`
	Endpoint     string   `mapstructure:"endpoint"`
	Queries      []string `mapstructure:"queries"`
	TopN         int      `mapstructure:"top_n"`
	LookbackDays int      `mapstructure:"lookback_days"`
	CharLimit    int      `mapstructure:"char_limit"`
	Language     string   `mapstructure:"language"`
}

// OpenWeatherConfig contains geocoding and forecast query settings.
type OpenWeatherConfig struct {
	APIKey          string   `mapstructure:"api_key"`
	GeocodeEndpoint string   `mapstructure:"geocode_endpoint"`
	OneCallEndpoint string   `mapstructure:"onecall_endpoint"`
	Cities          []string `mapstructure:"cities"`
	CountryCode     string   `mapstructure:"country_code"`
}

// SalesReportConfig contains the report listing-page watcher settings.
// BaseURL anchors relative report links; the stored change marker is always
// the absolute resolved URL.
type SalesReportConfig struct {
	ListingURL  string `mapstructure:"listing_url"`
	BaseURL     string `mapstructure:"base_url"`
	LinkPattern string `mapstructure:"link_pattern"`
	DownloadDir string `mapstructure:"download_dir"`
}

// FetchConfig configures page fetching. MaxRetries defaults to zero: slow or
// bot-blocked sources are treated as unavailable for the run, never retried.
type FetchConfig struct {
	Type       string        `mapstructure:"type"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	MaxRetries int           `mapstructure:"max_retries"`
}

func (f FetchConfig) Validate() error {
	switch f.Type {
	case "", "http", "chromedp":
		return nil
	default:
		return fmt.Errorf("fetch.type must be http or chromedp, got %q", f.Type)
	}
}

// StorageConfig selects and configures the persisted-store backend.
type StorageConfig struct {
	Type  string      `mapstructure:"type"`
	File  FileConfig  `mapstructure:"file"`
	Redis RedisConfig `mapstructure:"redis"`
}

// FileConfig contains file storage settings.
type FileConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

func (s StorageConfig) Validate() error {
	switch s.Type {
	case "", "file":
		return nil
	case "redis":
		return s.Redis.Validate()
	default:
		return fmt.Errorf("storage.type must be file or redis, got %q", s.Type)
	}
}

// TelemetryConfig toggles the /metrics endpoint.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the given file, or from config.json on the
// default search paths when path is empty. Environment variables with the
// MARKETPULSE_ prefix override file values. A missing config file is fine;
// defaults plus environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("MARKETPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Fetch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schedule.every", "2h")
	v.SetDefault("schedule.run_on_start", true)

	v.SetDefault("sources.newsapi.endpoint", "https://newsapi.org/v2/everything")
	v.SetDefault("sources.newsapi.top_n", 2)
	v.SetDefault("sources.newsapi.lookback_days", 30)
	v.SetDefault("sources.newsapi.char_limit", 4000)
	v.SetDefault("sources.newsapi.queries", []string{
		`("auto parts" OR "spark plug" OR automotive) AND Vietnam`,
		`(logistics OR "supply chain" OR disruption OR "import export") AND Vietnam`,
		`("natural disaster" OR storm OR flood OR landslide) AND Vietnam`,
	})

	v.SetDefault("sources.openweather.geocode_endpoint", "https://api.openweathermap.org/geo/1.0/direct")
	v.SetDefault("sources.openweather.onecall_endpoint", "https://api.openweathermap.org/data/3.0/onecall")
	v.SetDefault("sources.openweather.cities", []string{"Hanoi", "Ho Chi Minh City", "Danang", "Haiphong"})
	v.SetDefault("sources.openweather.country_code", "VN")

	v.SetDefault("sources.sales_report.link_pattern", "summary.pdf")
	v.SetDefault("sources.sales_report.download_dir", "reports")

	v.SetDefault("fetch.type", "http")
	v.SetDefault("fetch.timeout", "10s")

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.file.data_dir", "data")
	v.SetDefault("storage.redis.timeout", "5s")

	v.SetDefault("server.address", ":10010")
	v.SetDefault("telemetry.enabled", true)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// NASA POWER configuration.
	PowerBaseURL          string              `env:"POWER_BASE_URL" validate:"required,url"`
	PowerParameter        string              `env:"POWER_PARAMETER" validate:"required"`
	PowerCommunity        string              `env:"POWER_COMMUNITY" validate:"required"`
	PowerTimeout          time.Duration       `env:"POWER_TIMEOUT" validate:"gt=0"`
	PowerMaxAvailableDate domain.CalendarDate `env:"POWER_MAX_AVAILABLE_DATE"`

	// OpenWeatherMap city lookup. Disabled without an API key.
	OpenWeatherAPIKey  string        `env:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string        `env:"OPENWEATHER_BASE_URL" validate:"required,url"`
	OpenWeatherTimeout time.Duration `env:"OPENWEATHER_TIMEOUT" validate:"gt=0"`

	// Mapbox reverse geocoding configuration.
	MapboxToken     string        `env:"MAPBOX_TOKEN" validate:"required_if=MapboxEnabled true"`
	MapboxEnabled   bool          `env:"MAPBOX_ENABLED"`
	MapboxTimeout   time.Duration `env:"MAPBOX_TIMEOUT" validate:"gt=0"`
	MapboxCacheSize int           `env:"MAPBOX_CACHE_SIZE" validate:"gt=0"`

	// Query event publishing.
	KafkaEnabled bool     `env:"KAFKA_ENABLED"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" validate:"required_if=KafkaEnabled true"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" validate:"required_if=KafkaEnabled true"`
}

// WeatherEnabled reports whether city weather lookups are configured.
func (c *Config) WeatherEnabled() bool {
	return c.OpenWeatherAPIKey != ""
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is fine; existing variables are never overridden.
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	powerTimeout, err := parseDuration("POWER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("OPENWEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxAvailable, err := domain.ParseCompactDate(sharedcfg.EnvOrDefault("POWER_MAX_AVAILABLE_DATE", domain.DefaultMaxAvailableDate.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid POWER_MAX_AVAILABLE_DATE: %w", err)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PowerBaseURL:          sharedcfg.EnvOrDefault("POWER_BASE_URL", "https://power.larc.nasa.gov/api/temporal"),
		PowerParameter:        sharedcfg.EnvOrDefault("POWER_PARAMETER", "PRECTOTCORR"),
		PowerCommunity:        sharedcfg.EnvOrDefault("POWER_COMMUNITY", "RE"),
		PowerTimeout:          powerTimeout,
		PowerMaxAvailableDate: maxAvailable,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherTimeout: weatherTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rainfall-queries"),
	}

	if err := newValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

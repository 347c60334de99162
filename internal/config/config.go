package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"health-tracker/internal/geocode"
)

// ErrInvalidConfig marks configuration that cannot be used to start the service.
var ErrInvalidConfig = errors.New("invalid config")

const minGeocodeTimeoutMS = 500

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Database configuration
	DatabaseDriver string `koanf:"database_driver"`
	DatabasePath   string `koanf:"database_path"`
	DatabaseURL    string `koanf:"database_url"`

	// Logging configuration
	LogLevel string `koanf:"log_level"`

	// Metrics configuration
	MetricsEnabled bool   `koanf:"metrics_enabled"`
	MetricsHost    string `koanf:"metrics_host"`
	MetricsPort    int    `koanf:"metrics_port"`

	// Reverse geocoding
	OpenStreetMapBaseURL   string `koanf:"openstreetmap_base_url"`
	OpenStreetMapTimeoutMS int    `koanf:"openstreetmap_timeout_ms"`
	OpenStreetMapUserAgent string `koanf:"openstreetmap_user_agent"`
	GeocodeCacheSize       int    `koanf:"geocode_cache_size"`
	GeocodeCacheTTLSeconds int    `koanf:"geocode_cache_ttl_seconds"`

	// Circuit breaker in front of the geocoder
	GeocodeBreakerFailures        int `koanf:"geocode_breaker_failures"`
	GeocodeBreakerCooldownSeconds int `koanf:"geocode_breaker_cooldown_seconds"`

	// Badge uploads
	UploadsDir string `koanf:"uploads_dir"`

	// Activity events; empty brokers disables publishing
	KafkaBrokers string `koanf:"kafka_brokers"`
	KafkaTopic   string `koanf:"kafka_topic"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Host:                          "localhost",
		Port:                          8080,
		DatabaseDriver:                "sqlite",
		DatabasePath:                  "./health-tracker.db",
		LogLevel:                      "info",
		MetricsHost:                   "localhost",
		MetricsPort:                   9090,
		OpenStreetMapBaseURL:          "https://nominatim.openstreetmap.org",
		OpenStreetMapTimeoutMS:        3000,
		OpenStreetMapUserAgent:        "health-tracker-rest/1.0 (contact: example@example.com)",
		GeocodeBreakerFailures:        5,
		GeocodeBreakerCooldownSeconds: 30,
		UploadsDir:                    "uploads",
		KafkaTopic:                    "activity_events",
	}
}

// Load builds the configuration by layering defaults, an optional YAML file
// named by CONFIG_FILE, and environment variables, in increasing precedence.
// It fails fast on values the service cannot run with.
func Load() (*Config, error) {
	k := koanf.New(".")
	known := knownKeys()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidConfig, path, err)
		}
	}

	// PORT -> port, OPENSTREETMAP_BASE_URL -> openstreetmap_base_url
	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !known[key] {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: failed to read environment: %v", ErrInvalidConfig, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.OpenStreetMapBaseURL = strings.TrimRight(strings.TrimSpace(cfg.OpenStreetMapBaseURL), "/")
	if cfg.OpenStreetMapTimeoutMS < minGeocodeTimeoutMS {
		cfg.OpenStreetMapTimeoutMS = minGeocodeTimeoutMS
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot repair.
func (c *Config) Validate() error {
	var problems []string

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			problems = append(problems, "DATABASE_PATH must not be empty")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if c.MetricsEnabled && (c.MetricsPort <= 0 || c.MetricsPort > 65535) {
		problems = append(problems, fmt.Sprintf("METRICS_PORT %d out of range", c.MetricsPort))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown LOG_LEVEL %q", c.LogLevel))
	}

	if c.GeocodeCacheSize < 0 {
		problems = append(problems, "GEOCODE_CACHE_SIZE must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// GeocodeTimeout returns the reverse geocoding request timeout.
func (c *Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.OpenStreetMapTimeoutMS) * time.Millisecond
}

// GeocodeCacheTTL returns how long resolved place names are kept; zero keeps them forever.
func (c *Config) GeocodeCacheTTL() time.Duration {
	return time.Duration(c.GeocodeCacheTTLSeconds) * time.Second
}

// GeocodeBreaker returns the circuit breaker settings for the geocoder.
func (c *Config) GeocodeBreaker() geocode.BreakerConfig {
	return geocode.BreakerConfig{
		FailureThreshold: c.GeocodeBreakerFailures,
		Cooldown:         time.Duration(c.GeocodeBreakerCooldownSeconds) * time.Second,
	}
}

// Brokers splits KAFKA_BROKERS on commas.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func knownKeys() map[string]bool {
	return map[string]bool{
		"host":                             true,
		"port":                             true,
		"database_driver":                  true,
		"database_path":                    true,
		"database_url":                     true,
		"log_level":                        true,
		"metrics_enabled":                  true,
		"metrics_host":                     true,
		"metrics_port":                     true,
		"openstreetmap_base_url":           true,
		"openstreetmap_timeout_ms":         true,
		"openstreetmap_user_agent":         true,
		"geocode_cache_size":               true,
		"geocode_cache_ttl_seconds":        true,
		"geocode_breaker_failures":         true,
		"geocode_breaker_cooldown_seconds": true,
		"uploads_dir":                      true,
		"kafka_brokers":                    true,
		"kafka_topic":                      true,
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Backend  BackendConfig
	Session  SessionConfig
	Delivery DeliveryConfig
	Geocode  GeocodeConfig
	Ordering OrderingConfig
	Log      LogConfig
}

// BackendConfig contains settings for the remote REST backend.
type BackendConfig struct {
	BaseURL string        // e.g. "https://api.example.com"
	Timeout time.Duration // per-request timeout
}

// SessionConfig contains local session persistence settings.
type SessionConfig struct {
	DBPath string // SQLite database file path
}

// DeliveryConfig contains the delivery confirmation gate.
type DeliveryConfig struct {
	ConfirmRadiusMeters float64
	PollInterval        time.Duration
}

// GeocodeConfig tunes the address-to-coordinates lookup.
type GeocodeConfig struct {
	Debounce  time.Duration
	MinLength int
}

// OrderingConfig holds the fallback destination used when an address
// could not be geocoded.
type OrderingConfig struct {
	DefaultLat float64
	DefaultLng float64
}

// LogConfig selects the log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string
}

// bindings maps config keys to the environment variables that override them.
var bindings = map[string]string{
	"backend.base_url":               "API_BASE_URL",
	"backend.timeout":                "API_TIMEOUT",
	"session.db_path":                "SESSION_DB_PATH",
	"delivery.confirm_radius_meters": "CONFIRM_RADIUS_METERS",
	"delivery.poll_interval":         "DRONE_POLL_INTERVAL",
	"geocode.debounce":               "GEOCODE_DEBOUNCE",
	"geocode.min_length":             "GEOCODE_MIN_LENGTH",
	"ordering.default_lat":           "DEFAULT_LAT",
	"ordering.default_lng":           "DEFAULT_LNG",
	"log.level":                      "LOG_LEVEL",
}

// Load reads configuration from an optional foodctl.yaml and environment
// variables. API_BASE_URL is required.
func Load() (*Config, error) {
	v, err := newViper("")
	if err != nil {
		return nil, err
	}
	cfg := fromViper(v)
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL environment variable is not set; required to reach the backend")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but points at a local backend when
// API_BASE_URL is not set.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	v, err := newViper("http://localhost:3000")
	if err != nil {
		return nil, err
	}
	return fromViper(v), nil
}

func newViper(baseURL string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("backend.base_url", baseURL)
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("session.db_path", "foodctl.db")
	v.SetDefault("delivery.confirm_radius_meters", 50.0)
	v.SetDefault("delivery.poll_interval", "5s")
	v.SetDefault("geocode.debounce", "600ms")
	v.SetDefault("geocode.min_length", 5)
	v.SetDefault("ordering.default_lat", 10.76143)
	v.SetDefault("ordering.default_lng", 106.68191)
	v.SetDefault("log.level", "info")

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetConfigName("foodctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("backend.base_url")), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Session: SessionConfig{
			DBPath: v.GetString("session.db_path"),
		},
		Delivery: DeliveryConfig{
			ConfirmRadiusMeters: v.GetFloat64("delivery.confirm_radius_meters"),
			PollInterval:        v.GetDuration("delivery.poll_interval"),
		},
		Geocode: GeocodeConfig{
			Debounce:  v.GetDuration("geocode.debounce"),
			MinLength: v.GetInt("geocode.min_length"),
		},
		Ordering: OrderingConfig{
			DefaultLat: v.GetFloat64("ordering.default_lat"),
			DefaultLng: v.GetFloat64("ordering.default_lng"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
		},
	}
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Backend: %s (timeout %s), SessionDB: %s, ConfirmRadius: %.0fm, Debounce: %s}",
		c.Backend.BaseURL, c.Backend.Timeout, c.Session.DBPath, c.Delivery.ConfirmRadiusMeters, c.Geocode.Debounce)
}

// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that take precedence over file values.
const (
	EnvAPIBaseURL = "PODBOX_API_BASE_URL"
	EnvAdminToken = "ADMIN_TOKEN"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Admin   AdminConfig   `yaml:"admin"`
	API     APIConfig     `yaml:"api"`
	Catalog CatalogConfig `yaml:"catalog"`
	Player  PlayerConfig  `yaml:"player"`
	Media   MediaConfig   `yaml:"media"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr            string      `yaml:"addr" default:":8080"`
	NotifyTimeoutMs int         `yaml:"notify_timeout_ms" default:"500" validate:"gte=10,lte=10000"`
	Hooks           HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AdminConfig represents admin-related configuration.
type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

// APIConfig represents the remote episodes API.
type APIConfig struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	Limit     int    `yaml:"limit" default:"12" validate:"gte=1,lte=100"`
	Sort      string `yaml:"sort" default:"published_at" validate:"required"`
	Order     string `yaml:"order" default:"desc" validate:"oneof=asc desc"`
	TimeoutMs int    `yaml:"timeout_ms" default:"10000" validate:"gte=100,lte=120000"`
}

// CatalogConfig represents episode listing configuration.
type CatalogConfig struct {
	LatestCount       int    `yaml:"latest_count" default:"2" validate:"gte=1,lte=12"`
	RevalidateMinutes int    `yaml:"revalidate_minutes" default:"480" validate:"gte=1"`
	Locale            string `yaml:"locale" default:"pt-BR" validate:"oneof=pt-BR en"`
	MinScore          int    `yaml:"min_score" validate:"gte=0"`

	Filters map[string]FilterConfig `yaml:"filters"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// PlayerConfig represents player behavior configuration.
type PlayerConfig struct {
	OnQueueEnd string `yaml:"on_queue_end" default:"clear" validate:"oneof=clear stop"`
}

// MediaConfig represents the media backend configuration.
type MediaConfig struct {
	Type     string         `yaml:"type" default:"clock" validate:"oneof=clock"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, applies environment
// overrides and defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvAdminToken); v != "" {
		c.Admin.Token = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// APITimeout returns the episodes API request timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutMs) * time.Millisecond
}

// NotifyTimeout returns the per-subscriber send timeout for notifications.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Server.NotifyTimeoutMs) * time.Millisecond
}

// RevalidateInterval returns the catalog refresh interval.
func (c *Config) RevalidateInterval() time.Duration {
	return time.Duration(c.Catalog.RevalidateMinutes) * time.Minute
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Catalog.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Bus modes
const (
	ModeSubtree = "subtree"
	ModeSingle  = "single"
)

// Bus types
const (
	BusSession = "session"
	BusSystem  = "system"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all service configuration.
type Config struct {
	Bus     BusConfig
	Content ContentConfig
	Launch  LaunchConfig
	Logging LogConfig
	Metrics MetricsConfig
}

// BusConfig holds D-Bus registration settings.
type BusConfig struct {
	Type        string `envconfig:"BUS_TYPE" default:"session"`
	Name        string `envconfig:"BUS_NAME" default:"com.endlessm.EknServices3.SearchProviderV3"`
	ObjectPath  string `envconfig:"BUS_OBJECT_PATH" default:"/com/endlessm/EknServices3/SearchProviderV3"`
	Mode        string `envconfig:"BUS_MODE" default:"subtree"`
	SingleAppID string `envconfig:"BUS_SINGLE_APP_ID" default:""`
}

// ContentConfig holds knowledge content settings.
type ContentConfig struct {
	Dir            string `envconfig:"CONTENT_DIR" default:"/var/lib/eknservices/content"`
	ResultsLimit   int    `envconfig:"CONTENT_RESULTS_LIMIT" default:"5"`
	MaxDescription int    `envconfig:"CONTENT_MAX_DESCRIPTION" default:"200"`
}

// LaunchConfig guards calls that open results in knowledge apps.
type LaunchConfig struct {
	Timeout          time.Duration `envconfig:"LAUNCH_TIMEOUT" default:"10s"`
	FailureThreshold uint32        `envconfig:"LAUNCH_FAILURE_THRESHOLD" default:"3"`
	Cooldown         time.Duration `envconfig:"LAUNCH_COOLDOWN" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig holds the diagnostics server configuration.
type MetricsConfig struct {
	Enabled     bool     `envconfig:"METRICS_ENABLED" default:"false"`
	Addr        string   `envconfig:"METRICS_ADDR" default:"127.0.0.1:9464"`
	RateLimit   int      `envconfig:"METRICS_RATE_LIMIT" default:"20"`
	RateBurst   int      `envconfig:"METRICS_RATE_BURST" default:"40"`
	CORSOrigins []string `envconfig:"METRICS_CORS_ORIGINS"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Type:       BusSession,
			Name:       "com.endlessm.EknServices3.SearchProviderV3",
			ObjectPath: "/com/endlessm/EknServices3/SearchProviderV3",
			Mode:       ModeSubtree,
		},
		Content: ContentConfig{
			Dir:            "/var/lib/eknservices/content",
			ResultsLimit:   5,
			MaxDescription: 200,
		},
		Launch: LaunchConfig{
			Timeout:          10 * time.Second,
			FailureThreshold: 3,
			Cooldown:         30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Addr:      "127.0.0.1:9464",
			RateLimit: 20,
			RateBurst: 40,
		},
	}
}

// Validate checks settings that envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Bus.Type {
	case BusSession, BusSystem:
	default:
		return fmt.Errorf("%w: bus type %q", ErrInvalidConfig, c.Bus.Type)
	}

	switch c.Bus.Mode {
	case ModeSubtree:
	case ModeSingle:
		if strings.TrimSpace(c.Bus.SingleAppID) == "" {
			return fmt.Errorf("%w: single mode requires BUS_SINGLE_APP_ID", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: bus mode %q", ErrInvalidConfig, c.Bus.Mode)
	}

	if !strings.HasPrefix(c.Bus.ObjectPath, "/") {
		return fmt.Errorf("%w: object path %q must be absolute", ErrInvalidConfig, c.Bus.ObjectPath)
	}
	if c.Content.ResultsLimit <= 0 {
		return fmt.Errorf("%w: results limit must be positive", ErrInvalidConfig)
	}
	if c.Content.MaxDescription <= 0 {
		return fmt.Errorf("%w: max description must be positive", ErrInvalidConfig)
	}
	if c.Launch.Timeout <= 0 || c.Launch.Cooldown <= 0 || c.Launch.FailureThreshold == 0 {
		return fmt.Errorf("%w: launch settings must be positive", ErrInvalidConfig)
	}
	if c.Metrics.RateLimit <= 0 || c.Metrics.RateBurst <= 0 {
		return fmt.Errorf("%w: metrics rate limit and burst must be positive", ErrInvalidConfig)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when neither -config nor COURTBOOK_CONFIG_PATH is set.
const DefaultPath = "configs/courtbook.yaml"

type Config struct {
	API struct {
		BaseURL        string  `yaml:"base_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RatePerSecond  float64 `yaml:"rate_per_second"`
		Burst          int     `yaml:"burst"`
	} `yaml:"api"`

	Session struct {
		Store    string `yaml:"store"` // file, redis, sqlite, memory
		Path     string `yaml:"path"`
		RedisKey string `yaml:"redis_key"`
	} `yaml:"session"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Booking struct {
		MinAdvanceMinutes int `yaml:"min_advance_minutes"`
		MaxAdvanceDays    int `yaml:"max_advance_days"`
	} `yaml:"booking"`

	Console struct {
		LoginRedirectDelayMS int    `yaml:"login_redirect_delay_ms"`
		PageSize             int    `yaml:"page_size"`
		Timezone             string `yaml:"timezone"`
	} `yaml:"console"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console or json
	} `yaml:"logging"`
}

// Load reads .env, then the YAML file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("COURTBOOK_CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080/api"
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 10
	}
	if c.Session.Store == "" {
		c.Session.Store = "file"
	}
	c.Session.Store = strings.ToLower(c.Session.Store)

	if c.Session.Path == "" || c.Database.Path == "" {
		dir, err := stateDir()
		if err != nil {
			return err
		}
		if c.Session.Path == "" {
			c.Session.Path = filepath.Join(dir, "token")
		}
		if c.Database.Path == "" {
			c.Database.Path = filepath.Join(dir, "courtbook.db")
		}
	}
	if c.Console.LoginRedirectDelayMS < 0 {
		c.Console.LoginRedirectDelayMS = 0
	} else if c.Console.LoginRedirectDelayMS == 0 {
		c.Console.LoginRedirectDelayMS = 1500
	}
	if c.Console.PageSize <= 0 {
		c.Console.PageSize = 5
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	return nil
}

// Validate rejects settings the program cannot run with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case "file", "memory", "sqlite":
	case "redis":
		if c.Redis.Address == "" {
			return errors.New("session.store is redis but redis.address is empty")
		}
	default:
		return fmt.Errorf("unknown session.store %q", c.Session.Store)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("console.timezone: %w", err)
	}
	return nil
}

func stateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "courtbook"), nil
}

// Timeout is the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) BookingMinAdvance() time.Duration {
	if c.Booking.MinAdvanceMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Booking.MinAdvanceMinutes) * time.Minute
}

// BookingMaxAdvance is 0 (unbounded) unless configured.
func (c *Config) BookingMaxAdvance() time.Duration {
	if c.Booking.MaxAdvanceDays <= 0 {
		return 0
	}
	return time.Duration(c.Booking.MaxAdvanceDays) * 24 * time.Hour
}

// LoginRedirectDelay is how long the login success message stays before
// the console moves to the dashboard.
func (c *Config) LoginRedirectDelay() time.Duration {
	return time.Duration(c.Console.LoginRedirectDelayMS) * time.Millisecond
}

// Location is the zone slot labels and dates are read in.
func (c *Config) Location() (*time.Location, error) {
	if c.Console.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Console.Timezone)
}

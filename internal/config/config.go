// Package config defines the necessary types to configure the
// application. An example config file config.yaml is provided in the
// repository.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	API           API           `yaml:"api" envPrefix:"ACADEMY_API_"`
	Session       Session       `yaml:"session" envPrefix:"ACADEMY_SESSION_"`
	Notifications Notifications `yaml:"notifications" envPrefix:"ACADEMY_NOTIFICATIONS_"`
	Logger        Logger        `yaml:"logger" envPrefix:"ACADEMY_LOG_"`
}

type API struct {
	// BaseURL is the address of the platform API, without the /api/v1
	// prefix.
	BaseURL        string        `yaml:"baseURL" env:"BASE_URL" default:"http://localhost:8000"`
	RequestTimeout time.Duration `yaml:"requestTimeout" env:"REQUEST_TIMEOUT" default:"10s"`
	CourseCacheTTL time.Duration `yaml:"courseCacheTTL" env:"COURSE_CACHE_TTL" default:"30s"`
}

type Session struct {
	// StateDir holds the persisted credential. Defaults to
	// $HOME/.academyctl when empty.
	StateDir           string `yaml:"stateDir" env:"STATE_DIR"`
	DefaultLandingPath string `yaml:"defaultLandingPath" env:"LANDING_PATH" default:"/dashboard"`
	LoginPath          string `yaml:"loginPath" env:"LOGIN_PATH" default:"/login"`
}

type Notifications struct {
	PollInterval time.Duration `yaml:"pollInterval" env:"POLL_INTERVAL" default:"30s"`
	SeenTTL      time.Duration `yaml:"seenTTL" env:"SEEN_TTL" default:"1h"`
}

type Logger struct {
	Level  string `yaml:"level" env:"LEVEL" default:"info"`
	Format string `yaml:"format" env:"FORMAT" default:"text"`
}

// Load reads the configuration: defaults first, then the YAML file if
// one is found, then environment overrides. The path argument wins over
// $ACADEMY_CONFIG and ./config.yaml.
func Load(path string) (*Config, error) {
	// a .env file is optional and only a convenience for development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv("ACADEMY_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must be http or https, got %q", c.API.BaseURL)
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.API.RequestTimeout)
	}
	return nil
}

// StateDir resolves the directory holding the persisted credential,
// creating it if necessary.
func (c *Config) StateDir() (string, error) {
	dir := c.Session.StateDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".academyctl")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	return dir, nil
}

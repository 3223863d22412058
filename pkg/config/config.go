package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	JPX struct {
		ListURL  string        `yaml:"list_url"`
		Timeout  time.Duration `yaml:"timeout"`
		RetryMax int           `yaml:"retry_max"`
	} `yaml:"jpx"`
	Yahoo struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		RateCapacity float64       `yaml:"rate_capacity"`
		RateRefill   float64       `yaml:"rate_refill"` // requests per second
	} `yaml:"yahoo"`
	Fetch struct {
		DefaultLimit int           `yaml:"default_limit"`
		Delay        time.Duration `yaml:"delay"` // pause between per-instrument fetches
		Schedule     string        `yaml:"schedule"`
	} `yaml:"fetch"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	FX struct {
		Enabled        bool          `yaml:"enabled"`
		Symbol         string        `yaml:"symbol"`
		Schedule       string        `yaml:"schedule"`
		Threshold      float64       `yaml:"threshold"`       // proximity to a wall, in JPY
		RangeThreshold float64       `yaml:"range_threshold"` // max high-low spread for a range call
		Cooldown       time.Duration `yaml:"cooldown"`
		LineToken      string        `yaml:"line_token"`
		GeminiAPIKey   string        `yaml:"gemini_api_key"`
		GeminiModel    string        `yaml:"gemini_model"`
	} `yaml:"fx"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("JPX_LIST_URL"); v != "" {
		c.JPX.ListURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("LINE_NOTIFY_TOKEN"); v != "" {
		c.FX.LineToken = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.FX.GeminiAPIKey = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.JPX.ListURL == "" {
		return fmt.Errorf("jpx.list_url is required")
	}
	if c.Yahoo.BaseURL == "" {
		return fmt.Errorf("yahoo.base_url is required")
	}
	if c.Fetch.Delay < 0 {
		return fmt.Errorf("fetch.delay must not be negative")
	}
	if c.FX.Enabled && c.FX.Symbol == "" {
		return fmt.Errorf("fx.symbol is required when fx is enabled")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete service configuration
type Config struct {
	// HTTP server settings
	HTTP struct {
		Address string `yaml:"address"`
		Port    string `yaml:"port"`
	} `yaml:"http"`

	// Sample store settings
	Store struct {
		Backend    string        `yaml:"backend"` // "memory" or "bolt"
		Path       string        `yaml:"path"`    // BoltDB file, bolt backend only
		MaxSamples int           `yaml:"max_samples"`
		Retention  time.Duration `yaml:"retention"`
	} `yaml:"store"`

	// Logging settings
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTP.Address == "" {
		errors = append(errors, "HTTP address is required")
	}
	if c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required")
	}

	switch c.Store.Backend {
	case "memory":
	case "bolt":
		if c.Store.Path == "" {
			errors = append(errors, "Store path is required for the bolt backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("Store backend must be 'memory' or 'bolt', got %q", c.Store.Backend))
	}
	if c.Store.MaxSamples <= 0 {
		errors = append(errors, "Store max samples must be positive")
	}
	if c.Store.Retention <= 0 {
		errors = append(errors, "Store retention must be positive")
	}

	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errors = append(errors, fmt.Sprintf("Log level must be DEBUG, INFO, WARN or ERROR, got %q", c.Log.Level))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = "8080"

	cfg.Store.Backend = "memory"
	cfg.Store.MaxSamples = 10000
	cfg.Store.Retention = 24 * time.Hour

	cfg.Log.Level = "INFO"

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if present) and applies environment
// variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("HTTP_ADDRESS"); val != "" {
		cfg.HTTP.Address = val
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		cfg.HTTP.Port = val
	}

	if val := os.Getenv("STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if val := os.Getenv("STORE_MAX_SAMPLES"); val != "" {
		size, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid STORE_MAX_SAMPLES: %w", err)
		}
		if size <= 0 {
			return fmt.Errorf("STORE_MAX_SAMPLES must be positive, got: %s", val)
		}
		cfg.Store.MaxSamples = size
	}
	if val := os.Getenv("STORE_RETENTION"); val != "" {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid STORE_RETENTION format (expected duration like '24h'): %w", err)
		}
		if duration <= 0 {
			return fmt.Errorf("STORE_RETENTION must be positive, got: %s", val)
		}
		cfg.Store.Retention = duration
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}

	return nil
}

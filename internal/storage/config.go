package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .hris/).
	userConfigFile = ".hrisconfig.yaml"
	// dotEnvFile is an optional env file loaded before environment overrides.
	dotEnvFile = ".env"

	// Default configuration values
	DefaultAPIURL   = "http://localhost:8080/api"
	DefaultRole     = "hr_admin"
	DefaultTimeout  = 15 * time.Second
	DefaultLogLevel = "warn"
)

// Config represents user configuration from .hrisconfig.yaml.
// This file is user-managed; hris only creates it from 'hris init --api-url'.
// Any field can be overridden by its HRIS_* environment variable.
type Config struct {
	// APIURL is the base URL of the remote HRIS API.
	APIURL string `yaml:"api_url" env:"HRIS_API_URL"`

	// Token is the bearer token sent with every request.
	Token string `yaml:"token" env:"HRIS_TOKEN"`

	// Tenant is sent as X-Tenant-ID when set.
	Tenant string `yaml:"tenant" env:"HRIS_TENANT"`

	// Role selects which commands are offered (super_admin, hr_admin, branch_manager, employee).
	Role string `yaml:"role" env:"HRIS_ROLE"`

	// Timeout bounds every API request.
	Timeout time.Duration `yaml:"timeout" env:"HRIS_TIMEOUT"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level" env:"HRIS_LOG_LEVEL"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		Role:     DefaultRole,
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}
}

// LoadConfig loads .hrisconfig.yaml if it exists, otherwise starts from defaults.
// The config file is a sibling to .hris/ (in the same directory).
// Partial config files are merged with defaults, then a sibling .env file
// (if any) is loaded and HRIS_* environment variables override the result.
func (s *Storage) LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	configPath := s.ConfigPath()
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
		}
	case os.IsNotExist(err):
		// No config file - keep defaults
	default:
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	if err := loadDotEnv(filepath.Join(s.root, dotEnvFile)); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read HRIS_* environment: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}

// WriteConfig creates .hrisconfig.yaml from cfg.
// Returns error if the file already exists.
func (s *Storage) WriteConfig(cfg *Config) error {
	path := s.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", userConfigFile)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", userConfigFile, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", userConfigFile, err)
	}
	return nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access %s: %w", dotEnvFile, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}
	return nil
}

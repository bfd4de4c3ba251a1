package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Service     ServiceConfig     `toml:"service"`
	HTTP        HTTPConfig        `toml:"http"`
	Database    DatabaseConfig    `toml:"database"`
	Log         LogConfig         `toml:"log"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// ServiceConfig locates the remote service.
type ServiceConfig struct {
	IdentityHost string `toml:"identity_host"`
	AppHost      string `toml:"app_host"`
	Secure       bool   `toml:"secure"`
	Locale       string `toml:"locale"`
}

// HTTPConfig contains settings for the shared, connection-pooled HTTP client.
type HTTPConfig struct {
	TimeoutSeconds      int `toml:"timeout_seconds"`
	MaxIdleConnsPerHost int `toml:"max_idle_conns_per_host"`
}

// Timeout returns the configured client timeout. Zero means no timeout.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// CredentialsConfig holds the account email. Passwords are never read from config.
type CredentialsConfig struct {
	Email string `toml:"email"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports the first missing or out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Service.IdentityHost == "":
		return fmt.Errorf("%w: service.identity_host is empty", ErrInvalidConfig)
	case c.Service.AppHost == "":
		return fmt.Errorf("%w: service.app_host is empty", ErrInvalidConfig)
	case c.Service.Locale == "":
		return fmt.Errorf("%w: service.locale is empty", ErrInvalidConfig)
	case c.HTTP.TimeoutSeconds < 0:
		return fmt.Errorf("%w: http.timeout_seconds must not be negative", ErrInvalidConfig)
	case c.Database.Path == "":
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

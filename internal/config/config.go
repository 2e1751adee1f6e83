// Package config loads bancs-mcp settings from defaults, TOML files, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/bancs-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	API     APIConfig            `toml:"api"`
	Catalog CatalogConfig        `toml:"catalog"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

// APIConfig describes the upstream BaNCS REST API.
type APIConfig struct {
	BaseURL string `toml:"base_url" validate:"required,http_url"`
	// Key is read and reported but not sent upstream.
	Key         string   `toml:"key"`
	Timeout     Duration `toml:"timeout" validate:"gt=0"`
	DebugErrors bool     `toml:"debug_errors"`
}

// CatalogConfig selects where endpoint definitions come from. With both
// paths empty the builtin catalog is used.
type CatalogConfig struct {
	OpenAPIPath  string `toml:"openapi_path"`
	File         string `toml:"file" validate:"excluded_with=OpenAPIPath"`
	ExamplesPath string `toml:"examples_path"`
}

// Duration is a time.Duration read from TOML or the environment as either
// a Go duration ("45s") or a whole number of seconds ("45").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ParseDuration accepts a Go duration or a whole number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return v, nil
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment.
// Variables already set are left alone, and a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// API_BASE_URL, API_KEY and API_TIMEOUT keep their historical names; the
// rest use the BANCS_ prefix.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		config.API.Key = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("API_TIMEOUT: %w", err)
		}
		config.API.Timeout = Duration(d)
	}
	if v := os.Getenv("BANCS_DEBUG_ERRORS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BANCS_DEBUG_ERRORS: %w", err)
		}
		config.API.DebugErrors = b
	}
	if port := os.Getenv("BANCS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BANCS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if v := os.Getenv("BANCS_OPENAPI_PATH"); v != "" {
		config.Catalog.OpenAPIPath = v
	}
	if v := os.Getenv("BANCS_CATALOG_FILE"); v != "" {
		config.Catalog.File = v
	}
	if v := os.Getenv("BANCS_EXAMPLES_PATH"); v != "" {
		config.Catalog.ExamplesPath = v
	}
	if level := os.Getenv("BANCS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	return nil
}

// Overrides carries command-line flag values. Zero values are ignored.
type Overrides struct {
	Port     int
	Host     string
	BaseURL  string
	LogLevel string
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, o Overrides) {
	if o.Port > 0 {
		config.Server.Port = o.Port
	}
	if o.Host != "" {
		config.Server.Host = o.Host
	}
	if o.BaseURL != "" {
		config.API.BaseURL = o.BaseURL
	}
	if o.LogLevel != "" {
		config.Logging.Level = o.LogLevel
	}
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

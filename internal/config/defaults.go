package config

import (
	"time"

	"github.com/bobmcallan/bancs-mcp/internal/common"
)

// DefaultBaseURL is the public BaNCS demo deployment.
const DefaultBaseURL = "https://demoapps.tcsbancs.com/Core"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: Duration(30 * time.Second),
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}

// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"solarquote/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// RefData contains reference-data settings
	RefData RefDataConfig `json:"refdata"`

	// Irradiance contains external irradiance model settings
	Irradiance IrradianceConfig `json:"irradiance"`

	// Estimate contains estimation defaults
	Estimate EstimateConfig `json:"estimate"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// AllowedOrigins are the CORS origins permitted to call the API
	AllowedOrigins []string `json:"allowed_origins"`
}

// RefDataConfig contains reference-data settings
type RefDataConfig struct {
	// Dir is the directory holding the versioned HCL reference documents
	Dir string `json:"dir"`
}

// IrradianceConfig contains settings for the external irradiance model
type IrradianceConfig struct {
	// Endpoint is the irradiance service URL; empty disables the remote model
	Endpoint string `json:"endpoint"`

	// TimeoutSeconds bounds each lookup before falling back
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Timeout returns the lookup timeout as a duration
func (c IrradianceConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EstimateConfig contains estimation defaults
type EstimateConfig struct {
	// DefaultRegion is the region assumed when a request carries none
	DefaultRegion string `json:"default_region"`

	// DefaultPlanID is the rate plan used when a request selects none
	DefaultPlanID string `json:"default_plan_id"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		RefData: RefDataConfig{
			Dir: "refdata",
		},
		Irradiance: IrradianceConfig{
			Endpoint:       "",
			TimeoutSeconds: 5,
		},
		Estimate: EstimateConfig{
			DefaultRegion: "ON",
			DefaultPlanID: "tou",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies environment overrides
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides settings from the process environment. The server
// entrypoint loads .env via godotenv before calling Load.
func (c *Config) applyEnv() {
	if v := os.Getenv("SOLARQUOTE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SOLARQUOTE_REFDATA_DIR"); v != "" {
		c.RefData.Dir = v
	}
	if v := os.Getenv("SOLARQUOTE_IRRADIANCE_URL"); v != "" {
		c.Irradiance.Endpoint = v
	}
	if v := os.Getenv("SOLARQUOTE_IRRADIANCE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Irradiance.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("SOLARQUOTE_DEFAULT_REGION"); v != "" {
		c.Estimate.DefaultRegion = v
	}
	if v := os.Getenv("SOLARQUOTE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cargofree/cargo-free/internal/output"
)

// Config represents the complete application configuration. Values come
// from defaults, an optional YAML file, CARGO_FREE_* environment variables
// and command flags, in increasing precedence.
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// RegistryConfig describes the registry being queried.
type RegistryConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// UserAgent overrides the default "cargo-free/<version>" header.
	UserAgent  string        `mapstructure:"user_agent"`
	DNSRefresh time.Duration `mapstructure:"dns_refresh"`
}

// LookupConfig bounds individual lookups and batch fan-out.
type LookupConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format     string `mapstructure:"format"`
	Color      string `mapstructure:"color"`
	Emoji      bool   `mapstructure:"emoji"`
	ShowErrors bool   `mapstructure:"show_errors"`
	Progress   bool   `mapstructure:"progress"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Validate rejects settings the lookup engine cannot honor.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var problems []string
	if c.Lookup.Timeout <= 0 {
		problems = append(problems, "lookup.timeout must be positive")
	}
	if c.Lookup.Concurrency < 1 {
		problems = append(problems, "lookup.concurrency must be at least 1")
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		problems = append(problems, "output.format: "+err.Error())
	}
	if !output.ValidColorMode(c.Output.Color) {
		problems = append(problems, fmt.Sprintf("output.color must be auto, always or never (got %q)", c.Output.Color))
	}
	if strings.TrimSpace(c.Registry.BaseURL) == "" {
		problems = append(problems, "registry.base_url is required")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

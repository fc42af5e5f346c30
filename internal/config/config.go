// Package config provides configuration loading using koanf.
// Precedence: environment variables → compiled defaults.
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/skshamimiqbal/greeter/internal/domain"
)

// Config holds all service configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Port is the TCP port the HTTP server binds to (PORT).
	Port int `koanf:"port"`

	Log  LogConfig  `koanf:"log"`
	OTEL OTELConfig `koanf:"otel"`

	// Warnings lists non-fatal fallbacks applied while loading,
	// for the caller to log once a logger exists.
	Warnings []string `koanf:"-"`
}

// LogConfig holds logging configuration (LOG_LEVEL, LOG_FORMAT).
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint string `koanf:"endpoint"` // Empty disables OTLP export
}

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment: "local",
		Port:        domain.DefaultPort,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest)
// 2. Compiled defaults (lowest)
//
// An unusable PORT is not fatal: the default port is kept and a warning
// is recorded in Config.Warnings. Missing required keys fail startup.
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	// Prefix: none (we use full names like LOG_LEVEL)
	// Delimiter: _ maps to . for nested config
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// PORT is parsed only by ParsePort; the weakly typed decoder would
	// reject padded values and read leading zeros as octal.
	port := domain.DefaultPort
	var warnings []string
	if k.Exists("port") {
		raw := k.String("port")
		parsed, perr := ParsePort(raw)
		switch {
		case perr == nil:
			port = parsed
		case strings.TrimSpace(raw) != "":
			warnings = append(warnings, fmt.Sprintf("ignoring PORT: %v, using default %d", perr, domain.DefaultPort))
		}
		k.Delete("port")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Port = port
	cfg.Warnings = warnings

	if err := validateRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParsePort parses s as a TCP port number in the range 1..65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidPort, s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %d out of range 1-65535", domain.ErrInvalidPort, port)
	}
	return port, nil
}

// validateRequired checks that required configuration is present.
func validateRequired(cfg *Config) error {
	// In production, telemetry must be exported somewhere
	if cfg.IsProd() && cfg.OTEL.Endpoint == "" {
		return fmt.Errorf("%w: otel.endpoint", domain.ErrConfigRequired)
	}
	return nil
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

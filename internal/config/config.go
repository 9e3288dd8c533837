// Package config loads server settings from a TOML file and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/log"
)

// Config holds all server settings. Environment variables win over the file.
type Config struct {
	Addr          string  `toml:"addr" env:"SQF_ADDR"`
	DataPath      string  `toml:"data_path" env:"SQF_DATA_PATH"`
	SkipMalformed bool    `toml:"skip_malformed" env:"SQF_SKIP_MALFORMED"`
	LogLevel      string  `toml:"log_level" env:"SQF_LOG_LEVEL"`
	RateLimit     float64 `toml:"rate_limit" env:"SQF_RATE_LIMIT"` // requests/sec per client, 0 disables
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Addr:      ":8080",
		DataPath:  "sqf.csv",
		LogLevel:  "info",
		RateLimit: 20,
	}
}

// Load reads a TOML file into c.
func (c *Config) Load(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// ParseEnv overlays environment variables onto c.
func (c *Config) ParseEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Level maps LogLevel onto a gommon level, defaulting to INFO.
func (c *Config) Level() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

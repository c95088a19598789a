// Package config loads the rankpulse YAML configuration, applying
// defaults per section when the file or individual fields are absent.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rankpulse/rankpulse/internal/domain/resample"
)

// Config is the full application configuration.
type Config struct {
	LogLevel     string         `yaml:"log_level"`
	ArtifactsDir string         `yaml:"artifacts_dir"`
	Analysis     AnalysisConfig `yaml:"analysis"`
	Server       ServerConfig   `yaml:"server"`
}

// AnalysisConfig holds pipeline defaults; CLI flags and API parameters
// override them per run.
type AnalysisConfig struct {
	Granularity string `yaml:"granularity"`
	Window      int    `yaml:"window"`
	GapPolicy   string `yaml:"gap_policy"`
	Delimiter   string `yaml:"delimiter"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	ReadTimeout    time.Duration   `yaml:"read_timeout"`
	WriteTimeout   time.Duration   `yaml:"write_timeout"`
	IdleTimeout    time.Duration   `yaml:"idle_timeout"`
	MaxUploadBytes int64           `yaml:"max_upload_bytes"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is the per-client token bucket for the HTTP API.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		ArtifactsDir: "out/rankpulse",
		Analysis: AnalysisConfig{
			Granularity: string(resample.Daily),
			Window:      3,
			GapPolicy:   string(resample.GapSkip),
			Delimiter:   ",",
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxUploadBytes: 16 << 20,
			RateLimit: RateLimitConfig{
				RPS:   5,
				Burst: 10,
			},
		},
	}
}

// Load reads the config file at path on top of the defaults. An empty
// path, or a missing file at the default location, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields a typo would most likely break.
func (c *Config) Validate() error {
	if _, err := resample.ParseGranularity(c.Analysis.Granularity); err != nil {
		return err
	}
	if _, err := resample.ParseGapPolicy(c.Analysis.GapPolicy); err != nil {
		return err
	}
	if c.Analysis.Window < 1 {
		return fmt.Errorf("analysis window must be at least 1, got %d", c.Analysis.Window)
	}
	if len([]rune(c.Analysis.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Analysis.Delimiter)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit must be positive (rps=%v burst=%d)",
			c.Server.RateLimit.RPS, c.Server.RateLimit.Burst)
	}
	return nil
}

// DelimiterRune returns the configured field delimiter.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Analysis.Delimiter)[0]
}

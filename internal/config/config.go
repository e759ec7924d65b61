// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultTaskQueue is the Temporal task queue additions are scheduled on
const DefaultTaskQueue = "calculadora-task-queue"

// Environment variables that override file settings
const (
	EnvLogFormat         = "LOG_FORMAT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvTemporalAddress   = "TEMPORAL_ADDRESS"
	EnvTemporalNamespace = "TEMPORAL_NAMESPACE"
	EnvOTLPEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Config represents the complete calculadora configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Temporal  TemporalConfig  `yaml:"temporal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// TemporalConfig specifies how to reach Temporal and where to poll
type TemporalConfig struct {
	HostPort      string `yaml:"host_port"`
	Namespace     string `yaml:"namespace"`
	TaskQueue     string `yaml:"task_queue"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	Enabled        bool    `yaml:"enabled"`
	ServiceName    string  `yaml:"service_name"`
	ServiceVersion string  `yaml:"service_version"`
	CollectorURL   string  `yaml:"collector_url"`
	Environment    string  `yaml:"environment"`
	SamplingRate   float64 `yaml:"sampling_rate"`
}

// Default returns a configuration usable without any file
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
		Temporal: TemporalConfig{
			HostPort:      "localhost:7233",
			Namespace:     "default",
			TaskQueue:     DefaultTaskQueue,
			MaxConcurrent: 10,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			ServiceName:    "calculadora",
			ServiceVersion: "1.0.0",
			CollectorURL:   "localhost:4318",
			Environment:    "development",
			SamplingRate:   1.0,
		},
	}
}

// Load reads the YAML file at path on top of Default and applies
// environment overrides
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFromDir loads <dir>/.calculadora/config.yaml
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ".calculadora", "config.yaml"))
}

// ApplyEnv overrides settings with any non-empty environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvTemporalAddress); v != "" {
		c.Temporal.HostPort = v
	}
	if v := os.Getenv(EnvTemporalNamespace); v != "" {
		c.Temporal.Namespace = v
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		c.Telemetry.CollectorURL = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}

	if c.Temporal.TaskQueue == "" {
		return errors.New("task_queue is required")
	}

	if c.Temporal.HostPort == "" {
		return errors.New("temporal host_port is required")
	}

	if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be between 0 and 1, got %v", c.Telemetry.SamplingRate)
	}

	return nil
}

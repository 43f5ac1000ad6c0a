// Package config loads the qgrover YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"qgrover/gate"
	"qgrover/register"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config holds all qgrover configuration.
type Config struct {
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
}

// BenchConfig drives the benchmark harness.
type BenchConfig struct {
	MinQubits int    `yaml:"min_qubits"`
	MaxQubits int    `yaml:"max_qubits"`
	Trials    int    `yaml:"trials"` // per qubit count
	Seed      int64  `yaml:"seed"`
	Workers   int    `yaml:"workers"`
	Strategy  string `yaml:"strategy"` // vector, circuit, dense

	// Optional outputs
	LogFile     string `yaml:"log_file"`     // JSON lines, one per trial
	MetricsFile string `yaml:"metrics_file"` // Prometheus text format
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Bench: BenchConfig{
			MinQubits: 3,
			MaxQubits: 8,
			Trials:    200,
			Seed:      1,
			Workers:   4,
			Strategy:  "vector",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	b := c.Bench
	switch {
	case b.MinQubits < 1 || b.MaxQubits > register.MaxQubits:
		return fmt.Errorf("%w: qubit range %d..%d outside 1..%d", ErrInvalid, b.MinQubits, b.MaxQubits, register.MaxQubits)
	case b.MinQubits > b.MaxQubits:
		return fmt.Errorf("%w: min_qubits %d > max_qubits %d", ErrInvalid, b.MinQubits, b.MaxQubits)
	case b.Trials < 1:
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalid, b.Trials)
	case b.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, b.Workers)
	}
	if _, err := gate.ParseStrategy(b.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if b.Strategy == "dense" && b.MaxQubits > gate.MaxDenseQubits {
		return fmt.Errorf("%w: dense strategy supports at most %d qubits", ErrInvalid, gate.MaxDenseQubits)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

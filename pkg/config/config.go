package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults a run falls back to when a flag is not given
// on the command line. A config file is optional; an absent one is not an
// error, and every field the CLI also exposes as a flag is overridden by
// the flag when both are set.
type Config struct {
	Sampling SamplingConfig `yaml:"sampling"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SamplingConfig mirrors the subset of sampling.Options worth defaulting
// from a file rather than retyping on every invocation.
type SamplingConfig struct {
	Delimiter         string `yaml:"delimiter"`
	RandomValueHeader string `yaml:"random_value_header"`
	StaticSeed        bool   `yaml:"static_seed"`
	CompatibilityMode bool   `yaml:"compatibility_mode"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config matching sampling.NewOptions' defaults.
func DefaultConfig() *Config {
	return &Config{
		Sampling: SamplingConfig{
			Delimiter:         "\t",
			RandomValueHeader: "random_value",
			StaticSeed:        false,
			CompatibilityMode: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// path is empty or the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for internally inconsistent values
// that sampling.Options.Validate cannot see because they are defaults,
// not flags.
func (c *Config) Validate() error {
	if len(c.Sampling.Delimiter) != 1 {
		return fmt.Errorf("sampling.delimiter must be exactly one byte, got %q", c.Sampling.Delimiter)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Package config holds the explicit configuration struct for spt-forge.
//
// Configuration is resolved exactly once, at startup: defaults, then the
// optional YAML config file, then environment overrides. Core packages
// receive the resulting struct and never read the environment themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the filename looked up inside the data directory.
const ConfigFile = "config.yaml"

// Config is everything the engine and its surfaces need.
type Config struct {
	// APIKey authenticates against the model endpoint. Required.
	APIKey string `yaml:"api_key"`
	// BaseURL is the model endpoint root (no trailing slash).
	BaseURL string `yaml:"base_url"`
	// Model is the model id sent with every completion request.
	Model string `yaml:"model"`
	// ReasoningEffort is the effort level: low, medium, or high.
	ReasoningEffort string `yaml:"reasoning_effort"`
	// MaxAttempts bounds the resolution loop. Must be at least 1.
	MaxAttempts int `yaml:"max_attempts"`
	// DataDir holds the config file and the run history database.
	DataDir string `yaml:"data_dir"`
}

var validEfforts = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// Default returns the built-in configuration. The API key is deliberately
// empty — it must come from the file or the environment.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		BaseURL:         "https://api.openai.com",
		Model:           "o4-mini",
		ReasoningEffort: "high",
		MaxAttempts:     3,
		DataDir:         filepath.Join(home, ".spt-forge"),
	}
}

// Load resolves the effective configuration: defaults, then the config
// file in the data directory (if present), then environment variables.
// Returns an error if the result fails Validate — a missing API key or a
// degenerate attempt budget is a fatal precondition, caught here before
// any loop runs.
func Load() (Config, error) {
	cfg := Default()

	if dir := os.Getenv("SPT_FORGE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	path := filepath.Join(cfg.DataDir, ConfigFile)
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("SPT_FORGE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SPT_FORGE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("SPT_FORGE_EFFORT"); v != "" {
		cfg.ReasoningEffort = v
	}
	if v := os.Getenv("SPT_FORGE_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAttempts = n
		}
	}
}

// Validate checks the configuration preconditions.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key not found: set OPENAI_API_KEY or api_key in %s", filepath.Join(c.DataDir, ConfigFile))
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if !validEfforts[c.ReasoningEffort] {
		return fmt.Errorf("invalid reasoning effort %q: must be one of: low, medium, high", c.ReasoningEffort)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

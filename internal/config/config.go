// Package config loads lexi configuration from ~/.lexi/config.yaml with
// environment variable overrides. Missing files yield defaults; the app
// never requires a config file to run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lexi/internal/logging"
)

// Config holds all lexi configuration.
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Onboarding flow settings
	Onboarding OnboardingConfig `yaml:"onboarding"`

	// Learning session settings
	Learning LearningConfig `yaml:"learning"`

	// Feedback and speech toggles
	Feedback FeedbackConfig `yaml:"feedback"`

	// Analytics toggle
	Analytics AnalyticsConfig `yaml:"analytics"`

	// Logging
	Logging logging.Settings `yaml:"logging"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	// DatabasePath overrides the default <data_dir>/lexi.db location.
	DatabasePath string `yaml:"database_path"`
	// ValidateOnSave runs profile validation before persistence writes.
	ValidateOnSave bool `yaml:"validate_on_save"`
}

// OnboardingConfig configures the first-run wizard.
type OnboardingConfig struct {
	// AllowBack enables retreating to earlier steps.
	AllowBack bool `yaml:"allow_back"`
	// MaxNameLength bounds the display name.
	MaxNameLength int `yaml:"max_name_length"`
	// MaxGoals and MaxTopics bound the multi-select answers.
	MaxGoals  int `yaml:"max_goals"`
	MaxTopics int `yaml:"max_topics"`
}

// LearningConfig configures the card session.
type LearningConfig struct {
	// DecksDir overrides the default <data_dir>/decks location.
	DecksDir string `yaml:"decks_dir"`
	// WatchDecks reloads packs live when files change.
	WatchDecks bool `yaml:"watch_decks"`
}

// FeedbackConfig toggles interaction cues.
type FeedbackConfig struct {
	// Bell enables the terminal bell on transitions.
	Bell bool `yaml:"bell"`
	// Speech enables pronunciation via the system synthesizer.
	Speech bool `yaml:"speech"`
}

// AnalyticsConfig toggles the local event log.
type AnalyticsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			ValidateOnSave: true,
		},
		Onboarding: OnboardingConfig{
			AllowBack:     true,
			MaxNameLength: 50,
			MaxGoals:      5,
			MaxTopics:     5,
		},
		Learning: LearningConfig{
			WatchDecks: true,
		},
		Feedback: FeedbackConfig{
			Bell:   true,
			Speech: true,
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
		},
		Logging: logging.Settings{
			Level: "info",
		},
	}
}

// DefaultDataDir returns ~/.lexi, or a local fallback when the home
// directory is unavailable.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lexi"
	}
	return filepath.Join(home, ".lexi")
}

// DefaultPath returns the canonical config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load reads configuration from a YAML file, applying defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("LEXI_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if dir := os.Getenv("LEXI_DECKS"); dir != "" {
		c.Learning.DecksDir = dir
	}
	if os.Getenv("LEXI_DEBUG") == "1" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
	if os.Getenv("LEXI_NO_SPEECH") == "1" {
		c.Feedback.Speech = false
	}
}

// DatabasePath resolves the effective database location.
func (c *Config) DatabasePath() string {
	if c.Storage.DatabasePath != "" {
		return c.Storage.DatabasePath
	}
	return filepath.Join(DefaultDataDir(), "lexi.db")
}

// DecksDir resolves the effective decks directory.
func (c *Config) DecksDir() string {
	if c.Learning.DecksDir != "" {
		return c.Learning.DecksDir
	}
	return filepath.Join(DefaultDataDir(), "decks")
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	if c.Onboarding.MaxNameLength <= 0 {
		return fmt.Errorf("onboarding.max_name_length must be positive")
	}
	if c.Onboarding.MaxGoals <= 0 || c.Onboarding.MaxTopics <= 0 {
		return fmt.Errorf("onboarding selection limits must be positive")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}

// Package config loads and persists memostack settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lanefield/memostack/pkg/logging"
)

// Defaults.
const (
	DefaultMaxHotCount              = 7
	DefaultColdSpotlightIntervalSec = 60
	DefaultTabSpaces                = 2
)

// Config holds all user-tunable settings.
type Config struct {
	// MaxHotCount bounds the hot stack; the oldest hot memo is demoted to
	// cold when the stack grows past it.
	MaxHotCount int `yaml:"max_hot_count"`

	// ColdSpotlightIntervalSeconds is how often a random cold memo is
	// resurfaced under the hot stack. 0 disables the spotlight.
	ColdSpotlightIntervalSeconds int `yaml:"cold_spotlight_interval_seconds"`

	// PauseSpotlightWhenExpanded keeps the current spotlight memo in place
	// while its body is expanded.
	PauseSpotlightWhenExpanded bool `yaml:"pause_spotlight_when_expanded"`

	// TabSpaces is the number of spaces inserted per Tab in the memo input.
	TabSpaces int `yaml:"tab_spaces"`
}

// Default returns a config populated with default values.
func Default() *Config {
	return &Config{
		MaxHotCount:                  DefaultMaxHotCount,
		ColdSpotlightIntervalSeconds: DefaultColdSpotlightIntervalSec,
		PauseSpotlightWhenExpanded:   true,
		TabSpaces:                    DefaultTabSpaces,
	}
}

// DefaultPath returns the default config location, ~/.memostack/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".memostack", "config.yaml"), nil
}

// Load reads the config at path. A missing file yields defaults and writes
// them out so the user has something to edit; an unparseable file yields
// defaults with a warning rather than failing startup.
func Load(path string) (*Config, error) {
	logger, _ := logging.NewLogger("config")
	defer logger.Close()

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := cfg.Save(path); saveErr != nil {
			logger.Warnf("could not write default config to %s: %v", path, saveErr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		logger.Warnf("unparseable config at %s, using defaults: %v", path, err)
		return Default(), nil
	}

	cfg.clamp()
	return cfg, nil
}

// Save writes the config atomically via a temp file and rename.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: rename temp file: %w", err)
	}
	return nil
}

// clamp normalizes out-of-range values instead of erroring: the app should
// always start with something workable.
func (c *Config) clamp() {
	if c.MaxHotCount < 1 {
		c.MaxHotCount = DefaultMaxHotCount
	}
	if c.ColdSpotlightIntervalSeconds < 0 {
		c.ColdSpotlightIntervalSeconds = 0
	}
	if c.TabSpaces < 1 {
		c.TabSpaces = DefaultTabSpaces
	}
}

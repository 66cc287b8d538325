// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mlibbot.
//
// Configuration is read from ~/.mlibbot/config.toml with sensible defaults,
// environment variable overrides, and validation.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mlibbot configuration.
type Config struct {
	Version string `toml:"version"`

	// API configuration (the library-assistant service)
	API APIConfig `toml:"api"`

	// Retrieval knobs passed through to the service verbatim
	Retrieval RetrievalConfig `toml:"retrieval"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// APIConfig contains the remote service configuration.
type APIConfig struct {
	// BaseURL is the base URL of the chat service.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// RetrievalConfig contains the retrieval policy knobs. The client does not
// interpret these; they ride along on every chat request.
type RetrievalConfig struct {
	// TopK is the number of documents the service should retrieve.
	TopK int `toml:"top_k"`
	// Method selects the retrieval method (e.g. "hybrid", "dense").
	Method string `toml:"method"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowTimestamps displays per-message timestamps
	ShowTimestamps bool `toml:"show_timestamps"`
	// ShowMetadata displays retrieval metadata badges on bot replies
	ShowMetadata bool `toml:"show_metadata"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
		},

		Retrieval: RetrievalConfig{
			TopK:   4,
			Method: "hybrid",
		},

		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: true,
			ShowMetadata:   true,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the mlibbot configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mlibbot"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, decErr := toml.DecodeFile(path, cfg); decErr != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, decErr)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Used by tests and the config watcher.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies MLIBBOT_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MLIBBOT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("MLIBBOT_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("MLIBBOT_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retrieval.TopK = n
		}
	}
	if v := os.Getenv("MLIBBOT_METHOD"); v != "" {
		c.Retrieval.Method = v
	}
	if v := os.Getenv("MLIBBOT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// SetDefaults fills in any zero values with defaults.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = d.Retrieval.TopK
	}
	if c.Retrieval.Method == "" {
		c.Retrieval.Method = d.Retrieval.Method
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > 50 {
		return fmt.Errorf("retrieval.top_k must be between 1 and 50, got %d", c.Retrieval.TopK)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light or auto, got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalConfig *Config
	globalOnce   sync.Once
	globalMu     sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults so the app can always start.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration. Used by the watcher
// after a successful reload and by tests.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

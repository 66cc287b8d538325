// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// DEFAULT TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("default base URL = %q", cfg.API.BaseURL)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("default top_k = %d, want 4", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Method != "hybrid" {
		t.Errorf("default method = %q, want hybrid", cfg.Retrieval.Method)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
version = "1.0.0"

[api]
base_url = "https://perpus.example.ac.id"
timeout_secs = 30

[retrieval]
top_k = 8
method = "dense"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.API.BaseURL != "https://perpus.example.ac.id" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("timeout = %d", cfg.API.TimeoutSecs)
	}
	if cfg.Retrieval.TopK != 8 {
		t.Errorf("top_k = %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Method != "dense" {
		t.Errorf("method = %q", cfg.Retrieval.Method)
	}
	// Unset sections keep defaults.
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want default dark", cfg.UI.Theme)
	}
}

func TestLoadFromPath_PartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("base URL should default, got %q", cfg.API.BaseURL)
	}
}

// =============================================================================
// ENV OVERRIDE TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MLIBBOT_API_URL", "http://10.0.0.5:8000")
	t.Setenv("MLIBBOT_TOP_K", "12")
	t.Setenv("MLIBBOT_METHOD", "sparse")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("base URL = %q", cfg.API.BaseURL)
	}
	if cfg.Retrieval.TopK != 12 {
		t.Errorf("top_k = %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Method != "sparse" {
		t.Errorf("method = %q", cfg.Retrieval.Method)
	}
}

func TestApplyEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("MLIBBOT_TOP_K", "banyak")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Retrieval.TopK != 4 {
		t.Errorf("non-numeric top_k override should be ignored, got %d", cfg.Retrieval.TopK)
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.API.BaseURL = "::not-a-url" }, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"top_k too small", func(c *Config) { c.Retrieval.TopK = 0 }, true},
		{"top_k too large", func(c *Config) { c.Retrieval.TopK = 100 }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, true},
		{"auto theme ok", func(c *Config) { c.UI.Theme = "auto" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

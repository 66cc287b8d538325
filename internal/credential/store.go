// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential persists the access token for the library-assistant
// service between runs. The token lives in a single file under the user's
// config directory, readable only by the owner.
package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/morganforge/mlibbot-tui/internal/config"
)

// =============================================================================
// TOKEN STORE
// =============================================================================

const tokenFile = "token"

// Store is a process-wide token store backed by a file on disk. The file is
// read once on first access; Set and Clear write through immediately.
type Store struct {
	mu     sync.RWMutex
	loaded bool
	token  string
	path   string
}

var (
	defaultStore *Store
	storeOnce    sync.Once
)

// Default returns the process-wide store rooted at the config directory.
func Default() *Store {
	storeOnce.Do(func() {
		defaultStore = &Store{}
		if dir, err := config.ConfigDir(); err == nil {
			defaultStore.path = filepath.Join(dir, tokenFile)
		}
	})
	return defaultStore
}

// NewStore creates a store backed by the given file path. Used by tests.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Get returns the stored token and whether one is present.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.token, s.token != ""
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.token = s.readFile()
		s.loaded = true
	}
	return s.token, s.token != ""
}

// Set stores the token in memory and writes it through to disk.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true

	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes the token from memory and deletes the file on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// readFile reads the token file, returning "" if absent or unreadable.
func (s *Store) readFile() string {
	if s.path == "" {
		return ""
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher reloads the configuration when the config file changes on disk.
// Reloads are debounced because editors typically fire several events per
// save, and a failed reload keeps the previous configuration.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(*Config)

	mu      sync.Mutex
	pending time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the default config path. onChange is
// invoked with the freshly loaded configuration after each successful
// reload.
func NewWatcher(onChange func(*Config)) (*Watcher, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		watcher:  fw,
		debounce: 250 * time.Millisecond,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the config file for changes.
func (w *Watcher) Watch() error {
	// Watch the directory: editors replace files on save, which would
	// otherwise drop the watch on the inode.
	dir := filepath.Dir(w.path)
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// processEvents records write events on the config file.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// processPending fires the reload once events settle past the debounce.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if !due {
				continue
			}

			cfg, err := LoadFromPath(w.path)
			if err != nil {
				// Keep the previous configuration on a bad edit.
				continue
			}
			SetGlobal(cfg)
			if w.onChange != nil {
				w.onChange(cfg)
			}
		}
	}
}

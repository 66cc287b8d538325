// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maintains the account's persisted conversation listing
// and loads conversation histories from the service.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/model"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Gateway is the slice of the HTTP client the directory needs.
type Gateway interface {
	ListSessions(ctx context.Context) ([]model.SessionMeta, error)
	CreateSession(ctx context.Context) (string, error)
	SessionHistory(ctx context.Context, sessionID string) (*api.SessionHistoryResponse, error)
}

// AuthState reports whether an account is signed in. Anonymous mode has no
// persisted sessions at all.
type AuthState interface {
	IsAuthenticated() bool
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory holds the sidebar listing of persisted conversations, newest
// first. The server owns the ordering; every refresh is a full replace.
type Directory struct {
	mu       sync.RWMutex
	gateway  Gateway
	auth     AuthState
	sessions []model.SessionMeta
	activeID string
}

// NewDirectory creates an empty directory.
func NewDirectory(gateway Gateway, auth AuthState) *Directory {
	return &Directory{
		gateway: gateway,
		auth:    auth,
	}
}

// Sessions returns a snapshot of the current listing.
func (d *Directory) Sessions() []model.SessionMeta {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.SessionMeta, len(d.sessions))
	copy(out, d.sessions)
	return out
}

// ActiveID returns the id of the session the thread is bound to, or "".
func (d *Directory) ActiveID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeID
}

// SetActiveID binds the directory to a session id. An empty id detaches.
func (d *Directory) SetActiveID(id string) {
	d.mu.Lock()
	d.activeID = id
	d.mu.Unlock()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Refresh replaces the listing with the server's current view. A no-op in
// anonymous mode. The previous listing survives a failed refresh.
func (d *Directory) Refresh(ctx context.Context) error {
	if !d.auth.IsAuthenticated() {
		return nil
	}

	sessions, err := d.gateway.ListSessions(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.sessions = sessions
	d.mu.Unlock()
	return nil
}

// Create makes a new empty persisted conversation and returns its id. In
// anonymous mode it returns "" with no error; the conversation simply stays
// unpersisted. The listing is refreshed best-effort so the sidebar shows
// the new entry.
func (d *Directory) Create(ctx context.Context) (string, error) {
	if !d.auth.IsAuthenticated() {
		return "", nil
	}

	id, err := d.gateway.CreateSession(ctx)
	if err != nil {
		return "", err
	}

	d.Refresh(ctx)
	return id, nil
}

// Load fetches a conversation's history and maps it onto display messages.
// Message ids are derived from the session id and position, so reloading
// the same session yields identical ids. The active id is set to the loaded
// session.
func (d *Directory) Load(ctx context.Context, sessionID string) ([]*model.Message, error) {
	resp, err := d.gateway.SessionHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, 0, len(resp.Messages))
	for i, hm := range resp.Messages {
		role := model.RoleBot
		if hm.Role == "user" {
			role = model.RoleUser
		}
		md := hm.Metadata
		if md.IsZero() {
			md = nil
		}
		msgs = append(msgs, &model.Message{
			ID:        model.HistoryMessageID(sessionID, i),
			Role:      role,
			Content:   hm.Content,
			Timestamp: parseTimestamp(hm.Timestamp),
			Metadata:  md,
		})
	}

	d.SetActiveID(sessionID)
	return msgs, nil
}

// =============================================================================
// TIMESTAMP PARSING
// =============================================================================

// timestampLayouts are the formats the service has been seen emitting.
// Layouts without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a history timestamp, falling back to the zero time
// when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

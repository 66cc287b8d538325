// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"

	"github.com/morganforge/mlibbot-tui/internal/model"
)

// =============================================================================
// AUTH WIRE TYPES
// =============================================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest is the body for PUT /auth/profile.
type ProfileUpdateRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// PasswordUpdateRequest is the body for PUT /auth/password.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// =============================================================================
// CHAT WIRE TYPES
// =============================================================================

// ChatRequest is the body for POST /chat. SessionID is omitted for anonymous
// conversations; the retrieval knobs ride along from the configuration.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id,omitempty"`
	TopK      int     `json:"top_k"`
	Method    string  `json:"method"`
}

// SourceHit is one retrieved document reference in a chat response.
type SourceHit struct {
	Source      string  `json:"source"`
	ScoreHybrid float64 `json:"score_hybrid"`
}

// IntentPayload is the classified intent attached to a chat response.
type IntentPayload struct {
	Label             string  `json:"label"`
	ConfidencePercent float64 `json:"confidence_percent"`
}

// ChatResponse is the body returned by POST /chat. Sources and Intent are
// optional; the service omits them when retrieval or classification did not
// produce anything.
type ChatResponse struct {
	Answer  string         `json:"answer"`
	Sources []SourceHit    `json:"sources,omitempty"`
	Intent  *IntentPayload `json:"intent,omitempty"`
}

// Metadata folds the optional response fields into display metadata for the
// bot message. Only the best-ranked source is surfaced. Returns nil when the
// response carried neither sources nor an intent.
func (r *ChatResponse) Metadata() *model.Metadata {
	md := &model.Metadata{}
	if len(r.Sources) > 0 {
		best := r.Sources[0]
		md.Source = best.Source
		score := best.ScoreHybrid
		md.ScoreHybrid = &score
	}
	if r.Intent != nil {
		md.Intent = r.Intent.Label
		conf := r.Intent.ConfidencePercent
		md.Confidence = &conf
	}
	if md.IsZero() {
		return nil
	}
	return md
}

// =============================================================================
// SESSION WIRE TYPES
// =============================================================================

// SessionListResponse is the body returned by GET /chat/sessions. The
// service emits a bare JSON array; a {"sessions": [...]} envelope is also
// accepted.
type SessionListResponse struct {
	Sessions []model.SessionMeta
}

// UnmarshalJSON decodes either the bare array or the enveloped form.
func (r *SessionListResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Sessions)
	}
	var envelope struct {
		Sessions []model.SessionMeta `json:"sessions"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	r.Sessions = envelope.Sessions
	return nil
}

// SessionCreateResponse is the body returned by POST /chat/sessions.
type SessionCreateResponse struct {
	ID string `json:"id"`
}

// HistoryMessage is one persisted message in GET /chat/sessions/{id}.
// Timestamps arrive as strings because the service emits several formats;
// parsing happens in the session directory.
type HistoryMessage struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp string          `json:"timestamp"`
	Metadata  *model.Metadata `json:"metadata,omitempty"`
}

// SessionHistoryResponse is the body returned by GET /chat/sessions/{id}.
type SessionHistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

// =============================================================================
// HEALTH WIRE TYPES
// =============================================================================

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// detailResponse is the error envelope the service uses for all failures.
type detailResponse struct {
	Detail string `json:"detail"`
}

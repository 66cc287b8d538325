// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat thread:
// messages, retrieval metadata, users and session listings.
package model

import (
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "MLibBot"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in the active thread.
type Message struct {
	// Identity. IDs are generated locally: monotonic within a thread for
	// messages typed in this process, or derived from session id + position
	// for messages loaded from the remote history.
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Retrieval metadata. Only present on bot messages, and only when the
	// service returned any of the optional fields.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// IsBot reports whether the message came from the assistant.
func (m *Message) IsBot() bool {
	return m.Role == RoleBot
}

// DisplayTime formats the timestamp for the bubble footer (HH:MM).
func (m *Message) DisplayTime() string {
	return m.Timestamp.Format("15:04")
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// RETRIEVAL METADATA
// =============================================================================

// Metadata carries the retrieval information attached to a bot reply.
// Every field is optional: the service may omit any of them and the UI
// renders only what is present.
type Metadata struct {
	// Source is the label of the best-matching document, if any.
	Source string `json:"source,omitempty"`

	// Intent is the classified intent label, if any.
	Intent string `json:"intent,omitempty"`

	// Confidence is the intent confidence in percent (0-100), when reported.
	Confidence *float64 `json:"confidence,omitempty"`

	// ScoreHybrid is the hybrid relevance score of the best match, when
	// reported.
	ScoreHybrid *float64 `json:"score_hybrid,omitempty"`
}

// IsZero reports whether no metadata field is populated.
func (md *Metadata) IsZero() bool {
	if md == nil {
		return true
	}
	return md.Source == "" && md.Intent == "" && md.Confidence == nil && md.ScoreHybrid == nil
}

// =============================================================================
// USER TYPE
// =============================================================================

// User is the authenticated account. A nil *User means anonymous mode.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// =============================================================================
// SESSION METADATA
// =============================================================================

// SessionMeta is the lightweight listing entry for a persisted conversation.
// The full message history lives on the server and is fetched on demand.
type SessionMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

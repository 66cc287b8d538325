// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AddUserMessage(t *testing.T) {
	c := NewConversation()

	msg := c.AddUserMessage("Jam Layanan Perpustakaan")

	if msg.ID != "msg-1" {
		t.Errorf("first local id = %q, want msg-1", msg.ID)
	}
	if msg.Role != RoleUser {
		t.Errorf("role = %q, want user", msg.Role)
	}
	if c.MessageCount() != 1 {
		t.Errorf("count = %d, want 1", c.MessageCount())
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestConversation_LocalIDsAreMonotonic(t *testing.T) {
	c := NewConversation()

	first := c.AddUserMessage("satu")
	second := c.AddBotMessage("dua", nil)
	third := c.AddUserMessage("tiga")

	ids := []string{first.ID, second.ID, third.ID}
	want := []string{"msg-1", "msg-2", "msg-3"}
	for i := range ids {
		if ids[i] != want[i] {
			t.Errorf("id[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestConversation_AddBotMessage_DropsEmptyMetadata(t *testing.T) {
	c := NewConversation()

	msg := c.AddBotMessage("jawaban", &Metadata{})
	if msg.Metadata != nil {
		t.Error("zero-valued metadata should be dropped")
	}

	conf := 87.5
	msg = c.AddBotMessage("jawaban", &Metadata{Intent: "jam_layanan", Confidence: &conf})
	if msg.Metadata == nil {
		t.Fatal("populated metadata should be kept")
	}
	if msg.Metadata.Intent != "jam_layanan" {
		t.Errorf("intent = %q", msg.Metadata.Intent)
	}
}

func TestConversation_Replace(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("old")
	c.AddBotMessage("old reply", nil)

	loaded := []*Message{
		{ID: HistoryMessageID("sess42", 0), Role: RoleUser, Content: "a"},
		{ID: HistoryMessageID("sess42", 1), Role: RoleBot, Content: "b"},
		{ID: HistoryMessageID("sess42", 2), Role: RoleUser, Content: "c"},
	}
	c.Replace(loaded)

	if c.MessageCount() != 3 {
		t.Fatalf("count = %d, want 3", c.MessageCount())
	}
	if c.Messages[0].ID != "sess42-0" {
		t.Errorf("adopted id = %q, want sess42-0", c.Messages[0].ID)
	}

	// Local numbering resumes after the adopted messages.
	next := c.AddUserMessage("d")
	if next.ID != "msg-4" {
		t.Errorf("post-replace local id = %q, want msg-4", next.ID)
	}
}

func TestConversation_Clear(t *testing.T) {
	c := NewConversation()
	c.AddUserMessage("halo")
	c.Clear()

	if !c.IsEmpty() {
		t.Error("conversation should be empty after Clear")
	}
	if msg := c.AddUserMessage("lagi"); msg.ID != "msg-1" {
		t.Errorf("id numbering should restart, got %q", msg.ID)
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short content unchanged", "halo", 10, "halo"},
		{"long content truncated", strings.Repeat("a", 20), 10, "aaaaaaa..."},
		{"unicode safe", "📚📚📚📚📚📚📚📚", 5, "📚📚..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &Message{Content: tc.content}
			if got := m.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMessage_DisplayTime(t *testing.T) {
	m := &Message{Timestamp: time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)}
	if got := m.DisplayTime(); got != "09:05" {
		t.Errorf("DisplayTime() = %q, want 09:05", got)
	}
}

// =============================================================================
// METADATA TESTS
// =============================================================================

func TestMetadata_IsZero(t *testing.T) {
	score := 0.42

	tests := []struct {
		name string
		md   *Metadata
		want bool
	}{
		{"nil metadata", nil, true},
		{"empty metadata", &Metadata{}, true},
		{"source only", &Metadata{Source: "peraturan.pdf"}, false},
		{"intent only", &Metadata{Intent: "jam_layanan"}, false},
		{"score only", &Metadata{ScoreHybrid: &score}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.md.IsZero(); got != tc.want {
				t.Errorf("IsZero() = %v, want %v", got, tc.want)
			}
		})
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/morganforge/mlibbot-tui/internal/model"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// WORD WRAP TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short line unchanged", "halo dunia", 20, "halo dunia"},
		{"wraps at word boundary", "satu dua tiga empat", 9, "satu dua\ntiga\nempat"},
		{"hard breaks long word", "aaaaaaaaaa", 4, "aaaa\naaaa\naa"},
		{"preserves existing newlines", "a\nb", 10, "a\nb"},
		{"empty string", "", 10, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wordWrap(tc.in, tc.width); got != tc.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
		})
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("ab\nabcd\na"); got != 4 {
		t.Errorf("maxLineWidth = %d, want 4", got)
	}
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubble_MetadataBadges(t *testing.T) {
	theme := styles.NewTheme()
	conf := 92.0
	score := 0.87

	msg := &model.Message{
		Role:      model.RoleBot,
		Content:   "Perpustakaan buka pukul 08.00.",
		Timestamp: time.Now(),
		Metadata: &model.Metadata{
			Source:      "jam_layanan.pdf",
			Intent:      "jam_layanan",
			Confidence:  &conf,
			ScoreHybrid: &score,
		},
	}

	view := NewMessageBubble(msg, theme).View()
	if !strings.Contains(view, "jam_layanan.pdf") {
		t.Error("badge should show the source")
	}
	if !strings.Contains(view, "92%") {
		t.Error("badge should show the confidence")
	}
}

func TestMessageBubble_NoMetadataNoBadges(t *testing.T) {
	theme := styles.NewTheme()
	msg := &model.Message{Role: model.RoleBot, Content: "halo"}

	view := NewMessageBubble(msg, theme).View()
	if strings.Contains(view, "intent:") || strings.Contains(view, "source:") {
		t.Error("no badges without metadata")
	}
}

func TestMessageBubble_PartialMetadata(t *testing.T) {
	theme := styles.NewTheme()
	msg := &model.Message{
		Role:     model.RoleBot,
		Content:  "jawaban",
		Metadata: &model.Metadata{Intent: "layanan"},
	}

	view := NewMessageBubble(msg, theme).View()
	if !strings.Contains(view, "intent:") {
		t.Error("intent badge should render alone")
	}
	if strings.Contains(view, "source:") {
		t.Error("absent source should not render")
	}
}

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestWelcome_CursorAndSelection(t *testing.T) {
	w := NewWelcome(styles.NewTheme())

	if w.Selected() != SuggestedQuestions[0] {
		t.Errorf("initial selection = %q", w.Selected())
	}

	w.MoveDown()
	w.MoveDown()
	if w.Selected() != SuggestedQuestions[2] {
		t.Errorf("selection = %q", w.Selected())
	}

	// Cursor clamps at both ends.
	for i := 0; i < 10; i++ {
		w.MoveDown()
	}
	if w.Selected() != SuggestedQuestions[len(SuggestedQuestions)-1] {
		t.Error("cursor should clamp at the last suggestion")
	}
	for i := 0; i < 10; i++ {
		w.MoveUp()
	}
	if w.Selected() != SuggestedQuestions[0] {
		t.Error("cursor should clamp at the first suggestion")
	}
}

func TestWelcome_ViewListsSuggestions(t *testing.T) {
	w := NewWelcome(styles.NewTheme())
	w.SetSize(100, 40)
	view := w.View()

	for _, q := range SuggestedQuestions {
		if !strings.Contains(view, q) {
			t.Errorf("view should list %q", q)
		}
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebar_CursorClampsOnShrink(t *testing.T) {
	s := NewSidebar(styles.NewTheme())
	s.SetSessions([]model.SessionMeta{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	s.MoveDown()
	s.MoveDown()

	if s.Selected().ID != "c" {
		t.Fatalf("selected = %q", s.Selected().ID)
	}

	// The server dropped two sessions.
	s.SetSessions([]model.SessionMeta{{ID: "a"}})
	if s.Selected().ID != "a" {
		t.Errorf("cursor should clamp to remaining entry, selected = %v", s.Selected())
	}

	s.SetSessions(nil)
	if s.Selected() != nil {
		t.Error("empty listing selects nothing")
	}
}

func TestSidebar_RowsPaddedToColumnWidth(t *testing.T) {
	s := NewSidebar(styles.NewTheme())
	s.SetSize(24, 20)
	s.SetSessions([]model.SessionMeta{{ID: "a", Title: "Jam"}})

	view := s.View()

	// " Jam" padded to innerWidth-1 leaves innerWidth-5 trailing spaces.
	inner := s.Width - 4
	found := false
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "Jam"+strings.Repeat(" ", inner-5)) {
			found = true
		}
	}
	if !found {
		t.Error("session row should be padded to the column width")
	}
}

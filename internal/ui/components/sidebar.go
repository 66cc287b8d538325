// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/morganforge/mlibbot-tui/internal/model"
	"github.com/morganforge/mlibbot-tui/internal/session"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
	"github.com/morganforge/mlibbot-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR COMPONENT
// =============================================================================

// Sidebar renders the persisted-session listing next to the chat view.
type Sidebar struct {
	Width    int
	Height   int
	sessions []model.SessionMeta
	cursor   int
	activeID string
	theme    *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  28,
		Height: 24,
		theme:  theme,
	}
}

// SetSize updates the layout dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetSessions replaces the listing. The cursor is clamped so a shrunk
// listing never leaves it out of range.
func (s *Sidebar) SetSessions(sessions []model.SessionMeta) {
	s.sessions = sessions
	if s.cursor >= len(sessions) {
		s.cursor = len(sessions) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SetActiveID marks the session the thread is bound to.
func (s *Sidebar) SetActiveID(id string) {
	s.activeID = id
}

// MoveUp moves the cursor up.
func (s *Sidebar) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves the cursor down.
func (s *Sidebar) MoveDown() {
	if s.cursor < len(s.sessions)-1 {
		s.cursor++
	}
}

// Selected returns the session under the cursor, or nil when empty.
func (s *Sidebar) Selected() *model.SessionMeta {
	if len(s.sessions) == 0 {
		return nil
	}
	return &s.sessions[s.cursor]
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var b strings.Builder

	b.WriteString(s.theme.SidebarTitle.Render("Riwayat"))
	b.WriteString("\n\n")

	if len(s.sessions) == 0 {
		b.WriteString(s.theme.SessionMeta.Render("belum ada percakapan"))
	}

	now := time.Now()
	innerWidth := s.Width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	for i, sess := range s.sessions {
		title := sess.Title
		if title == "" {
			title = "Percakapan"
		}
		title = util.TruncateWidth(title, innerWidth-2)

		marker := " "
		if sess.ID == s.activeID {
			marker = "*"
		}

		// Pad so the selected-row background spans the full column. The
		// row plus the item and sidebar frames must stay inside Width.
		line := util.PadRight(marker+title, innerWidth-1)
		style := s.theme.SessionItem
		if i == s.cursor {
			style = s.theme.SessionItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
		b.WriteString(s.theme.SessionMeta.Render("  " + session.TimeAgo(sess.UpdatedAt, now)))
		b.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
}

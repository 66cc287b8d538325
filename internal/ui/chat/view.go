// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/mlibbot-tui/internal/conversation"
	"github.com/morganforge/mlibbot-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	var main string
	if m.onWelcome() {
		main = m.welcome.View()
	} else {
		main = m.viewport.View()
	}

	if m.showSidebar {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	}
	b.WriteString(main)
	b.WriteString("\n")

	if m.typing.Active() {
		b.WriteString(m.typing.View())
	}
	b.WriteString("\n")

	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderHeader renders the title line.
func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("MLibBot")
	subtitle := m.theme.HeaderSubtitle.Render("Asisten Perpustakaan Maranatha")
	return m.theme.Header.Width(m.width).Render(title + "  " + subtitle)
}

// renderStatusBar renders the bottom line: account state, warnings and
// keyboard shortcuts.
func (m *Model) renderStatusBar() string {
	var left string
	if user := m.auth.User(); user != nil {
		left = m.theme.StatusOnline.Render("@" + user.FullName)
	} else {
		left = m.theme.StatusAnon.Render("anonim (riwayat tidak disimpan)")
	}

	if m.statusLine != "" {
		left += "  " + m.theme.FormError.Render(m.statusLine)
	}

	shortcuts := []string{"enter kirim", "ctrl+n baru", "ctrl+b riwayat", "ctrl+c keluar"}
	if m.auth.IsAuthenticated() {
		shortcuts = append(shortcuts, "ctrl+p profil", "ctrl+l keluar akun")
	}
	right := m.theme.ShortcutDesc.Render(strings.Join(shortcuts, " | "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderThread renders all messages into the viewport content.
func (m *Model) renderThread() string {
	msgs := m.manager.Messages()
	if len(msgs) == 0 {
		return ""
	}

	width := m.viewport.Width
	var parts []string
	for _, msg := range msgs {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(width)
		bubble.ShowTimestamp = m.cfg.UI.ShowTimestamps
		bubble.ShowMetadata = m.cfg.UI.ShowMetadata
		bubble.IsError = msg.IsBot() && msg.Content == conversation.ErrorReply
		parts = append(parts, bubble.View(), "")
	}
	return strings.Join(parts, "\n")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the mlibbot TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/mlibbot-tui/internal/model"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
	"github.com/morganforge/mlibbot-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message of the thread as a chat bubble. User
// messages sit right, bot messages left; the synthetic failure reply gets
// the error styling.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowMetadata  bool
	IsError       bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleBot}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowMetadata:  true,
		theme:         theme,
	}
}

// SetWidth sets the render width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderBotBubble()
}

// ==========================================================================
// USER BUBBLE - right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	header := b.theme.BubbleRole.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		header += " " + b.theme.BubbleTime.Render(b.Message.DisplayTime())
	}

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// BOT BUBBLE - left-aligned, with metadata badges
// ==========================================================================

func (b *MessageBubble) renderBotBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubbleStyle := b.theme.BotBubble
	if b.IsError {
		bubbleStyle = b.theme.ErrorBubble
	}
	bubble := bubbleStyle.Width(contentWidth).Render(wrapped)

	header := b.theme.BubbleRole.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		header += " " + b.theme.BubbleTime.Render(b.Message.DisplayTime())
	}

	parts := []string{header, bubble}
	if b.ShowMetadata {
		if badges := b.renderMetadata(); badges != "" {
			parts = append(parts, badges)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderMetadata renders the retrieval badges under a bot bubble. Each field
// is optional and rendered only when present.
func (b *MessageBubble) renderMetadata() string {
	md := b.Message.Metadata
	if md.IsZero() {
		return ""
	}

	var badges []string
	if md.Intent != "" {
		label := md.Intent
		if md.Confidence != nil {
			label = fmt.Sprintf("%s %.0f%%", md.Intent, *md.Confidence)
		}
		badges = append(badges, b.theme.MetaBadge.Render("intent: "+label))
	}
	if md.Source != "" {
		label := util.TruncateWidth(md.Source, 40)
		if md.ScoreHybrid != nil {
			label = fmt.Sprintf("%s (%.2f)", label, *md.ScoreHybrid)
		}
		badges = append(badges, b.theme.MetaBadge.Render("source: "+label))
	}
	if len(badges) == 0 {
		return ""
	}
	return strings.Join(badges, " ")
}

// =============================================================================
// LAYOUT HELPERS
// =============================================================================

// wordWrap wraps text at word boundaries to the given display width. Words
// longer than the width are hard-broken.
func wordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for util.StringWidth(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			head := util.CutWidth(word, width)
			lines = append(lines, head)
			word = word[len(head):]
		}
		switch {
		case current == "":
			current = word
		case util.StringWidth(current)+1+util.StringWidth(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(s string) int {
	max := 0
	for _, line := range strings.Split(s, "\n") {
		if w := util.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

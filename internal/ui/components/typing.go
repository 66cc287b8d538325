// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR COMPONENT
// =============================================================================

// TypingIndicator shows a spinner while a send is in flight.
type TypingIndicator struct {
	spinner spinner.Model
	active  bool
	theme   *styles.Theme
}

// NewTypingIndicator creates the indicator, inactive.
func NewTypingIndicator(theme *styles.Theme) *TypingIndicator {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return &TypingIndicator{
		spinner: sp,
		theme:   theme,
	}
}

// Start activates the indicator and returns the tick command.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// Active reports whether the indicator is shown.
func (t *TypingIndicator) Active() bool {
	return t.active
}

// Update advances the spinner animation.
func (t *TypingIndicator) Update(msg tea.Msg) tea.Cmd {
	if !t.active {
		return nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

// View renders the indicator, or "" when inactive.
func (t *TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.spinner.View() + " " + t.theme.ThinkingText.Render("MLibBot sedang mengetik...")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN COMPONENT
// =============================================================================

// SuggestedQuestions are the starter questions shown on an empty thread,
// in the language the library service answers in.
var SuggestedQuestions = []string{
	"Carikan Buku Natural Language Processing",
	"Jam Layanan Perpustakaan",
	"Bisa Carikan buku yang terbit tahun 2020?",
	"Apa saja layanan yang disediakan di Perpustakaan?",
}

const welcomeLogo = `
 __  __ _     _ _     ____        _
|  \/  | |   (_) |__ | __ )  ___ | |_
| |\/| | |   | | '_ \|  _ \ / _ \| __|
| |  | | |___| | |_) | |_) | (_) | |_
|_|  |_|_____|_|_.__/|____/ \___/ \__|`

// Welcome renders the empty-thread screen: logo, a greeting, and the
// suggested questions. Enter on a suggestion sends it as the first message.
type Welcome struct {
	Width    int
	Height   int
	UserName string
	cursor   int
	theme    *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{
		Width:  80,
		Height: 24,
		theme:  theme,
	}
}

// SetSize updates the layout dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// SetUserName sets the greeting name; empty means anonymous.
func (w *Welcome) SetUserName(name string) {
	w.UserName = name
}

// MoveUp moves the suggestion cursor up.
func (w *Welcome) MoveUp() {
	if w.cursor > 0 {
		w.cursor--
	}
}

// MoveDown moves the suggestion cursor down.
func (w *Welcome) MoveDown() {
	if w.cursor < len(SuggestedQuestions)-1 {
		w.cursor++
	}
}

// Selected returns the highlighted suggested question.
func (w *Welcome) Selected() string {
	return SuggestedQuestions[w.cursor]
}

// View renders the welcome screen.
func (w *Welcome) View() string {
	var b strings.Builder

	b.WriteString(w.theme.WelcomeLogo.Render(welcomeLogo))
	b.WriteString("\n\n")

	greeting := "Halo! Saya asisten Perpustakaan Maranatha."
	if w.UserName != "" {
		greeting = "Halo, " + w.UserName + "! Saya asisten Perpustakaan Maranatha."
	}
	b.WriteString(w.theme.WelcomeInfo.Render(greeting))
	b.WriteString("\n")
	b.WriteString(w.theme.WelcomeInfo.Render("Silakan pilih pertanyaan atau ketik sendiri:"))
	b.WriteString("\n\n")

	for i, q := range SuggestedQuestions {
		style := w.theme.SuggestedItem
		prefix := "  "
		if i == w.cursor {
			style = w.theme.SuggestedChosen
			prefix = "> "
		}
		b.WriteString(style.Render(prefix + q))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(w.theme.WelcomePressKey.Render("enter: send selected · type to compose · ctrl+c: quit"))

	box := w.theme.WelcomeBox.Render(b.String())
	return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package forms implements the account forms: sign in, sign up, profile
// and password change. One model serves all four, switched by mode.
package forms

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/mlibbot-tui/internal/auth"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// MODES
// =============================================================================

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
	ModeProfile
	ModePassword
)

// title returns the form heading.
func (m Mode) title() string {
	switch m {
	case ModeLogin:
		return "Masuk"
	case ModeRegister:
		return "Daftar Akun"
	case ModeProfile:
		return "Ubah Profil"
	case ModePassword:
		return "Ganti Password"
	default:
		return ""
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// CompletedMsg reports a successful submit.
type CompletedMsg struct {
	Mode Mode
}

// CancelledMsg reports the user backing out of the form.
type CancelledMsg struct {
	Mode Mode
}

// submitResultMsg carries the controller result back into the event loop.
type submitResultMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is one account form.
type Model struct {
	controller *auth.Controller
	theme      *styles.Theme
	mode       Mode

	inputs []textinput.Model
	labels []string
	focus  int

	errMsg string
	busy   bool
	width  int
	height int
}

// New creates a form in the given mode.
func New(controller *auth.Controller, mode Mode, theme *styles.Theme) *Model {
	m := &Model{
		controller: controller,
		theme:      theme,
		mode:       mode,
	}
	m.buildInputs()
	return m
}

// buildInputs creates the input fields for the current mode.
func (m *Model) buildInputs() {
	text := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		ti.Width = 36
		return ti
	}
	password := func(placeholder string) textinput.Model {
		ti := text(placeholder)
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		return ti
	}

	switch m.mode {
	case ModeLogin:
		m.labels = []string{"Email", "Password"}
		m.inputs = []textinput.Model{text("email@kampus.ac.id"), password("password")}

	case ModeRegister:
		m.labels = []string{"Nama Lengkap", "Email", "Password", "Ulangi Password"}
		m.inputs = []textinput.Model{
			text("nama lengkap"),
			text("email@kampus.ac.id"),
			password("password"),
			password("ulangi password"),
		}

	case ModeProfile:
		m.labels = []string{"Nama Lengkap", "Email"}
		m.inputs = []textinput.Model{text("nama lengkap"), text("email@kampus.ac.id")}
		if user := m.controller.User(); user != nil {
			m.inputs[0].SetValue(user.FullName)
			m.inputs[1].SetValue(user.Email)
		}

	case ModePassword:
		m.labels = []string{"Password Sekarang", "Password Baru", "Ulangi Password Baru"}
		m.inputs = []textinput.Model{
			password("password sekarang"),
			password("password baru"),
			password("ulangi password baru"),
		}
	}

	m.focus = 0
	m.inputs[0].Focus()
}

// Mode returns the form's mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles events for the form.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case submitResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		mode := m.mode
		return m, func() tea.Msg { return CompletedMsg{Mode: mode} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			mode := m.mode
			return m, func() tea.Msg { return CancelledMsg{Mode: mode} }

		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil

		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil

		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.submitCmd()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to the given field, wrapping around.
func (m *Model) setFocus(idx int) {
	n := len(m.inputs)
	idx = ((idx % n) + n) % n

	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

// submitCmd runs the controller call for the current mode. A mismatched
// password confirmation is rejected here, before anything leaves the form.
func (m *Model) submitCmd() tea.Cmd {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = in.Value()
	}

	if err := m.checkConfirmation(values); err != nil {
		m.errMsg = err.Error()
		return nil
	}

	m.busy = true
	m.errMsg = ""

	controller := m.controller
	mode := m.mode

	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch mode {
		case ModeLogin:
			err = controller.Login(ctx, values[0], values[1])
		case ModeRegister:
			err = controller.Register(ctx, values[0], values[1], values[2])
		case ModeProfile:
			err = controller.UpdateProfile(ctx, values[0], values[1])
		case ModePassword:
			err = controller.UpdatePassword(ctx, values[0], values[1])
		}
		return submitResultMsg{err: err}
	}
}

// checkConfirmation validates the repeated password for the modes that
// carry one.
func (m *Model) checkConfirmation(values []string) error {
	switch m.mode {
	case ModeRegister:
		if values[2] != values[3] {
			return &auth.ValidationError{Field: "password", Message: "konfirmasi password tidak sama"}
		}
	case ModePassword:
		if values[1] != values[2] {
			return &auth.ValidationError{Field: "new_password", Message: "konfirmasi password baru tidak sama"}
		}
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.FormTitle.Render(m.mode.title()))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		b.WriteString(m.theme.FormLabel.Render(m.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(m.theme.FormHint.Render("menghubungi server..."))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(m.theme.FormError.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case ModeLogin:
		b.WriteString(m.theme.FormHint.Render("enter: masuk · ctrl+r: daftar · esc: lanjut tanpa akun"))
	case ModeRegister:
		b.WriteString(m.theme.FormHint.Render("enter: daftar · esc: kembali"))
	case ModeProfile:
		b.WriteString(m.theme.FormHint.Render("enter: simpan · ctrl+g: ganti password · esc: kembali"))
	default:
		b.WriteString(m.theme.FormHint.Render("enter: simpan · esc: kembali"))
	}

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

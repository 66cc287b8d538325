// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat screen: thread viewport, input,
// session sidebar and the welcome screen for empty threads.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/conversation"
	"github.com/morganforge/mlibbot-tui/internal/model"
	"github.com/morganforge/mlibbot-tui/internal/session"
	"github.com/morganforge/mlibbot-tui/internal/ui/components"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// sendResultMsg carries a finished send back into the event loop.
type sendResultMsg struct {
	result conversation.SendResult
}

// sessionsRefreshedMsg carries a refreshed sidebar listing.
type sessionsRefreshedMsg struct {
	sessions []model.SessionMeta
}

// historyLoadedMsg carries a loaded conversation history. SessionID tags
// the session the load was issued for so stale loads can be discarded.
type historyLoadedMsg struct {
	sessionID string
	messages  []*model.Message
	err       error
}

// LogoutMsg asks the application to sign out and return to the auth screen.
type LogoutMsg struct{}

// OpenProfileMsg asks the application to show the profile form.
type OpenProfileMsg struct{}

// =============================================================================
// AUTH VIEW
// =============================================================================

// AuthView is the slice of the auth controller the chat screen reads.
type AuthView interface {
	IsAuthenticated() bool
	User() *model.User
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat screen.
type Model struct {
	manager   *conversation.Manager
	directory *session.Directory
	auth      AuthView
	cfg       *config.Config
	theme     *styles.Theme

	viewport viewport.Model
	input    textinput.Model
	typing   *components.TypingIndicator
	sidebar  *components.Sidebar
	welcome  *components.Welcome

	width       int
	height      int
	showSidebar bool
	sidebarNav  bool
	statusLine  string
	ready       bool
}

// New creates the chat screen.
func New(manager *conversation.Manager, directory *session.Directory, auth AuthView, cfg *config.Config, theme *styles.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = "Tulis pertanyaan..."
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = 2000
	ti.Focus()

	m := &Model{
		manager:   manager,
		directory: directory,
		auth:      auth,
		cfg:       cfg,
		theme:     theme,
		input:     ti,
		typing:    components.NewTypingIndicator(theme),
		sidebar:   components.NewSidebar(theme),
		welcome:   components.NewWelcome(theme),
	}
	if user := auth.User(); user != nil {
		m.welcome.SetUserName(user.FullName)
	}
	m.showSidebar = auth.IsAuthenticated()
	return m
}

// Init requests the initial sidebar listing.
func (m *Model) Init() tea.Cmd {
	if m.auth.IsAuthenticated() {
		return m.refreshCmd()
	}
	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd runs one send in a goroutine. The manager serializes state
// internally; the closure only captures immutable values.
func (m *Model) sendCmd(text string) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		result := manager.Send(context.Background(), text)
		return sendResultMsg{result: result}
	}
}

// refreshCmd fetches the sidebar listing.
func (m *Model) refreshCmd() tea.Cmd {
	directory := m.directory
	return func() tea.Msg {
		directory.Refresh(context.Background())
		return sessionsRefreshedMsg{sessions: directory.Sessions()}
	}
}

// loadCmd fetches a conversation history.
func (m *Model) loadCmd(sessionID string) tea.Cmd {
	directory := m.directory
	return func() tea.Msg {
		msgs, err := directory.Load(context.Background(), sessionID)
		return historyLoadedMsg{sessionID: sessionID, messages: msgs, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles events for the chat screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sendResultMsg:
		m.typing.Stop()
		if msg.result.Bot == nil {
			// The thread was replaced while the send was in flight; the
			// reply was discarded and the adopted thread stands as is.
			m.syncViewport(true)
			return m, nil
		}
		if msg.result.Outcome == conversation.OutcomeFailed {
			m.statusLine = "koneksi bermasalah"
		} else {
			m.statusLine = ""
		}
		m.syncViewport(true)
		if m.auth.IsAuthenticated() {
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case sessionsRefreshedMsg:
		m.sidebar.SetSessions(msg.sessions)
		m.sidebar.SetActiveID(m.manager.SessionID())
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.statusLine = "gagal memuat percakapan"
			return m, nil
		}
		if m.manager.Adopt(msg.sessionID, msg.messages) {
			m.sidebar.SetActiveID(msg.sessionID)
			m.syncViewport(true)
		}
		return m, nil
	}

	if cmd := m.typing.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
		// The optimistic user message is appended on the send goroutine;
		// repainting on spinner ticks picks it up within one frame.
		m.syncViewport(true)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey routes key presses.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		return m.handleEnter()

	case "ctrl+n":
		m.manager.Reset()
		m.sidebar.SetActiveID("")
		m.syncViewport(false)
		return m, nil

	case "ctrl+b":
		m.showSidebar = !m.showSidebar
		m.sidebarNav = m.sidebarNav && m.showSidebar
		m.resize(m.width, m.height)
		return m, nil

	case "tab":
		if m.showSidebar && m.auth.IsAuthenticated() {
			m.sidebarNav = !m.sidebarNav
			if m.sidebarNav {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
		}
		return m, nil

	case "ctrl+l":
		return m, func() tea.Msg { return LogoutMsg{} }

	case "ctrl+p":
		if m.auth.IsAuthenticated() {
			return m, func() tea.Msg { return OpenProfileMsg{} }
		}
		return m, nil

	case "up":
		if m.sidebarNav {
			m.sidebar.MoveUp()
			return m, nil
		}
		if m.onWelcome() {
			m.welcome.MoveUp()
			return m, nil
		}

	case "down":
		if m.sidebarNav {
			m.sidebar.MoveDown()
			return m, nil
		}
		if m.onWelcome() {
			m.welcome.MoveDown()
			return m, nil
		}
	}

	// Everything else goes to the focused input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter submits the input, picks the selected sidebar session, or
// sends the highlighted welcome suggestion.
func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.sidebarNav {
		selected := m.sidebar.Selected()
		if selected == nil {
			return m, nil
		}
		m.manager.Select(selected.ID)
		m.sidebarNav = false
		m.input.Focus()
		return m, m.loadCmd(selected.ID)
	}

	if m.manager.Composing() {
		return m, nil
	}

	text := m.input.Value()
	if text == "" && m.onWelcome() {
		text = m.welcome.Selected()
	}
	if text == "" {
		return m, nil
	}

	m.input.Reset()
	m.statusLine = ""

	return m, tea.Batch(m.typing.Start(), m.sendCmd(text))
}

// onWelcome reports whether the welcome screen is showing.
func (m *Model) onWelcome() bool {
	return m.manager.MessageCount() == 0
}

// resize recomputes component dimensions.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 30
	}

	contentHeight := height - 6
	if contentHeight < 5 {
		contentHeight = 5
	}

	if !m.ready {
		m.viewport = viewport.New(width-sidebarWidth-2, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = width - sidebarWidth - 2
		m.viewport.Height = contentHeight
	}

	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.welcome.SetSize(width-sidebarWidth-2, contentHeight)
	m.input.Width = width - 6

	m.syncViewport(false)
}

// syncViewport re-renders the thread into the viewport.
func (m *Model) syncViewport(scrollToBottom bool) {
	m.viewport.SetContent(m.renderThread())
	if scrollToBottom {
		m.viewport.GotoBottom()
	}
}

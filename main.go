// mlibbot - a terminal client for the Maranatha Library assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/mlibbot-tui/internal/cli"
	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/ui/chat"
	"github.com/morganforge/mlibbot-tui/internal/ui/forms"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	setupLogging()

	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdLogin:
		err = cli.HandleLogin(args)
	case cli.CmdRegister:
		err = cli.HandleRegister(args)
	case cli.CmdLogout:
		err = cli.HandleLogout(args)
	case cli.CmdPasswd:
		err = cli.HandlePasswd(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdSessions:
		err = cli.HandleSessions(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		err = runTUI(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to ~/.mlibbot/mlibbot.log so
// diagnostics never bleed into the TUI.
func setupLogging() {
	dir, err := config.ConfigDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "mlibbot.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) error {
	ctx := context.Background()
	stack := cli.BuildStack(ctx)

	theme := styles.NewTheme()
	app := newApp(stack, theme)

	// Reload settings when the config file changes on disk. Retrieval
	// knobs take effect on the next send without a restart.
	watcher, err := config.NewWatcher(func(cfg *config.Config) {
		config.SetGlobal(cfg)
		log.Printf("config reloaded: top_k=%d method=%s", cfg.Retrieval.TopK, cfg.Retrieval.Method)
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running mlibbot: %w", err)
	}
	return nil
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// appState selects which screen is active.
type appState int

const (
	stateForm appState = iota
	stateChat
)

// App is the top-level Bubble Tea model. It switches between the account
// forms and the chat screen.
type App struct {
	stack *cli.Stack
	theme *styles.Theme

	state appState
	form  *forms.Model
	chat  *chat.Model

	width  int
	height int
}

// newApp creates the application model. Anonymous users land on the login
// form first; esc continues without an account.
func newApp(stack *cli.Stack, theme *styles.Theme) *App {
	app := &App{
		stack: stack,
		theme: theme,
		chat:  chat.New(stack.Manager, stack.Directory, stack.Auth, stack.Config, theme),
	}

	if stack.Auth.IsAuthenticated() {
		app.state = stateChat
	} else {
		app.state = stateForm
		app.form = forms.New(stack.Auth, forms.ModeLogin, theme)
	}
	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.chat.Init()}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)

		// Both screens track the size so switching needs no replay.
		var cmds []tea.Cmd
		newChat, cmd := a.chat.Update(msg)
		a.chat = newChat.(*chat.Model)
		cmds = append(cmds, cmd)
		if a.form != nil {
			newForm, cmd := a.form.Update(msg)
			a.form = newForm.(*forms.Model)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case forms.CompletedMsg:
		return a.handleFormCompleted(msg)

	case forms.CancelledMsg:
		return a.handleFormCancelled(msg)

	case chat.LogoutMsg:
		a.stack.Auth.Logout()
		a.stack.Manager.Reset()
		a.state = stateForm
		a.form = forms.New(a.stack.Auth, forms.ModeLogin, a.theme)
		return a, a.resizeForm()

	case chat.OpenProfileMsg:
		a.state = stateForm
		a.form = forms.New(a.stack.Auth, forms.ModeProfile, a.theme)
		return a, a.resizeForm()
	}

	if a.state == stateForm && a.form != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch {
			// ctrl+r on the login form switches to registration.
			case key.String() == "ctrl+r" && a.form.Mode() == forms.ModeLogin:
				a.form = forms.New(a.stack.Auth, forms.ModeRegister, a.theme)
				return a, a.resizeForm()
			// ctrl+g on the profile form opens the password change.
			case key.String() == "ctrl+g" && a.form.Mode() == forms.ModeProfile:
				a.form = forms.New(a.stack.Auth, forms.ModePassword, a.theme)
				return a, a.resizeForm()
			}
		}
		newForm, cmd := a.form.Update(msg)
		a.form = newForm.(*forms.Model)
		return a, cmd
	}

	newChat, cmd := a.chat.Update(msg)
	a.chat = newChat.(*chat.Model)
	return a, cmd
}

// handleFormCompleted reacts to a successful form submit.
func (a *App) handleFormCompleted(msg forms.CompletedMsg) (tea.Model, tea.Cmd) {
	a.state = stateChat
	a.form = nil

	switch msg.Mode {
	case forms.ModeLogin, forms.ModeRegister:
		// Fresh sign-in: pull the saved conversations.
		return a, a.chat.Init()
	default:
		return a, nil
	}
}

// handleFormCancelled reacts to the user backing out of a form.
func (a *App) handleFormCancelled(msg forms.CancelledMsg) (tea.Model, tea.Cmd) {
	switch msg.Mode {
	case forms.ModeRegister:
		// Back to the login form.
		a.form = forms.New(a.stack.Auth, forms.ModeLogin, a.theme)
		return a, a.resizeForm()
	case forms.ModePassword:
		// Back to the profile form.
		a.form = forms.New(a.stack.Auth, forms.ModeProfile, a.theme)
		return a, a.resizeForm()
	default:
		// Login esc continues anonymously; profile esc returns to the
		// chat.
		a.state = stateChat
		a.form = nil
		return a, nil
	}
}

// resizeForm replays the last window size into a freshly built form.
func (a *App) resizeForm() tea.Cmd {
	if a.form == nil || a.width == 0 {
		return nil
	}
	newForm, cmd := a.form.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	a.form = newForm.(*forms.Model)
	return tea.Batch(cmd, a.form.Init())
}

// View implements tea.Model.
func (a *App) View() string {
	if a.state == stateForm && a.form != nil {
		return a.form.View()
	}
	return a.chat.View()
}

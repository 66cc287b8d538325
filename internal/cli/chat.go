// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - interactive chat command handler.
//
// Handles "mlibbot chat" which runs a plain-terminal REPL against the
// library assistant. Input history and line editing via liner.
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /new, /n            Start a fresh conversation
//   /sessions, /s       List saved conversations
//   /open N             Open the N-th saved conversation
//   /history            Show the current thread
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/conversation"
	"github.com/morganforge/mlibbot-tui/internal/model"
	"github.com/morganforge/mlibbot-tui/internal/session"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history loaded from the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt. Non-empty input
// is appended to history for arrow-key recall.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		printChatWelcome(stack)
	}

	for {
		line, err := input.ReadInput(promptStyle.Render("mlibbot> "))
		if err != nil {
			// Ctrl+C aborts the prompt, Ctrl+D signals EOF. Both exit.
			fmt.Println()
			printChatGoodbye(stack)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			cont, err := handleChatCommand(ctx, stack, line)
			if err != nil {
				fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
			}
			if !cont {
				printChatGoodbye(stack)
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printChatGoodbye(stack)
			return nil
		}

		sendAndPrint(ctx, stack, line, args.Quiet)
	}
}

// sendAndPrint sends one message through the conversation manager and
// prints the reply.
func sendAndPrint(ctx context.Context, stack *Stack, text string, quiet bool) {
	start := time.Now()
	result := stack.Manager.Send(ctx, text)

	fmt.Println()
	if result.Outcome == conversation.OutcomeFailed {
		fmt.Println(warningStyle.Render(result.Bot.Content))
		fmt.Println()
		return
	}

	if isStdoutTTY() {
		fmt.Print(renderMarkdown(result.Bot.Content))
	} else {
		fmt.Println(result.Bot.Content)
	}
	fmt.Println()

	if !quiet {
		printReplyFooter(result.Bot, time.Since(start))
	}
}

// printReplyFooter prints the retrieval metadata line under a reply.
func printReplyFooter(bot *model.Message, elapsed time.Duration) {
	var parts []string
	if md := bot.Metadata; md != nil {
		if md.Intent != "" {
			if md.Confidence != nil {
				parts = append(parts, fmt.Sprintf("intent: %s (%.0f%%)", md.Intent, *md.Confidence))
			} else {
				parts = append(parts, "intent: "+md.Intent)
			}
		}
		if md.Source != "" {
			if md.ScoreHybrid != nil {
				parts = append(parts, fmt.Sprintf("source: %s (%.2f)", md.Source, *md.ScoreHybrid))
			} else {
				parts = append(parts, "source: "+md.Source)
			}
		}
	}
	parts = append(parts, elapsed.Round(time.Millisecond).String())
	fmt.Fprintln(os.Stderr, infoStyle.Render(strings.Join(parts, " | ")))
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleChatCommand processes slash commands. Returns false to exit.
func handleChatCommand(ctx context.Context, stack *Stack, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp()
		return true, nil

	case "/new", "/n":
		stack.Manager.Reset()
		fmt.Println(commandStyle.Render("[Percakapan baru]"))
		return true, nil

	case "/sessions", "/s":
		return true, printSessionList(ctx, stack)

	case "/open", "/o":
		if len(rest) == 0 {
			return true, fmt.Errorf("usage: /open N (see /sessions)")
		}
		return true, openSession(ctx, stack, rest[0])

	case "/history":
		printThread(stack)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// printSessionList lists the saved conversations, numbered for /open.
func printSessionList(ctx context.Context, stack *Stack) error {
	if !stack.Auth.IsAuthenticated() {
		fmt.Println(infoStyle.Render("Masuk dulu untuk menyimpan riwayat percakapan (mlibbot login)."))
		return nil
	}
	if err := stack.Directory.Refresh(ctx); err != nil {
		return err
	}

	sessions := stack.Directory.Sessions()
	if len(sessions) == 0 {
		fmt.Println(infoStyle.Render("[Belum ada percakapan tersimpan]"))
		return nil
	}

	fmt.Println()
	now := time.Now()
	for i, s := range sessions {
		marker := " "
		if s.ID == stack.Manager.SessionID() {
			marker = "*"
		}
		title := s.Title
		if title == "" {
			title = "(tanpa judul)"
		}
		fmt.Printf("  %s %2d. %s  %s\n",
			marker, i+1,
			commandStyle.Render(title),
			infoStyle.Render(session.TimeAgo(s.UpdatedAt, now)))
	}
	fmt.Println()
	return nil
}

// openSession loads a saved conversation by its /sessions list number.
func openSession(ctx context.Context, stack *Stack, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("not a session number: %s", arg)
	}
	sessions := stack.Directory.Sessions()
	if n < 1 || n > len(sessions) {
		return fmt.Errorf("no session %d (run /sessions first)", n)
	}

	meta := sessions[n-1]
	stack.Manager.Select(meta.ID)
	msgs, err := stack.Directory.Load(ctx, meta.ID)
	if err != nil {
		return fmt.Errorf("could not load conversation: %w", err)
	}
	stack.Manager.Adopt(meta.ID, msgs)

	fmt.Printf("%s %s (%d pesan)\n",
		commandStyle.Render("[Dibuka]"),
		meta.Title,
		len(msgs))
	return nil
}

// printThread prints the current conversation thread.
func printThread(stack *Stack) {
	msgs := stack.Manager.Messages()
	if len(msgs) == 0 {
		fmt.Println(infoStyle.Render("[Belum ada pesan]"))
		return
	}

	fmt.Println()
	for i, msg := range msgs {
		role := infoStyle.Render("Bot")
		if !msg.IsBot() {
			role = promptStyle.Render("Anda")
		}
		content := strings.ReplaceAll(msg.Preview(100), "\n", " ")
		fmt.Printf("  %d. %s: %s\n", i+1, role, content)
	}
	fmt.Println()
}

// =============================================================================
// BANNERS
// =============================================================================

// printChatWelcome prints the welcome banner.
func printChatWelcome(stack *Stack) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("MLibBot - Asisten Perpustakaan Maranatha"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 40)))

	if user := stack.Auth.User(); user != nil {
		fmt.Printf("%s %s\n",
			infoStyle.Render("Akun:"),
			commandStyle.Render(user.FullName))
	} else {
		fmt.Printf("%s %s\n",
			infoStyle.Render("Akun:"),
			warningStyle.Render("anonim (riwayat tidak disimpan)"))
	}
	fmt.Printf("%s %s\n",
		infoStyle.Render("Server:"),
		commandStyle.Render(stack.Config.API.BaseURL))

	fmt.Println()
	fmt.Println(infoStyle.Render("Tulis pertanyaan lalu tekan Enter. Perintah: /help, /quit"))
	fmt.Println()
}

// printChatHelp prints available commands.
func printChatHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Tampilkan bantuan ini"},
		{"/new, /n", "Mulai percakapan baru"},
		{"/sessions, /s", "Daftar percakapan tersimpan"},
		{"/open N", "Buka percakapan ke-N"},
		{"/history", "Tampilkan pesan percakapan ini"},
		{"/quit, /q", "Keluar"},
	}

	fmt.Println()
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+D keluar, panah atas mengulang pertanyaan sebelumnya"))
	fmt.Println()
}

// printChatGoodbye prints the exit line.
func printChatGoodbye(stack *Stack) {
	n := stack.Manager.MessageCount()
	if n == 0 {
		fmt.Println(infoStyle.Render("Sampai jumpa!"))
		return
	}
	fmt.Printf("%s %d pesan dalam percakapan ini. Sampai jumpa!\n",
		infoStyle.Render("[Selesai]"), n)
}

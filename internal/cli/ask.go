// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - single question command handler.
//
// Handles "mlibbot ask" which sends one question and prints the answer,
// rendered as markdown when stdout is a terminal.
//
// Examples:
//   mlibbot ask "Jam layanan perpustakaan?"
//   mlibbot ask --json "Carikan buku NLP"
//   echo "Apa saja layanan perpustakaan?" | mlibbot ask
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/conversation"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// markdownRenderer renders markdown answers for terminal display. Built
// lazily so the configured ui.theme is loaded before the style is picked.
var (
	rendererOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

func renderer() *glamour.TermRenderer {
	rendererOnce.Do(func() {
		style := styles.GlamourStyle(config.Global().UI.Theme, termenv.HasDarkBackground())
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	return markdownRenderer
}

// renderMarkdown renders markdown, falling back to the raw text.
func renderMarkdown(content string) string {
	r := renderer()
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// isStdoutTTY reports whether stdout is a terminal.
func isStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// askJSON is the machine-readable output of the ask command.
type askJSON struct {
	Answer string             `json:"answer"`
	Intent *api.IntentPayload `json:"intent,omitempty"`
	Source *api.SourceHit     `json:"source,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	question := args.Query

	// Piped input: read the question from stdin.
	if question == "" && !isatty.IsTerminal(os.Stdin.Fd()) {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err == nil {
			question = strings.TrimSpace(string(data))
		}
	}
	if question == "" {
		return fmt.Errorf("no question provided. Usage: mlibbot ask \"your question\"")
	}

	ctx := context.Background()
	stack := BuildStack(ctx)

	resp, err := stack.Client.Chat(ctx, api.ChatRequest{
		Message: question,
		TopK:    stack.Config.Retrieval.TopK,
		Method:  stack.Config.Retrieval.Method,
	})

	if args.JSON {
		out := askJSON{}
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Answer = resp.Answer
			out.Intent = resp.Intent
			if len(resp.Sources) > 0 {
				out.Source = &resp.Sources[0]
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if err != nil {
		fmt.Println(styles.RenderError(conversation.ErrorReply))
		return err
	}

	if isStdoutTTY() {
		fmt.Print(renderMarkdown(resp.Answer))
	} else {
		fmt.Println(resp.Answer)
	}

	if !args.Quiet {
		printAnswerFooter(resp)
	}
	return nil
}

// printAnswerFooter prints the retrieval metadata line under an answer.
func printAnswerFooter(resp *api.ChatResponse) {
	var parts []string
	if resp.Intent != nil {
		parts = append(parts, fmt.Sprintf("intent: %s (%.0f%%)", resp.Intent.Label, resp.Intent.ConfidencePercent))
	}
	if len(resp.Sources) > 0 {
		best := resp.Sources[0]
		parts = append(parts, fmt.Sprintf("source: %s (%.2f)", best.Source, best.ScoreHybrid))
	}
	if len(parts) > 0 {
		fmt.Fprintln(os.Stderr, styles.RenderInfo(strings.Join(parts, " | ")))
	}
}

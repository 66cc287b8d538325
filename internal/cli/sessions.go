// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - saved conversation listing and config command handlers.
//
// Examples:
//   mlibbot sessions                   List saved conversations
//   mlibbot sessions --json            Listing in JSON format
//   mlibbot config                     Show effective configuration
//   mlibbot config set retrieval.top_k 6
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/model"
	"github.com/morganforge/mlibbot-tui/internal/session"
	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
	"github.com/morganforge/mlibbot-tui/internal/util"
)

// =============================================================================
// SESSIONS
// =============================================================================

// sessionsJSON is the machine-readable output of the sessions command.
type sessionsJSON struct {
	Sessions []model.SessionMeta `json:"sessions"`
	Count    int                 `json:"count"`
}

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	if !stack.Auth.IsAuthenticated() {
		fmt.Println(styles.RenderWarning("Masuk dulu untuk melihat riwayat percakapan (mlibbot login)."))
		return nil
	}

	if err := stack.Directory.Refresh(ctx); err != nil {
		fmt.Println(styles.RenderError("Gagal memuat riwayat dari server."))
		return err
	}
	sessions := stack.Directory.Sessions()

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessionsJSON{Sessions: sessions, Count: len(sessions)})
	}

	if len(sessions) == 0 {
		fmt.Println(styles.RenderInfo("Belum ada percakapan tersimpan."))
		return nil
	}

	fmt.Println()
	now := time.Now()
	for i, s := range sessions {
		title := s.Title
		if title == "" {
			title = "(tanpa judul)"
		}
		fmt.Printf("  %2d. %-40s %s\n",
			i+1,
			util.TruncateWidth(title, 40),
			session.TimeAgo(s.UpdatedAt, now))
	}
	fmt.Println()
	fmt.Printf("  Total: %d percakapan\n", len(sessions))
	fmt.Println()
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig handles the "config" command and its subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand: %s\n\nUsage:\n"+
			"  mlibbot config show               Show effective configuration\n"+
			"  mlibbot config set KEY VALUE      Change a setting\n"+
			"  mlibbot config path               Print config file location", args.Subcommand)
	}
}

// handleConfigShow prints the effective configuration.
func handleConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	fmt.Println()
	fmt.Printf("  api.base_url        %s\n", cfg.API.BaseURL)
	fmt.Printf("  api.timeout_secs    %d\n", cfg.API.TimeoutSecs)
	fmt.Printf("  retrieval.top_k     %d\n", cfg.Retrieval.TopK)
	fmt.Printf("  retrieval.method    %s\n", cfg.Retrieval.Method)
	fmt.Printf("  ui.theme            %s\n", cfg.UI.Theme)
	fmt.Printf("  ui.show_timestamps  %v\n", cfg.UI.ShowTimestamps)
	fmt.Printf("  ui.show_metadata    %v\n", cfg.UI.ShowMetadata)
	fmt.Println()
	return nil
}

// handleConfigSet changes one setting and writes the config file.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" {
		return fmt.Errorf("usage: mlibbot config set KEY VALUE")
	}

	cfg := config.Global()
	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf("%s = %s", args.ConfigKey, args.ConfigVal)))
	return nil
}

// applyConfigValue sets one dotted key on the config.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("api.timeout_secs must be a positive integer, got %q", value)
		}
		cfg.API.TimeoutSecs = n
	case "retrieval.top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("retrieval.top_k must be an integer, got %q", value)
		}
		cfg.Retrieval.TopK = n
	case "retrieval.method":
		cfg.Retrieval.Method = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.show_timestamps":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ui.show_timestamps must be true or false, got %q", value)
		}
		cfg.UI.ShowTimestamps = b
	case "ui.show_metadata":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ui.show_metadata must be true or false, got %q", value)
		}
		cfg.UI.ShowMetadata = b
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("ui.compact_mode must be true or false, got %q", value)
		}
		cfg.UI.CompactMode = b
	default:
		return fmt.Errorf("unknown config key: %s (run 'mlibbot config show' for keys)", key)
	}
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// account.go - account command handlers: login, register, logout, passwd,
// status.
//
// Examples:
//   mlibbot login                      Sign in (prompts for email/password)
//   mlibbot register                   Create an account
//   mlibbot logout                     Discard the stored token
//   mlibbot passwd                     Change the account password
//   mlibbot status                     Server health and account state
//   mlibbot status --json              Status in JSON format
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/morganforge/mlibbot-tui/internal/ui/styles"
)

// =============================================================================
// PROMPTS
// =============================================================================

// readLine prompts for one line of visible input.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts for a password without echoing.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(passBytes)), nil
}

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin handles the "login" command.
func HandleLogin(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	if user := stack.Auth.User(); user != nil {
		fmt.Printf("%s\n", styles.RenderInfo("Sudah masuk sebagai "+user.FullName+". Jalankan 'mlibbot logout' dulu untuk berganti akun."))
		return nil
	}

	email, err := readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	if err := stack.Auth.Login(ctx, email, password); err != nil {
		fmt.Println(styles.RenderError(err.Error()))
		return err
	}

	user := stack.Auth.User()
	fmt.Printf("%s\n", styles.RenderSuccess("Berhasil masuk sebagai "+user.FullName))
	return nil
}

// =============================================================================
// REGISTER
// =============================================================================

// HandleRegister handles the "register" command.
func HandleRegister(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	fullName, err := readLine("Nama lengkap: ")
	if err != nil {
		return err
	}
	email, err := readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Ulangi password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("password tidak sama")
	}

	if err := stack.Auth.Register(ctx, fullName, email, password); err != nil {
		fmt.Println(styles.RenderError(err.Error()))
		return err
	}

	fmt.Printf("%s\n", styles.RenderSuccess("Akun dibuat. Selamat datang, "+fullName+"!"))
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout handles the "logout" command.
func HandleLogout(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	if !stack.Auth.IsAuthenticated() {
		fmt.Println(styles.RenderInfo("Tidak ada sesi aktif."))
		return nil
	}

	stack.Auth.Logout()
	fmt.Println(styles.RenderSuccess("Berhasil keluar. Token dihapus."))
	return nil
}

// =============================================================================
// PASSWD
// =============================================================================

// HandlePasswd handles the "passwd" command.
func HandlePasswd(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	if !stack.Auth.IsAuthenticated() {
		fmt.Println(styles.RenderInfo("Belum masuk. Jalankan 'mlibbot login' dulu."))
		return nil
	}

	current, err := readPassword("Password sekarang: ")
	if err != nil {
		return err
	}
	next, err := readPassword("Password baru: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Ulangi password baru: ")
	if err != nil {
		return err
	}
	if next != confirm {
		return fmt.Errorf("konfirmasi password baru tidak sama")
	}

	if err := stack.Auth.UpdatePassword(ctx, current, next); err != nil {
		fmt.Println(styles.RenderError(err.Error()))
		return err
	}

	fmt.Println(styles.RenderSuccess("Password berhasil diganti."))
	return nil
}

// =============================================================================
// STATUS
// =============================================================================

// statusJSON is the machine-readable output of the status command.
type statusJSON struct {
	Server        string `json:"server"`
	Reachable     bool   `json:"reachable"`
	ServerStatus  string `json:"server_status,omitempty"`
	ServerVersion string `json:"server_version,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	ctx := context.Background()
	stack := BuildStack(ctx)

	out := statusJSON{Server: stack.Config.API.BaseURL}

	health, err := stack.Client.Health(ctx)
	if err != nil {
		out.Error = err.Error()
	} else {
		out.Reachable = true
		out.ServerStatus = health.Status
		out.ServerVersion = health.Version
	}

	if user := stack.Auth.User(); user != nil {
		out.Authenticated = true
		out.Email = user.Email
		out.FullName = user.FullName
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println()
	fmt.Printf("  Server   %s\n", out.Server)
	if out.Reachable {
		line := "online"
		if out.ServerVersion != "" {
			line += " (v" + out.ServerVersion + ")"
		}
		fmt.Printf("  Status   %s\n", styles.RenderSuccess(line))
	} else {
		fmt.Printf("  Status   %s\n", styles.RenderError("tidak terjangkau"))
	}
	if out.Authenticated {
		fmt.Printf("  Akun     %s\n", styles.RenderSuccess(out.FullName+" <"+out.Email+">"))
	} else {
		fmt.Printf("  Akun     %s\n", styles.RenderWarning("anonim"))
	}
	fmt.Println()
	return nil
}

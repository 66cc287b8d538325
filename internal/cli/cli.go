// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command routing for mlibbot.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdPasswd
	CmdStatus
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet bool
	JSON  bool

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `mlibbot - terminal client for the Maranatha Library assistant

Chat with the library assistant from your terminal: search the catalog,
ask about services and opening hours, and keep your conversation history
when signed in.

Usage:
  mlibbot                     Start the TUI (default)
  mlibbot ask "question"      Ask a single question
  mlibbot chat                Interactive chat (plain terminal)
  mlibbot login               Sign in and store the access token
  mlibbot register            Create an account
  mlibbot logout              Discard the stored access token
  mlibbot passwd              Change the account password
  mlibbot status              Check server and account status
  mlibbot sessions            List saved conversations
  mlibbot config [show|set]   Configuration
  mlibbot version             Show version
  mlibbot help                Show this help

Flags:
  -q, --quiet                 Minimal output
  --json                      Machine-readable output (ask, status, sessions)

Examples:
  mlibbot ask "Jam layanan perpustakaan?"
  mlibbot ask --json "Carikan buku NLP" | jq .answer
  mlibbot config set api.base_url https://perpus.example.ac.id
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := Args{}
	argv := os.Args[1:]

	// Peel off global flags first.
	var positional []string
	for _, a := range argv {
		switch a {
		case "-q", "--quiet":
			args.Quiet = true
		case "--json":
			args.JSON = true
		default:
			positional = append(positional, a)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	rest := positional[1:]
	args.Raw = rest

	switch cmd {
	case "ask":
		args.Query = strings.Join(rest, " ")
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "login":
		return CmdLogin, args
	case "register":
		return CmdRegister, args
	case "logout":
		return CmdLogout, args
	case "passwd", "password":
		return CmdPasswd, args
	case "status", "s":
		return CmdStatus, args
	case "sessions", "session":
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		return CmdSessions, args
	case "config":
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		if len(rest) > 2 && rest[0] == "set" {
			args.ConfigKey = rest[1]
			args.ConfigVal = rest[2]
		}
		return CmdConfig, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("mlibbot %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

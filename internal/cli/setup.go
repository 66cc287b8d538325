// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - shared construction of the client stack for CLI handlers.
package cli

import (
	"context"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/auth"
	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/conversation"
	"github.com/morganforge/mlibbot-tui/internal/credential"
	"github.com/morganforge/mlibbot-tui/internal/session"
)

// Stack bundles the wired-up core components the handlers share.
type Stack struct {
	Config     *config.Config
	Store      *credential.Store
	Client     *api.Client
	Auth       *auth.Controller
	Directory  *session.Directory
	Manager    *conversation.Manager
}

// BuildStack constructs the full client stack from the global config and
// restores the previous sign-in, if any, before returning.
func BuildStack(ctx context.Context) *Stack {
	cfg := config.Global()
	store := credential.Default()
	client := api.NewClientFromConfig(cfg, store)
	controller := auth.NewController(client, store)
	controller.Initialize(ctx)
	directory := session.NewDirectory(client, controller)
	manager := conversation.NewManager(client, directory, controller, cfg)

	return &Stack{
		Config:    cfg,
		Store:     store,
		Client:    client,
		Auth:      controller,
		Directory: directory,
		Manager:   manager,
	}
}

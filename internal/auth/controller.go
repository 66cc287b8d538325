// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the authenticated account state: sign-in, sign-up,
// session restore, profile and password updates. A nil current user means
// anonymous mode; chat still works, persistence does not.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/model"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Gateway is the slice of the HTTP client the controller needs.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, fullName, email, password string) error
	Me(ctx context.Context, token string) (*model.User, error)
	UpdateProfile(ctx context.Context, fullName, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, current, next string) error
}

// TokenStore is the slice of the credential store the controller needs.
type TokenStore interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller manages the sign-in state. All methods are safe for concurrent
// use; event-loop commands call them from goroutines.
type Controller struct {
	mu      sync.RWMutex
	gateway Gateway
	store   TokenStore
	user    *model.User
}

// NewController creates a controller in anonymous state.
func NewController(gateway Gateway, store TokenStore) *Controller {
	return &Controller{
		gateway: gateway,
		store:   store,
	}
}

// User returns the signed-in account, or nil in anonymous mode.
func (c *Controller) User() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// IsAuthenticated reports whether an account is signed in.
func (c *Controller) IsAuthenticated() bool {
	return c.User() != nil
}

// =============================================================================
// SESSION RESTORE
// =============================================================================

// Initialize restores the previous session from the stored token. Any
// failure, network included, discards the token and leaves the controller
// anonymous; the user signs in again. Runs before the UI starts, so there
// is no half-restored state to render.
func (c *Controller) Initialize(ctx context.Context) {
	token, ok := c.store.Get()
	if !ok {
		return
	}

	user, err := c.gateway.Me(ctx, token)
	if err != nil {
		c.store.Clear()
		return
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}

// =============================================================================
// LOGIN / REGISTER / LOGOUT
// =============================================================================

// Login signs in with the given credentials. On success the token is
// persisted and the account becomes current. On failure nothing changes.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}

	resp, err := c.gateway.Login(ctx, email, password)
	if err != nil {
		return &AuthError{Message: loginFailureMessage(err), Err: err}
	}

	if err := c.store.Set(resp.AccessToken); err != nil {
		return &AuthError{Message: "could not save credentials", Err: err}
	}

	c.mu.Lock()
	c.user = resp.User
	c.mu.Unlock()
	return nil
}

// Register creates an account and signs it in. The service returns no token
// on registration, so success chains straight into Login with the same
// credentials.
func (c *Controller) Register(ctx context.Context, fullName, email, password string) error {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" {
		return &ValidationError{Field: "fullName", Message: "full name is required"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}

	if err := c.gateway.Register(ctx, fullName, email, password); err != nil {
		return &RegistrationError{Message: registerFailureMessage(err), Err: err}
	}

	return c.Login(ctx, email, password)
}

// Logout discards the token and the account. Purely local; never fails.
func (c *Controller) Logout() {
	c.store.Clear()
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
}

// =============================================================================
// PROFILE / PASSWORD
// =============================================================================

// UpdateProfile changes the account's name and email. The held user is
// updated in place on success.
func (c *Controller) UpdateProfile(ctx context.Context, fullName, email string) error {
	if _, ok := c.store.Get(); !ok {
		return ErrNotAuthenticated
	}

	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" {
		return &ValidationError{Field: "fullName", Message: "full name is required"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}

	user, err := c.gateway.UpdateProfile(ctx, fullName, email)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.user != nil {
		c.user.FullName = user.FullName
		c.user.Email = user.Email
	} else {
		c.user = user
	}
	c.mu.Unlock()
	return nil
}

// UpdatePassword changes the account password. Obviously broken inputs are
// rejected before any network call; the passwords themselves are forwarded
// and never stored or logged.
func (c *Controller) UpdatePassword(ctx context.Context, current, next string) error {
	if _, ok := c.store.Get(); !ok {
		return ErrNotAuthenticated
	}

	if current == "" {
		return &ValidationError{Field: "currentPassword", Message: "current password is required"}
	}
	if next == "" {
		return &ValidationError{Field: "newPassword", Message: "new password is required"}
	}
	if current == next {
		return &ValidationError{Field: "newPassword", Message: "new password must differ from the current one"}
	}

	return c.gateway.UpdatePassword(ctx, current, next)
}

// =============================================================================
// FAILURE MESSAGES
// =============================================================================

// loginFailureMessage picks a user-facing message for a failed login.
func loginFailureMessage(err error) string {
	var se *api.ServerError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	if api.IsNetworkError(err) {
		return "could not reach the server"
	}
	return "login failed"
}

// registerFailureMessage picks a user-facing message for a failed signup.
func registerFailureMessage(err error) string {
	var se *api.ServerError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	if api.IsNetworkError(err) {
		return "could not reach the server"
	}
	return "registration failed"
}

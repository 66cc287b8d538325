// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrNotAuthenticated indicates an operation that requires a signed-in
// account was attempted in anonymous mode.
var ErrNotAuthenticated = errors.New("not authenticated")

// ValidationError reports a locally rejected input. No network request was
// made when this is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError reports a failed sign-in. Message is safe to show the user.
type AuthError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// RegistrationError reports a failed account creation. Message is safe to
// show the user.
type RegistrationError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

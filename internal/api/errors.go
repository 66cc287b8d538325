// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrNoToken indicates a request that requires authentication was attempted
// without a stored token.
var ErrNoToken = errors.New("no access token available")

// NetworkError wraps a transport-level failure: the request never produced
// an HTTP response (connection refused, DNS failure, timeout).
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError represents a non-2xx HTTP response from the service. Detail
// carries the service's own message when the body parsed as the standard
// error envelope.
type ServerError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// IsUnauthorized reports whether the response was a 401.
func (e *ServerError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsNotFound reports whether the response was a 404.
func (e *ServerError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsNetworkError reports whether err is (or wraps) a transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized reports whether err is (or wraps) a 401 server response.
func IsUnauthorized(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.IsUnauthorized()
}

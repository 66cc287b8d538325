// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the library-assistant service.
//
// All endpoints share one JSON round-trip helper: requests are serialized,
// tagged with a request id, rate limited, and failures are normalized into
// the NetworkError / ServerError taxonomy so callers never see raw
// transport errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout is the per-request timeout when the config has none.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps response bodies. Chat answers are a few KB;
	// anything beyond this is a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "mlibbot/1.0"
)

// CredentialSource supplies the stored access token. A missing token is not
// an error here; endpoints that require auth decide how to handle it.
type CredentialSource interface {
	Get() (string, bool)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the library-assistant service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
	limiter    *rate.Limiter
}

// NewClient creates a client for the given base URL. creds may be nil for a
// purely anonymous client.
func NewClient(baseURL string, creds CredentialSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		creds: creds,
		// Interactive client: a small steady rate with burst headroom is
		// plenty and keeps a looping script from hammering the service.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// NewClientFromConfig creates a client from the loaded configuration.
func NewClientFromConfig(cfg *config.Config, creds CredentialSource) *Client {
	c := NewClient(cfg.API.BaseURL, creds)
	if cfg.API.TimeoutSecs > 0 {
		c.httpClient.Timeout = time.Duration(cfg.API.TimeoutSecs) * time.Second
	}
	return c
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// setHeaders sets the common headers, attaching the bearer token when one
// is stored.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.creds != nil {
		if token, ok := c.creds.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// readResponse reads the response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// doJSON performs one request and decodes the response into out (when out is
// non-nil). Transport failures become *NetworkError; non-2xx responses
// become *ServerError with the service's detail message when present.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &ServerError{Status: resp.StatusCode}
		var envelope detailResponse
		if json.Unmarshal(data, &envelope) == nil {
			se.Detail = envelope.Detail
		}
		return se
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges credentials for an access token and the account profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. The service does not return a token;
// callers chain a Login afterwards.
func (c *Client) Register(ctx context.Context, fullName, email, password string) error {
	req := RegisterRequest{FullName: fullName, Email: email, Password: password}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Me validates a token and returns the account it belongs to. The token
// rides in the query string; this mirrors how the service validates
// tokens on session restore.
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var user model.User
	path := "/auth/me?token=" + url.QueryEscape(token)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the account's name and email.
func (c *Client) UpdateProfile(ctx context.Context, fullName, email string) (*model.User, error) {
	var user model.User
	req := ProfileUpdateRequest{FullName: fullName, Email: email}
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	req := PasswordUpdateRequest{CurrentPassword: current, NewPassword: next}
	return c.doJSON(ctx, http.MethodPut, "/auth/password", req, nil)
}

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// ListSessions returns the account's persisted conversations, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]model.SessionMeta, error) {
	var resp SessionListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// CreateSession creates an empty persisted conversation and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp SessionCreateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/sessions", nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// SessionHistory fetches the full message history of one conversation.
func (c *Client) SessionHistory(ctx context.Context, sessionID string) (*SessionHistoryResponse, error) {
	var resp SessionHistoryResponse
	path := "/chat/sessions/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// CHAT ENDPOINT
// =============================================================================

// Chat sends one user message and returns the assistant's answer with its
// optional retrieval metadata.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// HEALTH ENDPOINT
// =============================================================================

// Health probes the service. Used by the status command.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

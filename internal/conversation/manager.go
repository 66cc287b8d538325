// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation drives the active chat thread: optimistic user
// messages, the round trip to the assistant, and the bookkeeping that keeps
// the thread consistent when sessions are switched mid-flight.
package conversation

import (
	"context"
	"sync"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/model"
)

// ErrorReply is the assistant-styled message shown when the service could
// not be reached or returned a failure. The service speaks Indonesian to
// its students; so does the apology.
const ErrorReply = "Maaf, terjadi kesalahan saat menghubungi server. Silakan coba lagi."

// noAnswerReply stands in when the service returns a 2xx with no answer.
const noAnswerReply = "(no response)"

// =============================================================================
// INTERFACES
// =============================================================================

// Chatter is the slice of the HTTP client the manager needs.
type Chatter interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// SessionDirectory is the slice of the session directory the manager needs.
type SessionDirectory interface {
	Create(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
	SetActiveID(id string)
}

// AuthState reports whether an account is signed in.
type AuthState interface {
	IsAuthenticated() bool
}

// =============================================================================
// SEND RESULT
// =============================================================================

// Outcome classifies how a send ended.
type Outcome int

const (
	// OutcomeAnswered means the assistant replied.
	OutcomeAnswered Outcome = iota
	// OutcomeFailed means the reply is the synthetic error message.
	OutcomeFailed
)

// SendResult reports the two messages a send appended.
type SendResult struct {
	Outcome Outcome
	User    *model.Message
	Bot     *model.Message
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the active thread. All methods are safe for concurrent use;
// the UI additionally disables input while Composing reports true, so
// overlapping sends only occur from scripted callers.
type Manager struct {
	mu        sync.Mutex
	chatter   Chatter
	directory SessionDirectory
	auth      AuthState
	cfg       *config.Config

	conv      *model.Conversation
	sessionID string
	composing bool
	epoch     uint64
}

// NewManager creates a manager with an empty thread and no bound session.
func NewManager(chatter Chatter, directory SessionDirectory, auth AuthState, cfg *config.Config) *Manager {
	return &Manager{
		chatter:   chatter,
		directory: directory,
		auth:      auth,
		cfg:       cfg,
		conv:      model.NewConversation(),
	}
}

// Messages returns a snapshot of the thread.
func (m *Manager) Messages() []*model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Message, len(m.conv.Messages))
	copy(out, m.conv.Messages)
	return out
}

// MessageCount returns the thread length.
func (m *Manager) MessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conv.MessageCount()
}

// Composing reports whether a send is in flight.
func (m *Manager) Composing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.composing
}

// SessionID returns the id of the bound persisted session, or "".
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// =============================================================================
// SEND
// =============================================================================

// Send submits one user message and waits for the reply. The user message
// is appended before the network round trip, so it is visible immediately;
// the thread grows by exactly two messages, the second being either the
// answer or the synthetic error reply. The first authenticated send of an
// unbound thread creates a persisted session first. When the thread is
// replaced while the call is in flight (Reset, or another session's history
// adopted), the reply is discarded instead of landing in the new thread;
// the result then carries a nil Bot.
func (m *Manager) Send(ctx context.Context, text string) SendResult {
	m.mu.Lock()
	userMsg := m.conv.AddUserMessage(text)
	m.composing = true
	epoch := m.epoch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.composing = false
		m.mu.Unlock()
	}()

	sessionID := m.ensureSession(ctx)

	req := api.ChatRequest{
		Message: text,
		TopK:    m.cfg.Retrieval.TopK,
		Method:  m.cfg.Retrieval.Method,
	}
	if sessionID != "" {
		req.SessionID = &sessionID
	}

	resp, err := m.chatter.Chat(ctx, req)
	if err != nil {
		m.mu.Lock()
		var botMsg *model.Message
		if m.epoch == epoch {
			botMsg = m.conv.AddBotMessage(ErrorReply, nil)
		}
		m.mu.Unlock()
		return SendResult{Outcome: OutcomeFailed, User: userMsg, Bot: botMsg}
	}

	answer := resp.Answer
	if answer == "" {
		answer = noAnswerReply
	}

	m.mu.Lock()
	var botMsg *model.Message
	if m.epoch == epoch {
		botMsg = m.conv.AddBotMessage(answer, resp.Metadata())
	}
	m.mu.Unlock()

	// The send bumped the session's recency server-side; refresh the
	// sidebar. A failure here only leaves the listing stale.
	if m.auth.IsAuthenticated() {
		m.directory.Refresh(ctx)
	}

	return SendResult{Outcome: OutcomeAnswered, User: userMsg, Bot: botMsg}
}

// ensureSession returns the session id the send should use, creating one
// for the first authenticated send of an unbound thread. Anonymous sends
// stay unbound. A failed create degrades to an unbound send rather than
// losing the message.
func (m *Manager) ensureSession(ctx context.Context) string {
	m.mu.Lock()
	current := m.sessionID
	m.mu.Unlock()

	if current != "" || !m.auth.IsAuthenticated() {
		return current
	}

	id, err := m.directory.Create(ctx)
	if err != nil || id == "" {
		return ""
	}

	m.mu.Lock()
	m.sessionID = id
	m.mu.Unlock()
	m.directory.SetActiveID(id)
	return id
}

// =============================================================================
// THREAD SWITCHING
// =============================================================================

// Reset clears the thread and unbinds the session. Used for "new chat" and
// on logout. Replies still in flight for the old thread are discarded.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.conv.Clear()
	m.sessionID = ""
	m.epoch++
	m.mu.Unlock()
	m.directory.SetActiveID("")
}

// Select marks sessionID as the thread the user wants. The actual history
// arrives later via Adopt; marking first lets Adopt discard responses for
// sessions the user has already navigated away from.
func (m *Manager) Select(sessionID string) {
	m.mu.Lock()
	m.sessionID = sessionID
	m.mu.Unlock()
	m.directory.SetActiveID(sessionID)
}

// Adopt replaces the thread with a loaded history. The load is discarded
// when the user has since selected a different session. A successful adopt
// also invalidates any reply still in flight for the replaced thread.
func (m *Manager) Adopt(sessionID string, msgs []*model.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessionID != sessionID {
		return false
	}
	m.conv.Replace(msgs)
	m.epoch++
	return true
}

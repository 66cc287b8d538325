// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/config"
	"github.com/morganforge/mlibbot-tui/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeChatter struct {
	resp     *api.ChatResponse
	err      error
	requests []api.ChatRequest

	// When set, Chat signals started and then blocks until gate closes.
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeChatter) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.started != nil {
		close(f.started)
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeDirectory struct {
	createID     string
	createErr    error
	createCalls  int
	refreshCalls int
	activeID     string
}

func (f *fakeDirectory) Create(ctx context.Context) (string, error) {
	f.createCalls++
	return f.createID, f.createErr
}

func (f *fakeDirectory) Refresh(ctx context.Context) error {
	f.refreshCalls++
	return nil
}

func (f *fakeDirectory) SetActiveID(id string) { f.activeID = id }

type authState bool

func (a authState) IsAuthenticated() bool { return bool(a) }

func newManager(chatter *fakeChatter, dir *fakeDirectory, authed bool) *Manager {
	return NewManager(chatter, dir, authState(authed), config.Default())
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_Success(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{
		Answer:  "Perpustakaan buka pukul 08.00.",
		Sources: []api.SourceHit{{Source: "jam.pdf", ScoreHybrid: 0.9}},
	}}
	dir := &fakeDirectory{}
	m := newManager(chatter, dir, false)

	res := m.Send(context.Background(), "Jam Layanan Perpustakaan")

	if res.Outcome != OutcomeAnswered {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if m.MessageCount() != 2 {
		t.Errorf("thread length = %d, want 2", m.MessageCount())
	}
	if res.User.Role != model.RoleUser || res.Bot.Role != model.RoleBot {
		t.Error("roles mismatched")
	}
	if res.Bot.Metadata == nil || res.Bot.Metadata.Source != "jam.pdf" {
		t.Errorf("metadata = %+v", res.Bot.Metadata)
	}
	if m.Composing() {
		t.Error("composing must be false after send")
	}
}

func TestSend_FailureAppendsApology(t *testing.T) {
	chatter := &fakeChatter{err: &api.NetworkError{Op: "POST /chat", Err: errors.New("refused")}}
	dir := &fakeDirectory{}
	m := newManager(chatter, dir, false)

	res := m.Send(context.Background(), "halo")

	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if m.MessageCount() != 2 {
		t.Errorf("thread length = %d, want 2 even on failure", m.MessageCount())
	}
	if res.Bot.Content != ErrorReply {
		t.Errorf("bot content = %q", res.Bot.Content)
	}
	if res.Bot.Metadata != nil {
		t.Error("error reply carries no metadata")
	}
	if m.Composing() {
		t.Error("composing must be false after a failed send")
	}
	if chatter.requests[0].SessionID != nil {
		t.Error("anonymous send must omit session_id")
	}
}

func TestSend_ServerErrorAlsoApologizes(t *testing.T) {
	chatter := &fakeChatter{err: &api.ServerError{Status: 500, Detail: "internal"}}
	m := newManager(chatter, &fakeDirectory{}, false)

	res := m.Send(context.Background(), "halo")
	if res.Outcome != OutcomeFailed || res.Bot.Content != ErrorReply {
		t.Errorf("got outcome=%v content=%q", res.Outcome, res.Bot.Content)
	}
}

func TestSend_EmptyAnswerGetsPlaceholder(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{}}
	m := newManager(chatter, &fakeDirectory{}, false)

	res := m.Send(context.Background(), "halo")
	if res.Outcome != OutcomeAnswered {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if res.Bot.Content != "(no response)" {
		t.Errorf("content = %q", res.Bot.Content)
	}
}

func TestSend_ForwardsRetrievalKnobs(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{Answer: "ok"}}
	m := newManager(chatter, &fakeDirectory{}, false)

	m.Send(context.Background(), "halo")

	req := chatter.requests[0]
	if req.TopK != 4 || req.Method != "hybrid" {
		t.Errorf("knobs = %d/%q, want defaults 4/hybrid", req.TopK, req.Method)
	}
}

// =============================================================================
// SESSION BINDING TESTS
// =============================================================================

func TestSend_FirstAuthenticatedSendCreatesSession(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{Answer: "ok"}}
	dir := &fakeDirectory{createID: "s-77"}
	m := newManager(chatter, dir, true)

	m.Send(context.Background(), "halo")

	if dir.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", dir.createCalls)
	}
	if m.SessionID() != "s-77" {
		t.Errorf("session id = %q", m.SessionID())
	}
	if got := chatter.requests[0].SessionID; got == nil || *got != "s-77" {
		t.Errorf("request session_id = %v", got)
	}
	if dir.refreshCalls == 0 {
		t.Error("successful authenticated send should refresh the directory")
	}

	// Second send reuses the session.
	m.Send(context.Background(), "lagi")
	if dir.createCalls != 1 {
		t.Errorf("second send should not create again, calls = %d", dir.createCalls)
	}
}

func TestSend_AnonymousNeverTouchesDirectory(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{Answer: "ok"}}
	dir := &fakeDirectory{createID: "s-77"}
	m := newManager(chatter, dir, false)

	m.Send(context.Background(), "halo")

	if dir.createCalls != 0 || dir.refreshCalls != 0 {
		t.Errorf("anonymous send touched directory: create=%d refresh=%d",
			dir.createCalls, dir.refreshCalls)
	}
}

func TestSend_FailedCreateDegradesToUnbound(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{Answer: "ok"}}
	dir := &fakeDirectory{createErr: errors.New("boom")}
	m := newManager(chatter, dir, true)

	res := m.Send(context.Background(), "halo")

	if res.Outcome != OutcomeAnswered {
		t.Fatalf("send should still go through, outcome = %v", res.Outcome)
	}
	if chatter.requests[0].SessionID != nil {
		t.Error("failed create should leave the send unbound")
	}
}

// =============================================================================
// SWITCHING TESTS
// =============================================================================

func TestAdopt_AppliesMatchingLoad(t *testing.T) {
	m := newManager(&fakeChatter{}, &fakeDirectory{}, true)

	m.Select("s1")
	ok := m.Adopt("s1", []*model.Message{
		{ID: model.HistoryMessageID("s1", 0), Role: model.RoleUser, Content: "a"},
	})

	if !ok {
		t.Fatal("matching adopt should apply")
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].ID != "s1-0" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestAdopt_DiscardsStaleLoad(t *testing.T) {
	m := newManager(&fakeChatter{}, &fakeDirectory{}, true)

	// The user clicked A, then clicked B before A's history arrived.
	m.Select("a")
	m.Select("b")

	if m.Adopt("a", []*model.Message{{Content: "dari a"}}) {
		t.Error("stale load for a must be discarded")
	}
	ok := m.Adopt("b", []*model.Message{
		{ID: model.HistoryMessageID("b", 0), Content: "dari b"},
	})
	if !ok {
		t.Fatal("current load for b should apply")
	}

	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Content != "dari b" {
		t.Errorf("thread should hold exactly b's messages, got %+v", msgs)
	}
}

func TestSend_ReplyDiscardedWhenThreadSwitchedMidFlight(t *testing.T) {
	chatter := &fakeChatter{
		resp:    &api.ChatResponse{Answer: "jawaban untuk sesi a"},
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	m := newManager(chatter, &fakeDirectory{}, true)
	m.Select("a")

	done := make(chan SendResult, 1)
	go func() { done <- m.Send(context.Background(), "halo dari a") }()
	<-chatter.started

	// The user opens session b while a's send is still in flight.
	m.Select("b")
	if !m.Adopt("b", []*model.Message{
		{ID: model.HistoryMessageID("b", 0), Role: model.RoleUser, Content: "dari b"},
	}) {
		t.Fatal("load for b should apply")
	}

	close(chatter.gate)
	res := <-done

	if res.Bot != nil {
		t.Errorf("in-flight reply should be discarded, got bot %+v", res.Bot)
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Content != "dari b" {
		t.Errorf("thread should hold exactly b's messages, got %+v", msgs)
	}
	if m.Composing() {
		t.Error("composing must be false after the discarded send")
	}
}

func TestSend_ReplyDiscardedAfterReset(t *testing.T) {
	chatter := &fakeChatter{
		resp:    &api.ChatResponse{Answer: "terlambat"},
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	m := newManager(chatter, &fakeDirectory{}, false)

	done := make(chan SendResult, 1)
	go func() { done <- m.Send(context.Background(), "halo") }()
	<-chatter.started

	m.Reset()
	close(chatter.gate)
	res := <-done

	if res.Bot != nil {
		t.Errorf("reply after reset should be discarded, got %+v", res.Bot)
	}
	if m.MessageCount() != 0 {
		t.Errorf("thread should stay empty, length = %d", m.MessageCount())
	}
}

func TestReset_ClearsThreadAndBinding(t *testing.T) {
	chatter := &fakeChatter{resp: &api.ChatResponse{Answer: "ok"}}
	dir := &fakeDirectory{createID: "s-1"}
	m := newManager(chatter, dir, true)
	m.Send(context.Background(), "halo")

	m.Reset()

	if m.MessageCount() != 0 {
		t.Error("thread should be empty")
	}
	if m.SessionID() != "" {
		t.Error("session binding should be cleared")
	}
	if dir.activeID != "" {
		t.Error("directory active id should be cleared")
	}
}

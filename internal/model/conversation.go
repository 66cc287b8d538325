// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the active message thread. It is append-only from the
// consumer's perspective; the whole thread is swapped out when a different
// session is loaded.
type Conversation struct {
	// Messages is the ordered thread, oldest first.
	Messages []*Message `json:"messages"`

	// nextID numbers locally created messages. It is monotonic for the
	// lifetime of the thread and restarts when the thread is replaced.
	nextID int
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		Messages: make([]*Message, 0),
		nextID:   1,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddUserMessage appends a user message with a fresh local id.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := &Message{
		ID:        c.generateID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
	c.Messages = append(c.Messages, msg)
	return msg
}

// AddBotMessage appends a bot message with a fresh local id and optional
// retrieval metadata. A zero-valued metadata is dropped so the UI never
// renders an empty badge row.
func (c *Conversation) AddBotMessage(content string, md *Metadata) *Message {
	if md.IsZero() {
		md = nil
	}
	msg := &Message{
		ID:        c.generateID(),
		Role:      RoleBot,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  md,
	}
	c.Messages = append(c.Messages, msg)
	return msg
}

// Replace swaps the whole thread for the given messages. Used when a
// persisted session is loaded; local id numbering restarts after the
// adopted messages.
func (c *Conversation) Replace(msgs []*Message) {
	c.Messages = make([]*Message, len(msgs))
	copy(c.Messages, msgs)
	c.nextID = len(msgs) + 1
}

// Clear removes all messages and resets local id numbering.
func (c *Conversation) Clear() {
	c.Messages = make([]*Message, 0)
	c.nextID = 1
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages in the thread.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// History returns the thread for display, oldest first.
func (c *Conversation) History() []*Message {
	return c.Messages
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates the next local message id.
func (c *Conversation) generateID() string {
	id := "msg-" + strconv.Itoa(c.nextID)
	c.nextID++
	return id
}

// HistoryMessageID derives the deterministic id for a message loaded from a
// persisted session: the session id plus the message position.
func HistoryMessageID(sessionID string, index int) string {
	return sessionID + "-" + strconv.Itoa(index)
}

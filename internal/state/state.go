// Package state holds per-sender conversation state and the stores that
// persist it between turns. The dispatch engine treats the state as opaque;
// the event facade consults the expectation fields when an inbound event
// carries no explicit action.
package state

import (
	"context"
	"strings"
	"time"
)

// Conversation is the mutable state of one sender's conversation. Handlers
// own it: they set expectations for the next turn and stash arbitrary data
// under Data.
type Conversation struct {
	SenderID string `json:"sender_id"`

	// ExpectedAction is dispatched when the next event carries no decodable
	// action and no keyword matches.
	ExpectedAction string `json:"expected_action,omitempty"`

	// ExpectedKeywords maps normalized keyword text to the action it stands
	// for, consulted before ExpectedAction.
	ExpectedKeywords map[string]string `json:"expected_keywords,omitempty"`

	Data            map[string]interface{} `json:"data,omitempty"`
	LastInteraction time.Time              `json:"last_interaction"`
}

// New creates empty conversation state for a sender.
func New(senderID string) *Conversation {
	return &Conversation{
		SenderID: senderID,
		Data:     make(map[string]interface{}),
	}
}

// ExpectAction arms a fallback action for the next turn.
func (c *Conversation) ExpectAction(action string) {
	c.ExpectedAction = action
}

// ExpectKeyword maps a keyword the user may type next to an action.
func (c *Conversation) ExpectKeyword(keyword, action string) {
	if c.ExpectedKeywords == nil {
		c.ExpectedKeywords = make(map[string]string)
	}
	c.ExpectedKeywords[normalizeKeyword(keyword)] = action
}

// MatchKeyword resolves normalized message text against the expected keyword
// set. Returns "" when nothing matches.
func (c *Conversation) MatchKeyword(normalizedText string) string {
	if len(c.ExpectedKeywords) == 0 {
		return ""
	}
	return c.ExpectedKeywords[normalizeKeyword(normalizedText)]
}

// ClearExpectations drops both expectation fields, typically after they were
// consumed by a dispatch.
func (c *Conversation) ClearExpectations() {
	c.ExpectedAction = ""
	c.ExpectedKeywords = nil
}

func normalizeKeyword(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Store persists conversation state between turns, keyed by sender ID.
// Load returns fresh empty state for unknown senders, never nil.
type Store interface {
	Load(ctx context.Context, senderID string) (*Conversation, error)
	Save(ctx context.Context, conv *Conversation) error
	Close() error
}

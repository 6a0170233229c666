package bot

// Event is a read-only view over one inbound conversational event. Concrete
// implementations decode platform payloads and consult the sender's
// conversation state for expected-action and expected-keyword fallbacks; the
// dispatch engine only consumes this interface.
type Event interface {
	// SenderID identifies the conversation participant the event came from.
	SenderID() string

	// IsMessage reports whether the event carries a user message (as opposed
	// to a bare postback).
	IsMessage() bool

	// HasAttachment reports whether the message carries an attachment.
	HasAttachment() bool

	// Text returns the raw message text, "" when there is none.
	Text() string

	// NormalizedText returns the tokenized form of the message text used by
	// text matchers.
	NormalizedText() string

	// Action returns the event's resolved action expressed relative to
	// scopePath, or "" when the event carries no action or the action is not
	// addressed to that scope.
	Action(scopePath string) string
}

// Responder queues outbound messages for the sender of the event currently
// being dispatched. Payload rendering and delivery are the transport layer's
// concern.
type Responder interface {
	Send(payload interface{})
}

// NopResponder discards everything sent to it.
type NopResponder struct{}

func (NopResponder) Send(interface{}) {}

package messenger

import (
	"strings"

	"github.com/VaclavObornik/prg-chatbot/internal/bot"
	"github.com/VaclavObornik/prg-chatbot/internal/state"
)

// Event is the read-only facade over one inbound messaging event. It resolves
// the event's action from, in order: the postback payload, the quick-reply
// payload, a keyword match against the conversation's expected keyword set,
// and finally the conversation's expected action.
type Event struct {
	msg  Messaging
	conv *state.Conversation

	action     string
	actionData interface{}
}

// NewEvent wraps a decoded messaging event together with the sender's
// conversation state. The action is resolved eagerly so repeated lookups
// during dispatch stay cheap.
func NewEvent(msg Messaging, conv *state.Conversation) *Event {
	ev := &Event{msg: msg, conv: conv}
	ev.action, ev.actionData = ev.resolveAction()
	return ev
}

// NewActionEvent synthesizes an event carrying a bare action, used when a
// handler posts an action back into the tree on behalf of a sender.
func NewActionEvent(senderID, action string, data interface{}, conv *state.Conversation) *Event {
	return &Event{
		msg:        Messaging{Sender: Party{ID: senderID}},
		conv:       conv,
		action:     bot.NormalizePath(action),
		actionData: data,
	}
}

func (e *Event) resolveAction() (string, interface{}) {
	if e.msg.Postback != nil {
		if action, data := parsePayload(e.msg.Postback.Payload); action != "" {
			return bot.NormalizePath(action), data
		}
	}
	if e.msg.Message != nil && e.msg.Message.QuickReply != nil {
		if action, data := parsePayload(e.msg.Message.QuickReply.Payload); action != "" {
			return bot.NormalizePath(action), data
		}
	}
	if e.conv != nil && e.IsMessage() {
		if action := e.conv.MatchKeyword(e.NormalizedText()); action != "" {
			return bot.NormalizePath(action), nil
		}
		if e.conv.ExpectedAction != "" {
			return bot.NormalizePath(e.conv.ExpectedAction), nil
		}
	}
	return "", nil
}

func (e *Event) SenderID() string { return e.msg.Sender.ID }

func (e *Event) IsMessage() bool { return e.msg.Message != nil }

func (e *Event) HasAttachment() bool {
	return e.msg.Message != nil && len(e.msg.Message.Attachments) > 0
}

func (e *Event) Text() string {
	if e.msg.Message == nil {
		return ""
	}
	return e.msg.Message.Text
}

func (e *Event) NormalizedText() string {
	return strings.Join(strings.Fields(strings.ToLower(e.Text())), " ")
}

// Action implements bot.Event: the resolved action relative to scopePath, ""
// when the event carries no action or it is not addressed to that scope.
func (e *Event) Action(scopePath string) string {
	if e.action == "" {
		return ""
	}
	return bot.RelativePath(e.action, scopePath)
}

// AbsoluteAction returns the resolved action without scope stripping.
func (e *Event) AbsoluteAction() string { return e.action }

// ActionData returns the data attached to the postback or quick-reply
// payload, nil when there is none.
func (e *Event) ActionData() interface{} { return e.actionData }

// State exposes the sender's conversation state to handlers.
func (e *Event) State() *state.Conversation { return e.conv }

var _ bot.Event = (*Event)(nil)

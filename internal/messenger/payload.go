// Package messenger adapts the messaging platform's webhook wire format to
// the dispatch engine: it decodes inbound events into the Event facade,
// verifies webhook signatures and delivers outbound messages through a paced,
// per-recipient serialized sender.
package messenger

import (
	"encoding/json"
	"strings"
)

// WebhookRequest is the envelope of one webhook delivery. A single request
// may batch events for several senders.
type WebhookRequest struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the messaging events of one page.
type Entry struct {
	ID        string      `json:"id"`
	Time      int64       `json:"time"`
	Messaging []Messaging `json:"messaging"`
}

// Messaging is one inbound event: a message, a quick-reply selection or a
// button postback.
type Messaging struct {
	Sender    Party     `json:"sender"`
	Recipient Party     `json:"recipient"`
	Timestamp int64     `json:"timestamp"`
	Message   *Message  `json:"message,omitempty"`
	Postback  *Postback `json:"postback,omitempty"`
}

type Party struct {
	ID string `json:"id"`
}

type Message struct {
	MID         string       `json:"mid"`
	Text        string       `json:"text"`
	QuickReply  *QuickReply  `json:"quick_reply,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type QuickReply struct {
	Payload string `json:"payload"`
}

type Postback struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

type Attachment struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// actionPayload is the structured form of a postback or quick-reply payload.
// Plain string payloads are treated as a bare action path.
type actionPayload struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

// MakePayload encodes an action and optional data into the payload string
// attached to a button or quick reply.
func MakePayload(action string, data interface{}) string {
	if data == nil {
		return action
	}
	raw, err := json.Marshal(actionPayload{Action: action, Data: data})
	if err != nil {
		return action
	}
	return string(raw)
}

// parsePayload decodes a postback or quick-reply payload into an action and
// optional data. Payloads that are not JSON objects are taken verbatim as the
// action path.
func parsePayload(payload string) (string, interface{}) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", nil
	}
	if strings.HasPrefix(payload, "{") {
		var p actionPayload
		if err := json.Unmarshal([]byte(payload), &p); err == nil && p.Action != "" {
			return p.Action, p.Data
		}
	}
	return payload, nil
}

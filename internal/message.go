package internal

import (
	"github.com/samber/lo"
)

// Role is the canonical speaker of a message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// MessageOrder selects the order ReadMessages returns the log in.
type MessageOrder int

const (
	Chronological        MessageOrder = iota // oldest first
	ReverseChronological                     // newest first
)

// RawMessage is a message as it sits in storage. Exactly one of the
// discriminators is normally set:
//
//	{"type": "human"|"ai", "content": ...}   current shape
//	{"role": "user"|..., "content": ...}     legacy shape
//	{"actor": "human"|"assistant", ...}      already canonical
type RawMessage struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Role    string `json:"role,omitempty" yaml:"role,omitempty"`
	Actor   string `json:"actor,omitempty" yaml:"actor,omitempty"`
	Content string `json:"content" yaml:"content"`
}

// Message is a normalized conversational turn.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Raw encodes the message in canonical storage form.
func (m Message) Raw() RawMessage {
	return RawMessage{Actor: string(m.Role), Content: m.Content}
}

// RawFromRole builds a stored message in the current {type, content} shape.
// "user" and "human" map to a human turn, everything else to an ai turn.
func RawFromRole(role, content string) RawMessage {
	msgType := "ai"
	if role == "user" || role == string(RoleHuman) {
		msgType = "human"
	}
	return RawMessage{Type: msgType, Content: content}
}

// NormalizeMessage projects a stored message onto its canonical shape.
// A "type" discriminator wins over "role"; entries carrying neither are
// treated as canonical already.
func NormalizeMessage(raw RawMessage) Message {
	var role Role
	switch {
	case raw.Type != "":
		role = lo.Ternary(raw.Type == "human", RoleHuman, RoleAssistant)
	case raw.Role != "":
		role = lo.Ternary(raw.Role == "user", RoleHuman, RoleAssistant)
	default:
		role = lo.Ternary(Role(raw.Actor) == RoleHuman, RoleHuman, RoleAssistant)
	}
	return Message{Role: role, Content: raw.Content}
}

// NormalizeMessages normalizes a stored log (oldest first) in the requested order.
func NormalizeMessages(raw []RawMessage, order MessageOrder) []Message {
	messages := lo.Map(raw, func(m RawMessage, _ int) Message {
		return NormalizeMessage(m)
	})
	if order == ReverseChronological {
		messages = lo.Reverse(messages)
	}
	return messages
}

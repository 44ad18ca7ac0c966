// internal/models/chat.go
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	SessionID  string    `json:"sessionId,omitempty"`
	Sender     Sender    `json:"sender"`
	Text       string    `json:"text"`
	Properties []Listing `json:"properties,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatReply struct {
	Reply      string    `json:"reply"`
	Properties []Listing `json:"properties,omitempty"`
}

// UnmarshalJSON accepts "reply", "text" or "message" for the bot text.
func (r *ChatReply) UnmarshalJSON(data []byte) error {
	aux := struct {
		Reply      string    `json:"reply"`
		Text       string    `json:"text"`
		Message    string    `json:"message"`
		Properties []Listing `json:"properties"`
		Listings   []Listing `json:"listings"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Reply != "":
		r.Reply = aux.Reply
	case aux.Text != "":
		r.Reply = aux.Text
	default:
		r.Reply = aux.Message
	}
	r.Properties = aux.Properties
	if r.Properties == nil {
		r.Properties = aux.Listings
	}
	return nil
}

type ChatSaveRequest struct {
	SessionID string `json:"sessionId"`
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
}

// ChatHistory decodes a bare array or {messages: [...]}.
type ChatHistory struct {
	SessionID string        `json:"sessionId"`
	Messages  []ChatMessage `json:"messages"`
}

func (h *ChatHistory) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &h.Messages)
	}
	type plain ChatHistory
	var aux plain
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return err
	}
	*h = ChatHistory(aux)
	return nil
}

package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const MaxMessageLen = 500

// Message is a chat line fanned out to a room or a pair channel.
// ScopeID is the room or pair-room it was posted to.
type Message struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Text     string   `json:"text,omitempty"`
	Username string   `json:"username,omitempty"`
	ScopeID  string   `json:"scopeId,omitempty"`
	UserID   ClientID `json:"userId,omitempty"`
	TS       int64    `json:"ts"`
}

func NewMessage(text, username string, scopeID string, userID ClientID) Message {
	return Message{
		ID:       fmt.Sprintf("msg-%s", uuid.NewString()),
		Type:     "text",
		Text:     text,
		Username: username,
		ScopeID:  scopeID,
		UserID:   userID,
		TS:       time.Now().UnixMilli(),
	}
}

func NewSystem(text string) Message {
	return Message{Type: "system", Text: text, TS: time.Now().UnixMilli()}
}

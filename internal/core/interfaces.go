package core

import "github.com/dkeye/Mingle/internal/domain"

// Frame is a raw wire payload (a marshaled JSON event).
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Sender delivers an outbound event to one connection. Implemented by the
// websocket adapter; the app layer never touches the transport directly.
// Delivery is best-effort fire-and-forget.
type Sender interface {
	Send(id domain.ClientID, event string, payload any)
}

// Identity is the public view of a user shared with a matched partner.
type Identity struct {
	ID   domain.ClientID `json:"id"`
	Name string          `json:"name"`
}

// RoomSummary is the read-only room list entry (no member ids).
type RoomSummary struct {
	ID        domain.RoomID `json:"id"`
	Name      string        `json:"name"`
	Emoji     string        `json:"emoji"`
	Topic     string        `json:"topic"`
	Tags      []string      `json:"tags"`
	IsPrivate bool          `json:"isPrivate"`
	Members   int           `json:"members"`
	Closed    bool          `json:"closed"`
}

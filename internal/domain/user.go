// Package domain contains entity without logic, just meta-data
package domain

import "time"

// ClientID is the opaque handle of one live connection. The transport
// decides what it actually is (we use a UUID per websocket).
type ClientID string

// Status is the user's place in the session state machine.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusRoom   Status = "room"
	StatusRandom Status = "random"
	StatusQueue  Status = "queue"
)

const DefaultWaitMs = 30_000

const (
	MinWaitMs = 5_000
	MaxWaitMs = 3_600_000
)

// User is the live per-connection state. Created when a connection
// authenticates, destroyed on disconnect. Only the orchestrator mutates it.
type User struct {
	ID       ClientID
	Username string
	Status   Status

	// Owned by the room registry.
	RoomID RoomID

	// Owned by the matching engine.
	PartnerID     ClientID
	PairRoomID    string
	LastPartnerID ClientID

	Interests       map[string]struct{}
	InterestEnabled bool
	WaitMs          int
	WaitUntil       time.Time
	InRandomQueue   bool
	InInterestQueue bool
}

func NewUser(id ClientID, username string) *User {
	return &User{
		ID:        id,
		Username:  username,
		Status:    StatusIdle,
		Interests: make(map[string]struct{}),
		WaitMs:    DefaultWaitMs,
	}
}

// ClampWait bounds a requested queue wait to [MinWaitMs, MaxWaitMs];
// non-positive input falls back to the default.
func ClampWait(ms int) int {
	if ms <= 0 {
		ms = DefaultWaitMs
	}
	if ms < MinWaitMs {
		return MinWaitMs
	}
	if ms > MaxWaitMs {
		return MaxWaitMs
	}
	return ms
}

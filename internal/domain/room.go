package domain

import "errors"

type RoomID string

const (
	MaxRoomNameLen  = 60
	MaxRoomTopicLen = 120
	MaxEmojiRunes   = 2

	DefaultEmoji = "💬"
)

var (
	ErrNameRequired = errors.New("room name required")
	ErrRoomNotFound = errors.New("room not available")
)

// Room is a multi-member chat channel. Membership and moderation are
// mutated through the room manager only.
type Room struct {
	ID        RoomID
	Name      string
	Emoji     string
	Topic     string
	Tags      []string
	IsPrivate bool

	CreatorID   ClientID
	ModeratorID ClientID

	Members map[ClientID]struct{}
	Muted   map[ClientID]struct{}

	// Set transiently during close, right before deletion.
	Closed bool
}

// RoomSpec is the client-supplied shape of a create request, before
// validation and clamping.
type RoomSpec struct {
	Name      string
	Emoji     string
	Topic     string
	Tags      string
	IsPrivate bool
}

func (r *Room) HasMember(id ClientID) bool {
	_, ok := r.Members[id]
	return ok
}

func (r *Room) IsMuted(id ClientID) bool {
	_, ok := r.Muted[id]
	return ok
}

func (r *Room) IsModerator(id ClientID) bool {
	return r.ModeratorID == id
}

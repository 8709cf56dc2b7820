package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

// LobbyID is the permanent default room. It has a system moderator and is
// exempt from empty-room deletion, so there is always somewhere to land.
const LobbyID domain.RoomID = "room-lobby"

const systemModerator domain.ClientID = "system"

// RoomManager owns room lifecycle and membership sets. Like Registry it is
// lock-free; the orchestrator serializes access.
type RoomManager struct {
	rooms map[domain.RoomID]*domain.Room
}

func NewRoomManager() *RoomManager {
	m := &RoomManager{rooms: make(map[domain.RoomID]*domain.Room)}
	m.rooms[LobbyID] = &domain.Room{
		ID:          LobbyID,
		Name:        "Lobby",
		Emoji:       "🏠",
		Topic:       "Welcome! Main chat room for everyone",
		Tags:        []string{},
		CreatorID:   systemModerator,
		ModeratorID: systemModerator,
		Members:     make(map[domain.ClientID]struct{}),
		Muted:       make(map[domain.ClientID]struct{}),
	}
	return m
}

// Create validates and clamps the given RoomSpec and stores a fresh room with the
// requester as creator and moderator. Membership is added separately by the
// orchestrator's join path.
func (m *RoomManager) Create(requester domain.ClientID, spec domain.RoomSpec) (*domain.Room, error) {
	name := domain.SanitizeText(spec.Name, domain.MaxRoomNameLen)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	emoji := domain.SanitizeText(spec.Emoji, domain.MaxEmojiRunes)
	if emoji == "" {
		emoji = domain.DefaultEmoji
	}
	room := &domain.Room{
		ID:          domain.RoomID(fmt.Sprintf("room-%s", uuid.NewString())),
		Name:        name,
		Emoji:       emoji,
		Topic:       domain.SanitizeText(spec.Topic, domain.MaxRoomTopicLen),
		Tags:        domain.ParseTags(spec.Tags),
		IsPrivate:   spec.IsPrivate,
		CreatorID:   requester,
		ModeratorID: requester,
		Members:     make(map[domain.ClientID]struct{}),
		Muted:       make(map[domain.ClientID]struct{}),
	}
	m.rooms[room.ID] = room
	log.Info().Str("module", "app.rooms").Str("room", string(room.ID)).Str("name", name).Msg("created room")
	return room, nil
}

func (m *RoomManager) Get(id domain.RoomID) (*domain.Room, bool) {
	r, ok := m.rooms[id]
	return r, ok
}

func (m *RoomManager) AddMember(room *domain.Room, id domain.ClientID) {
	room.Members[id] = struct{}{}
	m.EnsureModerator(room)
}

// RemoveMember drops the id from members and muted and keeps the moderator
// invariant. Returns true when the room became empty and was deleted.
func (m *RoomManager) RemoveMember(room *domain.Room, id domain.ClientID) bool {
	delete(room.Members, id)
	delete(room.Muted, id)
	m.EnsureModerator(room)
	return m.deleteIfEmpty(room)
}

// EnsureModerator reassigns moderation when the holder is gone. The
// replacement is an arbitrary remaining member (map iteration order); the
// lobby keeps its system moderator regardless of membership.
func (m *RoomManager) EnsureModerator(room *domain.Room) {
	if room.ModeratorID == systemModerator {
		return
	}
	if room.ModeratorID != "" && room.HasMember(room.ModeratorID) {
		return
	}
	room.ModeratorID = ""
	for id := range room.Members {
		room.ModeratorID = id
		break
	}
}

// Delete removes the room outright (close path). The lobby is never deleted.
func (m *RoomManager) Delete(id domain.RoomID) {
	if id == LobbyID {
		return
	}
	delete(m.rooms, id)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("deleted room")
}

func (m *RoomManager) deleteIfEmpty(room *domain.Room) bool {
	if room.ID == LobbyID || len(room.Members) > 0 {
		return false
	}
	m.Delete(room.ID)
	return true
}

func (m *RoomManager) Count() int {
	return len(m.rooms)
}

func (m *RoomManager) ActiveCount() int {
	n := 0
	for _, r := range m.rooms {
		if len(r.Members) > 0 {
			n++
		}
	}
	return n
}

// Summaries snapshots the room list for broadcast. No mutation.
func (m *RoomManager) Summaries() []core.RoomSummary {
	out := make([]core.RoomSummary, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, m.SummaryOf(r))
	}
	return out
}

func (m *RoomManager) SummaryOf(r *domain.Room) core.RoomSummary {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return core.RoomSummary{
		ID:        r.ID,
		Name:      r.Name,
		Emoji:     r.Emoji,
		Topic:     r.Topic,
		Tags:      tags,
		IsPrivate: r.IsPrivate,
		Members:   len(r.Members),
		Closed:    r.Closed,
	}
}

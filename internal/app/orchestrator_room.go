package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

// CreateRoom validates the room fields, stores the room and moves the requester in
// as sole member and moderator. Validation failures go back to the requester
// only.
func (o *Orchestrator) CreateRoom(id domain.ClientID, spec domain.RoomSpec) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	room, err := o.Rooms.Create(id, spec)
	if err != nil {
		o.sendError(id, err)
		return
	}
	o.joinRoom(u, room)
	o.notify.Send(id, core.EvtRoomCreated, roomReply(o.Rooms.SummaryOf(room)))
}

// JoinRoom answers NotFound for missing or closed rooms; any queue, pair or
// previous room membership is torn down first.
func (o *Orchestrator) JoinRoom(id domain.ClientID, roomID domain.RoomID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok || room.Closed {
		o.sendError(id, domain.ErrRoomNotFound)
		return
	}
	o.joinRoom(u, room)
	o.notify.Send(id, core.EvtRoomJoined, roomReply(o.Rooms.SummaryOf(room)))
}

// LeaveRoom is idempotent: a caller already out of any room is a no-op plus
// an idle status echo.
func (o *Orchestrator) LeaveRoom(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	o.leaveRoom(u, true)
	o.setIdle(u)
}

// RoomMessage fans a chat line out to the caller's room. Muted callers,
// closed rooms and empty text are silent no-ops: chat input is best-effort.
func (o *Orchestrator) RoomMessage(id domain.ClientID, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok || u.RoomID == "" {
		return
	}
	room, ok := o.Rooms.Get(u.RoomID)
	if !ok || room.Closed || room.IsMuted(id) {
		return
	}
	clean := domain.SanitizeText(text, domain.MaxMessageLen)
	if clean == "" {
		return
	}
	msg := domain.NewMessage(clean, u.Username, string(room.ID), id)
	o.sendRoom(room, core.EvtRoomMessage, msgReply(msg))
}

// DeleteMessage broadcasts a delete-by-id notice. Moderator only; everyone
// else is silently ignored so probing clients learn nothing.
func (o *Orchestrator) DeleteMessage(id domain.ClientID, messageID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.moderatedRoom(id)
	if !ok {
		return
	}
	o.sendRoom(room, core.EvtRoomDelete, struct {
		ID string `json:"id"`
	}{messageID})
}

// Mute flags the target in the caller's room. Moderator only.
func (o *Orchestrator) Mute(id, target domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.moderatedRoom(id)
	if !ok {
		return
	}
	room.Muted[target] = struct{}{}
	o.systemNotice(room, fmt.Sprintf("%s was muted", o.Users.Username(target)))
}

// Kick forcibly removes the target: their room association is cleared, they
// get a dedicated kicked notice and the room hears about it.
func (o *Orchestrator) Kick(id, target domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.moderatedRoom(id)
	if !ok || !room.HasMember(target) {
		return
	}
	name := o.Users.Username(target)
	o.Rooms.RemoveMember(room, target)
	if tu, ok := o.Users.Get(target); ok {
		tu.RoomID = ""
		tu.Status = domain.StatusIdle
		o.notify.Send(target, core.EvtRoomKicked, struct{}{})
	}
	o.systemNotice(room, fmt.Sprintf("%s was kicked", name))
	o.broadcastRooms()
}

// CloseRoom tears the whole room down: every member is notified, detached
// and the room deleted. The lobby's system moderator never matches a
// client, so it cannot be closed.
func (o *Orchestrator) CloseRoom(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.moderatedRoom(id)
	if !ok {
		return
	}
	room.Closed = true
	o.sendRoom(room, core.EvtRoomClosed, struct{}{})
	for memberID := range room.Members {
		if mu, ok := o.Users.Get(memberID); ok {
			mu.RoomID = ""
			mu.Status = domain.StatusIdle
		}
	}
	o.Rooms.Delete(room.ID)
	log.Info().Str("module", "app.orchestrator").Str("room", string(room.ID)).Msg("room closed")
	o.broadcastRooms()
}

// ---- internals (o.mu held) ----

// joinRoom is the one path that adds membership. Prior queue, pair and room
// state is dismantled first so the user lands in exactly one place.
func (o *Orchestrator) joinRoom(u *domain.User, room *domain.Room) {
	o.Match.Dequeue(u)
	if u.PartnerID != "" {
		o.endPair(u, "switch")
	}
	o.leaveRoom(u, false)

	o.Rooms.AddMember(room, u.ID)
	u.RoomID = room.ID
	u.Status = domain.StatusRoom
	o.systemNotice(room, fmt.Sprintf("%s joined #%s", u.Username, room.Name))
	o.broadcastRooms()
}

// leaveRoom removes membership and keeps the room invariants (moderator,
// delete-if-empty). No-op for users not in a room; tolerates a room that is
// already gone.
func (o *Orchestrator) leaveRoom(u *domain.User, notifyOthers bool) {
	if u.RoomID == "" {
		return
	}
	if room, ok := o.Rooms.Get(u.RoomID); ok {
		o.Rooms.RemoveMember(room, u.ID)
		if notifyOthers {
			o.systemNotice(room, fmt.Sprintf("%s left", u.Username))
		}
		o.broadcastRooms()
	}
	u.RoomID = ""
}

// moderatedRoom resolves the caller's room iff the caller holds moderation.
func (o *Orchestrator) moderatedRoom(id domain.ClientID) (*domain.Room, bool) {
	u, ok := o.Users.Get(id)
	if !ok || u.RoomID == "" {
		return nil, false
	}
	room, ok := o.Rooms.Get(u.RoomID)
	if !ok || room.Closed || !room.IsModerator(id) {
		return nil, false
	}
	return room, true
}

func roomReply(s core.RoomSummary) any {
	return struct {
		Room core.RoomSummary `json:"room"`
	}{s}
}

func msgReply(m domain.Message) any {
	return struct {
		Msg domain.Message `json:"msg"`
	}{m}
}

package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

// Orchestrator is the session gateway core: it validates every inbound event
// against the caller's current state, drives the registry, room manager and
// matcher, and hands outbound events to the injected sender. One mutex
// serializes all state transitions; users, rooms and queues form a single
// critical section because pairing touches all three. Nothing under the lock
// blocks: delivery is fire-and-forget.
type Orchestrator struct {
	mu sync.Mutex

	Users  *Registry
	Rooms  *RoomManager
	Match  *Matcher
	notify core.Sender

	sweepInterval time.Duration
}

func NewOrchestrator(users *Registry, rooms *RoomManager, match *Matcher, notify core.Sender, sweepInterval time.Duration) *Orchestrator {
	if sweepInterval <= 0 {
		sweepInterval = 1500 * time.Millisecond
	}
	return &Orchestrator{
		Users:         users,
		Rooms:         rooms,
		Match:         match,
		notify:        notify,
		sweepInterval: sweepInterval,
	}
}

// Connect admits an authenticated connection: a fresh idle user plus the
// init snapshot.
func (o *Orchestrator) Connect(id domain.ClientID, username string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u := o.Users.Register(id, username)
	o.notify.Send(id, core.EvtInit, struct {
		Username string             `json:"username"`
		Rooms    []core.RoomSummary `json:"rooms"`
		Status   domain.Status      `json:"status"`
	}{username, o.Rooms.Summaries(), u.Status})
}

// Disconnect tears down everything the connection owned, in dependency
// order: pair first (so the partner is requeued while state is consistent),
// then room (silently), then queues, then the registry entry itself.
func (o *Orchestrator) Disconnect(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	if u.PartnerID != "" {
		o.endPair(u, "disconnect")
	}
	o.leaveRoom(u, false)
	o.Match.Dequeue(u)
	o.Users.Remove(id)
	o.broadcastRooms()
}

// Run drives the interest-timeout sweeper until ctx is canceled. The sweep
// is just another mutation producer behind the same lock.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.sweepInterval)
	defer ticker.Stop()
	log.Info().Str("module", "app.orchestrator").Dur("interval", o.sweepInterval).Msg("timeout sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.orchestrator").Msg("timeout sweeper stopped")
			return
		case <-ticker.C:
			o.sweep()
		}
	}
}

func (o *Orchestrator) sweep() {
	o.mu.Lock()
	defer o.mu.Unlock()

	demoted, pairs := o.Match.SweepTimeouts()
	for _, u := range demoted {
		o.sendStatus(u)
	}
	o.emitPairs(pairs)
}

// Stats snapshots counters for the HTTP stats endpoint.
func (o *Orchestrator) Stats() (onlineUsers, totalRooms, activeRooms int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Users.Count(), o.Rooms.Count(), o.Rooms.ActiveCount()
}

// ---- helpers (o.mu held) ----

func (o *Orchestrator) sendStatus(u *domain.User) {
	o.notify.Send(u.ID, core.EvtStatus, struct {
		Status domain.Status `json:"status"`
	}{u.Status})
}

func (o *Orchestrator) sendError(id domain.ClientID, err error) {
	o.notify.Send(id, core.EvtError, struct {
		Error string `json:"error"`
	}{err.Error()})
}

func (o *Orchestrator) setIdle(u *domain.User) {
	u.Status = domain.StatusIdle
	o.sendStatus(u)
}

// broadcastRooms pushes the current room list to every connection.
func (o *Orchestrator) broadcastRooms() {
	payload := struct {
		List []core.RoomSummary `json:"list"`
	}{o.Rooms.Summaries()}
	for _, u := range o.Users.All() {
		o.notify.Send(u.ID, core.EvtRooms, payload)
	}
}

func (o *Orchestrator) sendRoom(room *domain.Room, event string, payload any) {
	for id := range room.Members {
		o.notify.Send(id, event, payload)
	}
}

func (o *Orchestrator) systemNotice(room *domain.Room, text string) {
	msg := domain.NewSystem(text)
	o.sendRoom(room, core.EvtRoomSystem, struct {
		Text string `json:"text"`
		TS   int64  `json:"ts"`
	}{msg.Text, msg.TS})
}

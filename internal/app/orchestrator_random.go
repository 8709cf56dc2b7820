package app

import (
	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

// RandomStart drops the caller out of any room and puts them in the pool.
func (o *Orchestrator) RandomStart(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	o.leaveRoom(u, false)
	o.enqueue(u)
}

// RandomNext ends the current pair (requeueing the partner) and re-enters
// the pool. Without a partner it is just a fresh enqueue.
func (o *Orchestrator) RandomNext(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	o.leaveRoom(u, false)
	if u.PartnerID != "" {
		o.endPair(u, "next")
	} else {
		o.Match.Dequeue(u)
	}
	o.enqueue(u)
}

// RandomStop ends any pair and leaves the pool entirely.
func (o *Orchestrator) RandomStop(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	if u.PartnerID != "" {
		o.endPair(u, "stop")
	}
	o.Match.Dequeue(u)
	o.setIdle(u)
}

// RandomMessage delivers to the pair channel only. Callers without an
// active pair, and empty text, are silent no-ops.
func (o *Orchestrator) RandomMessage(id domain.ClientID, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok || u.Status != domain.StatusRandom || u.PairRoomID == "" {
		return
	}
	clean := domain.SanitizeText(text, domain.MaxMessageLen)
	if clean == "" {
		return
	}
	msg := domain.NewMessage(clean, u.Username, u.PairRoomID, id)
	payload := msgReply(msg)
	o.notify.Send(id, core.EvtRandomMessage, payload)
	if u.PartnerID != "" {
		o.notify.Send(u.PartnerID, core.EvtRandomMessage, payload)
	}
}

// UpdateInterests replaces the caller's tag set. Takes effect on the next
// enqueue; an active queue membership is not reshuffled.
func (o *Orchestrator) UpdateInterests(id domain.ClientID, tags []string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	u, ok := o.Users.Get(id)
	if !ok {
		return
	}
	set := make(map[string]struct{})
	for _, t := range domain.NormalizeTags(tags) {
		set[t] = struct{}{}
	}
	u.Interests = set
}

func (o *Orchestrator) ToggleInterests(id domain.ClientID, enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if u, ok := o.Users.Get(id); ok {
		u.InterestEnabled = enabled
	}
}

func (o *Orchestrator) SetWait(id domain.ClientID, ms int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if u, ok := o.Users.Get(id); ok {
		u.WaitMs = domain.ClampWait(ms)
	}
}

// ---- internals (o.mu held) ----

func (o *Orchestrator) enqueue(u *domain.User) {
	pairs := o.Match.Enqueue(u)
	o.sendStatus(u)
	o.emitPairs(pairs)
}

// endPair dissolves the caller's pair and notifies the abandoned partner,
// who is requeued by the matcher and may match again immediately.
func (o *Orchestrator) endPair(u *domain.User, reason string) {
	partner, pairs := o.Match.EndPair(u, reason)
	if partner == nil {
		return
	}
	o.notify.Send(partner.ID, core.EvtRandomEnded, struct {
		Reason string `json:"reason"`
	}{reason})
	o.sendStatus(partner)
	o.emitPairs(pairs)
}

// emitPairs delivers the matched event to both sides of each formed pair,
// followed by their new status.
func (o *Orchestrator) emitPairs(pairs []Pair) {
	for _, p := range pairs {
		o.notify.Send(p.A.ID, core.EvtRandomMatched, matchedPayload(p.RoomID, p.B, p.A, p.IsInterest))
		o.notify.Send(p.B.ID, core.EvtRandomMatched, matchedPayload(p.RoomID, p.A, p.B, p.IsInterest))
		o.sendStatus(p.A)
		o.sendStatus(p.B)
	}
}

type matchedEvent struct {
	RoomID     string        `json:"roomId"`
	Partner    core.Identity `json:"partner"`
	You        core.Identity `json:"you"`
	IsInterest bool          `json:"isInterest"`
}

func matchedPayload(roomID string, partner, you *domain.User, isInterest bool) matchedEvent {
	return matchedEvent{
		RoomID:     roomID,
		Partner:    core.Identity{ID: partner.ID, Name: partner.Username},
		You:        core.Identity{ID: you.ID, Name: you.Username},
		IsInterest: isInterest,
	}
}

package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/domain"
)

// Pair is one formed match, handed back to the orchestrator for delivery.
type Pair struct {
	A, B       *domain.User
	RoomID     string
	IsInterest bool
}

// Matcher owns the random pool, the per-tag interest pools and all pairing
// fields of User. It never talks to the network: pairing passes return the
// pairs they formed. Lock-free like the other stores; the orchestrator
// serializes access.
type Matcher struct {
	reg      *Registry
	random   []domain.ClientID
	interest map[string][]domain.ClientID

	// Injected clock so tests can drive the timeout fallback.
	now func() time.Time
}

func NewMatcher(reg *Registry) *Matcher {
	return &Matcher{
		reg:      reg,
		interest: make(map[string][]domain.ClientID),
		now:      time.Now,
	}
}

// Enqueue places the user into the interest pools (when enabled with at
// least one tag) or the random pool, then runs a pairing pass. Re-entry is
// idempotent: any prior queue membership is torn down first.
func (m *Matcher) Enqueue(u *domain.User) []Pair {
	m.Dequeue(u)
	u.PartnerID = ""
	u.PairRoomID = ""

	if u.InterestEnabled && len(u.Interests) > 0 {
		u.InInterestQueue = true
		u.WaitUntil = m.now().Add(time.Duration(u.WaitMs) * time.Millisecond)
		for tag := range u.Interests {
			m.interest[tag] = append(m.interest[tag], u.ID)
		}
	} else {
		u.InRandomQueue = true
		m.random = append(m.random, u.ID)
	}
	u.Status = domain.StatusQueue
	log.Debug().Str("module", "app.matcher").Str("cid", string(u.ID)).Bool("interest", u.InInterestQueue).Msg("enqueued")

	pairs := m.matchInterest()
	return append(pairs, m.matchRandom()...)
}

// Dequeue clears every queue membership the user holds. Safe on users that
// are not queued at all.
func (m *Matcher) Dequeue(u *domain.User) {
	if u.InRandomQueue {
		m.random = removeID(m.random, u.ID)
	}
	if u.InInterestQueue {
		for tag, q := range m.interest {
			q = removeID(q, u.ID)
			if len(q) == 0 {
				delete(m.interest, tag)
			} else {
				m.interest[tag] = q
			}
		}
	}
	u.InRandomQueue = false
	u.InInterestQueue = false
	u.WaitUntil = time.Time{}
}

// EndPair dissolves the user's pair. The ending side goes idle; the
// abandoned partner is put straight back into the pool so nobody is left
// dangling. Returns the partner (for the ended notice) and any pairs the
// requeue formed.
func (m *Matcher) EndPair(u *domain.User, reason string) (*domain.User, []Pair) {
	partnerID := u.PartnerID
	u.PartnerID = ""
	u.PairRoomID = ""
	u.Status = domain.StatusIdle

	partner, ok := m.reg.Get(partnerID)
	if !ok {
		return nil, nil
	}
	partner.PartnerID = ""
	partner.PairRoomID = ""
	log.Info().Str("module", "app.matcher").Str("cid", string(u.ID)).Str("partner", string(partnerID)).Str("reason", reason).Msg("pair ended")
	return partner, m.Enqueue(partner)
}

// SweepTimeouts demotes interest-queued users whose wait deadline elapsed:
// interest matching is disabled for them and they re-enter the random pool.
// Returns the demoted users and any pairs formed by their requeue.
func (m *Matcher) SweepTimeouts() ([]*domain.User, []Pair) {
	now := m.now()
	var demoted []*domain.User
	var pairs []Pair
	for _, u := range m.reg.All() {
		if !u.InInterestQueue || u.WaitUntil.IsZero() || !now.After(u.WaitUntil) {
			continue
		}
		m.Dequeue(u)
		u.InterestEnabled = false
		demoted = append(demoted, u)
		pairs = append(pairs, m.Enqueue(u)...)
		log.Info().Str("module", "app.matcher").Str("cid", string(u.ID)).Msg("interest wait expired, demoted to random")
	}
	return demoted, pairs
}

// matchInterest drains every tag pool: pop the head, first-fit scan the
// remainder, pair or push the head back and move on. Empty pools are
// removed. Tag order follows map iteration; fairness across tags beyond
// FIFO within one pool is not a goal.
func (m *Matcher) matchInterest() []Pair {
	var pairs []Pair
	for tag := range m.interest {
		q := m.interest[tag]
		for len(q) > 1 {
			head := q[0]
			idx := m.firstFit(head, q[1:])
			if idx < 0 {
				break
			}
			p, ok := m.pairUsers(head, q[1+idx], true)
			if !ok {
				break
			}
			pairs = append(pairs, p)
			// pairUsers dequeued both sides from every pool they were in.
			q = m.interest[tag]
		}
		if len(q) == 0 {
			delete(m.interest, tag)
		}
	}
	return pairs
}

func (m *Matcher) matchRandom() []Pair {
	var pairs []Pair
	for len(m.random) > 1 {
		head := m.random[0]
		rest := m.random[1:]
		idx := m.firstFit(head, rest)
		if idx < 0 {
			break
		}
		p, ok := m.pairUsers(head, rest[idx], false)
		if !ok {
			break
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func (m *Matcher) firstFit(head domain.ClientID, rest []domain.ClientID) int {
	for i, id := range rest {
		if m.canPair(head, id) {
			return i
		}
	}
	return -1
}

// canPair requires two distinct live users, neither already partnered, who
// were not each other's immediately preceding partner.
func (m *Matcher) canPair(aID, bID domain.ClientID) bool {
	if aID == bID {
		return false
	}
	a, okA := m.reg.Get(aID)
	b, okB := m.reg.Get(bID)
	if !okA || !okB {
		return false
	}
	if a.PartnerID != "" || b.PartnerID != "" {
		return false
	}
	if a.LastPartnerID == bID || b.LastPartnerID == aID {
		return false
	}
	return true
}

func (m *Matcher) pairUsers(aID, bID domain.ClientID, isInterest bool) (Pair, bool) {
	a, okA := m.reg.Get(aID)
	b, okB := m.reg.Get(bID)
	if !okA || !okB {
		return Pair{}, false
	}
	m.Dequeue(a)
	m.Dequeue(b)

	roomID := fmt.Sprintf("rand-%s", uuid.NewString())
	a.PartnerID = bID
	b.PartnerID = aID
	a.PairRoomID = roomID
	b.PairRoomID = roomID
	a.LastPartnerID = bID
	b.LastPartnerID = aID
	a.Status = domain.StatusRandom
	b.Status = domain.StatusRandom

	log.Info().Str("module", "app.matcher").Str("a", string(aID)).Str("b", string(bID)).Bool("interest", isInterest).Msg("paired")
	return Pair{A: a, B: b, RoomID: roomID, IsInterest: isInterest}, true
}

func removeID(q []domain.ClientID, id domain.ClientID) []domain.ClientID {
	for i, v := range q {
		if v == id {
			return append(q[:i:i], q[i+1:]...)
		}
	}
	return q
}

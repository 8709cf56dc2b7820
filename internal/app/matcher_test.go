package app

import (
	"testing"
	"time"

	"github.com/dkeye/Mingle/internal/domain"
)

func newTestMatcher() (*Matcher, *Registry) {
	reg := NewRegistry()
	return NewMatcher(reg), reg
}

func TestPlainRandomPairing(t *testing.T) {
	m, reg := newTestMatcher()
	a := reg.Register("a", "alice")
	b := reg.Register("b", "bob")

	if pairs := m.Enqueue(a); len(pairs) != 0 {
		t.Fatalf("single user paired: %v", pairs)
	}
	if a.Status != domain.StatusQueue || !a.InRandomQueue {
		t.Fatalf("a not queued: %+v", a)
	}

	pairs := m.Enqueue(b)
	if len(pairs) != 1 {
		t.Fatalf("want 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.IsInterest {
		t.Error("plain match flagged as interest")
	}
	if p.RoomID == "" || a.PairRoomID != p.RoomID || b.PairRoomID != p.RoomID {
		t.Error("pair room not shared")
	}

	// Symmetry invariant.
	if a.PartnerID != b.ID || b.PartnerID != a.ID {
		t.Errorf("partner links not mutual: a->%q b->%q", a.PartnerID, b.PartnerID)
	}
	if a.Status != domain.StatusRandom || b.Status != domain.StatusRandom {
		t.Error("statuses not random after pairing")
	}
	if a.InRandomQueue || b.InRandomQueue {
		t.Error("paired users still queued")
	}
}

func TestInterestPairing(t *testing.T) {
	m, reg := newTestMatcher()
	a := reg.Register("a", "alice")
	b := reg.Register("b", "bob")
	for _, u := range []*domain.User{a, b} {
		u.Interests = map[string]struct{}{"chess": {}}
		u.InterestEnabled = true
	}

	m.Enqueue(a)
	pairs := m.Enqueue(b)
	if len(pairs) != 1 || !pairs[0].IsInterest {
		t.Fatalf("want one interest pair, got %v", pairs)
	}
	if len(m.interest) != 0 {
		t.Errorf("drained interest pools not removed: %v", m.interest)
	}
}

func TestMultiTagUserOccupiesEveryPool(t *testing.T) {
	m, reg := newTestMatcher()
	a := reg.Register("a", "alice")
	a.Interests = map[string]struct{}{"chess": {}, "go": {}}
	a.InterestEnabled = true

	m.Enqueue(a)
	if len(m.interest["chess"]) != 1 || len(m.interest["go"]) != 1 {
		t.Fatalf("user missing from a tag pool: %v", m.interest)
	}

	// Pairing through one tag must clear the user from all pools.
	b := reg.Register("b", "bob")
	b.Interests = map[string]struct{}{"go": {}}
	b.InterestEnabled = true
	pairs := m.Enqueue(b)
	if len(pairs) != 1 {
		t.Fatalf("want pair, got %v", pairs)
	}
	if len(m.interest) != 0 {
		t.Errorf("stale pool entries remain: %v", m.interest)
	}
}

func TestAntiRepeat(t *testing.T) {
	m, reg := newTestMatcher()
	a := reg.Register("a", "alice")
	b := reg.Register("b", "bob")

	m.Enqueue(a)
	if pairs := m.Enqueue(b); len(pairs) != 1 {
		t.Fatal("setup pairing failed")
	}

	partner, pairs := m.EndPair(a, "next")
	if partner != b {
		t.Fatalf("EndPair partner = %v", partner)
	}
	if len(pairs) != 0 {
		t.Fatal("partner paired against empty pool")
	}
	if b.Status != domain.StatusQueue {
		t.Fatalf("abandoned partner status = %q, want queue", b.Status)
	}

	// The ex-partners are the only two in the pool: no immediate re-pair.
	if pairs := m.Enqueue(a); len(pairs) != 0 {
		t.Fatal("immediate re-pair with last partner")
	}

	// A third user breaks the standoff.
	c := reg.Register("c", "carol")
	if pairs := m.Enqueue(c); len(pairs) != 1 {
		t.Fatal("third user should match the queue head")
	}
}

func TestGreedyFirstFitOrder(t *testing.T) {
	m, reg := newTestMatcher()
	a := reg.Register("a", "alice")
	b := reg.Register("b", "bob")
	c := reg.Register("c", "carol")

	// a and b were just partners; c arrives. Head a skips b, pairs with c.
	a.LastPartnerID = "b"
	b.LastPartnerID = "a"
	m.Enqueue(a)
	m.Enqueue(b)
	pairs := m.Enqueue(c)
	if len(pairs) != 1 {
		t.Fatalf("want 1 pair, got %d", len(pairs))
	}
	got := map[domain.ClientID]bool{pairs[0].A.ID: true, pairs[0].B.ID: true}
	if !got["a"] || !got["c"] {
		t.Errorf("first-fit should pair head a with c, got %v", got)
	}
	if !b.InRandomQueue {
		t.Error("b should remain queued")
	}
}

func TestDequeueIdempotent(t *testing.T) {
	m, reg := newTestMatcher()
	a := reg.Register("a", "alice")
	m.Dequeue(a)
	m.Enqueue(a)
	m.Dequeue(a)
	m.Dequeue(a)
	if a.InRandomQueue || a.InInterestQueue || len(m.random) != 0 {
		t.Errorf("dequeue left state behind: %+v random=%v", a, m.random)
	}
}

func TestSweepDemotesExpiredInterestUsers(t *testing.T) {
	m, reg := newTestMatcher()
	now := time.Now()
	m.now = func() time.Time { return now }

	a := reg.Register("a", "alice")
	a.Interests = map[string]struct{}{"chess": {}}
	a.InterestEnabled = true
	a.WaitMs = 5000

	b := reg.Register("b", "bob")

	m.Enqueue(a)
	m.Enqueue(b) // plain random pool

	// Before the deadline nothing happens.
	demoted, pairs := m.SweepTimeouts()
	if len(demoted) != 0 || len(pairs) != 0 {
		t.Fatal("sweep fired before deadline")
	}

	now = now.Add(6 * time.Second)
	demoted, pairs = m.SweepTimeouts()
	if len(demoted) != 1 || demoted[0] != a {
		t.Fatalf("demoted = %v", demoted)
	}
	if a.InterestEnabled {
		t.Error("interest flag should be forced off on demotion")
	}
	if len(pairs) != 1 || pairs[0].IsInterest {
		t.Fatalf("demoted user should match the random pool, pairs = %v", pairs)
	}
}

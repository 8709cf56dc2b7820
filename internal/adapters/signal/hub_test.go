package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/Mingle/internal/core"
)

func TestEnvelopeFlattensPayload(t *testing.T) {
	frame := Envelope(core.EvtStatus, struct {
		Status string `json:"status"`
	}{"idle"})

	var m map[string]any
	if err := json.Unmarshal(frame, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["type"] != core.EvtStatus || m["status"] != "idle" {
		t.Errorf("envelope = %v", m)
	}
}

func TestEnvelopeNilPayload(t *testing.T) {
	frame := Envelope(core.EvtAuthRequired, nil)
	var m map[string]any
	if err := json.Unmarshal(frame, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m) != 1 || m["type"] != core.EvtAuthRequired {
		t.Errorf("envelope = %v", m)
	}
}

type recordConn struct {
	frames []core.Frame
}

func (c *recordConn) TrySend(f core.Frame) error { c.frames = append(c.frames, f); return nil }
func (c *recordConn) Close()                     {}

func TestHubSendRouting(t *testing.T) {
	h := NewHub()
	conn := &recordConn{}
	h.Bind("a", conn)

	h.Send("a", core.EvtStatus, struct {
		Status string `json:"status"`
	}{"queue"})
	h.Send("ghost", core.EvtStatus, nil) // unknown id: silent drop

	if len(conn.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(conn.frames))
	}

	h.Unbind("a")
	h.Send("a", core.EvtStatus, nil)
	if len(conn.frames) != 1 {
		t.Error("send after unbind still delivered")
	}
}

func TestMessageRateLimiter(t *testing.T) {
	rl := NewMessageRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("send %d blocked below the limit", i)
		}
	}
	if rl.Allow("a") {
		t.Error("limit not enforced")
	}
	if !rl.Allow("b") {
		t.Error("limit leaked across clients")
	}
	rl.Forget("a")
	if !rl.Allow("a") {
		t.Error("forget did not reset the window")
	}
}

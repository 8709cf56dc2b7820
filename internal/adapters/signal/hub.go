package signal

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

// Hub is the transport-side connection table and the app layer's Sender.
// It keeps the orchestrator ignorant of websockets: delivery is look up the
// conn, marshal, TrySend, and drop on backpressure.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.ClientID]core.SignalConnection
}

func NewHub() *Hub {
	return &Hub{conns: make(map[domain.ClientID]core.SignalConnection)}
}

func (h *Hub) Bind(id domain.ClientID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = conn
}

func (h *Hub) Unbind(id domain.ClientID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

func (h *Hub) Get(id domain.ClientID) (core.SignalConnection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[id]
	return c, ok
}

// Send implements core.Sender. Unknown ids and slow receivers are dropped
// silently; fan-out is best-effort by contract.
func (h *Hub) Send(id domain.ClientID, event string, payload any) {
	conn, ok := h.Get(id)
	if !ok {
		return
	}
	if err := conn.TrySend(Envelope(event, payload)); err != nil {
		log.Debug().Err(err).Str("module", "signal.hub").Str("cid", string(id)).Str("event", event).Msg("dropped frame")
	}
}

// Envelope flattens a payload struct into the wire shape
// {"type": event, ...payload fields}.
func Envelope(event string, payload any) core.Frame {
	m := map[string]any{}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("module", "signal.hub").Str("event", event).Msg("envelope marshal")
		} else if err := json.Unmarshal(b, &m); err != nil {
			log.Error().Err(err).Str("module", "signal.hub").Str("event", event).Msg("envelope flatten")
		}
	}
	m["type"] = event
	b, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Str("event", event).Msg("envelope encode")
		return nil
	}
	return b
}

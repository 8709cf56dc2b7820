package signal

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/domain"
)

func (ctl *Controller) handleRoomCreate(cid domain.ClientID, data []byte) {
	var p struct {
		Name      string          `json:"name"`
		Topic     string          `json:"topic"`
		Tags      json.RawMessage `json:"tags"`
		IsPrivate bool            `json:"isPrivate"`
		Emoji     string          `json:"emoji"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad room:create payload")
		return
	}
	ctl.Orch.CreateRoom(cid, domain.RoomSpec{
		Name:      p.Name,
		Topic:     p.Topic,
		Tags:      flattenTags(p.Tags),
		IsPrivate: p.IsPrivate,
		Emoji:     p.Emoji,
	})
}

func (ctl *Controller) handleRoomJoin(cid domain.ClientID, data []byte) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad room:join payload")
		return
	}
	ctl.Orch.JoinRoom(cid, domain.RoomID(p.RoomID))
}

func (ctl *Controller) handleRoomMessage(cid domain.ClientID, data []byte) {
	if !ctl.limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("message rate limited")
		return
	}
	var p struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.Orch.RoomMessage(cid, p.Text)
}

func (ctl *Controller) handleRoomDelete(cid domain.ClientID, data []byte) {
	var p struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.Orch.DeleteMessage(cid, p.MessageID)
}

func (ctl *Controller) handleRoomMute(cid domain.ClientID, data []byte) {
	var p struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.Orch.Mute(cid, domain.ClientID(p.TargetID))
}

func (ctl *Controller) handleRoomKick(cid domain.ClientID, data []byte) {
	var p struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.Orch.Kick(cid, domain.ClientID(p.TargetID))
}

// flattenTags accepts either a free-text string or an explicit list, the
// two shapes clients send for tags.
func flattenTags(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ",")
	}
	return ""
}

package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/domain"
)

func (ctl *Controller) handleRandomMessage(cid domain.ClientID, data []byte) {
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
	ctl.Orch.RandomMessage(cid, p.Text)
}

func (ctl *Controller) handleInterestsUpdate(cid domain.ClientID, data []byte) {
	var p struct {
		TagsText string          `json:"tagsText"`
		TagList  []string        `json:"tagList"`
		Tags     json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad interests:update payload")
		return
	}
	switch {
	case len(p.TagList) > 0:
		ctl.Orch.UpdateInterests(cid, p.TagList)
	case p.TagsText != "":
		ctl.Orch.UpdateInterests(cid, domain.ParseTags(p.TagsText))
	default:
		ctl.Orch.UpdateInterests(cid, domain.ParseTags(flattenTags(p.Tags)))
	}
}

func (ctl *Controller) handleInterestsToggle(cid domain.ClientID, data []byte) {
	var p struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.Orch.ToggleInterests(cid, p.Enabled)
}

func (ctl *Controller) handleInterestsWait(cid domain.ClientID, data []byte) {
	var p struct {
		Ms int `json:"ms"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.Orch.SetWait(cid, p.Ms)
}

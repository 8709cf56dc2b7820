package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	pingPeriod := ctl.cfg.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cid domain.ClientID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Error().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleEvent(cid, data)
		}
	}
}

func (ctl *Controller) handleEvent(cid domain.ClientID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case core.InRoomCreate:
		ctl.handleRoomCreate(cid, data)
	case core.InRoomJoin:
		ctl.handleRoomJoin(cid, data)
	case core.InRoomLeave:
		ctl.Orch.LeaveRoom(cid)
	case core.InRoomMessage:
		ctl.handleRoomMessage(cid, data)
	case core.InRoomDelete:
		ctl.handleRoomDelete(cid, data)
	case core.InRoomMute:
		ctl.handleRoomMute(cid, data)
	case core.InRoomKick:
		ctl.handleRoomKick(cid, data)
	case core.InRoomClose:
		ctl.Orch.CloseRoom(cid)
	case core.InRandomStart:
		ctl.Orch.RandomStart(cid)
	case core.InRandomNext:
		ctl.Orch.RandomNext(cid)
	case core.InRandomStop:
		ctl.Orch.RandomStop(cid)
	case core.InRandomMessage:
		ctl.handleRandomMessage(cid, data)
	case core.InInterestsUpdate:
		ctl.handleInterestsUpdate(cid, data)
	case core.InInterestsToggle:
		ctl.handleInterestsToggle(cid, data)
	case core.InInterestsWait:
		ctl.handleInterestsWait(cid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

// Package signal is the websocket boundary: it upgrades connections,
// authenticates them against the account collaborator, pumps frames in both
// directions and translates the JSON event envelope into orchestrator calls.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/app"
	"github.com/dkeye/Mingle/internal/auth"
	"github.com/dkeye/Mingle/internal/config"
	"github.com/dkeye/Mingle/internal/core"
	"github.com/dkeye/Mingle/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// SessionCookieKey is where the HTTP layer stashes the auth token.
const SessionCookieKey = "token"

type Controller struct {
	Orch *app.Orchestrator
	Hub  *Hub

	auth    auth.Authenticator
	cfg     *config.Config
	limiter *MessageRateLimiter
}

func NewController(orch *app.Orchestrator, hub *Hub, authn auth.Authenticator, cfg *config.Config) *Controller {
	return &Controller{
		Orch:    orch,
		Hub:     hub,
		auth:    authn,
		cfg:     cfg,
		limiter: NewMessageRateLimiter(20, 10*time.Second),
	}
}

// WsConn wraps one websocket with a buffered outbound channel. TrySend
// drops on backpressure rather than blocking a broadcast.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSession upgrades the connection and gates it on authentication.
// Unauthenticated sockets get one auth:required frame and are terminated;
// authenticated ones are registered and handed to the pumps.
func (ctl *Controller) HandleSession(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	token := sessionToken(c)
	username, ok := ctl.auth.Authenticate(token)
	if !ok {
		log.Warn().Str("module", "signal").Msg("unauthenticated ws connection")
		_ = ws.WriteMessage(websocket.TextMessage, Envelope(core.EvtAuthRequired, nil))
		_ = ws.Close()
		return
	}

	cid := domain.ClientID(uuid.NewString())
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("username", username).Msg("new WS connection")

	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}
	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctl.Hub.Bind(cid, conn)
	ctl.Orch.Connect(cid, username)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, cid, conn)
		ctl.Orch.Disconnect(cid)
		ctl.Hub.Unbind(cid)
		ctl.limiter.Forget(cid)
	}()
}

// sessionToken digs the auth token out of the cookie session, with a query
// parameter fallback for non-browser clients.
func sessionToken(c *gin.Context) string {
	if s := sessions.Default(c); s != nil {
		if tok, ok := s.Get(SessionCookieKey).(string); ok && tok != "" {
			return tok
		}
	}
	return c.Query("token")
}

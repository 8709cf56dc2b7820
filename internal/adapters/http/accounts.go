package http

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/adapters/signal"
	"github.com/dkeye/Mingle/internal/auth"
)

// AccountHandlers serves the thin account surface around the session core:
// register, login, logout, whoami. On success the issued token lands in the
// cookie session, where the websocket handshake picks it up.
type AccountHandlers struct {
	Store  *auth.AccountStore
	Tokens *auth.TokenService
}

func NewAccountHandlers(store *auth.AccountStore, tokens *auth.TokenService) *AccountHandlers {
	return &AccountHandlers{Store: store, Tokens: tokens}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AccountHandlers) Register(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrMissingCredential.Error()})
		return
	}
	acct, err := h.Store.Register(body.Username, body.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.issueSession(c, acct.Username)
}

func (h *AccountHandlers) Login(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrMissingCredential.Error()})
		return
	}
	acct, err := h.Store.Verify(body.Username, body.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrMissingCredential) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	h.issueSession(c, acct.Username)
}

func (h *AccountHandlers) Logout(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session clear")
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AccountHandlers) Me(c *gin.Context) {
	s := sessions.Default(c)
	token, _ := s.Get(signal.SessionCookieKey).(string)
	username, ok := h.Tokens.Authenticate(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func (h *AccountHandlers) issueSession(c *gin.Context, username string) {
	token, err := h.Tokens.Issue(username)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("token issue")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	s := sessions.Default(c)
	s.Set(signal.SessionCookieKey, token)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "username": username})
}

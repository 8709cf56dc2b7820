package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Mingle/internal/adapters/signal"
	"github.com/dkeye/Mingle/internal/config"
)

// SetupRouter wires the HTTP surface: static assets, the account endpoints
// and the websocket session endpoint.
func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller, accounts *AccountHandlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MingleSession", store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.POST("/register", accounts.Register)
	api.POST("/login", accounts.Login)
	api.POST("/logout", accounts.Logout)
	api.GET("/me", accounts.Me)
	api.GET("/stats", func(c *gin.Context) {
		online, total, active := ctl.Orch.Stats()
		c.JSON(200, gin.H{
			"onlineUsers": online,
			"totalRooms":  total,
			"activeRooms": active,
		})
	})

	api.GET("/ws", func(c *gin.Context) {
		ctl.HandleSession(ctx, c)
	})

	return r
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Mingle/internal/adapters/http"
	wssignal "github.com/dkeye/Mingle/internal/adapters/signal"
	"github.com/dkeye/Mingle/internal/app"
	"github.com/dkeye/Mingle/internal/auth"
	"github.com/dkeye/Mingle/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	accounts := auth.NewAccountStore()
	tokens := auth.NewTokenService(cfg.Secret, cfg.TokenTTL)

	hub := wssignal.NewHub()
	users := app.NewRegistry()
	rooms := app.NewRoomManager()
	match := app.NewMatcher(users)
	orch := app.NewOrchestrator(users, rooms, match, hub, cfg.SweepInterval)
	go orch.Run(ctx)

	ctl := wssignal.NewController(orch, hub, tokens, cfg)
	acctHandlers := router.NewAccountHandlers(accounts, tokens)

	r := router.SetupRouter(ctx, cfg, ctl, acctHandlers)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Mingle server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

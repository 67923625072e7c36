package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/passerby7890/v2board-bot/internal/app"
	"github.com/passerby7890/v2board-bot/internal/config"
	"github.com/passerby7890/v2board-bot/internal/handler/telegram"
	"github.com/passerby7890/v2board-bot/pkg/logger"
)

func main() {
	// Secrets live in .env; a missing file is fine in containerised deploys.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if err = logger.Initialize(); err != nil {
		log.Fatalf("error starting logger: %v", err)
	}

	if cfg.BotToken == "" || cfg.PanelDSN == "" {
		logger.Log.Fatal("BOT_TOKEN and PANEL_DSN must be set")
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Log.Fatal("error creating app", logger.Error(err))
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Log.Fatal("error connecting to telegram", logger.Error(err))
	}
	logger.Log.Info("authorized on telegram", logger.String("username", api.Self.UserName))

	handler := telegram.New(api, a.Bind, a.Checkin, a.Location, cfg.Workers)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: a.Router(),
	}

	go startServer(server, cfg.Addr)

	botDone := make(chan struct{})
	go func() {
		handler.Run(ctx)
		close(botDone)
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	logger.Log.Info("stopping ops server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("error shutting down ops server", logger.Error(err))
	}
	logger.Log.Info("ops server stopped")

	logger.Log.Info("waiting for in-flight updates to finish")
	select {
	case <-botDone:
	case <-time.After(10 * time.Second):
		logger.Log.Warn("timed out waiting for workers")
	}
	logger.Log.Info("workers finished")

	logger.Log.Info("closing database connections")
	a.Close()
	logger.Log.Info("database connections closed")

	logger.Log.Info("shutdown complete")
}

func startServer(server *http.Server, addr string) {
	logger.Log.Info("starting ops server", logger.String("address", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("ops server error", logger.Error(err))
	}
}

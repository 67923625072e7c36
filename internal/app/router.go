package app

import (
	"github.com/go-chi/chi/v5"
	opshandler "github.com/passerby7890/v2board-bot/internal/handler/ops"
)

func (app *App) Router() *chi.Mux {
	r := chi.NewRouter()

	opsHandler := opshandler.New(app.Panel, app.Registry, app.startedAt)

	r.Get("/healthz", opsHandler.Health)
	r.Get("/api/status", opsHandler.Status)

	return r
}

package opshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/passerby7890/v2board-bot/pkg/dto"
	"github.com/passerby7890/v2board-bot/pkg/logger"
)

type panelStore interface {
	Ping(ctx context.Context) error
}

type bindingStore interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

type OpsHandler struct {
	panel     panelStore
	registry  bindingStore
	startedAt time.Time
}

func New(panel panelStore, registry bindingStore, startedAt time.Time) *OpsHandler {
	return &OpsHandler{
		panel:     panel,
		registry:  registry,
		startedAt: startedAt,
	}
}

// Health reports liveness of both stores: the local bindings database and the
// remote panel database.
func (h OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Ping(r.Context()); err != nil {
		logger.Log.Error("bindings database unhealthy", logger.Error(err))
		http.Error(w, "bindings database unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := h.panel.Ping(r.Context()); err != nil {
		logger.Log.Error("panel database unhealthy", logger.Error(err))
		http.Error(w, "panel database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.Count(r.Context())
	if err != nil {
		logger.Log.Error("error counting bindings", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := dto.Status{
		Bindings:      count,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("error encoding status to JSON", logger.Error(err))
	}
}

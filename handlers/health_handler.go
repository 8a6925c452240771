package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("Health: store ping failed: %v", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

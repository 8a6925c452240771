package handlers

import (
	"context"
	"net/http"
	"time"

	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/middleware"
	"hydrateMeAPI/services"
)

type IntakePresets struct {
	QuickAmounts []int `json:"quickAmounts"`
	MaxAmountMl  int   `json:"maxAmountMl"`
}

type IntakeHandler struct {
	intakeService *services.IntakeService
}

func NewIntakeHandler(intakeService *services.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

func (h *IntakeHandler) LogIntake(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req services.LogIntakeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.intakeService.LogIntake(ctx, authID, req.AmountMl)
	if err != nil {
		respondWithServiceError(w, "LogIntake", err)
		return
	}

	middleware.RecordIntake(req.AmountMl, result.GoalReached)
	for _, def := range result.NewAchievements {
		middleware.RecordAchievement(string(def.Type))
	}

	respondWithJSON(w, http.StatusCreated, result)
}

// GetPresets lists the one-tap drink sizes clients offer next to free entry.
func (h *IntakeHandler) GetPresets(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, IntakePresets{
		QuickAmounts: intake.QuickAmounts,
		MaxAmountMl:  intake.MaxAmountMl,
	})
}

// GetHistory serves ?date=YYYY-MM-DD, defaulting to today in the caller's timezone.
func (h *IntakeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	events, err := h.intakeService.GetHistory(ctx, authID, r.URL.Query().Get("date"))
	if err != nil {
		respondWithServiceError(w, "GetHistory", err)
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

func (h *IntakeHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	p, err := h.intakeService.GetDayProgress(ctx, authID, r.URL.Query().Get("date"))
	if err != nil {
		respondWithServiceError(w, "GetProgress", err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"hydrateMeAPI/middleware"
	"hydrateMeAPI/services"
)

type SocialHandler struct {
	achievementService *services.AchievementService
	leaderboardService *services.LeaderboardService
}

func NewSocialHandler(achievementService *services.AchievementService, leaderboardService *services.LeaderboardService) *SocialHandler {
	return &SocialHandler{
		achievementService: achievementService,
		leaderboardService: leaderboardService,
	}
}

func (h *SocialHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	summary, err := h.achievementService.GetAchievements(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "GetAchievements", err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *SocialHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	board, err := h.leaderboardService.GetFriendsLeaderboard(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "GetLeaderboard", err)
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}

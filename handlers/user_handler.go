package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"hydrateMeAPI/internal/user"
	"hydrateMeAPI/middleware"
	"hydrateMeAPI/services"
)

type UserHandler struct {
	userService  *services.UserService
	statsService *services.StatsService
}

func NewUserHandler(userService *services.UserService, statsService *services.StatsService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		statsService: statsService,
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DisplayName == "" {
		respondWithError(w, http.StatusBadRequest, "displayName is required")
		return
	}

	u, created, err := h.userService.CreateUser(ctx, authID, &req)
	if err != nil {
		respondWithServiceError(w, "CreateUser", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, u)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetProfile(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "GetProfile", err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateWeightRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.UpdateWeight(ctx, authID, req.WeightKg)
	if err != nil {
		respondWithServiceError(w, "UpdateWeight", err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.statsService.GetUserStats(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "GetUserStats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *UserHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	friends, err := h.userService.GetFriends(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "GetFriends", err)
		return
	}

	respondWithJSON(w, http.StatusOK, friends)
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.AddFriendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.userService.AddFriend(ctx, authID, req.FriendCode)
	if err != nil {
		respondWithServiceError(w, "AddFriend", err)
		return
	}

	log.Printf("AddFriend Handler: %s added %s (already=%v)", authID, resp.Friend.ID, resp.AlreadyFriends)
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	friendID := r.URL.Query().Get("friendId")
	if friendID == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'friendId' is required")
		return
	}

	if err := h.userService.RemoveFriend(ctx, authID, friendID); err != nil {
		respondWithServiceError(w, "RemoveFriend", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}

func (h *UserHandler) CheckFriendships(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	issues, err := h.userService.CheckFriendships(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "CheckFriendships", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"consistent": len(issues) == 0,
		"issues":     issues,
	})
}

func (h *UserHandler) RepairFriendships(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	authID, ok := middleware.GetAuthID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	fixed, err := h.userService.RepairFriendships(ctx, authID)
	if err != nil {
		respondWithServiceError(w, "RepairFriendships", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"repaired": len(fixed),
		"issues":   fixed,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/progress"
	"hydrateMeAPI/internal/user"
	"hydrateMeAPI/services"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps domain errors to HTTP statuses. Anything unknown is
// logged and reported as a 500 without details.
func respondWithServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrFriendNotFound):
		respondWithError(w, http.StatusNotFound, "Friend not found")
	case errors.Is(err, services.ErrCannotFriendSelf),
		errors.Is(err, user.ErrInvalidWeight),
		errors.Is(err, user.ErrInvalidFriendCode),
		errors.Is(err, user.ErrInvalidTimezone),
		errors.Is(err, intake.ErrInvalidAmount),
		errors.Is(err, intake.ErrInvalidDayKey):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrInvalidGoal), errors.Is(err, progress.ErrInvalidGoal):
		respondWithError(w, http.StatusUnprocessableEntity, "Profile has no valid daily goal")
	default:
		log.Printf("%s: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

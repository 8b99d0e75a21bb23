package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

// envelope is the response wire format: {"success": bool, ...}.
type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{"success": false, "message": message})
}

// respondError maps domain errors to HTTP statuses. Internal detail is
// logged, never returned to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, core.ErrUserExists):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, core.ErrUnauthorized):
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, core.ErrAdviceNotConfigured):
		respondMessage(w, http.StatusInternalServerError, "AI advice is not configured on the server.")
	case errors.Is(err, core.ErrAdviceUpstream):
		slog.ErrorContext(r.Context(), "Advice generation failed", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to generate advice")
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

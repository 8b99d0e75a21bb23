package http

import (
	"net/http"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/auth"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	result, err := s.advisor.Advise(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{"success": true, "advice": result})
}

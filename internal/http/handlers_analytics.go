package http

import (
	"net/http"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/auth"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	year, month := parseYearMonth(r)

	key := s.overviewCacheKey(userID, year, month)
	if overview, hit := s.overviewCache.Get(key); hit {
		respondJSON(w, http.StatusOK, envelope{"success": true, "analytics": overview})
		return
	}

	overview, err := s.analytics.Overview(r.Context(), userID, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.overviewCache.Set(key, overview)

	respondJSON(w, http.StatusOK, envelope{"success": true, "analytics": overview})
}

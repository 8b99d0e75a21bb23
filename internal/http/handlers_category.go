package http

import (
	"net/http"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.Categories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "categories": categories})
}

func (s *Server) handleCategoriesByType(w http.ResponseWriter, r *http.Request) {
	catType := core.CategoryType(r.PathValue("type"))
	if catType != core.Income && catType != core.Expense {
		respondMessage(w, http.StatusBadRequest, "Invalid category type")
		return
	}

	categories, err := s.categories.CategoriesByType(r.Context(), catType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	respondJSON(w, http.StatusOK, envelope{"success": true, "categories": categories})
}

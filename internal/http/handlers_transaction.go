package http

import (
	"encoding/json"
	"net/http"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/auth"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/services"
)

// transactionRequest accepts amount as a number or a string.
type transactionRequest struct {
	CategoryID  int64       `json:"categoryId"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

func (req transactionRequest) toInput() services.TransactionInput {
	return services.TransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount.String(),
		Description: req.Description,
		Date:        req.Date,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	transactions, err := s.transactions.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{"success": true, "transactions": transactions})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Category, amount, and date are required")
		return
	}

	id, err := s.transactions.Create(r.Context(), userID, req.toInput())
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.bumpLedgerVersion(userID)

	respondJSON(w, http.StatusCreated, envelope{
		"success":       true,
		"message":       "Transaction created successfully",
		"transactionId": id,
	})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Category, amount, and date are required")
		return
	}

	if err := s.transactions.Update(r.Context(), userID, id, req.toInput()); err != nil {
		respondError(w, r, err)
		return
	}
	s.bumpLedgerVersion(userID)

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Transaction updated successfully",
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	if err := s.transactions.Delete(r.Context(), userID, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.bumpLedgerVersion(userID)

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Transaction deleted successfully",
	})
}

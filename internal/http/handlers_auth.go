package http

import (
	"net/http"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/auth"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	session, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "User registered successfully",
		"token":   session.Token,
		"user":    session.User,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	session, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthorized)
		return
	}

	user, err := s.auth.Profile(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, envelope{"success": true, "user": user})
}

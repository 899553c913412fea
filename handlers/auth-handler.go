package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Pranjal6955/TaskBoard-Pro/auth"
	"github.com/Pranjal6955/TaskBoard-Pro/logging"
	"github.com/Pranjal6955/TaskBoard-Pro/middleware"
	"github.com/Pranjal6955/TaskBoard-Pro/services"
)

type AuthHandler struct {
	issuer *auth.LocalVerifier
	users  *services.UserService
}

func NewAuthHandler(issuer *auth.LocalVerifier, users *services.UserService) *AuthHandler {
	return &AuthHandler{issuer: issuer, users: users}
}

type tokenRequest struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// ExchangeToken issues a locally-signed 7-day token for a caller already
// authenticated with the identity provider, and records the user profile.
// A user-store failure does not fail the exchange.
func (h *AuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.UID == "" || req.Email == "" {
		http.Error(w, "UID and email are required", http.StatusBadRequest)
		return
	}

	token, err := h.issuer.GenerateToken(auth.Identity{UID: req.UID, Email: req.Email, Name: req.Name})
	if err != nil {
		logging.Logger.Errorf("Event ID: TOKEN_ISSUE_FAILED, Description: Failed to sign token for %s: %v", req.Email, err)
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	if _, err := h.users.UpsertUser(r.Context(), req.UID, req.Email, req.Name, req.PhotoURL); err != nil {
		logging.Logger.Errorf("Event ID: USER_UPSERT_FAILED, Description: Failed to save user %s: %v", req.Email, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Me echoes the verified identity back to the caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(identity)
}

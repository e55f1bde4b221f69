package handlers

import (
	"net/http"

	"starcoach/internal/config"
	"starcoach/internal/security"
)

type TokenHandler struct {
	cfg *config.Config
}

func NewTokenHandler(cfg *config.Config) *TokenHandler {
	return &TokenHandler{cfg: cfg}
}

type tokenRequest struct {
	APIKey string `json:"apiKey"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges a valid API key for a short-lived bearer token
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "Failed to decode token request", err)
		return
	}

	if req.APIKey == "" || !security.VerifyAPIKey(h.cfg.APIKeyHash, req.APIKey) {
		respondWithError(w, http.StatusUnauthorized, "Invalid API key", "", nil)
		return
	}

	token, err := security.IssueToken(h.cfg.TokenSecret, "caregiver", h.cfg.TokenDuration)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token", "Token signing failed", err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

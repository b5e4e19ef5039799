package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/apperr"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// AuthHandler provides the login endpoint.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, auth Authenticator) {
	handler := NewAuthHandler(auth)

	r.Post("/login", handler.Login)
}

// Login verifies credentials and returns a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, r, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, r, apperr.BadRequest("Bad request"))
		return
	}

	token, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

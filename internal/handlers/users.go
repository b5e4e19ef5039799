package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/types"
)

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users *services.UserService) {
	handler := NewUserHandler(users)

	r.Get("/", handler.ListUsers)
	r.Get("/{username}", handler.GetUser)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

type UsersResponse struct {
	Users []types.User `json:"users"`
}

type UserResponse struct {
	User types.User `json:"user"`
}

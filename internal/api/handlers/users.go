package handlers

import (
	"net/http"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me echoes the authenticated user loaded by the JWT middleware.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authctx.UserFromContext(r.Context()))
}

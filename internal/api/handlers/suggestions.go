package handlers

import (
	"net/http"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/document"
)

type SuggestionHandler struct {
	svc *document.Service
}

func NewSuggestionHandler(svc *document.Service) *SuggestionHandler {
	return &SuggestionHandler{svc: svc}
}

// Accept marks a suggestion accepted and stamps accepted_at.
func (h *SuggestionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, true)
}

// Reject marks a suggestion rejected; accepted_at is cleared.
func (h *SuggestionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, false)
}

func (h *SuggestionHandler) resolve(w http.ResponseWriter, r *http.Request, accept bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ws, err := h.svc.ResolveSuggestion(r.Context(), authctx.UserFromContext(r.Context()), id, accept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

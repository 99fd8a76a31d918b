package handlers

import (
	"net/http"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/document"
)

type FeedbackHandler struct {
	svc *document.Service
}

func NewFeedbackHandler(svc *document.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Get returns the feedback row and its comparison metrics for a
// document.
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fb, metrics, err := h.svc.GetFeedback(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": fb, "metrics": metrics})
}

// Review moves feedback from ANALYZED to REVIEWED.
func (h *FeedbackHandler) Review(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fb, err := h.svc.ReviewFeedback(r.Context(), authctx.UserFromContext(r.Context()), docID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

package handlers

import (
	"net/http"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/group"
)

type GroupHandler struct {
	svc *group.Service
}

func NewGroupHandler(svc *group.Service) *GroupHandler {
	return &GroupHandler{svc: svc}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	g, err := h.svc.Create(r.Context(), authctx.UserFromContext(r.Context()), body.Name, body.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JoinToken string `json:"join_token"`
	}
	if err := decodeBody(r, &body); err != nil || body.JoinToken == "" {
		writeBadRequest(w, "join_token required")
		return
	}

	g, err := h.svc.Join(r.Context(), authctx.UserFromContext(r.Context()), body.JoinToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.List(r.Context(), authctx.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups, "count": len(groups)})
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.svc.Get(r.Context(), authctx.UserFromContext(r.Context()), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.svc.Members(r.Context(), authctx.UserFromContext(r.Context()), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members, "count": len(members)})
}

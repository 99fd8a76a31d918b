package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/assignment"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
)

type AssignmentHandler struct {
	svc *assignment.Service
}

func NewAssignmentHandler(svc *assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	a, err := h.svc.CreateAssignment(r.Context(), authctx.UserFromContext(r.Context()), assignment.CreateAssignmentInput{
		GroupID:     groupID,
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	assignments, err := h.svc.ListAssignments(r.Context(), authctx.UserFromContext(r.Context()), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments, "count": len(assignments)})
}

func (h *AssignmentHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		DocumentID uuid.UUID `json:"document_id"`
	}
	if err := decodeBody(r, &body); err != nil || body.DocumentID == uuid.Nil {
		writeBadRequest(w, "document_id required")
		return
	}

	sub, err := h.svc.CreateSubmission(r.Context(), authctx.UserFromContext(r.Context()), assignmentID, body.DocumentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *AssignmentHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	subs, err := h.svc.ListSubmissions(r.Context(), authctx.UserFromContext(r.Context()), assignmentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs, "count": len(subs)})
}

// Transition moves a submission through the grading state machine.
func (h *AssignmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	submissionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Status   string `json:"status"`
		Grade    string `json:"grade"`
		Comments string `json:"comments"`
	}
	if err := decodeBody(r, &body); err != nil || body.Status == "" {
		writeBadRequest(w, "status required")
		return
	}

	sub, err := h.svc.Transition(r.Context(), authctx.UserFromContext(r.Context()), submissionID, assignment.TransitionInput{
		Status:   body.Status,
		Grade:    body.Grade,
		Comments: body.Comments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

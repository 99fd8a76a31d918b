package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
)

type AdminHandler struct {
	audit *audit.Service
}

func NewAdminHandler(auditSvc *audit.Service) *AdminHandler {
	return &AdminHandler{audit: auditSvc}
}

// AuditLogs lists audit entries. Router guards this behind the ADMIN
// role.
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := audit.Query{Action: r.URL.Query().Get("action")}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, "invalid start time")
			return
		}
		q.StartDate = &t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, "invalid end time")
			return
		}
		q.EndDate = &t
	}

	logs, err := h.audit.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs, "count": len(logs)})
}

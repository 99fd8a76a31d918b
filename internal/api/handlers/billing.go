package handlers

import (
	"io"
	"net/http"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/authctx"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/billing"
)

type BillingHandler struct {
	svc           *billing.Service
	webhookSecret string
}

func NewBillingHandler(svc *billing.Service, webhookSecret string) *BillingHandler {
	return &BillingHandler{svc: svc, webhookSecret: webhookSecret}
}

// Webhook ingests payment-processor events. The endpoint is unauthenticated;
// the HMAC signature header is the only gate.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeBadRequest(w, "unreadable body")
		return
	}
	r.Body.Close()

	if !billing.VerifySignature(body, r.Header.Get("X-Webhook-Signature"), h.webhookSecret) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}

	evt, err := billing.ParseWebhookEvent(body)
	if err != nil {
		writeBadRequest(w, "malformed event")
		return
	}

	if err := h.svc.ApplyEvent(r.Context(), evt); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

// Plan returns the caller's subscription plan and limits.
func (h *BillingHandler) Plan(w http.ResponseWriter, r *http.Request) {
	user := authctx.UserFromContext(r.Context())
	plan, err := h.svc.PlanFor(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tier":                  plan.Tier,
		"max_documents":         plan.MaxDocuments,
		"max_document_versions": plan.MaxDocumentVersions,
		"max_groups":            plan.MaxGroups,
	})
}

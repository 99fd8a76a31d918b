package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

const (
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
	EventPaymentFailed       = "payment.failed"
)

// WebhookEvent is the payment processor's event envelope. Signature
// verification mechanics live with the processor SDK upstream; here we
// only check the shared-secret HMAC the proxy attaches.
type WebhookEvent struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Data   struct {
		SubscriptionID   string `json:"subscription_id"`
		Tier             string `json:"tier"`
		Status           string `json:"status"`
		CurrentPeriodEnd int64  `json:"current_period_end"`
	} `json:"data"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var evt WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if evt.Type == "" || evt.UserID == "" {
		return nil, fmt.Errorf("webhook event missing type or user_id")
	}
	return &evt, nil
}

func VerifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ApplyEvent updates the subscription row and the user's tier. Events
// are idempotent: replaying one converges to the same state.
func (s *Service) ApplyEvent(ctx context.Context, evt *WebhookEvent) error {
	userID, err := uuid.Parse(evt.UserID)
	if err != nil {
		return fmt.Errorf("parse user id %q: %w", evt.UserID, err)
	}

	tier := evt.Data.Tier
	status := evt.Data.Status

	switch evt.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		if tier == "" {
			tier = models.TierPremium
		}
		if status == "" {
			status = models.SubscriptionStatusActive
		}
	case EventSubscriptionDeleted:
		tier = models.TierFree
		status = models.SubscriptionStatusCanceled
	case EventPaymentFailed:
		tier = models.TierFree
		status = models.SubscriptionStatusPastDue
	default:
		return fmt.Errorf("unknown webhook event type %q", evt.Type)
	}

	var periodEnd *time.Time
	if evt.Data.CurrentPeriodEnd > 0 {
		t := time.Unix(evt.Data.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO subscriptions (id, user_id, tier, status, payment_ref, current_period_end)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET tier = $3, status = $4, payment_ref = $5, current_period_end = $6, updated_at = now()`,
		uuid.New(), userID, tier, status, evt.Data.SubscriptionID, periodEnd,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET subscription_tier = $1 WHERE id = $2", tier, userID,
	)
	if err != nil {
		return fmt.Errorf("update user tier: %w", err)
	}

	return tx.Commit(ctx)
}

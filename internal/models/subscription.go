package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TierFree    = "FREE"
	TierPremium = "PREMIUM"
)

const (
	SubscriptionStatusActive   = "ACTIVE"
	SubscriptionStatusPastDue  = "PAST_DUE"
	SubscriptionStatusCanceled = "CANCELED"
)

// Subscription mirrors the state pushed by the payment processor's
// webhook events. PaymentRef is the processor-side subscription id.
type Subscription struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	Tier             string     `json:"tier" db:"tier"`
	Status           string     `json:"status" db:"status"`
	PaymentRef       string     `json:"payment_ref,omitempty" db:"payment_ref"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty" db:"current_period_end"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

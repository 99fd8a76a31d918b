package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
)

// Service answers usage-limit preconditions and keeps subscription
// rows in sync with the payment processor's webhook events.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) PlanFor(ctx context.Context, userID uuid.UUID) (Plan, error) {
	var tier string
	err := s.db.QueryRow(ctx,
		"SELECT subscription_tier FROM users WHERE id = $1", userID,
	).Scan(&tier)
	if err != nil {
		return Plan{}, fmt.Errorf("load subscription tier: %w", err)
	}
	return PlanForTier(tier), nil
}

// CheckDocumentQuota is the precondition for creating a new lineage.
// Only roots count: each logical document costs one slot regardless of
// how many versions it accumulates.
func (s *Service) CheckDocumentQuota(ctx context.Context, userID uuid.UUID) error {
	plan, err := s.PlanFor(ctx, userID)
	if err != nil {
		return err
	}

	var count int
	err = s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM documents WHERE user_id = $1 AND version_number = 1", userID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	if !plan.AllowsDocuments(count) {
		return apperr.LimitExceeded(fmt.Sprintf("document limit reached (%d)", plan.MaxDocuments))
	}
	return nil
}

// CheckVersionQuota is the precondition for adding a version to root.
func (s *Service) CheckVersionQuota(ctx context.Context, userID, rootID uuid.UUID) error {
	plan, err := s.PlanFor(ctx, userID)
	if err != nil {
		return err
	}

	var count int
	err = s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM document_versions WHERE root_document_id = $1", rootID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count versions: %w", err)
	}

	if !plan.AllowsVersions(count) {
		return apperr.LimitExceeded(fmt.Sprintf("version limit reached (%d)", plan.MaxDocumentVersions))
	}
	return nil
}

func (s *Service) CheckGroupQuota(ctx context.Context, userID uuid.UUID) error {
	plan, err := s.PlanFor(ctx, userID)
	if err != nil {
		return err
	}

	var count int
	err = s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM groups WHERE admin_id = $1", userID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count groups: %w", err)
	}

	if !plan.AllowsGroups(count) {
		return apperr.LimitExceeded(fmt.Sprintf("group limit reached (%d)", plan.MaxGroups))
	}
	return nil
}

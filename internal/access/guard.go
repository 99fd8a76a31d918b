package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// Guard resolves whether a caller may touch a document. A user may
// access a document they own, or one belonging to a group they are a
// member of (the group admin counts as a member). Platform admins
// always bypass.
type Guard struct {
	db *pgxpool.Pool
}

func NewGuard(db *pgxpool.Pool) *Guard {
	return &Guard{db: db}
}

func (g *Guard) CanAccess(ctx context.Context, user *models.User, doc *models.Document) (bool, error) {
	if user == nil || doc == nil {
		return false, nil
	}

	isMember := false
	if doc.GroupID != nil && user.ID != doc.UserID && !user.IsAdmin() {
		var err error
		isMember, err = g.isGroupMember(ctx, *doc.GroupID, user.ID)
		if err != nil {
			return false, fmt.Errorf("check group membership: %w", err)
		}
	}

	return Decide(user, doc, isMember), nil
}

// Decide applies the access rule given an already-resolved membership
// fact. Kept free of database lookups.
func Decide(user *models.User, doc *models.Document, isGroupMember bool) bool {
	if user == nil || doc == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if user.ID == doc.UserID {
		return true
	}
	if doc.GroupID == nil {
		return false
	}
	return isGroupMember
}

// isGroupMember treats the group admin as a member.
func (g *Guard) isGroupMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := g.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
			UNION
			SELECT 1 FROM groups WHERE id = $1 AND admin_id = $2
		)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

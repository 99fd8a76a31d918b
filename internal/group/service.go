package group

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/billing"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// Service manages groups and membership. Group membership feeds the
// document access guard; the group admin is always treated as a
// member.
type Service struct {
	db      *pgxpool.Pool
	billing *billing.Service
}

func NewService(db *pgxpool.Pool, billingSvc *billing.Service) *Service {
	return &Service{db: db, billing: billingSvc}
}

// Create makes a new group with the caller as admin. Only teachers and
// admins create groups; the free tier caps how many.
func (s *Service) Create(ctx context.Context, user *models.User, name, description string) (*models.Group, error) {
	if user.Role != models.RoleTeacher && !user.IsAdmin() {
		return nil, apperr.Forbidden("only teachers may create groups")
	}
	if name == "" {
		return nil, apperr.Invalid("group name is required")
	}
	if err := s.billing.CheckGroupQuota(ctx, user.ID); err != nil {
		return nil, err
	}

	g := &models.Group{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		AdminID:     user.ID,
		JoinToken:   newJoinToken(),
	}
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO groups (id, name, description, admin_id, join_token)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			g.ID, g.Name, g.Description, g.AdminID, g.JoinToken,
		).Scan(&g.CreatedAt); err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		// The admin is on the roster from day one.
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
			g.ID, g.AdminID,
		); err != nil {
			return fmt.Errorf("add admin member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Join adds the caller to the group identified by the join token.
// Joining twice is a no-op.
func (s *Service) Join(ctx context.Context, user *models.User, joinToken string) (*models.Group, error) {
	var g models.Group
	err := s.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), admin_id, created_at
		 FROM groups WHERE join_token = $1`,
		joinToken,
	).Scan(&g.ID, &g.Name, &g.Description, &g.AdminID, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("invalid join token")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve join token: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`,
		g.ID, user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &g, nil
		}
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &g, nil
}

// Get returns a group the caller belongs to (or administers).
func (s *Service) Get(ctx context.Context, user *models.User, groupID uuid.UUID) (*models.Group, error) {
	var g models.Group
	err := s.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), admin_id, join_token, created_at
		 FROM groups WHERE id = $1`,
		groupID,
	).Scan(&g.ID, &g.Name, &g.Description, &g.AdminID, &g.JoinToken, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("group not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}

	member, err := s.IsMember(ctx, groupID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member && !user.IsAdmin() {
		return nil, apperr.Forbidden("not a member of this group")
	}
	// The join token is the admin's to hand out.
	if g.AdminID != user.ID && !user.IsAdmin() {
		g.JoinToken = ""
	}
	return &g, nil
}

// List returns the groups the caller administers or belongs to.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.Group, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), admin_id, created_at
		 FROM groups
		 WHERE admin_id = $1
		    OR id IN (SELECT group_id FROM group_members WHERE user_id = $1)
		 ORDER BY created_at DESC`,
		user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.AdminID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Member is a group roster entry.
type Member struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Members returns the group roster, admin first.
func (s *Service) Members(ctx context.Context, user *models.User, groupID uuid.UUID) ([]Member, error) {
	if _, err := s.Get(ctx, user, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.name, u.email, u.role, m.joined_at
		 FROM group_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.group_id = $1
		 ORDER BY m.joined_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports membership, counting the group admin as a member.
func (s *Service) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var member bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		   UNION
		   SELECT 1 FROM groups WHERE id = $1 AND admin_id = $2
		 )`,
		groupID, userID,
	).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return member, nil
}

func newJoinToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

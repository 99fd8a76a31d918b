package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/group"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// Service manages assignments and their submissions. A submission
// references a specific document version; grading walks the
// DRAFT -> SUBMITTED -> GRADED/RETURNED state machine.
type Service struct {
	db     *pgxpool.Pool
	groups *group.Service
}

func NewService(db *pgxpool.Pool, groups *group.Service) *Service {
	return &Service{db: db, groups: groups}
}

type CreateAssignmentInput struct {
	GroupID     uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
}

// CreateAssignment posts an assignment to a group. Only the group
// admin (or a platform admin) may post.
func (s *Service) CreateAssignment(ctx context.Context, user *models.User, in CreateAssignmentInput) (*models.Assignment, error) {
	if in.Title == "" {
		return nil, apperr.Invalid("assignment title is required")
	}

	g, err := s.groups.Get(ctx, user, in.GroupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != user.ID && !user.IsAdmin() {
		return nil, apperr.Forbidden("only the group admin may post assignments")
	}

	a := &models.Assignment{
		ID:          uuid.New(),
		GroupID:     in.GroupID,
		CreatedBy:   user.ID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO assignments (id, group_id, created_by, title, description, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		a.ID, a.GroupID, a.CreatedBy, a.Title, a.Description, a.DueDate,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}

// ListAssignments returns a group's assignments, newest first.
func (s *Service) ListAssignments(ctx context.Context, user *models.User, groupID uuid.UUID) ([]models.Assignment, error) {
	if _, err := s.groups.Get(ctx, user, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, group_id, created_by, title, COALESCE(description, ''), due_date, created_at
		 FROM assignments WHERE group_id = $1 ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.GroupID, &a.CreatedBy, &a.Title,
			&a.Description, &a.DueDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Service) getAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.QueryRow(ctx,
		`SELECT id, group_id, created_by, title, COALESCE(description, ''), due_date, created_at
		 FROM assignments WHERE id = $1`,
		assignmentID,
	).Scan(&a.ID, &a.GroupID, &a.CreatedBy, &a.Title, &a.Description, &a.DueDate, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("assignment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	return &a, nil
}

// CreateSubmission starts a DRAFT submission for the caller against a
// document version they own.
func (s *Service) CreateSubmission(ctx context.Context, user *models.User, assignmentID, documentID uuid.UUID) (*models.Submission, error) {
	a, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	member, err := s.groups.IsMember(ctx, a.GroupID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member && !user.IsAdmin() {
		return nil, apperr.Forbidden("not a member of the assignment's group")
	}

	var ownerID uuid.UUID
	err = s.db.QueryRow(ctx, `SELECT user_id FROM documents WHERE id = $1`, documentID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load document owner: %w", err)
	}
	if ownerID != user.ID {
		return nil, apperr.Forbidden("submissions must reference your own document")
	}

	sub := &models.Submission{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		UserID:       user.ID,
		DocumentID:   documentID,
		Status:       models.SubmissionStatusDraft,
	}
	err = s.db.QueryRow(ctx,
		`INSERT INTO submissions (id, assignment_id, user_id, document_id, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		sub.ID, sub.AssignmentID, sub.UserID, sub.DocumentID, sub.Status,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return sub, nil
}

// TransitionInput carries an optional grade and comments, meaningful
// only for the GRADED transition.
type TransitionInput struct {
	Status   string
	Grade    string
	Comments string
}

// Transition moves a submission through its state machine. Students
// submit and resubmit their own work; grading and returning are for
// the group admin or a platform admin.
func (s *Service) Transition(ctx context.Context, user *models.User, submissionID uuid.UUID, in TransitionInput) (*models.Submission, error) {
	sub, err := s.getSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	a, err := s.getAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}

	if !sub.CanTransition(in.Status) {
		return nil, apperr.Invalid(fmt.Sprintf("cannot move submission from %s to %s", sub.Status, in.Status))
	}

	switch in.Status {
	case models.SubmissionStatusSubmitted:
		if sub.UserID != user.ID && !user.IsAdmin() {
			return nil, apperr.Forbidden("only the author may submit")
		}
	case models.SubmissionStatusGraded, models.SubmissionStatusReturned:
		if a.CreatedBy != user.ID && !user.IsAdmin() {
			return nil, apperr.Forbidden("only the assignment owner may grade")
		}
	default:
		return nil, apperr.Invalid(fmt.Sprintf("unknown submission status %q", in.Status))
	}

	err = s.db.QueryRow(ctx,
		`UPDATE submissions
		 SET status = $1,
		     grade = CASE WHEN $1 = 'GRADED' THEN $2 ELSE grade END,
		     comments = CASE WHEN $3 <> '' THEN $3 ELSE comments END,
		     submitted_at = CASE WHEN $1 = 'SUBMITTED' THEN now() ELSE submitted_at END,
		     graded_at = CASE WHEN $1 = 'GRADED' THEN now() ELSE graded_at END,
		     updated_at = now()
		 WHERE id = $4
		 RETURNING status, COALESCE(grade, ''), COALESCE(comments, ''),
		           submitted_at, graded_at, updated_at`,
		in.Status, in.Grade, in.Comments, submissionID,
	).Scan(&sub.Status, &sub.Grade, &sub.Comments, &sub.SubmittedAt,
		&sub.GradedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns an assignment's submissions. The assignment
// owner sees all of them; everyone else sees only their own.
func (s *Service) ListSubmissions(ctx context.Context, user *models.User, assignmentID uuid.UUID) ([]models.Submission, error) {
	a, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, assignment_id, user_id, document_id, status,
	            COALESCE(grade, ''), COALESCE(comments, ''), submitted_at,
	            graded_at, created_at, updated_at
	          FROM submissions WHERE assignment_id = $1`
	args := []any{assignmentID}
	if a.CreatedBy != user.ID && !user.IsAdmin() {
		query += ` AND user_id = $2`
		args = append(args, user.ID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.AssignmentID, &sub.UserID,
			&sub.DocumentID, &sub.Status, &sub.Grade, &sub.Comments,
			&sub.SubmittedAt, &sub.GradedAt, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *Service) getSubmission(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.QueryRow(ctx,
		`SELECT id, assignment_id, user_id, document_id, status,
		        COALESCE(grade, ''), COALESCE(comments, ''), submitted_at,
		        graded_at, created_at, updated_at
		 FROM submissions WHERE id = $1`,
		submissionID,
	).Scan(&sub.ID, &sub.AssignmentID, &sub.UserID, &sub.DocumentID,
		&sub.Status, &sub.Grade, &sub.Comments, &sub.SubmittedAt,
		&sub.GradedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	return &sub, nil
}

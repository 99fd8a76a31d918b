package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubmissionStatusDraft     = "DRAFT"
	SubmissionStatusSubmitted = "SUBMITTED"
	SubmissionStatusGraded    = "GRADED"
	SubmissionStatusReturned  = "RETURNED"
)

type Assignment struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	GroupID     uuid.UUID  `json:"group_id" db:"group_id"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type Submission struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	AssignmentID uuid.UUID  `json:"assignment_id" db:"assignment_id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	DocumentID   uuid.UUID  `json:"document_id" db:"document_id"`
	Status       string     `json:"status" db:"status"`
	Grade        string     `json:"grade,omitempty" db:"grade"`
	Comments     string     `json:"comments,omitempty" db:"comments"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at,omitempty" db:"graded_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// CanTransition reports whether a submission may move from its current
// status to next. DRAFT -> SUBMITTED -> GRADED -> RETURNED; a returned
// submission may be resubmitted.
func (s *Submission) CanTransition(next string) bool {
	switch s.Status {
	case SubmissionStatusDraft:
		return next == SubmissionStatusSubmitted
	case SubmissionStatusSubmitted:
		return next == SubmissionStatusGraded || next == SubmissionStatusReturned
	case SubmissionStatusGraded:
		return next == SubmissionStatusReturned
	case SubmissionStatusReturned:
		return next == SubmissionStatusSubmitted
	}
	return false
}

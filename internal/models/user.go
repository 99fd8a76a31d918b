package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	Name             string    `json:"name,omitempty" db:"name"`
	Role             string    `json:"role" db:"role"`
	SubscriptionTier string    `json:"subscription_tier" db:"subscription_tier"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

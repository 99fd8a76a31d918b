package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

func TestDecide(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	groupID := uuid.New()

	userWith := func(id uuid.UUID, role string) *models.User {
		return &models.User{ID: id, Role: role}
	}
	docWith := func(ownerID uuid.UUID, gid *uuid.UUID) *models.Document {
		return &models.Document{ID: uuid.New(), UserID: ownerID, GroupID: gid}
	}

	tests := []struct {
		name     string
		user     *models.User
		doc      *models.Document
		isMember bool
		want     bool
	}{
		{"owner, no group", userWith(owner, models.RoleStudent), docWith(owner, nil), false, true},
		{"non-owner, no group", userWith(other, models.RoleStudent), docWith(owner, nil), false, false},
		{"non-owner, no group, teacher role", userWith(other, models.RoleTeacher), docWith(owner, nil), false, false},
		{"owner, in group", userWith(owner, models.RoleStudent), docWith(owner, &groupID), false, true},
		{"group member", userWith(other, models.RoleStudent), docWith(owner, &groupID), true, true},
		{"group non-member", userWith(other, models.RoleStudent), docWith(owner, &groupID), false, false},
		{"admin bypasses, no group", userWith(other, models.RoleAdmin), docWith(owner, nil), false, true},
		{"admin bypasses, group non-member", userWith(other, models.RoleAdmin), docWith(owner, &groupID), false, true},
		{"nil user", nil, docWith(owner, nil), false, false},
		{"nil doc", userWith(owner, models.RoleStudent), nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.user, tt.doc, tt.isMember); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

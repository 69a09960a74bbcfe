package model

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is the flat roster entry kept alongside per-project memberships.
// It is a standalone directory record, not a reference to a User.
type TeamMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Role      string    `gorm:"not null;default:Member;check:role IN ('Member', 'Admin')"`
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Roster roles.
const (
	TeamRoleMember = "Member"
	TeamRoleAdmin  = "Admin"
)

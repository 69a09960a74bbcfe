package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	OwnerID     uuid.UUID `gorm:"type:uuid;not null"`
	Status      string    `gorm:"not null;default:active"`
	Priority    string    `gorm:"not null;default:medium"`
	Color       string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner   User            `gorm:"foreignKey:OwnerID"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectMember links a user to a project with a project-scoped role.
// The owner is implicitly an admin and does not have to appear here.
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_user"`
	Role      string    `gorm:"not null;check:role IN ('admin', 'member')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

// Project-scoped roles.
const (
	ProjectRoleAdmin  = "admin"
	ProjectRoleMember = "member"
)

// Member returns the membership entry for userID, or nil.
func (p *Project) Member(userID uuid.UUID) *ProjectMember {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i]
		}
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Global roles stored on the user record.
const (
	GlobalRoleUser  = "user"
	GlobalRoleAdmin = "admin"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	GoogleID       *string   `gorm:"uniqueIndex"`
	HashedPassword string    // empty for Google-only accounts
	DisplayName    string    `gorm:"not null"`
	Image          string
	Bio            string
	Role           string    `gorm:"not null;default:user;check:role IN ('user', 'admin')"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Tokens []AuthToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// AuthToken is one entry of a user's active-token list. Entries older than
// TokenRetention never authenticate and are pruned when a new one is issued.
type AuthToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

const TokenRetention = 7 * 24 * time.Hour

func (t AuthToken) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= TokenRetention
}

// PublicUser is the display-safe projection embedded in populated responses.
// Credential and token fields never leave the server.
type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Image       string    `json:"image,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, DisplayName: u.DisplayName, Image: u.Image}
}

package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Membership roles. A role set is the only authorization signal.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleMember  = "member"
	RoleRequest = "request" // pending join application
)

// Organization is the tenant root.
type Organization struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string            `gorm:"type:varchar(255);not null" json:"name"`
	Preferences datatypes.JSONMap `json:"preferences"` // legacy bag, may still hold a "budget" scalar
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// Membership ties a user to one organization. A user holds at most one.
type Membership struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization               `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	UserID         uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User                       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Roles          datatypes.JSONSlice[string] `json:"roles"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// HasAnyRole reports whether the membership holds at least one of roles.
func (m Membership) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(m.Roles, r) {
			return true
		}
	}
	return false
}

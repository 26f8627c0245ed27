package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleFreeUser UserRole = "FREE_USER"
	RolePaidUser UserRole = "PAID_USER"
	RoleAppAdmin UserRole = "APP_ADMIN"
)

// CanOwnOrganizations reports whether the role is allowed to create and own
// organizations.
func (r UserRole) CanOwnOrganizations() bool {
	return r == RolePaidUser || r == RoleAppAdmin
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string         `gorm:"type:varchar(255)" json:"full_name"`
	AvatarURL    string         `gorm:"type:varchar(512)" json:"avatar_url"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'FREE_USER'" json:"role"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Cards         []BusinessCard       `gorm:"foreignKey:UserID" json:"-"`
	Organizations []OrganizationMember `gorm:"foreignKey:UserID" json:"-"`
	Payments      []PaymentTransaction `gorm:"foreignKey:UserID" json:"-"`
}

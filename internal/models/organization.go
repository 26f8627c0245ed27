package models

import "time"

type Organization struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	LogoURL         string    `gorm:"type:varchar(512)" json:"logo_url"`
	Category        string    `gorm:"type:varchar(100)" json:"category"`
	OwnerID         uint64    `gorm:"not null;index" json:"owner_id"`
	IsPublic        bool      `gorm:"not null;default:false" json:"is_public"`
	RequireApproval bool      `gorm:"not null;default:false" json:"require_approval"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Owner       User                     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members     []OrganizationMember     `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Invitations []OrganizationInvitation `gorm:"foreignKey:OrganizationID" json:"invitations,omitempty"`
}

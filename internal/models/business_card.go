package models

import (
	"time"

	"gorm.io/gorm"
)

type BusinessCard struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	UserID     uint64         `gorm:"not null;index" json:"user_id"`
	Title      string         `gorm:"type:varchar(255);not null" json:"title"`
	FullName   string         `gorm:"type:varchar(255);not null" json:"full_name"`
	JobTitle   string         `gorm:"type:varchar(255)" json:"job_title"`
	Company    string         `gorm:"type:varchar(255)" json:"company"`
	Phone      string         `gorm:"type:varchar(50)" json:"phone"`
	Email      string         `gorm:"type:varchar(255)" json:"email"`
	Website    string         `gorm:"type:varchar(512)" json:"website"`
	Bio        string         `gorm:"type:text" json:"bio"`
	TemplateID string         `gorm:"type:varchar(100)" json:"template_id"`
	PinHash    string         `gorm:"type:varchar(255)" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasPin reports whether the card's template is PIN-protected.
func (c BusinessCard) HasPin() bool {
	return c.PinHash != ""
}

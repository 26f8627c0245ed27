package models

import "time"

// Event is a public attendance form ("Ngabsen") owned by an organization.
type Event struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	OrganizationID uint64     `gorm:"not null;index" json:"organization_id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	CreatedBy      uint64     `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization Organization      `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Attendances  []EventAttendance `gorm:"foreignKey:EventID" json:"attendances,omitempty"`
}

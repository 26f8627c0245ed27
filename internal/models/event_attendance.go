package models

import "time"

type EventAttendance struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	EventID       uint64    `gorm:"not null;index:idx_attendance_event_email,unique" json:"event_id"`
	AttendeeName  string    `gorm:"type:varchar(255);not null" json:"attendee_name"`
	AttendeeEmail string    `gorm:"type:varchar(255);not null;index:idx_attendance_event_email,unique" json:"attendee_email"`
	CheckedInAt   time.Time `json:"checked_in_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

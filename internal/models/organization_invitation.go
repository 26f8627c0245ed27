package models

import "time"

type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "PENDING"
	InvitationStatusAccepted  InvitationStatus = "ACCEPTED"
	InvitationStatusExpired   InvitationStatus = "EXPIRED"
	InvitationStatusCancelled InvitationStatus = "CANCELLED"
)

// invitationTransitions is the single source of truth for legal invitation
// status changes. PENDING is the only non-terminal state.
var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationStatusPending:   {InvitationStatusAccepted, InvitationStatusExpired, InvitationStatusCancelled},
	InvitationStatusAccepted:  {},
	InvitationStatusExpired:   {},
	InvitationStatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is a legal change.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	for _, allowed := range invitationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrganizationInvitation struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	Email          string           `gorm:"type:varchar(255);not null;index" json:"email"`
	InvitedBy      uint64           `gorm:"not null" json:"invited_by"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Token          string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time       `json:"accepted_at"`
	CreatedAt      time.Time        `json:"created_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Inviter      User         `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
}

// Live reports whether the invitation is still actionable at the given time.
func (i OrganizationInvitation) Live(now time.Time) bool {
	return i.Status == InvitationStatusPending && now.Before(i.ExpiresAt)
}

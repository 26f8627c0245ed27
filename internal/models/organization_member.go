package models

import "time"

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "PENDING"
	MemberStatusApproved MemberStatus = "APPROVED"
	MemberStatusRejected MemberStatus = "REJECTED"
)

// memberTransitions is the single source of truth for legal membership status
// changes. A REJECTED row is never transitioned back; re-application deletes
// the row and inserts a fresh one.
var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberStatusPending:  {MemberStatusApproved, MemberStatusRejected},
	MemberStatusApproved: {},
	MemberStatusRejected: {},
}

// CanTransitionTo reports whether moving from s to next is a legal change.
func (s MemberStatus) CanTransitionTo(next MemberStatus) bool {
	for _, allowed := range memberTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known membership status.
func (s MemberStatus) Valid() bool {
	_, ok := memberTransitions[s]
	return ok
}

type OrganizationMember struct {
	OrganizationID uint64       `gorm:"primarykey" json:"organization_id"`
	UserID         uint64       `gorm:"primarykey" json:"user_id"`
	Status         MemberStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	IsAdmin        bool         `gorm:"not null;default:false" json:"is_admin"`
	JoinedAt       *time.Time   `json:"joined_at"`
	ApprovedBy     *uint64      `json:"approved_by"`
	ApprovedAt     *time.Time   `json:"approved_at"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

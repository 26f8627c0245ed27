package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:  {PaymentStatusApproved, PaymentStatusRejected},
	PaymentStatusApproved: {},
	PaymentStatusRejected: {},
}

// CanTransitionTo reports whether moving from s to next is a legal change.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentTransaction struct {
	ID         uint64        `gorm:"primarykey" json:"id"`
	UserID     uint64        `gorm:"not null;index" json:"user_id"`
	Reference  string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	Amount     int64         `gorm:"not null" json:"amount"`
	ProofURL   string        `gorm:"type:varchar(512)" json:"proof_url"`
	Status     PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ReviewedBy *uint64       `json:"reviewed_by"`
	ReviewedAt *time.Time    `json:"reviewed_at"`
	Note       string        `gorm:"type:text" json:"note"`
	CreatedAt  time.Time     `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

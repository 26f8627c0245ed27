package models

import "time"

type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "SENT"
	EmailStatusFailed EmailStatus = "FAILED"
)

// EmailKind labels what triggered a send, for the audit trail.
type EmailKind string

const (
	EmailKindInvitation    EmailKind = "INVITATION"
	EmailKindCardShare     EmailKind = "CARD_SHARE"
	EmailKindBroadcast     EmailKind = "BROADCAST"
	EmailKindMessage       EmailKind = "MESSAGE"
	EmailKindPaymentStatus EmailKind = "PAYMENT_STATUS"
)

type EmailLog struct {
	ID         uint64      `gorm:"primarykey" json:"id"`
	Recipient  string      `gorm:"type:varchar(255);not null;index" json:"recipient"`
	Subject    string      `gorm:"type:varchar(512);not null" json:"subject"`
	Kind       EmailKind   `gorm:"type:varchar(30);not null" json:"kind"`
	RelatedID  *uint64     `json:"related_id"`
	Status     EmailStatus `gorm:"type:varchar(10);not null" json:"status"`
	ProviderID string      `gorm:"type:varchar(100)" json:"provider_id"`
	Error      string      `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

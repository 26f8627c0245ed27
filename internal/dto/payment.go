package dto

import (
	"time"

	"github.com/officialid/officialid-api/internal/models"
)

// PaymentDTO represents a payment transaction in API responses
type PaymentDTO struct {
	ID         uint64               `json:"id"`
	Reference  string               `json:"reference"`
	Amount     int64                `json:"amount"`
	ProofURL   string               `json:"proof_url"`
	Status     models.PaymentStatus `json:"status"`
	Note       string               `json:"note,omitempty"`
	ReviewedAt *time.Time           `json:"reviewed_at"`
	CreatedAt  time.Time            `json:"created_at"`
	User       *UserDTO             `json:"user,omitempty"`
}

// ToPaymentDTO converts a payment model to DTO
func ToPaymentDTO(payment models.PaymentTransaction) PaymentDTO {
	dto := PaymentDTO{
		ID:         payment.ID,
		Reference:  payment.Reference,
		Amount:     payment.Amount,
		ProofURL:   payment.ProofURL,
		Status:     payment.Status,
		Note:       payment.Note,
		ReviewedAt: payment.ReviewedAt,
		CreatedAt:  payment.CreatedAt,
	}
	if payment.User.ID != 0 {
		user := ToUserDTO(payment.User)
		dto.User = &user
	}
	return dto
}

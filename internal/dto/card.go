package dto

import (
	"time"

	"github.com/officialid/officialid-api/internal/models"
)

// CardDTO represents a business card in API responses
type CardDTO struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	FullName   string    `json:"full_name"`
	JobTitle   string    `json:"job_title"`
	Company    string    `json:"company"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Website    string    `json:"website"`
	Bio        string    `json:"bio"`
	TemplateID string    `json:"template_id"`
	HasPin     bool      `json:"has_pin"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToCardDTO converts a card model to DTO
func ToCardDTO(card models.BusinessCard) CardDTO {
	return CardDTO{
		ID:         card.ID,
		Title:      card.Title,
		FullName:   card.FullName,
		JobTitle:   card.JobTitle,
		Company:    card.Company,
		Phone:      card.Phone,
		Email:      card.Email,
		Website:    card.Website,
		Bio:        card.Bio,
		TemplateID: card.TemplateID,
		HasPin:     card.HasPin(),
		CreatedAt:  card.CreatedAt,
		UpdatedAt:  card.UpdatedAt,
	}
}

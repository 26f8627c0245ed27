package repository

import (
	"github.com/officialid/officialid-api/internal/models"
	"gorm.io/gorm"
)

// GormEmailLogRepository is a GORM implementation of EmailLogRepository
type GormEmailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository creates a new EmailLogRepository
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &GormEmailLogRepository{db: db}
}

// Create records a send attempt
func (r *GormEmailLogRepository) Create(entry *models.EmailLog) error {
	return r.db.Create(entry).Error
}

// ListByRecipient lists send attempts for a recipient
func (r *GormEmailLogRepository) ListByRecipient(recipient string) ([]models.EmailLog, error) {
	var entries []models.EmailLog
	if err := r.db.Where("recipient = ?", recipient).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

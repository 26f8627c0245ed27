package repository

import (
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/models"
	"gorm.io/gorm"
)

// GormCardRepository is a GORM implementation of CardRepository
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &GormCardRepository{db: db}
}

// Create creates a new card
func (r *GormCardRepository) Create(card *models.BusinessCard) error {
	return r.db.Create(card).Error
}

// FindByID finds a card by ID
func (r *GormCardRepository) FindByID(id uint64) (*models.BusinessCard, error) {
	var card models.BusinessCard
	if err := r.db.First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// ListByUser retrieves a user's cards with pagination
func (r *GormCardRepository) ListByUser(userID uint64, page, pageSize int) ([]models.BusinessCard, int64, error) {
	var cards []models.BusinessCard

	query := r.db.Model(&models.BusinessCard{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").
		Scopes(database.Paginate(page, pageSize)).
		Find(&cards).Error; err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// Update updates a card
func (r *GormCardRepository) Update(card *models.BusinessCard) error {
	return r.db.Save(card).Error
}

// Delete soft deletes a card
func (r *GormCardRepository) Delete(id uint64) error {
	return r.db.Delete(&models.BusinessCard{}, id).Error
}

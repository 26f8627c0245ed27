package repository

import (
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/models"
	"gorm.io/gorm"
)

// GormPaymentRepository is a GORM implementation of PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create creates a new payment transaction
func (r *GormPaymentRepository) Create(payment *models.PaymentTransaction) error {
	return r.db.Create(payment).Error
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(id uint64) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	if err := r.db.First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser lists a user's payments
func (r *GormPaymentRepository) ListByUser(userID uint64) ([]models.PaymentTransaction, error) {
	var payments []models.PaymentTransaction
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// List retrieves payments with optional status filtering and pagination
func (r *GormPaymentRepository) List(filter PaymentFilter) ([]models.PaymentTransaction, int64, error) {
	var payments []models.PaymentTransaction

	query := r.db.Model(&models.PaymentTransaction{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("User").Order("created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// Update updates a payment transaction
func (r *GormPaymentRepository) Update(payment *models.PaymentTransaction) error {
	return r.db.Save(payment).Error
}

package repository

import (
	"github.com/officialid/officialid-api/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindBySlug finds an event by its public slug
func (r *GormEventRepository) FindBySlug(slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.Where("slug = ?", slug).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByOrganization lists an organization's events
func (r *GormEventRepository) ListByOrganization(organizationID uint64) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CreateAttendance records a check-in
func (r *GormEventRepository) CreateAttendance(attendance *models.EventAttendance) error {
	return r.db.Create(attendance).Error
}

// FindAttendance finds a check-in for the (event, email) pair
func (r *GormEventRepository) FindAttendance(eventID uint64, email string) (*models.EventAttendance, error) {
	var attendance models.EventAttendance
	if err := r.db.Where("event_id = ? AND attendee_email = ?", eventID, email).
		First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

// ListAttendances lists all check-ins of an event
func (r *GormEventRepository) ListAttendances(eventID uint64) ([]models.EventAttendance, error) {
	var attendances []models.EventAttendance
	if err := r.db.Where("event_id = ?", eventID).
		Order("checked_in_at ASC").
		Find(&attendances).Error; err != nil {
		return nil, err
	}
	return attendances, nil
}

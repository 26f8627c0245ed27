package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidEventSlug = errors.New("slug must contain only lowercase letters, digits, and hyphens")
	ErrSlugTaken        = errors.New("an event with this slug already exists")
	ErrAlreadyCheckedIn = errors.New("this email has already checked in")
	ErrEventClosed      = errors.New("this event is not open for check-in")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// EventService handles attendance events and public check-in.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
	}
}

// CreateEventInput holds parameters to create an attendance event.
type CreateEventInput struct {
	OrganizationID uint64
	Name           string
	Slug           string
	StartsAt       *time.Time
	EndsAt         *time.Time
	CreatedBy      uint64
}

// CreateEvent creates a new attendance event with a unique public slug.
func (s *EventService) CreateEvent(input CreateEventInput) (*models.Event, error) {
	if input.Name == "" || !slugPattern.MatchString(input.Slug) {
		return nil, ErrInvalidEventSlug
	}

	if _, err := s.eventRepo.FindBySlug(input.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	event := &models.Event{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Slug:           input.Slug,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		CreatedBy:      input.CreatedBy,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// GetEventBySlug returns the public event form data.
func (s *EventService) GetEventBySlug(slug string) (*models.Event, error) {
	event, err := s.eventRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// GetEvent returns an event by ID.
func (s *EventService) GetEvent(eventID uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// ListEvents lists an organization's events.
func (s *EventService) ListEvents(organizationID uint64) ([]models.Event, error) {
	events, err := s.eventRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CheckIn records a public attendance for an event. One check-in per email.
func (s *EventService) CheckIn(slug, name, email string) (*models.EventAttendance, error) {
	email = utils.NormalizeEmail(email)
	if name == "" || !utils.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	event, err := s.GetEventBySlug(slug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if event.StartsAt != nil && now.Before(*event.StartsAt) {
		return nil, ErrEventClosed
	}
	if event.EndsAt != nil && now.After(*event.EndsAt) {
		return nil, ErrEventClosed
	}

	if _, err := s.eventRepo.FindAttendance(event.ID, email); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}

	attendance := &models.EventAttendance{
		EventID:       event.ID,
		AttendeeName:  name,
		AttendeeEmail: email,
		CheckedInAt:   now,
	}

	if err := s.eventRepo.CreateAttendance(attendance); err != nil {
		// The unique (event, email) index catches races between the
		// existence check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	return attendance, nil
}

// ListAttendances lists an event's check-ins.
func (s *EventService) ListAttendances(eventID uint64) ([]models.EventAttendance, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	attendances, err := s.eventRepo.ListAttendances(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return attendances, nil
}

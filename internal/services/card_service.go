package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/officialid/officialid-api/internal/mailer"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCardNotFound    = errors.New("business card not found")
	ErrNotCardOwner    = errors.New("you do not own this card")
	ErrInvalidCardName = errors.New("card title and full name are required")
	ErrInvalidPin      = errors.New("PIN must be 4 to 8 digits")
)

// ShareTokenTTL is how long a card share link stays valid.
const ShareTokenTTL = 30 * 24 * time.Hour

// CardService provides business logic for digital business cards.
type CardService struct {
	cardRepo    repository.CardRepository
	dispatcher  *mailer.Dispatcher
	shareSecret string
	baseURL     string
}

// NewCardService creates a new CardService.
func NewCardService(cardRepo repository.CardRepository, dispatcher *mailer.Dispatcher, shareSecret, baseURL string) *CardService {
	return &CardService{
		cardRepo:    cardRepo,
		dispatcher:  dispatcher,
		shareSecret: shareSecret,
		baseURL:     baseURL,
	}
}

// CardInput holds the card fields accepted from the client.
type CardInput struct {
	Title      string
	FullName   string
	JobTitle   string
	Company    string
	Phone      string
	Email      string
	Website    string
	Bio        string
	TemplateID string
	Pin        string
}

func validPin(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CreateCard creates a card for the user. A non-empty PIN protects the
// card's template and is stored as a bcrypt hash.
func (s *CardService) CreateCard(userID uint64, input CardInput) (*models.BusinessCard, error) {
	if input.Title == "" || input.FullName == "" {
		return nil, ErrInvalidCardName
	}

	card := &models.BusinessCard{
		UserID:     userID,
		Title:      input.Title,
		FullName:   input.FullName,
		JobTitle:   input.JobTitle,
		Company:    input.Company,
		Phone:      input.Phone,
		Email:      input.Email,
		Website:    input.Website,
		Bio:        input.Bio,
		TemplateID: input.TemplateID,
	}

	if input.Pin != "" {
		if !validPin(input.Pin) {
			return nil, ErrInvalidPin
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		card.PinHash = string(hash)
	}

	if err := s.cardRepo.Create(card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	return card, nil
}

// GetCard returns a card owned by the user.
func (s *CardService) GetCard(cardID, userID uint64) (*models.BusinessCard, error) {
	card, err := s.findCard(cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, ErrNotCardOwner
	}
	return card, nil
}

func (s *CardService) findCard(cardID uint64) (*models.BusinessCard, error) {
	card, err := s.cardRepo.FindByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

// ListCards returns the user's cards with pagination.
func (s *CardService) ListCards(userID uint64, page, pageSize int) ([]models.BusinessCard, int64, error) {
	cards, total, err := s.cardRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, total, nil
}

// UpdateCard updates a card owned by the user.
func (s *CardService) UpdateCard(cardID, userID uint64, input CardInput) (*models.BusinessCard, error) {
	card, err := s.GetCard(cardID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title == "" || input.FullName == "" {
		return nil, ErrInvalidCardName
	}

	card.Title = input.Title
	card.FullName = input.FullName
	card.JobTitle = input.JobTitle
	card.Company = input.Company
	card.Phone = input.Phone
	card.Email = input.Email
	card.Website = input.Website
	card.Bio = input.Bio
	card.TemplateID = input.TemplateID

	if input.Pin != "" {
		if !validPin(input.Pin) {
			return nil, ErrInvalidPin
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash PIN: %w", err)
		}
		card.PinHash = string(hash)
	}

	if err := s.cardRepo.Update(card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return card, nil
}

// DeleteCard deletes a card owned by the user.
func (s *CardService) DeleteCard(cardID, userID uint64) error {
	if _, err := s.GetCard(cardID, userID); err != nil {
		return err
	}

	if err := s.cardRepo.Delete(cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	return nil
}

// ShareCard emails a signed view link for the card. The email is best-effort;
// the returned link is always valid.
func (s *CardService) ShareCard(ctx context.Context, cardID, userID uint64, recipient string) (string, error) {
	recipient = utils.NormalizeEmail(recipient)
	if !utils.IsValidEmail(recipient) {
		return "", ErrInvalidEmail
	}

	card, err := s.GetCard(cardID, userID)
	if err != nil {
		return "", err
	}

	token, err := utils.SignShareToken(s.shareSecret, card.ID, ShareTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to create share link: %w", err)
	}

	link := fmt.Sprintf("%s/cards/shared/%s", s.baseURL, token)

	if s.dispatcher != nil {
		subject := fmt.Sprintf("%s shared a business card with you", card.FullName)
		html := fmt.Sprintf(`<p>%s shared their Official ID card with you.</p><p><a href="%s">View card</a></p>`,
			card.FullName, link)
		if err := s.dispatcher.Deliver(ctx, models.EmailKindCardShare, &card.ID, recipient, subject, html); err != nil {
			log.Printf("card share email to %s failed: %v", recipient, err)
		}
	}

	return link, nil
}

// GetSharedCard resolves a signed share token to the card it grants.
func (s *CardService) GetSharedCard(token string) (*models.BusinessCard, error) {
	cardID, err := utils.ParseShareToken(s.shareSecret, token)
	if err != nil {
		return nil, ErrCardNotFound
	}
	return s.findCard(cardID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotProtected = errors.New("this template is not PIN protected")
	ErrTooManyPinAttempts   = errors.New("too many PIN attempts, try again later")
)

// TemplateService verifies PINs on protected card templates. Attempts are
// throttled per (card, client) in Redis.
type TemplateService struct {
	cardRepo repository.CardRepository
	redis    *redis.Client
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(cardRepo repository.CardRepository, redisClient *redis.Client) *TemplateService {
	return &TemplateService{
		cardRepo: cardRepo,
		redis:    redisClient,
	}
}

// VerifyPin checks the PIN against the card's stored hash. clientKey
// identifies the caller (client IP) for throttling.
func (s *TemplateService) VerifyPin(ctx context.Context, cardID uint64, pin, clientKey string) (bool, error) {
	if err := s.throttle(ctx, cardID, clientKey); err != nil {
		return false, err
	}

	card, err := s.cardRepo.FindByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCardNotFound
		}
		return false, fmt.Errorf("failed to find card: %w", err)
	}

	if !card.HasPin() {
		return false, ErrTemplateNotProtected
	}

	if err := bcrypt.CompareHashAndPassword([]byte(card.PinHash), []byte(pin)); err != nil {
		return false, nil
	}

	return true, nil
}

// throttle counts attempts in a fixed window. When Redis is unavailable the
// check degrades to allowing the attempt.
func (s *TemplateService) throttle(ctx context.Context, cardID uint64, clientKey string) error {
	if s.redis == nil {
		return nil
	}

	key := fmt.Sprintf("pin_attempts:%d:%s", cardID, clientKey)

	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("pin throttle unavailable: %v", err)
		return nil
	}
	if count == 1 {
		s.redis.Expire(ctx, key, constants.PinAttemptWindowSecs*time.Second)
	}

	if count > constants.PinAttemptLimit {
		return ErrTooManyPinAttempts
	}
	return nil
}

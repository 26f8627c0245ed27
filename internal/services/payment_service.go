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
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound      = errors.New("payment transaction not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	ErrPaymentAlreadyFinal  = errors.New("payment has already been reviewed")
)

// PaymentService handles upgrade payment submission and admin review.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	dispatcher  *mailer.Dispatcher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, userRepo repository.UserRepository, dispatcher *mailer.Dispatcher) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// SubmitPayment records a pending upgrade payment with its proof image URL.
func (s *PaymentService) SubmitPayment(userID uint64, amount int64, proofURL string) (*models.PaymentTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	payment := &models.PaymentTransaction{
		UserID:    userID,
		Reference: utils.NewPaymentReference(),
		Amount:    amount,
		ProofURL:  proofURL,
		Status:    models.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to submit payment: %w", err)
	}

	return payment, nil
}

// ListPaymentsForUser lists the user's own payments.
func (s *PaymentService) ListPaymentsForUser(userID uint64) ([]models.PaymentTransaction, error) {
	payments, err := s.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListPayments lists payments for the admin panel.
func (s *PaymentService) ListPayments(filter repository.PaymentFilter) ([]models.PaymentTransaction, int64, error) {
	payments, total, err := s.paymentRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}

// ReviewPayment approves or rejects a pending payment. Approval upgrades the
// payer to PAID_USER; either outcome triggers a best-effort status email.
func (s *PaymentService) ReviewPayment(ctx context.Context, paymentID, reviewerID uint64, next models.PaymentStatus, note string) (*models.PaymentTransaction, error) {
	payment, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	if !payment.Status.CanTransitionTo(next) {
		return nil, ErrPaymentAlreadyFinal
	}

	now := time.Now()
	payment.Status = next
	payment.ReviewedBy = &reviewerID
	payment.ReviewedAt = &now
	payment.Note = note

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	user, err := s.userRepo.FindByID(payment.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payer: %w", err)
	}

	if next == models.PaymentStatusApproved && user.Role == models.RoleFreeUser {
		user.Role = models.RolePaidUser
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to upgrade user role: %w", err)
		}
	}

	s.sendStatusEmail(ctx, payment, user)

	return payment, nil
}

func (s *PaymentService) sendStatusEmail(ctx context.Context, payment *models.PaymentTransaction, user *models.User) {
	if s.dispatcher == nil {
		return
	}

	var subject, html string
	if payment.Status == models.PaymentStatusApproved {
		subject = "Your Official ID upgrade is active"
		html = "<p>Your payment was approved. Your account now has paid features.</p>"
	} else {
		subject = "Your Official ID payment was declined"
		html = fmt.Sprintf("<p>Your payment was declined.</p><p>%s</p>", payment.Note)
	}

	if err := s.dispatcher.Deliver(ctx, models.EmailKindPaymentStatus, &payment.ID, user.Email, subject, html); err != nil {
		log.Printf("payment status email to %s failed: %v", user.Email, err)
	}
}

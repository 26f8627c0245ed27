package mailer

import (
	"context"
	"log"
	"time"

	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
)

// Dispatcher sends transactional email best-effort and records every attempt
// in the email_logs audit table. Delivery failure never propagates to the
// caller's primary action; it is observable through the log only.
type Dispatcher struct {
	sender Sender
	from   string
	logs   repository.EmailLogRepository
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, from string, logs repository.EmailLogRepository) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		from:   from,
		logs:   logs,
	}
}

// Deliver sends one message and logs the outcome. The returned error reports
// the delivery result for callers that want it; most callers ignore it.
func (d *Dispatcher) Deliver(ctx context.Context, kind models.EmailKind, relatedID *uint64, to, subject, html string) error {
	msg := Message{
		From:    d.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	}

	providerID, sendErr := d.sender.Send(ctx, msg)

	entry := &models.EmailLog{
		Recipient:  to,
		Subject:    subject,
		Kind:       kind,
		RelatedID:  relatedID,
		Status:     models.EmailStatusSent,
		ProviderID: providerID,
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		entry.Error = sendErr.Error()
	}

	if err := d.logs.Create(entry); err != nil {
		log.Printf("failed to record email log for %s: %v", to, err)
	}

	return sendErr
}

// RecipientResult is the per-recipient outcome of a batch send.
type RecipientResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DeliverBatch sends to each recipient sequentially with a fixed inter-send
// delay to stay under the provider's rate limit. Failures do not stop the
// loop.
func (d *Dispatcher) DeliverBatch(ctx context.Context, kind models.EmailKind, relatedID *uint64, recipients []string, subject, html string) []RecipientResult {
	results := make([]RecipientResult, 0, len(recipients))

	for i, recipient := range recipients {
		if i > 0 {
			time.Sleep(constants.BatchEmailDelayMs * time.Millisecond)
		}

		err := d.Deliver(ctx, kind, relatedID, recipient, subject, html)
		result := RecipientResult{Email: recipient, Success: err == nil}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	return results
}

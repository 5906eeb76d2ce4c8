// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
package saga

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/application/command"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/external/payments"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTER CONTEST SAGA
// Two-phase entry flow: Create Participation (pending) → Create Payment
// Intent → Confirm Intent → Record Payment (paid).
//
// The two writes are independent storage calls with no transaction around
// them. A crash after phase one leaves a pending participation; the
// reconciliation job later confirms or expires it. The saga never rolls
// back the participation - presence with "pending" status IS the record
// that phase two is owed.
// ══════════════════════════════════════════════════════════════════════════════

// EnterContestInput contains the data needed to run the entry flow.
type EnterContestInput struct {
	// ContestID - the contest being entered.
	ContestID string

	// UserEmail - the participant's email.
	UserEmail string
}

// Validate checks if the input is valid.
func (i EnterContestInput) Validate() error {
	if _, err := shared.NewCanonicalID(i.ContestID); err != nil {
		return err
	}
	if _, err := shared.NewEmail(i.UserEmail); err != nil {
		return err
	}
	return nil
}

// EnterContestFlowResult contains the result of the entry flow.
type EnterContestFlowResult struct {
	// ParticipationID - the created participation.
	ParticipationID string

	// PaymentIntentID - the provider intent (empty for free contests).
	PaymentIntentID string

	// PayURL - where the participant completes payment (empty if settled).
	PayURL string

	// Paid - true when the entry fee is already settled (free contests,
	// or providers that settle synchronously).
	Paid bool

	// CompletedAt - when the flow finished.
	CompletedAt time.Time
}

// EnterContestSaga orchestrates the two-phase entry flow.
type EnterContestSaga struct {
	enterContest      *command.EnterContestHandler
	recordPayment     *command.RecordPaymentHandler
	participationRepo participation.Repository
	provider          payments.Provider
	log               *logger.Logger
}

// NewEnterContestSaga creates a new entry flow orchestrator.
func NewEnterContestSaga(
	enterContest *command.EnterContestHandler,
	recordPayment *command.RecordPaymentHandler,
	participationRepo participation.Repository,
	provider payments.Provider,
	log *logger.Logger,
) *EnterContestSaga {
	return &EnterContestSaga{
		enterContest:      enterContest,
		recordPayment:     recordPayment,
		participationRepo: participationRepo,
		provider:          provider,
		log:               log,
	}
}

// Execute runs the entry flow.
func (s *EnterContestSaga) Execute(ctx context.Context, input EnterContestInput) (*EnterContestFlowResult, error) {
	if err := input.Validate(); err != nil {
		return nil, shared.WrapError("saga", "EnterContest", shared.ErrValidation, "invalid entry input", err)
	}

	// Phase one: pending participation.
	entry, err := s.enterContest.Handle(ctx, command.EnterContestCommand{
		ContestID: input.ContestID,
		UserEmail: input.UserEmail,
	})
	if err != nil {
		return nil, err
	}

	result := &EnterContestFlowResult{
		ParticipationID: entry.ParticipationID,
		CompletedAt:     time.Now().UTC(),
	}

	// Free contests settle immediately, no provider involved.
	if entry.EntryFee <= 0 {
		if _, err := s.recordPayment.Handle(ctx, command.RecordPaymentCommand{
			ParticipationID: entry.ParticipationID,
			PaymentIntentID: "free",
		}); err != nil {
			return nil, err
		}
		result.Paid = true
		return result, nil
	}

	// Phase two: provider intent. Failure here leaves the participation
	// pending for the reconciliation job - never rolled back.
	intent, err := s.provider.CreateIntent(ctx, entry.ParticipationID, entry.EntryFee)
	if err != nil {
		s.log.Warn("intent creation failed, participation left pending",
			logger.ContestID(input.ContestID),
			logger.Email(input.UserEmail),
			logger.Err(err),
		)
		return result, nil
	}

	result.PaymentIntentID = intent.ID
	result.PayURL = intent.PayURL

	// Attach the intent to the pending participation so the
	// reconciliation job can confirm it after a crash.
	if p, err := s.participationRepo.FindByID(ctx, entry.ParticipationID); err == nil {
		if err := p.AttachIntent(intent.ID); err == nil {
			if err := s.participationRepo.Update(ctx, p.ID, p); err != nil {
				s.log.Warn("failed to attach intent to participation",
					logger.String("participation_id", p.ID),
					logger.Err(err),
				)
			}
		}
	}

	conf, err := s.provider.ConfirmIntent(ctx, intent.ID)
	if err != nil || !conf.Paid {
		// Not settled yet - the webhook or the reconciliation job
		// finishes the flow.
		return result, nil
	}

	if _, err := s.recordPayment.Handle(ctx, command.RecordPaymentCommand{
		ParticipationID: entry.ParticipationID,
		PaymentIntentID: intent.ID,
		PaidAt:          conf.PaidAt,
	}); err != nil {
		return nil, err
	}
	result.Paid = true

	return result, nil
}

// ConfirmFromWebhook finishes the flow for a provider webhook callback.
func (s *EnterContestSaga) ConfirmFromWebhook(ctx context.Context, body []byte, headers map[string]string) error {
	participationID, intentID, paid, err := s.provider.HandleWebhook(ctx, body, headers)
	if err != nil {
		return shared.WrapError("saga", "ConfirmFromWebhook", shared.ErrValidation, "webhook rejected", err)
	}
	if !paid {
		s.log.Info("webhook reported cancelled payment",
			logger.String("participation_id", participationID),
		)
		return nil
	}

	_, err = s.recordPayment.Handle(ctx, command.RecordPaymentCommand{
		ParticipationID: participationID,
		PaymentIntentID: intentID,
	})
	return err
}

package command

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PAYMENT COMMAND
// Marks a pending participation as paid, attaching the provider's intent id.
// This is the second phase of the two-phase entry flow. Recording a payment
// on an already-paid participation is a state-transition error.
// ══════════════════════════════════════════════════════════════════════════════

// RecordPaymentCommand contains the payment confirmation data.
type RecordPaymentCommand struct {
	// ParticipationID is the canonical participation id (24-char hex).
	ParticipationID string

	// PaymentIntentID is the provider-side intent identifier.
	PaymentIntentID string

	// PaidAt is when the provider confirmed the payment; zero means now.
	PaidAt time.Time
}

// Validate validates the command.
func (c RecordPaymentCommand) Validate() error {
	if _, err := shared.NewCanonicalID(c.ParticipationID); err != nil {
		return err
	}
	if c.PaymentIntentID == "" {
		return shared.NewDomainError("command", "RecordPayment", shared.ErrEmptyValue, "payment intent id is required")
	}
	return nil
}

// RecordPaymentResult contains the result of recording.
type RecordPaymentResult struct {
	// ParticipationID is the id of the updated participation.
	ParticipationID string

	// Events contains domain events generated during recording.
	Events []shared.Event
}

// RecordPaymentHandler handles payment recording.
type RecordPaymentHandler struct {
	participationRepo participation.Repository
	publisher         shared.EventPublisher
}

// NewRecordPaymentHandler creates a new payment recording handler.
func NewRecordPaymentHandler(participationRepo participation.Repository, publisher shared.EventPublisher) *RecordPaymentHandler {
	return &RecordPaymentHandler{
		participationRepo: participationRepo,
		publisher:         publisher,
	}
}

// Handle executes the recording command.
func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*RecordPaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "RecordPayment", shared.ErrValidation, "invalid payment data", err)
	}

	p, err := h.participationRepo.FindByID(ctx, cmd.ParticipationID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("command", "RecordPayment", shared.ErrStorage, "failed to load participation", err)
	}

	paidAt := cmd.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	if err := p.RecordPayment(cmd.PaymentIntentID, paidAt); err != nil {
		return nil, err
	}

	if err := h.participationRepo.Update(ctx, p.ID, p); err != nil {
		return nil, shared.WrapError("command", "RecordPayment", shared.ErrStorage, "failed to save participation", err)
	}

	event := shared.NewPaymentRecordedEvent(p.ID, p.ContestID, p.UserEmail, cmd.PaymentIntentID)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &RecordPaymentResult{
		ParticipationID: p.ID,
		Events:          []shared.Event{event},
	}, nil
}

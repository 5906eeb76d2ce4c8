package command

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTER CONTEST COMMAND
// Creates a participation in "pending" payment status. Payment confirmation
// is a separate write (RecordPayment): a crash between the two leaves a
// pending participation, which the reconciliation job later sweeps up.
// ══════════════════════════════════════════════════════════════════════════════

// EnterContestCommand contains the data needed to enter a contest.
type EnterContestCommand struct {
	// ContestID is the canonical contest id (24-char hex).
	ContestID string

	// UserEmail is the participant's email.
	UserEmail string
}

// Validate validates the command.
func (c EnterContestCommand) Validate() error {
	if _, err := shared.NewCanonicalID(c.ContestID); err != nil {
		return err
	}
	if _, err := shared.NewEmail(c.UserEmail); err != nil {
		return err
	}
	return nil
}

// EnterContestResult contains the result of entering.
type EnterContestResult struct {
	// ParticipationID is the id assigned by the store.
	ParticipationID string

	// EntryFee is the amount the participant still owes.
	EntryFee int

	// Events contains domain events generated during entry.
	Events []shared.Event
}

// EnterContestHandler handles contest entry.
type EnterContestHandler struct {
	contestRepo       contest.Repository
	participationRepo participation.Repository
	publisher         shared.EventPublisher
}

// NewEnterContestHandler creates a new contest entry handler.
func NewEnterContestHandler(
	contestRepo contest.Repository,
	participationRepo participation.Repository,
	publisher shared.EventPublisher,
) *EnterContestHandler {
	return &EnterContestHandler{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
		publisher:         publisher,
	}
}

// Handle executes the entry command.
func (h *EnterContestHandler) Handle(ctx context.Context, cmd EnterContestCommand) (*EnterContestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "EnterContest", shared.ErrValidation, "invalid entry data", err)
	}

	c, err := h.contestRepo.FindByID(ctx, cmd.ContestID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("command", "EnterContest", shared.ErrStorage, "failed to load contest", err)
	}

	if !c.IsApproved() {
		return nil, shared.ErrContestNotApproved
	}
	if !c.IsOpen(time.Now()) {
		return nil, shared.ErrContestDuePassed
	}

	// Reject double entry. Like registration, check-then-insert is not
	// atomic; serialized execution is the real protection.
	existing, err := h.participationRepo.FindByContest(ctx, c.ID)
	if err != nil {
		return nil, shared.WrapError("command", "EnterContest", shared.ErrStorage, "failed to load participations", err)
	}
	for _, p := range existing {
		if p.UserEmail == cmd.UserEmail {
			return nil, shared.NewDomainError("command", "EnterContest", shared.ErrAlreadyExists, "user already entered this contest")
		}
	}

	p, err := participation.NewParticipation(c.ID, cmd.UserEmail)
	if err != nil {
		return nil, err
	}

	id, err := h.participationRepo.Insert(ctx, p)
	if err != nil {
		return nil, shared.WrapError("command", "EnterContest", shared.ErrStorage, "failed to insert participation", err)
	}

	event := shared.NewParticipationCreatedEvent(id, c.ID, cmd.UserEmail)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &EnterContestResult{
		ParticipationID: id,
		EntryFee:        c.Price,
		Events:          []shared.Event{event},
	}, nil
}

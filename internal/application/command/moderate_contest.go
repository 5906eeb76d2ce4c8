package command

import (
	"context"
	"errors"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MODERATE CONTEST COMMAND
// Admin approves or rejects a pending contest. Rejection carries a moderator
// comment shown to the creator. Approving an already-approved contest is a
// state-transition error, not a silent no-op.
// ══════════════════════════════════════════════════════════════════════════════

// ModerateContestCommand contains the moderation decision.
type ModerateContestCommand struct {
	// ContestID is the canonical contest id (24-char hex).
	ContestID string

	// Approve is true to approve, false to reject.
	Approve bool

	// Comment is the moderator comment (required for rejection).
	Comment string
}

// Validate validates the command.
func (c ModerateContestCommand) Validate() error {
	if _, err := shared.NewCanonicalID(c.ContestID); err != nil {
		return err
	}
	if !c.Approve && c.Comment == "" {
		return errors.New("moderate_contest: rejection requires a comment")
	}
	return nil
}

// ModerateContestResult contains the result of moderation.
type ModerateContestResult struct {
	// Status is the resulting moderation status.
	Status string

	// Events contains domain events generated during moderation.
	Events []shared.Event
}

// ModerateContestHandler handles contest moderation.
type ModerateContestHandler struct {
	contestRepo contest.Repository
	publisher   shared.EventPublisher
}

// NewModerateContestHandler creates a new moderation handler.
func NewModerateContestHandler(contestRepo contest.Repository, publisher shared.EventPublisher) *ModerateContestHandler {
	return &ModerateContestHandler{
		contestRepo: contestRepo,
		publisher:   publisher,
	}
}

// Handle executes the moderation command.
func (h *ModerateContestHandler) Handle(ctx context.Context, cmd ModerateContestCommand) (*ModerateContestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "ModerateContest", shared.ErrValidation, "invalid moderation data", err)
	}

	c, err := h.contestRepo.FindByID(ctx, cmd.ContestID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("command", "ModerateContest", shared.ErrStorage, "failed to load contest", err)
	}

	if cmd.Approve {
		err = c.Approve()
	} else {
		err = c.Reject(cmd.Comment)
	}
	if err != nil {
		return nil, err
	}

	if _, err := h.contestRepo.Upsert(ctx, c.ID, c); err != nil {
		return nil, shared.WrapError("command", "ModerateContest", shared.ErrStorage, "failed to save contest", err)
	}

	event := shared.NewContestModeratedEvent(c.ID, string(c.Status), cmd.Comment)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &ModerateContestResult{
		Status: string(c.Status),
		Events: []shared.Event{event},
	}, nil
}

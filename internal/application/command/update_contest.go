package command

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE CONTEST COMMAND
// Insert-or-replace of a contest document by id. Unconditional upsert:
// concurrent updates to the same contest are last-writer-wins.
// An edit resets moderation status back to "pending".
// ══════════════════════════════════════════════════════════════════════════════

// UpdateContestCommand contains the replacement contest document.
type UpdateContestCommand struct {
	// ID is the canonical contest id (24-char hex).
	ID string

	Name         string
	Description  string
	Image        string
	Price        int
	PriceMoney   int
	Type         string
	Instruction  string
	Due          time.Time
	CreatorEmail string
}

// Validate validates the command.
func (c UpdateContestCommand) Validate() error {
	if _, err := shared.NewCanonicalID(c.ID); err != nil {
		return err
	}
	if _, err := shared.NewEmail(c.CreatorEmail); err != nil {
		return err
	}
	return nil
}

// UpdateContestResult contains the result of the update.
type UpdateContestResult struct {
	// Matched is the store's matchedCount: >= 1 means the document
	// existed and was replaced.
	Matched int64

	// Events contains domain events generated during the update.
	Events []shared.Event
}

// UpdateContestHandler handles contest updates.
type UpdateContestHandler struct {
	contestRepo contest.Repository
	publisher   shared.EventPublisher
}

// NewUpdateContestHandler creates a new contest update handler.
func NewUpdateContestHandler(contestRepo contest.Repository, publisher shared.EventPublisher) *UpdateContestHandler {
	return &UpdateContestHandler{
		contestRepo: contestRepo,
		publisher:   publisher,
	}
}

// Handle executes the update command.
func (h *UpdateContestHandler) Handle(ctx context.Context, cmd UpdateContestCommand) (*UpdateContestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "UpdateContest", shared.ErrValidation, "invalid contest data", err)
	}

	c, err := contest.NewContest(
		cmd.Name, cmd.Description, cmd.Image,
		cmd.Price, cmd.PriceMoney,
		cmd.Type, cmd.Instruction,
		cmd.Due, cmd.CreatorEmail,
	)
	if err != nil {
		return nil, err
	}
	c.ID = cmd.ID

	matched, err := h.contestRepo.Upsert(ctx, cmd.ID, c)
	if err != nil {
		return nil, shared.WrapError("command", "UpdateContest", shared.ErrStorage, "failed to upsert contest", err)
	}

	event := shared.NewContestUpdatedEvent(cmd.ID, c.CreatorEmail)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &UpdateContestResult{
		Matched: matched,
		Events:  []shared.Event{event},
	}, nil
}

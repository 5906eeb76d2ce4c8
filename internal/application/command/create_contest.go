package command

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE CONTEST COMMAND
// Creates a contest in "pending" status. Contests become publicly visible
// only after an admin approves them via ModerateContest.
// ══════════════════════════════════════════════════════════════════════════════

// CreateContestCommand contains the data needed to create a contest.
type CreateContestCommand struct {
	// Name is the contest title.
	Name string

	// Description is the public description.
	Description string

	// Image is the banner image URL.
	Image string

	// Price is the prize pool.
	Price int

	// PriceMoney is the entry fee.
	PriceMoney int

	// Type is the contest category (e.g. "Image Design").
	Type string

	// Instruction is the task instruction shown to participants.
	Instruction string

	// Due is the submission deadline.
	Due time.Time

	// CreatorEmail is the creator's email, a weak reference to users.
	CreatorEmail string
}

// Validate validates the command.
func (c CreateContestCommand) Validate() error {
	if _, err := shared.NewEmail(c.CreatorEmail); err != nil {
		return err
	}
	return nil
}

// CreateContestResult contains the result of contest creation.
type CreateContestResult struct {
	// ContestID is the id assigned by the store.
	ContestID string

	// Events contains domain events generated during creation.
	Events []shared.Event
}

// CreateContestHandler handles contest creation.
type CreateContestHandler struct {
	contestRepo contest.Repository
	publisher   shared.EventPublisher
}

// NewCreateContestHandler creates a new contest creation handler.
func NewCreateContestHandler(contestRepo contest.Repository, publisher shared.EventPublisher) *CreateContestHandler {
	return &CreateContestHandler{
		contestRepo: contestRepo,
		publisher:   publisher,
	}
}

// Handle executes the creation command.
func (h *CreateContestHandler) Handle(ctx context.Context, cmd CreateContestCommand) (*CreateContestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "CreateContest", shared.ErrValidation, "invalid contest data", err)
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

	id, err := h.contestRepo.Insert(ctx, c)
	if err != nil {
		return nil, shared.WrapError("command", "CreateContest", shared.ErrStorage, "failed to insert contest", err)
	}

	event := shared.NewContestCreatedEvent(id, c.Name, c.CreatorEmail)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &CreateContestResult{
		ContestID: id,
		Events:    []shared.Event{event},
	}, nil
}

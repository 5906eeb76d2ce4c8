package command

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PICK WINNER COMMAND
// Marks a participation as the contest winner. A contest has at most one
// winner: picking a second one is rejected while the first is still marked.
// ══════════════════════════════════════════════════════════════════════════════

// PickWinnerCommand contains the winner selection data.
type PickWinnerCommand struct {
	// ParticipationID is the canonical id of the winning participation.
	ParticipationID string
}

// Validate validates the command.
func (c PickWinnerCommand) Validate() error {
	if _, err := shared.NewCanonicalID(c.ParticipationID); err != nil {
		return err
	}
	return nil
}

// PickWinnerResult contains the result of the selection.
type PickWinnerResult struct {
	// ParticipationID is the id of the winning participation.
	ParticipationID string

	// ContestID is the contest the winner belongs to.
	ContestID string

	// Events contains domain events generated during selection.
	Events []shared.Event
}

// PickWinnerHandler handles winner selection.
type PickWinnerHandler struct {
	participationRepo participation.Repository
	publisher         shared.EventPublisher
}

// NewPickWinnerHandler creates a new winner selection handler.
func NewPickWinnerHandler(participationRepo participation.Repository, publisher shared.EventPublisher) *PickWinnerHandler {
	return &PickWinnerHandler{
		participationRepo: participationRepo,
		publisher:         publisher,
	}
}

// Handle executes the selection command.
func (h *PickWinnerHandler) Handle(ctx context.Context, cmd PickWinnerCommand) (*PickWinnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "PickWinner", shared.ErrValidation, "invalid winner data", err)
	}

	p, err := h.participationRepo.FindByID(ctx, cmd.ParticipationID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("command", "PickWinner", shared.ErrStorage, "failed to load participation", err)
	}

	siblings, err := h.participationRepo.FindByContest(ctx, p.ContestID)
	if err != nil {
		return nil, shared.WrapError("command", "PickWinner", shared.ErrStorage, "failed to load participations", err)
	}
	for _, s := range siblings {
		if s.HasWon() && s.ID != p.ID {
			return nil, shared.ErrAlreadyWinner
		}
	}

	if err := p.MarkWinner(); err != nil {
		return nil, err
	}

	if err := h.participationRepo.Update(ctx, p.ID, p); err != nil {
		return nil, shared.WrapError("command", "PickWinner", shared.ErrStorage, "failed to save participation", err)
	}

	event := shared.NewWinnerPickedEvent(p.ID, p.ContestID, p.UserEmail)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &PickWinnerResult{
		ParticipationID: p.ID,
		ContestID:       p.ContestID,
		Events:          []shared.Event{event},
	}, nil
}

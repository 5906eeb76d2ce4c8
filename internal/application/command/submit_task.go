package command

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT TASK COMMAND
// Attaches the participant's work (task link and/or quick note) to their
// participation. Resubmission replaces the previous submission.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitTaskCommand contains the submission data.
type SubmitTaskCommand struct {
	// ParticipationID is the canonical participation id (24-char hex).
	ParticipationID string

	// Task is a link to the submitted work.
	Task string

	// QuickNote is a short note accompanying the submission.
	QuickNote string
}

// Validate validates the command.
func (c SubmitTaskCommand) Validate() error {
	if _, err := shared.NewCanonicalID(c.ParticipationID); err != nil {
		return err
	}
	return nil
}

// SubmitTaskResult contains the result of submission.
type SubmitTaskResult struct {
	// ParticipationID is the id of the updated participation.
	ParticipationID string

	// Events contains domain events generated during submission.
	Events []shared.Event
}

// SubmitTaskHandler handles task submission.
type SubmitTaskHandler struct {
	participationRepo participation.Repository
	publisher         shared.EventPublisher
}

// NewSubmitTaskHandler creates a new submission handler.
func NewSubmitTaskHandler(participationRepo participation.Repository, publisher shared.EventPublisher) *SubmitTaskHandler {
	return &SubmitTaskHandler{
		participationRepo: participationRepo,
		publisher:         publisher,
	}
}

// Handle executes the submission command.
func (h *SubmitTaskHandler) Handle(ctx context.Context, cmd SubmitTaskCommand) (*SubmitTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SubmitTask", shared.ErrValidation, "invalid submission data", err)
	}

	p, err := h.participationRepo.FindByID(ctx, cmd.ParticipationID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("command", "SubmitTask", shared.ErrStorage, "failed to load participation", err)
	}

	if err := p.Submit(cmd.Task, cmd.QuickNote); err != nil {
		return nil, err
	}

	if err := h.participationRepo.Update(ctx, p.ID, p); err != nil {
		return nil, shared.WrapError("command", "SubmitTask", shared.ErrStorage, "failed to save participation", err)
	}

	event := shared.NewTaskSubmittedEvent(p.ID, p.ContestID, p.UserEmail)
	if h.publisher != nil {
		_ = h.publisher.Publish(event)
	}

	return &SubmitTaskResult{
		ParticipationID: p.ID,
		Events:          []shared.Event{event},
	}, nil
}

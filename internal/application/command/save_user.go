package command

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE USER COMMAND
// Insert-or-replace a user profile keyed by email. Unlike registration this
// is an unconditional upsert: last writer wins, no conflict detection.
// Used when an external identity provider refreshes profile data.
// ══════════════════════════════════════════════════════════════════════════════

// SaveUserCommand contains the profile data to save.
type SaveUserCommand struct {
	// Email is the user's email, the upsert key.
	Email string

	// Name is the display name.
	Name string

	// PhotoURL is the avatar URL.
	PhotoURL string

	// Role is the user's role; empty defaults to "user".
	Role string
}

// Validate validates the command.
func (c SaveUserCommand) Validate() error {
	if _, err := shared.NewEmail(c.Email); err != nil {
		return err
	}
	if c.Role != "" {
		if _, err := user.ParseRole(c.Role); err != nil {
			return err
		}
	}
	return nil
}

// SaveUserResult contains the result of the save.
type SaveUserResult struct {
	// Matched is the store's matchedCount: >= 1 means the profile
	// already existed and was replaced.
	Matched int64

	// Events contains domain events generated during the save.
	Events []shared.Event
}

// SaveUserHandler handles profile upserts.
type SaveUserHandler struct {
	userRepo  user.Repository
	publisher shared.EventPublisher
}

// NewSaveUserHandler creates a new save-user handler.
func NewSaveUserHandler(userRepo user.Repository, publisher shared.EventPublisher) *SaveUserHandler {
	return &SaveUserHandler{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Handle executes the save command.
func (h *SaveUserHandler) Handle(ctx context.Context, cmd SaveUserCommand) (*SaveUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SaveUser", shared.ErrValidation, "invalid profile data", err)
	}

	role, _ := user.ParseRole(cmd.Role)
	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.PhotoURL, role)
	if err != nil {
		return nil, err
	}

	matched, err := h.userRepo.UpsertByEmail(ctx, cmd.Email, u)
	if err != nil {
		return nil, shared.WrapError("command", "SaveUser", shared.ErrStorage, "failed to upsert user", err)
	}

	event := shared.NewUserRegisteredEvent("", u.Email, string(u.Role))
	if h.publisher != nil && matched == 0 {
		_ = h.publisher.Publish(event)
	}

	result := &SaveUserResult{Matched: matched}
	if matched == 0 {
		result.Events = []shared.Event{event}
	}
	return result, nil
}

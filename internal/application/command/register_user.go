// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the system.
// Each command validates its input, performs the write, and publishes
// the resulting domain events.
package command

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Creates a user unless one with the same email already exists.
// The existence check and the insert are two separate storage calls: two
// concurrent registrations can both pass the check and both insert. The
// store does not enforce uniqueness, so serialized execution (see the
// registration queue) is the only protection against duplicates.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserCommand contains the data needed to register a user.
type RegisterUserCommand struct {
	// Email is the user's email, the natural key (case-sensitive).
	Email string

	// Name is the display name.
	Name string

	// PhotoURL is the avatar URL (optional).
	PhotoURL string

	// Role is the requested role; empty defaults to "user".
	Role string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
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

// RegisterUserResult contains the result of registration.
type RegisterUserResult struct {
	// UserID is the id of the user (existing or newly inserted).
	UserID string

	// AlreadyExisted is true when registration was a no-op because the
	// email was already taken. This is a soft outcome, not an error.
	AlreadyExisted bool

	// Events contains domain events generated during registration.
	Events []shared.Event
}

// RegisterUserHandler handles user registration.
type RegisterUserHandler struct {
	userRepo  user.Repository
	publisher shared.EventPublisher
}

// NewRegisterUserHandler creates a new registration handler.
func NewRegisterUserHandler(userRepo user.Repository, publisher shared.EventPublisher) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Handle executes the registration command.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "RegisterUser", shared.ErrValidation, "invalid registration data", err)
	}

	// Check-then-insert; not atomic, see package comment.
	existing, err := h.userRepo.FindByEmail(ctx, cmd.Email)
	if err == nil {
		return &RegisterUserResult{
			UserID:         existing.ID,
			AlreadyExisted: true,
		}, nil
	}
	if !shared.IsNotFound(err) {
		return nil, shared.WrapError("command", "RegisterUser", shared.ErrStorage, "failed to check existing user", err)
	}

	role, _ := user.ParseRole(cmd.Role)
	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.PhotoURL, role)
	if err != nil {
		return nil, err
	}

	id, err := h.userRepo.Insert(ctx, u)
	if err != nil {
		return nil, shared.WrapError("command", "RegisterUser", shared.ErrStorage, "failed to insert user", err)
	}

	event := shared.NewUserRegisteredEvent(id, u.Email, string(u.Role))
	if h.publisher != nil {
		// A failed publish does not undo the write.
		_ = h.publisher.Publish(event)
	}

	return &RegisterUserResult{
		UserID: id,
		Events: []shared.Event{event},
	}, nil
}

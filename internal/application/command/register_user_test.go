package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

type memoryUserRepo struct {
	users   []*user.User
	nextID  int
	findErr error
}

func (m *memoryUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m *memoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (m *memoryUserRepo) FindAll(_ context.Context) ([]*user.User, error) {
	return m.users, nil
}

func (m *memoryUserRepo) Insert(_ context.Context, u *user.User) (string, error) {
	m.nextID++
	u.ID = "u" + string(rune('0'+m.nextID))
	m.users = append(m.users, u)
	return u.ID, nil
}

func (m *memoryUserRepo) UpsertByID(_ context.Context, id string, u *user.User) (int64, error) {
	for i, existing := range m.users {
		if existing.ID == id {
			m.users[i] = u
			return 1, nil
		}
	}
	m.users = append(m.users, u)
	return 0, nil
}

func (m *memoryUserRepo) UpsertByEmail(_ context.Context, email string, u *user.User) (int64, error) {
	for i, existing := range m.users {
		if existing.Email == email {
			m.users[i] = u
			return 1, nil
		}
	}
	m.users = append(m.users, u)
	return 0, nil
}

type recordingPublisher struct {
	events []shared.Event
}

func (r *recordingPublisher) Publish(event shared.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestRegisterUserInsertsNewUser(t *testing.T) {
	repo := &memoryUserRepo{}
	pub := &recordingPublisher{}
	h := NewRegisterUserHandler(repo, pub)

	result, err := h.Handle(context.Background(), RegisterUserCommand{
		Email:    "tom@example.com",
		Name:     "Tom",
		PhotoURL: "https://cdn.example.com/tom.png",
	})

	assert.NoError(t, err)
	assert.False(t, result.AlreadyExisted)
	assert.NotEmpty(t, result.UserID)
	assert.Len(t, repo.users, 1)
	assert.Equal(t, user.RoleUser, repo.users[0].Role)

	assert.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventUserRegistered, pub.events[0].EventType())
	assert.Len(t, result.Events, 1)
}

func TestRegisterUserDuplicateEmailIsSoftOutcome(t *testing.T) {
	repo := &memoryUserRepo{users: []*user.User{
		{ID: "u1", Email: "tom@example.com", Name: "Tom", Role: user.RoleUser},
	}}
	pub := &recordingPublisher{}
	h := NewRegisterUserHandler(repo, pub)

	result, err := h.Handle(context.Background(), RegisterUserCommand{
		Email: "tom@example.com",
		Name:  "Tom Again",
	})

	assert.NoError(t, err)
	assert.True(t, result.AlreadyExisted)
	assert.Equal(t, "u1", result.UserID)
	// Повторная регистрация ничего не пишет и не публикует.
	assert.Len(t, repo.users, 1)
	assert.Empty(t, pub.events)
}

func TestRegisterUserExplicitRole(t *testing.T) {
	repo := &memoryUserRepo{}
	h := NewRegisterUserHandler(repo, nil)

	result, err := h.Handle(context.Background(), RegisterUserCommand{
		Email: "maria@example.com",
		Name:  "Maria",
		Role:  "creator",
	})

	assert.NoError(t, err)
	assert.False(t, result.AlreadyExisted)
	assert.Equal(t, user.RoleCreator, repo.users[0].Role)
}

func TestRegisterUserInvalidInput(t *testing.T) {
	h := NewRegisterUserHandler(&memoryUserRepo{}, nil)

	_, err := h.Handle(context.Background(), RegisterUserCommand{Email: "broken", Name: "X"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = h.Handle(context.Background(), RegisterUserCommand{Email: "ok@example.com", Role: "superuser"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegisterUserStorageFailureOnLookup(t *testing.T) {
	repo := &memoryUserRepo{findErr: errors.New("server selection timeout")}
	h := NewRegisterUserHandler(repo, nil)

	result, err := h.Handle(context.Background(), RegisterUserCommand{Email: "tom@example.com", Name: "Tom"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

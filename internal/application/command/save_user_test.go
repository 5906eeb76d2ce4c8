package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

func TestSaveUserInsertsWhenMissing(t *testing.T) {
	repo := &memoryUserRepo{}
	pub := &recordingPublisher{}
	h := NewSaveUserHandler(repo, pub)

	result, err := h.Handle(context.Background(), SaveUserCommand{
		Email: "tom@example.com",
		Name:  "Tom",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Matched)
	assert.Len(t, repo.users, 1)
	assert.Len(t, pub.events, 1)
}

func TestSaveUserUpsertIsIdempotent(t *testing.T) {
	repo := &memoryUserRepo{}
	pub := &recordingPublisher{}
	h := NewSaveUserHandler(repo, pub)

	cmd := SaveUserCommand{
		Email:    "tom@example.com",
		Name:     "Tom",
		PhotoURL: "https://cdn.example.com/tom.png",
	}

	_, err := h.Handle(context.Background(), cmd)
	assert.NoError(t, err)

	// Повтор с теми же полями: matched >= 1, без дубликата и без события.
	result, err := h.Handle(context.Background(), cmd)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Matched)
	assert.Empty(t, result.Events)
	assert.Len(t, repo.users, 1)
	assert.Len(t, pub.events, 1)
}

func TestSaveUserLastWriterWins(t *testing.T) {
	repo := &memoryUserRepo{users: []*user.User{
		{ID: "u1", Email: "tom@example.com", Name: "Old Name", Role: user.RoleUser},
	}}
	h := NewSaveUserHandler(repo, nil)

	result, err := h.Handle(context.Background(), SaveUserCommand{
		Email: "tom@example.com",
		Name:  "New Name",
		Role:  "creator",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Matched)
	assert.Equal(t, "New Name", repo.users[0].Name)
	assert.Equal(t, user.RoleCreator, repo.users[0].Role)
}

func TestSaveUserInvalidEmail(t *testing.T) {
	h := NewSaveUserHandler(&memoryUserRepo{}, nil)

	result, err := h.Handle(context.Background(), SaveUserCommand{Email: "nope", Name: "X"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

func leaderboardFixtureRepos() (*fakeUserRepo, *fakeParticipationRepo) {
	users := []*user.User{
		{ID: "u1", Email: "admin@example.com", Name: "Admin", Role: user.RoleAdmin},
		{ID: "u2", Email: "tom@example.com", Name: "Tom", Role: user.RoleUser},
		{ID: "u3", Email: "maria@example.com", Name: "Maria", Role: user.RoleCreator},
	}
	parts := []*participation.Participation{
		{ID: "p1", ContestID: "64a0c2f7e13b9a0012345601", UserEmail: "tom@example.com", IsWinner: true},
		{ID: "p2", ContestID: "64a0c2f7e13b9a0012345602", UserEmail: "tom@example.com"},
		{ID: "p3", ContestID: "64a0c2f7e13b9a0012345601", UserEmail: "maria@example.com"},
	}
	return &fakeUserRepo{users: users}, &fakeParticipationRepo{parts: parts}
}

func TestGetLeaderboardComputesAndCaches(t *testing.T) {
	userRepo, partRepo := leaderboardFixtureRepos()
	cache := newFakeStatsCache()
	h := NewGetLeaderboardHandler(userRepo, partRepo, cache)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	assert.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "tom@example.com", result.Rows[0].Email)
	assert.Equal(t, 1, result.Rows[0].TotalWins)
	assert.Equal(t, "maria@example.com", result.Rows[1].Email)

	assert.Equal(t, 1, cache.setLeaderboardCalls)
	assert.Len(t, cache.leaderboard, 2)
}

func TestGetLeaderboardServedFromCache(t *testing.T) {
	userRepo, partRepo := leaderboardFixtureRepos()
	cache := newFakeStatsCache()
	cache.leaderboard = []stats.Row{
		{UserID: "u9", Email: "cached@example.com", Name: "Cached", TotalParticipations: 7, TotalWins: 4},
	}
	h := NewGetLeaderboardHandler(userRepo, partRepo, cache)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	assert.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, "cached@example.com", result.Rows[0].Email)
	assert.Equal(t, 0, cache.setLeaderboardCalls)
}

func TestGetLeaderboardEmptyCacheEntryIsMiss(t *testing.T) {
	userRepo, partRepo := leaderboardFixtureRepos()
	cache := newFakeStatsCache()
	cache.leaderboard = []stats.Row{}
	h := NewGetLeaderboardHandler(userRepo, partRepo, cache)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	assert.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Len(t, result.Rows, 2)
}

func TestGetLeaderboardWithoutCache(t *testing.T) {
	userRepo, partRepo := leaderboardFixtureRepos()
	h := NewGetLeaderboardHandler(userRepo, partRepo, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	assert.NoError(t, err)
	assert.Len(t, result.Rows, 2)
}

func TestGetLeaderboardEmptySystemDoesNotCache(t *testing.T) {
	cache := newFakeStatsCache()
	h := NewGetLeaderboardHandler(&fakeUserRepo{}, &fakeParticipationRepo{}, cache)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	assert.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, cache.setLeaderboardCalls)
}

func TestGetLeaderboardStorageFailure(t *testing.T) {
	userRepo := &fakeUserRepo{err: errors.New("topology closed")}
	_, partRepo := leaderboardFixtureRepos()
	h := NewGetLeaderboardHandler(userRepo, partRepo, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

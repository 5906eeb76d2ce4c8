package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
)

func winRateFixtureRepos() (*fakeContestRepo, *fakeParticipationRepo) {
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	contests := make([]*contest.Contest, 0, 4)
	for _, id := range []string{"64a0c2f7e13b9a0012345601", "64a0c2f7e13b9a0012345602", "64a0c2f7e13b9a0012345603", "64a0c2f7e13b9a0012345604"} {
		contests = append(contests, &contest.Contest{ID: id, Name: "c-" + id[22:], Due: due, Status: contest.StatusApproved})
	}

	parts := []*participation.Participation{
		{ID: "p1", ContestID: "64a0c2f7e13b9a0012345601", UserEmail: "tom@example.com", IsWinner: true},
		{ID: "p2", ContestID: "64a0c2f7e13b9a0012345602", UserEmail: "tom@example.com"},
	}

	return &fakeContestRepo{contests: contests}, &fakeParticipationRepo{parts: parts}
}

func TestGetWinRateComputesAndCaches(t *testing.T) {
	contestRepo, partRepo := winRateFixtureRepos()
	cache := newFakeStatsCache()
	h := NewGetWinRateHandler(contestRepo, partRepo, cache)

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "tom@example.com"})

	assert.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, result.Stats.TotalParticipations)
	assert.Equal(t, 1, result.Stats.TotalWins)
	assert.InDelta(t, 50.0, result.Stats.WinPercentage.Float64(), 0.001)

	assert.Equal(t, 1, cache.setWinRateCalls)
	assert.Equal(t, 2, cache.winRates["tom@example.com"].TotalParticipations)
}

func TestGetWinRateServedFromCache(t *testing.T) {
	contestRepo, partRepo := winRateFixtureRepos()
	cache := newFakeStatsCache()
	cache.winRates["tom@example.com"] = stats.WinRate{
		Email:               "tom@example.com",
		TotalParticipations: 5,
		TotalWins:           3,
		WinPercentage:       60,
	}
	h := NewGetWinRateHandler(contestRepo, partRepo, cache)

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "tom@example.com"})

	assert.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, 5, result.Stats.TotalParticipations)
	// Пересчёта и повторной записи в кеш не было.
	assert.Equal(t, 0, cache.setWinRateCalls)
}

func TestGetWinRateEmptyCacheEntryIsMiss(t *testing.T) {
	contestRepo, partRepo := winRateFixtureRepos()
	cache := newFakeStatsCache()
	// Нулевая запись в кеше не считается попаданием.
	cache.winRates["tom@example.com"] = stats.WinRate{Email: "tom@example.com"}
	h := NewGetWinRateHandler(contestRepo, partRepo, cache)

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "tom@example.com"})

	assert.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, result.Stats.TotalParticipations)
}

func TestGetWinRateWithoutCache(t *testing.T) {
	contestRepo, partRepo := winRateFixtureRepos()
	h := NewGetWinRateHandler(contestRepo, partRepo, nil)

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "tom@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Stats.TotalWins)
}

func TestGetWinRateNoParticipations(t *testing.T) {
	contestRepo, _ := winRateFixtureRepos()
	h := NewGetWinRateHandler(contestRepo, &fakeParticipationRepo{}, newFakeStatsCache())

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "nobody@example.com"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNoParticipations)
}

func TestGetWinRateInvalidEmail(t *testing.T) {
	contestRepo, partRepo := winRateFixtureRepos()
	h := NewGetWinRateHandler(contestRepo, partRepo, newFakeStatsCache())

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "not-an-email"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetWinRateStorageFailure(t *testing.T) {
	contestRepo, _ := winRateFixtureRepos()
	partRepo := &fakeParticipationRepo{err: errors.New("socket closed")}
	h := NewGetWinRateHandler(contestRepo, partRepo, nil)

	result, err := h.Handle(context.Background(), GetWinRateQuery{Email: "tom@example.com"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

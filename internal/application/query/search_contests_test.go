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
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

func searchFixtureRepos() (*fakeContestRepo, *fakeUserRepo, *fakeParticipationRepo) {
	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	contests := []*contest.Contest{
		{
			ID:           "64a0c2f7e13b9a0012345601",
			Name:         "Logo Design Sprint",
			Description:  "Design a fresh logo",
			Type:         "Graphics Design",
			Price:        50,
			PriceMoney:   500,
			Due:          due,
			Status:       contest.StatusApproved,
			CreatorEmail: "maria@example.com",
		},
		{
			ID:           "64a0c2f7e13b9a0012345602",
			Name:         "Essay Marathon",
			Description:  "Write about design thinking",
			Type:         "Article Writing",
			Price:        20,
			PriceMoney:   200,
			Due:          due,
			Status:       contest.StatusApproved,
			CreatorEmail: "maria@example.com",
		},
		{
			ID:           "64a0c2f7e13b9a0012345603",
			Name:         "Hidden Design Contest",
			Description:  "Not yet moderated",
			Type:         "Graphics Design",
			Due:          due,
			Status:       contest.StatusPending,
			CreatorEmail: "maria@example.com",
		},
	}

	users := []*user.User{
		{ID: "u1", Email: "maria@example.com", Name: "Maria", Role: user.RoleCreator},
		{ID: "u2", Email: "tom@example.com", Name: "Tom", Role: user.RoleUser},
	}

	parts := []*participation.Participation{
		{ID: "p1", ContestID: "64a0c2f7e13b9a0012345601", UserEmail: "tom@example.com"},
	}

	return &fakeContestRepo{contests: contests}, &fakeUserRepo{users: users}, &fakeParticipationRepo{parts: parts}
}

func TestSearchContestsEmptyKeywordReturnsNothing(t *testing.T) {
	contestRepo, userRepo, partRepo := searchFixtureRepos()
	h := NewSearchContestsHandler(contestRepo, userRepo, partRepo)

	result, err := h.Handle(context.Background(), SearchContestsQuery{Keyword: "   "})

	assert.NoError(t, err)
	assert.Empty(t, result.Contests)
	assert.Empty(t, result.Participants)
	assert.Equal(t, 0, result.TotalItems)
}

func TestSearchContestsMatchesApprovedOnly(t *testing.T) {
	contestRepo, userRepo, partRepo := searchFixtureRepos()
	h := NewSearchContestsHandler(contestRepo, userRepo, partRepo)

	// "design" совпадает со всеми тремя конкурсами, но pending скрыт.
	result, err := h.Handle(context.Background(), SearchContestsQuery{Keyword: "design"})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.TotalItems)
	assert.Len(t, result.Contests, 2)
	for _, c := range result.Contests {
		assert.NotEqual(t, "64a0c2f7e13b9a0012345603", c.ID)
	}
}

func TestSearchContestsCaseInsensitiveAcrossFields(t *testing.T) {
	contestRepo, userRepo, partRepo := searchFixtureRepos()
	h := NewSearchContestsHandler(contestRepo, userRepo, partRepo)

	// Совпадение по Type, а не по Name.
	result, err := h.Handle(context.Background(), SearchContestsQuery{Keyword: "ARTICLE"})

	assert.NoError(t, err)
	assert.Len(t, result.Contests, 1)
	assert.Equal(t, "Essay Marathon", result.Contests[0].Name)
}

func TestSearchContestsResolvesParticipants(t *testing.T) {
	contestRepo, userRepo, partRepo := searchFixtureRepos()
	h := NewSearchContestsHandler(contestRepo, userRepo, partRepo)

	result, err := h.Handle(context.Background(), SearchContestsQuery{Keyword: "Logo"})

	assert.NoError(t, err)
	assert.Len(t, result.Contests, 1)
	assert.Equal(t, 1, result.Contests[0].ParticipationsCount)

	participants := result.Participants["64a0c2f7e13b9a0012345601"]
	assert.Len(t, participants, 1)
	assert.Equal(t, "tom@example.com", participants[0].Email)
}

func TestSearchContestsNoMatchReturnsEmptyResult(t *testing.T) {
	contestRepo, userRepo, partRepo := searchFixtureRepos()
	h := NewSearchContestsHandler(contestRepo, userRepo, partRepo)

	result, err := h.Handle(context.Background(), SearchContestsQuery{Keyword: "blockchain"})

	assert.NoError(t, err)
	assert.Empty(t, result.Contests)
	assert.Empty(t, result.Participants)
}

func TestSearchContestsStorageFailure(t *testing.T) {
	contestRepo := &fakeContestRepo{err: errors.New("connection reset")}
	_, userRepo, partRepo := searchFixtureRepos()
	h := NewSearchContestsHandler(contestRepo, userRepo, partRepo)

	result, err := h.Handle(context.Background(), SearchContestsQuery{Keyword: "design"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

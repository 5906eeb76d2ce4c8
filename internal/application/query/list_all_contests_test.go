package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

func manyContests(n int) []*contest.Contest {
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*contest.Contest, 0, n)
	for i := 0; i < n; i++ {
		status := contest.StatusApproved
		if i%3 == 0 {
			status = contest.StatusPending
		}
		out = append(out, &contest.Contest{
			ID:           fmt.Sprintf("64a0c2f7e13b9a00123456%02d", i),
			Name:         fmt.Sprintf("Contest %02d", i),
			Type:         "Business Contest",
			Due:          due,
			Status:       status,
			CreatorEmail: "maria@example.com",
		})
	}
	return out
}

func TestListAllContestsFirstPage(t *testing.T) {
	repo := &fakeContestRepo{contests: manyContests(23)}
	h := NewListAllContestsHandler(repo)

	result, err := h.Handle(context.Background(), ListAllContestsQuery{Page: 1})

	assert.NoError(t, err)
	assert.Len(t, result.Contests, shared.PageSize)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 23, result.TotalItems)

	// Административный листинг показывает и неодобренные конкурсы.
	assert.Equal(t, string(contest.StatusPending), result.Contests[0].Status)
}

func TestListAllContestsLastPartialPage(t *testing.T) {
	repo := &fakeContestRepo{contests: manyContests(23)}
	h := NewListAllContestsHandler(repo)

	result, err := h.Handle(context.Background(), ListAllContestsQuery{Page: 3})

	assert.NoError(t, err)
	assert.Len(t, result.Contests, 3)
	assert.Equal(t, 3, result.Page)
	assert.Equal(t, 23, result.TotalItems)
}

func TestListAllContestsPagePastEndIsEmptyNotError(t *testing.T) {
	repo := &fakeContestRepo{contests: manyContests(5)}
	h := NewListAllContestsHandler(repo)

	result, err := h.Handle(context.Background(), ListAllContestsQuery{Page: 7})

	assert.NoError(t, err)
	assert.Empty(t, result.Contests)
	assert.Equal(t, 7, result.Page)
	assert.Equal(t, 5, result.TotalItems)
}

func TestListAllContestsNonPositivePageDefaultsToFirst(t *testing.T) {
	repo := &fakeContestRepo{contests: manyContests(12)}
	h := NewListAllContestsHandler(repo)

	result, err := h.Handle(context.Background(), ListAllContestsQuery{Page: -4})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Len(t, result.Contests, shared.PageSize)
}

func TestListAllContestsStorageFailure(t *testing.T) {
	repo := &fakeContestRepo{err: errors.New("no reachable servers")}
	h := NewListAllContestsHandler(repo)

	result, err := h.Handle(context.Background(), ListAllContestsQuery{Page: 1})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStorage)
}

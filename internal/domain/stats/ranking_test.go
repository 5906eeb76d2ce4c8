package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

func TestLeaderboard_SortsByWinsThenParticipations(t *testing.T) {
	users := []*user.User{
		{Email: "a@example.com", Name: "A", Role: user.RoleUser},
		{Email: "b@example.com", Name: "B", Role: user.RoleUser},
		{Email: "c@example.com", Name: "C", Role: user.RoleUser},
	}
	parts := []*participation.Participation{
		{UserEmail: "a@example.com"},
		{UserEmail: "a@example.com", IsWinner: true},
		{UserEmail: "b@example.com", IsWinner: true},
		{UserEmail: "c@example.com"},
		{UserEmail: "c@example.com"},
		{UserEmail: "c@example.com"},
	}

	rows := Leaderboard(users, parts)

	assert.Len(t, rows, 3)
	// A and B tie on wins; A has more participations.
	assert.Equal(t, "a@example.com", rows[0].Email)
	assert.Equal(t, "b@example.com", rows[1].Email)
	assert.Equal(t, "c@example.com", rows[2].Email)
	assert.Equal(t, 3, rows[2].TotalParticipations)
	assert.Equal(t, 0, rows[2].TotalWins)
}

func TestLeaderboard_ExcludesAdminsAndKeepsStableOrderOnTies(t *testing.T) {
	users := []*user.User{
		{Email: "admin@example.com", Name: "Admin", Role: user.RoleAdmin},
		{Email: "x@example.com", Name: "X", Role: user.RoleUser},
		{Email: "y@example.com", Name: "Y", Role: user.RoleUser},
	}

	rows := Leaderboard(users, nil)

	assert.Len(t, rows, 2)
	// Full tie (0/0): original user order survives.
	assert.Equal(t, "x@example.com", rows[0].Email)
	assert.Equal(t, "y@example.com", rows[1].Email)
}

func TestLeaderboard_OrphanParticipationsDoNotBreakRanking(t *testing.T) {
	users := []*user.User{
		{Email: "a@example.com", Name: "A", Role: user.RoleUser},
	}
	parts := []*participation.Participation{
		{UserEmail: "a@example.com", IsWinner: true},
		{UserEmail: "nobody@example.com", IsWinner: true}, // matches no user
	}

	rows := Leaderboard(users, parts)

	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TotalWins)
}

func TestComputeWinRate(t *testing.T) {
	parts := []*participation.Participation{
		{UserEmail: "a@example.com", IsWinner: true},
		{UserEmail: "a@example.com"},
		{UserEmail: "other@example.com", IsWinner: true}, // foreign row, ignored
	}

	wr, err := ComputeWinRate("a@example.com", parts, 8)
	assert.NoError(t, err)

	assert.Equal(t, 2, wr.TotalParticipations)
	assert.Equal(t, 1, wr.TotalWins)
	assert.InDelta(t, 50.0, wr.WinPercentage.Float64(), 0.001)
	assert.InDelta(t, 25.0, wr.AttemptedPercentage.Float64(), 0.001)
	assert.InDelta(t, 25.0, wr.DisplayRemainder.Float64(), 0.001)
}

func TestComputeWinRate_NoParticipationsIsAnError(t *testing.T) {
	_, err := ComputeWinRate("a@example.com", nil, 10)
	assert.ErrorIs(t, err, shared.ErrNoParticipations)

	// Foreign rows only: still no statistics for this email.
	_, err = ComputeWinRate("a@example.com", []*participation.Participation{
		{UserEmail: "other@example.com"},
	}, 10)
	assert.ErrorIs(t, err, shared.ErrNoParticipations)
}

func TestComputeWinRate_RemainderClampedAtZero(t *testing.T) {
	// 1 win out of 1 participation, 1 contest total: 100 + 100 > 100.
	wr, err := ComputeWinRate("a@example.com", []*participation.Participation{
		{UserEmail: "a@example.com", IsWinner: true},
	}, 1)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, wr.DisplayRemainder.Float64())
}

func TestTopCreators(t *testing.T) {
	users := []*user.User{
		{Email: "big@example.com", Name: "Big", Role: user.RoleCreator},
		{Email: "small@example.com", Name: "Small", Role: user.RoleCreator},
		{Email: "user@example.com", Name: "NotCreator", Role: user.RoleUser},
	}
	contests := map[string]string{
		"64a0c2f7e13b9a0012345601": "big@example.com",
		"64a0c2f7e13b9a0012345602": "small@example.com",
	}
	parts := []*participation.Participation{
		{ContestID: "64a0c2f7e13b9a0012345601"},
		{ContestID: "64A0C2F7E13B9A0012345601"}, // mixed case still joins
		{ContestID: "64a0c2f7e13b9a0012345602"},
		{ContestID: "64a0c2f7e13b9a00123456ff"}, // dangling reference, skipped
	}

	top := TopCreators(users, contests, parts, 10)

	assert.Len(t, top, 2)
	assert.Equal(t, "big@example.com", top[0].Email)
	assert.Equal(t, 2, top[0].TotalParticipants)
	assert.Equal(t, 1, top[1].TotalParticipants)
}

func TestTopCreators_LimitAndDefault(t *testing.T) {
	users := []*user.User{
		{Email: "c1@example.com", Role: user.RoleCreator},
		{Email: "c2@example.com", Role: user.RoleCreator},
		{Email: "c3@example.com", Role: user.RoleCreator},
		{Email: "c4@example.com", Role: user.RoleCreator},
	}

	top := TopCreators(users, nil, nil, 2)
	assert.Len(t, top, 2)

	// Non-positive limit falls back to the default.
	top = TopCreators(users, nil, nil, 0)
	assert.Len(t, top, DefaultTopCreatorsLimit)
}

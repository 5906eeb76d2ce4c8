package projections

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

func snapshotFixture() Snapshot {
	return Snapshot{
		Contests: []*contest.Contest{
			{ID: cid1, Name: "Logo Battle", CreatorEmail: "maker@example.com"},
			{ID: cid2, Name: "Essay Sprint", CreatorEmail: "gone@example.com"},
		},
		Users: []*user.User{
			{ID: "64a0c2f7e13b9a0012345620", Email: "maker@example.com", Name: "Maker", Role: user.RoleCreator},
			{ID: "64a0c2f7e13b9a0012345621", Email: "alice@example.com", Name: "Alice", Role: user.RoleUser},
		},
		Participations: []*participation.Participation{
			{ID: "64a0c2f7e13b9a0012345610", ContestID: cid1, UserEmail: "alice@example.com"},
			{ID: "64a0c2f7e13b9a0012345611", ContestID: cid1, UserEmail: "ghost@example.com"},
		},
	}
}

func TestBuildContestView_ResolvesCreatorAndParticipants(t *testing.T) {
	snap := snapshotFixture()
	idx := NewIndex(snap)

	view := BuildContestView(snap.Contests[0], idx)

	assert.NotNil(t, view.Creator)
	assert.Equal(t, "Maker", view.Creator.Name)
	assert.Len(t, view.Participations, 2)
	assert.Equal(t, 2, view.ParticipationsCount)

	// The ghost participation still counts but contributes no participant.
	assert.Len(t, view.Participants, 1)
	assert.Equal(t, "Alice", view.Participants[0].Name)
}

func TestBuildContestView_MissingCreatorKeepsRow(t *testing.T) {
	snap := snapshotFixture()
	idx := NewIndex(snap)

	view := BuildContestView(snap.Contests[1], idx)

	assert.Nil(t, view.Creator)
	assert.NotNil(t, view.Participations)
	assert.Empty(t, view.Participations)
	assert.Equal(t, 0, view.ParticipationsCount)
}

func TestBuildContestViews_PreservesOrder(t *testing.T) {
	snap := snapshotFixture()
	idx := NewIndex(snap)

	views := BuildContestViews(snap.Contests, idx)

	assert.Len(t, views, 2)
	assert.Equal(t, "Logo Battle", views[0].Contest.Name)
	assert.Equal(t, "Essay Sprint", views[1].Contest.Name)
}

func TestBuildParticipationViews_OrphansSurfaceWithNilContest(t *testing.T) {
	snap := snapshotFixture()
	snap.Participations = append(snap.Participations, &participation.Participation{
		ID:        "64a0c2f7e13b9a0012345612",
		ContestID: "64a0c2f7e13b9a00123456ff", // no such contest
		UserEmail: "alice@example.com",
	})
	idx := NewIndex(snap)

	views := BuildParticipationViews(snap.Participations, idx)
	assert.Len(t, views, 3)

	orphan := views[2]
	assert.Nil(t, orphan.Contest)
	assert.NotNil(t, orphan.User)

	resolved := ResolvedOnly(views)
	assert.Len(t, resolved, 2)
}

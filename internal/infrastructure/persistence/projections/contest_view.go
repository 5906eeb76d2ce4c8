package projections

import (
	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST VIEW - Denormalized Read Model
// ══════════════════════════════════════════════════════════════════════════════

// ContestView is a contest enriched with everything the read side needs:
// the resolved creator, the contest's participations, and the participant
// user records for display.
//
// All three enrichments are left joins. A missing creator leaves Creator
// nil; a contest nobody entered carries an empty participation list. The
// primary row is never dropped because a weak reference dangles.
type ContestView struct {
	Contest *contest.Contest `json:"contest"`

	// Creator is the resolved creator_email -> user record; nil when the
	// creator was deleted or never existed.
	Creator *user.User `json:"creator"`

	// Participations are the contest's participation rows, in storage order.
	Participations []*participation.Participation `json:"participations"`

	// Participants are the resolved user records of the participations.
	// A participation whose user_email matches nobody contributes no entry
	// here but still counts in ParticipationsCount.
	Participants []*user.User `json:"participants"`

	// ParticipationsCount equals len(Participations) by construction; the
	// count is derived per request and never stored, so it cannot drift.
	ParticipationsCount int `json:"participationsCount"`
}

// BuildContestViews assembles views for the given contests, preserving
// their iteration order. The secondary collections are consumed fully per
// contest; no pagination happens inside a join.
func BuildContestViews(contests []*contest.Contest, idx *Index) []*ContestView {
	views := make([]*ContestView, 0, len(contests))
	for _, c := range contests {
		views = append(views, buildContestView(c, idx))
	}
	return views
}

// BuildContestView assembles a single contest view.
func BuildContestView(c *contest.Contest, idx *Index) *ContestView {
	return buildContestView(c, idx)
}

func buildContestView(c *contest.Contest, idx *Index) *ContestView {
	parts := idx.ParticipationsByContest(c.ID)

	participants := make([]*user.User, 0, len(parts))
	for _, p := range parts {
		if u := idx.UserByEmail(p.UserEmail); u != nil {
			participants = append(participants, u)
		}
	}

	if parts == nil {
		parts = []*participation.Participation{}
	}

	return &ContestView{
		Contest:             c,
		Creator:             idx.UserByEmail(c.CreatorEmail),
		Participations:      parts,
		Participants:        participants,
		ParticipationsCount: len(parts),
	}
}

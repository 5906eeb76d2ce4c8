package projections

import (
	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARTICIPATION VIEW - joins from the participation side
// ══════════════════════════════════════════════════════════════════════════════

// ParticipationView is a participation enriched with its contest and user.
// Both joins are left joins: an orphaned participation (contest deleted,
// or its contestId never resolved) still surfaces with Contest nil, and a
// participation whose user record vanished surfaces with User nil.
type ParticipationView struct {
	Participation *participation.Participation `json:"participation"`

	// Contest is the resolved contest; nil for orphaned participations.
	Contest *contest.Contest `json:"contest"`

	// User is the resolved participant; nil when the email matches nobody.
	User *user.User `json:"user"`
}

// BuildParticipationViews assembles views for the given participations,
// preserving their iteration order.
func BuildParticipationViews(parts []*participation.Participation, idx *Index) []*ParticipationView {
	views := make([]*ParticipationView, 0, len(parts))
	for _, p := range parts {
		views = append(views, &ParticipationView{
			Participation: p,
			Contest:       idx.ContestByID(p.ContestID),
			User:          idx.UserByEmail(p.UserEmail),
		})
	}
	return views
}

// ResolvedOnly filters views down to those whose contest resolved. Used by
// listings that must defensively skip participations referencing a contest
// that no longer exists.
func ResolvedOnly(views []*ParticipationView) []*ParticipationView {
	out := make([]*ParticipationView, 0, len(views))
	for _, v := range views {
		if v.Contest != nil {
			out = append(out, v)
		}
	}
	return out
}

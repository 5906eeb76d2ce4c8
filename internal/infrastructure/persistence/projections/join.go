// Package projections implements read models for the CQRS read side.
// Projections reconstruct relational views over the three independent
// collections (contests, users, participations) that share no enforced
// foreign keys. Every join here is a left-outer merge over in-memory maps
// keyed by a canonical natural key: the hex string form of an id, or the
// exact (case-sensitive) email.
package projections

import (
	"strings"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is a point-in-time copy of the three collections. All view
// builders are pure functions of a snapshot, which keeps them trivially
// testable and free of hidden storage round-trips.
type Snapshot struct {
	Contests       []*contest.Contest
	Users          []*user.User
	Participations []*participation.Participation
}

// ══════════════════════════════════════════════════════════════════════════════
// KEY NORMALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// NormalizeID reduces any id representation to the canonical comparison
// form. Participation.ContestID is a plain string while Contest.ID comes
// from a native ObjectID; comparing raw values would silently miss joins,
// so both sides pass through here first.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ══════════════════════════════════════════════════════════════════════════════
// INDEXES
// ══════════════════════════════════════════════════════════════════════════════

// Index holds the lookup maps shared by all view builders. Building it is
// O(n) over the snapshot; every subsequent join lookup is O(1).
type Index struct {
	usersByEmail        map[string]*user.User
	contestsByID        map[string]*contest.Contest
	participationsByCID map[string][]*participation.Participation
	participationsByEml map[string][]*participation.Participation
}

// NewIndex builds lookup maps from a snapshot.
//
// Secondary-side duplicates are handled the way the store would resolve
// them: for unique-by-convention keys (user email) the first record wins;
// for one-to-many keys the records accumulate in iteration order.
func NewIndex(snap Snapshot) *Index {
	idx := &Index{
		usersByEmail:        make(map[string]*user.User, len(snap.Users)),
		contestsByID:        make(map[string]*contest.Contest, len(snap.Contests)),
		participationsByCID: make(map[string][]*participation.Participation, len(snap.Contests)),
		participationsByEml: make(map[string][]*participation.Participation),
	}

	for _, u := range snap.Users {
		if _, taken := idx.usersByEmail[u.Email]; !taken {
			idx.usersByEmail[u.Email] = u
		}
	}
	for _, c := range snap.Contests {
		idx.contestsByID[NormalizeID(c.ID)] = c
	}
	for _, p := range snap.Participations {
		cid := NormalizeID(p.ContestID)
		idx.participationsByCID[cid] = append(idx.participationsByCID[cid], p)
		idx.participationsByEml[p.UserEmail] = append(idx.participationsByEml[p.UserEmail], p)
	}

	return idx
}

// UserByEmail resolves a user by email; nil when absent.
func (idx *Index) UserByEmail(email string) *user.User {
	return idx.usersByEmail[email]
}

// ContestByID resolves a contest by canonical id; nil when absent.
func (idx *Index) ContestByID(id string) *contest.Contest {
	return idx.contestsByID[NormalizeID(id)]
}

// ParticipationsByContest returns the participations joined to a contest.
// Zero matches yields an empty slice, never an error: a contest nobody
// entered is a perfectly valid row.
func (idx *Index) ParticipationsByContest(contestID string) []*participation.Participation {
	return idx.participationsByCID[NormalizeID(contestID)]
}

// ParticipationsByUser returns a user's participations in storage order.
func (idx *Index) ParticipationsByUser(email string) []*participation.Participation {
	return idx.participationsByEml[email]
}

// CreatorEmailsByContest returns the contestID -> creator email map used
// by the top-creators aggregation.
func (idx *Index) CreatorEmailsByContest() map[string]string {
	m := make(map[string]string, len(idx.contestsByID))
	for id, c := range idx.contestsByID {
		m[id] = c.CreatorEmail
	}
	return m
}

package query

import (
	"context"
	"sort"
	"strings"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory repository fakes. They reproduce the store's semantics where the
// handlers depend on them: slices preserve insertion order, id comparison is
// canonical, email comparison is exact.
// ──────────────────────────────────────────────────────────────────────────────

type fakeContestRepo struct {
	contests []*contest.Contest
	err      error
}

func (f *fakeContestRepo) FindByID(_ context.Context, id string) (*contest.Contest, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.contests {
		if strings.EqualFold(c.ID, strings.TrimSpace(id)) {
			return c, nil
		}
	}
	return nil, shared.ErrContestNotFound
}

func (f *fakeContestRepo) Find(_ context.Context, filter contest.Filter) ([]*contest.Contest, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*contest.Contest, 0, len(f.contests))
	for _, c := range f.contests {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.CreatorEmail != "" && c.CreatorEmail != filter.CreatorEmail {
			continue
		}
		out = append(out, c)
	}
	// Контракт Repository.Find: дедлайн по убыванию.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Due.After(out[j].Due)
	})
	return out, nil
}

func (f *fakeContestRepo) FindPage(ctx context.Context, filter contest.Filter, skip, limit int) ([]*contest.Contest, int, error) {
	all, err := f.Find(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (f *fakeContestRepo) FindPageWithCounts(ctx context.Context, filter contest.Filter, skip, limit int) ([]*contest.WithCount, int, error) {
	page, total, err := f.FindPage(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*contest.WithCount, 0, len(page))
	for _, c := range page {
		out = append(out, &contest.WithCount{Contest: c, ParticipationsCount: 0})
	}
	return out, total, nil
}

func (f *fakeContestRepo) Insert(_ context.Context, c *contest.Contest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.contests = append(f.contests, c)
	return c.ID, nil
}

func (f *fakeContestRepo) Upsert(_ context.Context, id string, c *contest.Contest) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i, existing := range f.contests {
		if existing.ID == id {
			f.contests[i] = c
			return 1, nil
		}
	}
	f.contests = append(f.contests, c)
	return 0, nil
}

func (f *fakeContestRepo) Count(_ context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.contests), nil
}

type fakeUserRepo struct {
	users []*user.User
	err   error
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUserRepo) Insert(_ context.Context, u *user.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.users = append(f.users, u)
	return u.ID, nil
}

func (f *fakeUserRepo) UpsertByID(_ context.Context, id string, u *user.User) (int64, error) {
	for i, existing := range f.users {
		if existing.ID == id {
			f.users[i] = u
			return 1, nil
		}
	}
	f.users = append(f.users, u)
	return 0, nil
}

func (f *fakeUserRepo) UpsertByEmail(_ context.Context, email string, u *user.User) (int64, error) {
	for i, existing := range f.users {
		if existing.Email == email {
			f.users[i] = u
			return 1, nil
		}
	}
	f.users = append(f.users, u)
	return 0, nil
}

type fakeParticipationRepo struct {
	parts []*participation.Participation
	err   error
}

func (f *fakeParticipationRepo) FindByID(_ context.Context, id string) (*participation.Participation, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.parts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrParticipationNotFound
}

func (f *fakeParticipationRepo) FindByContest(_ context.Context, contestID string) ([]*participation.Participation, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*participation.Participation{}
	for _, p := range f.parts {
		if p.ContestID == contestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipationRepo) FindByUser(_ context.Context, userEmail string) ([]*participation.Participation, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*participation.Participation{}
	for _, p := range f.parts {
		if p.UserEmail == userEmail {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipationRepo) FindAll(_ context.Context) ([]*participation.Participation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.parts, nil
}

func (f *fakeParticipationRepo) CountByContest(ctx context.Context, contestID string) (int, error) {
	out, err := f.FindByContest(ctx, contestID)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (f *fakeParticipationRepo) Insert(_ context.Context, p *participation.Participation) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.parts = append(f.parts, p)
	return p.ID, nil
}

func (f *fakeParticipationRepo) Update(_ context.Context, id string, p *participation.Participation) error {
	if f.err != nil {
		return f.err
	}
	for i, existing := range f.parts {
		if existing.ID == id {
			f.parts[i] = p
			return nil
		}
	}
	return shared.ErrParticipationNotFound
}

func (f *fakeParticipationRepo) FindPendingOlderThan(_ context.Context, cutoffID string) ([]*participation.Participation, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*participation.Participation{}
	for _, p := range f.parts {
		if !p.IsPaid() && p.ID < cutoffID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Stats cache fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeStatsCache struct {
	leaderboard []stats.Row
	topCreators []stats.TopCreator
	winRates    map[string]stats.WinRate

	setLeaderboardCalls int
	setWinRateCalls     int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{winRates: make(map[string]stats.WinRate)}
}

func (f *fakeStatsCache) GetLeaderboard(context.Context) ([]stats.Row, error) {
	return f.leaderboard, nil
}

func (f *fakeStatsCache) SetLeaderboard(_ context.Context, rows []stats.Row) error {
	f.leaderboard = rows
	f.setLeaderboardCalls++
	return nil
}

func (f *fakeStatsCache) GetTopCreators(context.Context) ([]stats.TopCreator, error) {
	return f.topCreators, nil
}

func (f *fakeStatsCache) SetTopCreators(_ context.Context, rows []stats.TopCreator) error {
	f.topCreators = rows
	return nil
}

func (f *fakeStatsCache) GetWinRate(_ context.Context, email string) (stats.WinRate, error) {
	return f.winRates[email], nil
}

func (f *fakeStatsCache) SetWinRate(_ context.Context, email string, wr stats.WinRate) error {
	f.winRates[email] = wr
	f.setWinRateCalls++
	return nil
}

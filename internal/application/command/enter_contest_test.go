package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

type memoryContestRepo struct {
	contests []*contest.Contest
}

func (m *memoryContestRepo) FindByID(_ context.Context, id string) (*contest.Contest, error) {
	for _, c := range m.contests {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrContestNotFound
}

func (m *memoryContestRepo) Find(_ context.Context, filter contest.Filter) ([]*contest.Contest, error) {
	return m.contests, nil
}

func (m *memoryContestRepo) FindPage(_ context.Context, _ contest.Filter, _, _ int) ([]*contest.Contest, int, error) {
	return m.contests, len(m.contests), nil
}

func (m *memoryContestRepo) FindPageWithCounts(_ context.Context, _ contest.Filter, _, _ int) ([]*contest.WithCount, int, error) {
	return nil, 0, nil
}

func (m *memoryContestRepo) Insert(_ context.Context, c *contest.Contest) (string, error) {
	m.contests = append(m.contests, c)
	return c.ID, nil
}

func (m *memoryContestRepo) Upsert(_ context.Context, id string, c *contest.Contest) (int64, error) {
	for i, existing := range m.contests {
		if existing.ID == id {
			m.contests[i] = c
			return 1, nil
		}
	}
	m.contests = append(m.contests, c)
	return 0, nil
}

func (m *memoryContestRepo) Count(_ context.Context) (int, error) {
	return len(m.contests), nil
}

type memoryParticipationRepo struct {
	parts  []*participation.Participation
	nextID int
}

func (m *memoryParticipationRepo) FindByID(_ context.Context, id string) (*participation.Participation, error) {
	for _, p := range m.parts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrParticipationNotFound
}

func (m *memoryParticipationRepo) FindByContest(_ context.Context, contestID string) ([]*participation.Participation, error) {
	out := []*participation.Participation{}
	for _, p := range m.parts {
		if p.ContestID == contestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryParticipationRepo) FindByUser(_ context.Context, userEmail string) ([]*participation.Participation, error) {
	out := []*participation.Participation{}
	for _, p := range m.parts {
		if p.UserEmail == userEmail {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryParticipationRepo) FindAll(_ context.Context) ([]*participation.Participation, error) {
	return m.parts, nil
}

func (m *memoryParticipationRepo) CountByContest(ctx context.Context, contestID string) (int, error) {
	out, err := m.FindByContest(ctx, contestID)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

func (m *memoryParticipationRepo) Insert(_ context.Context, p *participation.Participation) (string, error) {
	m.nextID++
	p.ID = "p" + string(rune('0'+m.nextID))
	m.parts = append(m.parts, p)
	return p.ID, nil
}

func (m *memoryParticipationRepo) Update(_ context.Context, id string, p *participation.Participation) error {
	for i, existing := range m.parts {
		if existing.ID == id {
			m.parts[i] = p
			return nil
		}
	}
	return shared.ErrParticipationNotFound
}

func (m *memoryParticipationRepo) FindPendingOlderThan(_ context.Context, cutoffID string) ([]*participation.Participation, error) {
	return nil, nil
}

const enterContestID = "64a0c2f7e13b9a0012345801"

func openContest(price, priceMoney int) *contest.Contest {
	return &contest.Contest{
		ID:           enterContestID,
		Name:         "Logo Design Sprint",
		Description:  "Design a fresh logo",
		Type:         "Graphics Design",
		Price:        price,
		PriceMoney:   priceMoney,
		Due:          time.Now().Add(48 * time.Hour),
		Status:       contest.StatusApproved,
		CreatorEmail: "maria@example.com",
	}
}

func TestEnterContestChargesEntryFeeNotPrizeFund(t *testing.T) {
	contestRepo := &memoryContestRepo{contests: []*contest.Contest{openContest(50, 500)}}
	partRepo := &memoryParticipationRepo{}
	h := NewEnterContestHandler(contestRepo, partRepo, nil)

	result, err := h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.ParticipationID)
	// Price is what entering costs; PriceMoney is the prize pool.
	assert.Equal(t, 50, result.EntryFee)
	assert.Len(t, partRepo.parts, 1)
	assert.Equal(t, participation.PaymentPending, partRepo.parts[0].PaymentStatus)
}

func TestEnterContestFreeContestOwesNothing(t *testing.T) {
	contestRepo := &memoryContestRepo{contests: []*contest.Contest{openContest(0, 500)}}
	h := NewEnterContestHandler(contestRepo, &memoryParticipationRepo{}, nil)

	result, err := h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.EntryFee)
}

func TestEnterContestPublishesParticipationCreated(t *testing.T) {
	contestRepo := &memoryContestRepo{contests: []*contest.Contest{openContest(50, 500)}}
	pub := &recordingPublisher{}
	h := NewEnterContestHandler(contestRepo, &memoryParticipationRepo{}, pub)

	result, err := h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})

	assert.NoError(t, err)
	assert.Len(t, pub.events, 1)
	assert.Equal(t, shared.EventParticipationCreated, pub.events[0].EventType())
	assert.Len(t, result.Events, 1)
}

func TestEnterContestRejectsDoubleEntry(t *testing.T) {
	contestRepo := &memoryContestRepo{contests: []*contest.Contest{openContest(50, 500)}}
	partRepo := &memoryParticipationRepo{}
	h := NewEnterContestHandler(contestRepo, partRepo, nil)

	_, err := h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})
	assert.NoError(t, err)

	_, err = h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.Len(t, partRepo.parts, 1)
}

func TestEnterContestRejectsUnapprovedAndClosed(t *testing.T) {
	pending := openContest(50, 500)
	pending.Status = contest.StatusPending
	contestRepo := &memoryContestRepo{contests: []*contest.Contest{pending}}
	h := NewEnterContestHandler(contestRepo, &memoryParticipationRepo{}, nil)

	_, err := h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})
	assert.ErrorIs(t, err, shared.ErrContestNotApproved)

	closed := openContest(50, 500)
	closed.Due = time.Now().Add(-time.Hour)
	contestRepo.contests = []*contest.Contest{closed}

	_, err = h.Handle(context.Background(), EnterContestCommand{
		ContestID: enterContestID,
		UserEmail: "tom@example.com",
	})
	assert.ErrorIs(t, err, shared.ErrContestDuePassed)
}

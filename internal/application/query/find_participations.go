package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/projections"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND PARTICIPATIONS QUERIES
// Листинги со стороны участия: участия пользователя с присоединёнными
// конкурсами и конкурсы создателя со счётчиками участий.
// ══════════════════════════════════════════════════════════════════════════════

// GetParticipationsByUserQuery содержит параметры листинга участий.
type GetParticipationsByUserQuery struct {
	// Email - email участника (точное совпадение, с учётом регистра).
	Email string
}

// Validate проверяет корректность параметров запроса.
func (q *GetParticipationsByUserQuery) Validate() error {
	if _, err := shared.NewEmail(q.Email); err != nil {
		return err
	}
	return nil
}

// ParticipationWithContestDTO - участие с присоединённым конкурсом.
// Contest равен nil для осиротевших участий: они не отбрасываются.
type ParticipationWithContestDTO struct {
	Participation ParticipationDTO `json:"participation"`
	Contest       *ContestDTO      `json:"contest"`
}

// GetParticipationsByUserResult содержит участия пользователя.
type GetParticipationsByUserResult struct {
	// Participations - участия в порядке хранения.
	Participations []ParticipationWithContestDTO `json:"participations"`

	// TotalItems - количество участий.
	TotalItems int `json:"totalItems"`
}

// GetParticipationsByUserHandler обрабатывает листинг участий пользователя.
type GetParticipationsByUserHandler struct {
	contestRepo       contest.Repository
	participationRepo participation.Repository
}

// NewGetParticipationsByUserHandler создаёт новый обработчик.
func NewGetParticipationsByUserHandler(
	contestRepo contest.Repository,
	participationRepo participation.Repository,
) *GetParticipationsByUserHandler {
	return &GetParticipationsByUserHandler{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
	}
}

// Handle выполняет листинг участий пользователя.
func (h *GetParticipationsByUserHandler) Handle(ctx context.Context, query GetParticipationsByUserQuery) (*GetParticipationsByUserResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetParticipationsByUser", shared.ErrValidation, "invalid email", err)
	}

	parts, err := h.participationRepo.FindByUser(ctx, query.Email)
	if err != nil {
		return nil, shared.WrapError("query", "GetParticipationsByUser", shared.ErrStorage, "failed to load participations", err)
	}

	contests, err := h.contestRepo.Find(ctx, contest.Filter{})
	if err != nil {
		return nil, shared.WrapError("query", "GetParticipationsByUser", shared.ErrStorage, "failed to load contests", err)
	}

	idx := projections.NewIndex(projections.Snapshot{Contests: contests})
	views := projections.BuildParticipationViews(parts, idx)

	result := &GetParticipationsByUserResult{
		Participations: make([]ParticipationWithContestDTO, 0, len(views)),
		TotalItems:     len(views),
	}
	for _, view := range views {
		item := ParticipationWithContestDTO{
			Participation: participationToDTO(view.Participation),
		}
		if view.Contest != nil {
			dto := contestToDTO(view.Contest)
			item.Contest = &dto
		}
		result.Participations = append(result.Participations, item)
	}

	return result, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Contests by creator
// ──────────────────────────────────────────────────────────────────────────────

// GetContestsByCreatorQuery содержит параметры листинга конкурсов создателя.
// В отличие от ListMyContests - без пагинации, полный список.
type GetContestsByCreatorQuery struct {
	// Email - email создателя (точное совпадение, с учётом регистра).
	Email string
}

// Validate проверяет корректность параметров запроса.
func (q *GetContestsByCreatorQuery) Validate() error {
	if _, err := shared.NewEmail(q.Email); err != nil {
		return err
	}
	return nil
}

// GetContestsByCreatorResult содержит конкурсы создателя.
type GetContestsByCreatorResult struct {
	// Contests - конкурсы в порядке убывания дедлайна со счётчиками участий.
	Contests []ContestDTO `json:"contests"`

	// TotalItems - количество конкурсов.
	TotalItems int `json:"totalItems"`
}

// GetContestsByCreatorHandler обрабатывает листинг конкурсов создателя.
type GetContestsByCreatorHandler struct {
	contestRepo       contest.Repository
	participationRepo participation.Repository
}

// NewGetContestsByCreatorHandler создаёт новый обработчик.
func NewGetContestsByCreatorHandler(
	contestRepo contest.Repository,
	participationRepo participation.Repository,
) *GetContestsByCreatorHandler {
	return &GetContestsByCreatorHandler{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
	}
}

// Handle выполняет листинг конкурсов создателя.
func (h *GetContestsByCreatorHandler) Handle(ctx context.Context, query GetContestsByCreatorQuery) (*GetContestsByCreatorResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetContestsByCreator", shared.ErrValidation, "invalid email", err)
	}

	contests, err := h.contestRepo.Find(ctx, contest.Filter{CreatorEmail: query.Email})
	if err != nil {
		return nil, shared.WrapError("query", "GetContestsByCreator", shared.ErrStorage, "failed to load contests", err)
	}

	parts, err := h.participationRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetContestsByCreator", shared.ErrStorage, "failed to load participations", err)
	}

	idx := projections.NewIndex(projections.Snapshot{
		Contests:       contests,
		Participations: parts,
	})

	result := &GetContestsByCreatorResult{
		Contests:   make([]ContestDTO, 0, len(contests)),
		TotalItems: len(contests),
	}
	for _, c := range contests {
		dto := contestToDTO(c)
		dto.ParticipationsCount = len(idx.ParticipationsByContest(c.ID))
		result.Contests = append(result.Contests, dto)
	}

	return result, nil
}

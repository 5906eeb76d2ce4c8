package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/projections"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CONTEST QUERY
// Возвращает один конкурс с полной карточкой: создатель, участия и участники.
// Отсутствующий создатель или участники не являются ошибкой - left join.
// ══════════════════════════════════════════════════════════════════════════════

// GetContestQuery содержит параметры запроса карточки конкурса.
type GetContestQuery struct {
	// ID - канонический id конкурса (24-символьный hex).
	ID string
}

// Validate проверяет корректность параметров запроса.
func (q *GetContestQuery) Validate() error {
	if _, err := shared.NewCanonicalID(q.ID); err != nil {
		return err
	}
	return nil
}

// GetContestResult содержит карточку конкурса.
type GetContestResult struct {
	// Contest - сам конкурс с количеством участий.
	Contest ContestDTO `json:"contest"`

	// Creator - создатель конкурса; nil, если пользователь с таким
	// email отсутствует (конкурс при этом всё равно возвращается).
	Creator *UserDTO `json:"creator"`

	// Participations - участия конкурса в порядке хранения.
	Participations []ParticipationDTO `json:"participations"`

	// Participants - распознанные участники (без дубликатов, в порядке
	// появления; участия без зарегистрированного пользователя пропускаются).
	Participants []UserDTO `json:"participants"`
}

// GetContestHandler обрабатывает запросы карточки конкурса.
type GetContestHandler struct {
	contestRepo       contest.Repository
	userRepo          user.Repository
	participationRepo participation.Repository
}

// NewGetContestHandler создаёт новый обработчик карточки конкурса.
func NewGetContestHandler(
	contestRepo contest.Repository,
	userRepo user.Repository,
	participationRepo participation.Repository,
) *GetContestHandler {
	return &GetContestHandler{
		contestRepo:       contestRepo,
		userRepo:          userRepo,
		participationRepo: participationRepo,
	}
}

// Handle выполняет запрос карточки конкурса.
func (h *GetContestHandler) Handle(ctx context.Context, query GetContestQuery) (*GetContestResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetContest", shared.ErrValidation, "invalid contest id", err)
	}

	c, err := h.contestRepo.FindByID(ctx, query.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("query", "GetContest", shared.ErrStorage, "failed to load contest", err)
	}

	parts, err := h.participationRepo.FindByContest(ctx, c.ID)
	if err != nil {
		return nil, shared.WrapError("query", "GetContest", shared.ErrStorage, "failed to load participations", err)
	}

	users, err := h.userRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetContest", shared.ErrStorage, "failed to load users", err)
	}

	idx := projections.NewIndex(projections.Snapshot{
		Contests:       []*contest.Contest{c},
		Users:          users,
		Participations: parts,
	})
	view := projections.BuildContestView(c, idx)

	result := &GetContestResult{
		Contest:        contestToDTO(c),
		Participations: make([]ParticipationDTO, 0, len(view.Participations)),
		Participants:   make([]UserDTO, 0, len(view.Participants)),
	}
	result.Contest.ParticipationsCount = view.ParticipationsCount

	if view.Creator != nil {
		creator := userToDTO(view.Creator)
		result.Creator = &creator
	}
	for _, p := range view.Participations {
		result.Participations = append(result.Participations, participationToDTO(p))
	}
	for _, u := range view.Participants {
		result.Participants = append(result.Participants, userToDTO(u))
	}

	return result, nil
}

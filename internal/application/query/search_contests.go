package query

import (
	"context"
	"strings"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/projections"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH CONTESTS QUERY
// Поиск по ключевому слову среди одобренных конкурсов.
// Контракт "нет запроса - нет результатов": пустое ключевое слово возвращает
// пустой список, а не все конкурсы.
// ══════════════════════════════════════════════════════════════════════════════

// SearchContestsQuery содержит параметры поиска.
type SearchContestsQuery struct {
	// Keyword - ключевое слово; подстрочное совпадение без учёта регистра
	// по типу, названию и описанию конкурса (OR по полям).
	Keyword string
}

// SearchContestsResult содержит результат поиска.
type SearchContestsResult struct {
	// Contests - совпавшие конкурсы в порядке убывания дедлайна,
	// обогащённые счётчиками участий.
	Contests []ContestDTO `json:"contests"`

	// Participants - участники совпавших конкурсов по id конкурса.
	Participants map[string][]UserDTO `json:"participants"`

	// TotalItems - количество совпадений.
	TotalItems int `json:"totalItems"`
}

// SearchContestsHandler обрабатывает поисковые запросы.
type SearchContestsHandler struct {
	contestRepo       contest.Repository
	userRepo          user.Repository
	participationRepo participation.Repository
}

// NewSearchContestsHandler создаёт новый обработчик поиска.
func NewSearchContestsHandler(
	contestRepo contest.Repository,
	userRepo user.Repository,
	participationRepo participation.Repository,
) *SearchContestsHandler {
	return &SearchContestsHandler{
		contestRepo:       contestRepo,
		userRepo:          userRepo,
		participationRepo: participationRepo,
	}
}

// Handle выполняет поиск конкурсов.
func (h *SearchContestsHandler) Handle(ctx context.Context, query SearchContestsQuery) (*SearchContestsResult, error) {
	keyword := strings.TrimSpace(query.Keyword)
	if keyword == "" {
		return &SearchContestsResult{
			Contests:     []ContestDTO{},
			Participants: map[string][]UserDTO{},
		}, nil
	}

	// Поиску видны только одобренные конкурсы.
	contests, err := h.contestRepo.Find(ctx, contest.Filter{Status: contest.StatusApproved})
	if err != nil {
		return nil, shared.WrapError("query", "SearchContests", shared.ErrStorage, "failed to load contests", err)
	}

	matched := make([]*contest.Contest, 0, len(contests))
	for _, c := range contests {
		if c.MatchesKeyword(keyword) {
			matched = append(matched, c)
		}
	}

	if len(matched) == 0 {
		return &SearchContestsResult{
			Contests:     []ContestDTO{},
			Participants: map[string][]UserDTO{},
		}, nil
	}

	parts, err := h.participationRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "SearchContests", shared.ErrStorage, "failed to load participations", err)
	}
	users, err := h.userRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "SearchContests", shared.ErrStorage, "failed to load users", err)
	}

	idx := projections.NewIndex(projections.Snapshot{
		Contests:       matched,
		Users:          users,
		Participations: parts,
	})
	views := projections.BuildContestViews(matched, idx)

	result := &SearchContestsResult{
		Contests:     make([]ContestDTO, 0, len(views)),
		Participants: make(map[string][]UserDTO, len(views)),
		TotalItems:   len(views),
	}
	for _, view := range views {
		dto := contestToDTO(view.Contest)
		dto.ParticipationsCount = view.ParticipationsCount
		result.Contests = append(result.Contests, dto)

		participants := make([]UserDTO, 0, len(view.Participants))
		for _, u := range view.Participants {
			participants = append(participants, userToDTO(u))
		}
		result.Participants[view.Contest.ID] = participants
	}

	return result, nil
}

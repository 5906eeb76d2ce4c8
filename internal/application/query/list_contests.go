// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/projections"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CONTESTS QUERY
// Возвращает конкурсы по статусу модерации, обогащённые количеством участий.
// Конкурсы с отсутствующим создателем не отбрасываются.
// ══════════════════════════════════════════════════════════════════════════════

// ListContestsQuery содержит параметры листинга конкурсов.
type ListContestsQuery struct {
	// Status - фильтр по статусу модерации (пустой = все статусы).
	Status string
}

// Validate проверяет корректность параметров запроса.
func (q *ListContestsQuery) Validate() error {
	if q.Status == "" {
		return nil
	}
	if _, err := contest.ParseStatus(q.Status); err != nil {
		return err
	}
	return nil
}

// ContestDTO - конкурс в том виде, в котором его отдаёт read-слой.
type ContestDTO struct {
	ID                  string `json:"_id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Image               string `json:"image"`
	Price               int    `json:"price"`
	PriceMoney          int    `json:"priceMoney"`
	Type                string `json:"type"`
	Instruction         string `json:"instruction"`
	Due                 string `json:"due"`
	Status              string `json:"status"`
	CreatorEmail        string `json:"creator_email"`
	Comment             string `json:"comment,omitempty"`
	ParticipationsCount int    `json:"participationsCount"`
}

// ListContestsResult содержит результат листинга.
type ListContestsResult struct {
	// Contests - конкурсы в порядке убывания дедлайна.
	Contests []ContestDTO `json:"contests"`

	// TotalItems - общее количество совпадений.
	TotalItems int `json:"totalItems"`
}

// ListContestsHandler обрабатывает запросы листинга конкурсов.
type ListContestsHandler struct {
	contestRepo       contest.Repository
	participationRepo participation.Repository
}

// NewListContestsHandler создаёт новый обработчик листинга конкурсов.
func NewListContestsHandler(
	contestRepo contest.Repository,
	participationRepo participation.Repository,
) *ListContestsHandler {
	return &ListContestsHandler{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
	}
}

// Handle выполняет запрос листинга конкурсов.
func (h *ListContestsHandler) Handle(ctx context.Context, query ListContestsQuery) (*ListContestsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListContests", shared.ErrValidation, "invalid status filter", err)
	}

	var filter contest.Filter
	if query.Status != "" {
		status, _ := contest.ParseStatus(query.Status)
		filter.Status = status
	}

	contests, err := h.contestRepo.Find(ctx, filter)
	if err != nil {
		return nil, shared.WrapError("query", "ListContests", shared.ErrStorage, "failed to list contests", err)
	}

	// Счётчики участий собираются in-memory join-ом: contestId участия -
	// строка, поэтому обе стороны проходят через одну нормализацию.
	parts, err := h.participationRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListContests", shared.ErrStorage, "failed to load participations", err)
	}

	idx := projections.NewIndex(projections.Snapshot{
		Contests:       contests,
		Participations: parts,
	})

	dtos := make([]ContestDTO, 0, len(contests))
	for _, c := range contests {
		dto := contestToDTO(c)
		dto.ParticipationsCount = len(idx.ParticipationsByContest(c.ID))
		dtos = append(dtos, dto)
	}

	return &ListContestsResult{
		Contests:   dtos,
		TotalItems: len(dtos),
	}, nil
}

package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST MY CONTESTS QUERY
// Возвращает страницу конкурсов создателя со счётчиками участий.
// Счётчики вычисляются aggregation-пайплайном хранилища ($lookup + $size).
// ══════════════════════════════════════════════════════════════════════════════

// ListMyContestsQuery содержит параметры листинга конкурсов создателя.
type ListMyContestsQuery struct {
	// CreatorEmail - email создателя (точное совпадение, с учётом регистра).
	CreatorEmail string

	// Page - номер страницы (1-based; нечисловые значения трактуются как 1).
	Page int
}

// Validate проверяет корректность параметров запроса.
func (q *ListMyContestsQuery) Validate() error {
	if _, err := shared.NewEmail(q.CreatorEmail); err != nil {
		return err
	}
	return nil
}

// ContestPageResult - страница конкурсов с пагинационными метаданными.
type ContestPageResult struct {
	// Contests - конкурсы страницы в порядке убывания дедлайна.
	Contests []ContestDTO `json:"contests"`

	// Page - текущая страница (1-based).
	Page int `json:"page"`

	// TotalPages - общее количество страниц.
	TotalPages int `json:"totalPages"`

	// TotalItems - общее количество совпадений.
	TotalItems int `json:"totalItems"`
}

// ListMyContestsHandler обрабатывает листинг конкурсов создателя.
type ListMyContestsHandler struct {
	contestRepo contest.Repository
}

// NewListMyContestsHandler создаёт новый обработчик.
func NewListMyContestsHandler(contestRepo contest.Repository) *ListMyContestsHandler {
	return &ListMyContestsHandler{contestRepo: contestRepo}
}

// Handle выполняет запрос листинга конкурсов создателя.
func (h *ListMyContestsHandler) Handle(ctx context.Context, query ListMyContestsQuery) (*ContestPageResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "ListMyContests", shared.ErrValidation, "invalid creator email", err)
	}

	page := shared.NewPagination(query.Page)
	filter := contest.Filter{CreatorEmail: query.CreatorEmail}

	rows, total, err := h.contestRepo.FindPageWithCounts(ctx, filter, page.Skip(), page.Limit())
	if err != nil {
		return nil, shared.WrapError("query", "ListMyContests", shared.ErrStorage, "failed to list contests", err)
	}

	return buildContestPage(rows, page, total), nil
}

// buildContestPage собирает страницу из строк со счётчиками.
func buildContestPage(rows []*contest.WithCount, page shared.Pagination, total int) *ContestPageResult {
	dtos := make([]ContestDTO, 0, len(rows))
	for _, row := range rows {
		dto := contestToDTO(row.Contest)
		dto.ParticipationsCount = row.ParticipationsCount
		dtos = append(dtos, dto)
	}

	return &ContestPageResult{
		Contests:   dtos,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
		TotalItems: total,
	}
}

package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST ALL CONTESTS QUERY
// Административный листинг: все конкурсы независимо от статуса модерации,
// постранично, со счётчиками участий. Страница за пределами диапазона -
// пустой список, не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// ListAllContestsQuery содержит параметры административного листинга.
type ListAllContestsQuery struct {
	// Page - номер страницы (1-based; нечисловые значения трактуются как 1).
	Page int
}

// ListAllContestsHandler обрабатывает административный листинг конкурсов.
type ListAllContestsHandler struct {
	contestRepo contest.Repository
}

// NewListAllContestsHandler создаёт новый обработчик.
func NewListAllContestsHandler(contestRepo contest.Repository) *ListAllContestsHandler {
	return &ListAllContestsHandler{contestRepo: contestRepo}
}

// Handle выполняет административный листинг конкурсов.
func (h *ListAllContestsHandler) Handle(ctx context.Context, query ListAllContestsQuery) (*ContestPageResult, error) {
	page := shared.NewPagination(query.Page)

	rows, total, err := h.contestRepo.FindPageWithCounts(ctx, contest.Filter{}, page.Skip(), page.Limit())
	if err != nil {
		return nil, shared.WrapError("query", "ListAllContests", shared.ErrStorage, "failed to list contests", err)
	}

	return buildContestPage(rows, page, total), nil
}

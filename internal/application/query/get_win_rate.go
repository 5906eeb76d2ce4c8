package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WIN RATE QUERY
// Возвращает персональную статистику пользователя: процент побед и процент
// охвата конкурсов. Ноль участий - это "статистики нет" (ErrNoParticipations),
// а не нулевая статистика.
// ══════════════════════════════════════════════════════════════════════════════

// GetWinRateQuery содержит параметры запроса статистики.
type GetWinRateQuery struct {
	// Email - email пользователя (точное совпадение, с учётом регистра).
	Email string
}

// Validate проверяет корректность параметров запроса.
func (q *GetWinRateQuery) Validate() error {
	if _, err := shared.NewEmail(q.Email); err != nil {
		return err
	}
	return nil
}

// GetWinRateResult содержит персональную статистику.
type GetWinRateResult struct {
	// Stats - вычисленные проценты. DisplayRemainder - приближённая
	// display-only величина, не вероятностное дополнение.
	Stats stats.WinRate `json:"stats"`

	// FromCache - true, если результат взят из кеша.
	FromCache bool `json:"-"`
}

// GetWinRateHandler обрабатывает запросы персональной статистики.
type GetWinRateHandler struct {
	contestRepo       contest.Repository
	participationRepo participation.Repository
	cache             StatsCache
}

// NewGetWinRateHandler создаёт новый обработчик персональной статистики.
func NewGetWinRateHandler(
	contestRepo contest.Repository,
	participationRepo participation.Repository,
	cache StatsCache,
) *GetWinRateHandler {
	return &GetWinRateHandler{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
		cache:             cache,
	}
}

// Handle выполняет запрос персональной статистики.
func (h *GetWinRateHandler) Handle(ctx context.Context, query GetWinRateQuery) (*GetWinRateResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetWinRate", shared.ErrValidation, "invalid email", err)
	}

	if h.cache != nil {
		if wr, err := h.cache.GetWinRate(ctx, query.Email); err == nil && wr.TotalParticipations > 0 {
			return &GetWinRateResult{Stats: wr, FromCache: true}, nil
		}
	}

	parts, err := h.participationRepo.FindByUser(ctx, query.Email)
	if err != nil {
		return nil, shared.WrapError("query", "GetWinRate", shared.ErrStorage, "failed to load participations", err)
	}

	totalContests, err := h.contestRepo.Count(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetWinRate", shared.ErrStorage, "failed to count contests", err)
	}

	wr, err := stats.ComputeWinRate(query.Email, parts, totalContests)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.SetWinRate(ctx, query.Email, *wr)
	}

	return &GetWinRateResult{Stats: *wr}, nil
}

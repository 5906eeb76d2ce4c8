package query

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Возвращает глобальный лидерборд: все не-админы, отсортированные по
// (победы desc, участия desc) со стабильным порядком при равенстве.
// Сначала пробует кеш; промах - пересчёт из снимка коллекций.
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache - кеш агрегированных read-моделей. Любая ошибка кеша
// трактуется как промах: лидерборд обязан отвечать и без Redis.
type StatsCache interface {
	GetLeaderboard(ctx context.Context) ([]stats.Row, error)
	SetLeaderboard(ctx context.Context, rows []stats.Row) error
	GetTopCreators(ctx context.Context) ([]stats.TopCreator, error)
	SetTopCreators(ctx context.Context, rows []stats.TopCreator) error
	GetWinRate(ctx context.Context, email string) (stats.WinRate, error)
	SetWinRate(ctx context.Context, email string, wr stats.WinRate) error
}

// GetLeaderboardQuery содержит параметры запроса лидерборда.
// Параметров нет - лидерборд всегда глобальный и полный.
type GetLeaderboardQuery struct{}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Rows - строки лидерборда в итоговом порядке.
	Rows []stats.Row `json:"rows"`

	// FromCache - true, если результат взят из кеша.
	FromCache bool `json:"-"`
}

// GetLeaderboardHandler обрабатывает запросы лидерборда.
type GetLeaderboardHandler struct {
	userRepo          user.Repository
	participationRepo participation.Repository
	cache             StatsCache
}

// NewGetLeaderboardHandler создаёт новый обработчик лидерборда.
// cache может быть nil - тогда каждый запрос пересчитывает лидерборд.
func NewGetLeaderboardHandler(
	userRepo user.Repository,
	participationRepo participation.Repository,
	cache StatsCache,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		userRepo:          userRepo,
		participationRepo: participationRepo,
		cache:             cache,
	}
}

// Handle выполняет запрос лидерборда.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, _ GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if h.cache != nil {
		if rows, err := h.cache.GetLeaderboard(ctx); err == nil && len(rows) > 0 {
			return &GetLeaderboardResult{Rows: rows, FromCache: true}, nil
		}
	}

	users, err := h.userRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorage, "failed to load users", err)
	}
	parts, err := h.participationRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrStorage, "failed to load participations", err)
	}

	rows := stats.Leaderboard(users, parts)

	if h.cache != nil && len(rows) > 0 {
		// Неудачная запись в кеш не портит ответ.
		_ = h.cache.SetLeaderboard(ctx, rows)
	}

	return &GetLeaderboardResult{Rows: rows}, nil
}

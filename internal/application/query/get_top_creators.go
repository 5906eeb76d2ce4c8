package query

import (
	"context"
	"errors"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/projections"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TOP CREATORS QUERY
// Возвращает топ создателей по суммарному количеству участников их конкурсов.
// Учитываются только пользователи с ролью creator; участия конкурсов с
// нераспознанным создателем пропускаются.
// ══════════════════════════════════════════════════════════════════════════════

// GetTopCreatorsQuery содержит параметры запроса топа создателей.
type GetTopCreatorsQuery struct {
	// Limit - размер топа (по умолчанию 3).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetTopCreatorsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = stats.DefaultTopCreatorsLimit
	}
	return nil
}

// GetTopCreatorsResult содержит топ создателей.
type GetTopCreatorsResult struct {
	// Creators - создатели в порядке убывания количества участников.
	Creators []stats.TopCreator `json:"creators"`

	// FromCache - true, если результат взят из кеша.
	FromCache bool `json:"-"`
}

// GetTopCreatorsHandler обрабатывает запросы топа создателей.
type GetTopCreatorsHandler struct {
	contestRepo       contest.Repository
	userRepo          user.Repository
	participationRepo participation.Repository
	cache             StatsCache
}

// NewGetTopCreatorsHandler создаёт новый обработчик топа создателей.
func NewGetTopCreatorsHandler(
	contestRepo contest.Repository,
	userRepo user.Repository,
	participationRepo participation.Repository,
	cache StatsCache,
) *GetTopCreatorsHandler {
	return &GetTopCreatorsHandler{
		contestRepo:       contestRepo,
		userRepo:          userRepo,
		participationRepo: participationRepo,
		cache:             cache,
	}
}

// Handle выполняет запрос топа создателей.
func (h *GetTopCreatorsHandler) Handle(ctx context.Context, query GetTopCreatorsQuery) (*GetTopCreatorsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetTopCreators", shared.ErrValidation, "invalid limit", err)
	}

	// Кеш хранит только топ размера по умолчанию.
	if h.cache != nil && query.Limit == stats.DefaultTopCreatorsLimit {
		if rows, err := h.cache.GetTopCreators(ctx); err == nil && len(rows) > 0 {
			return &GetTopCreatorsResult{Creators: rows, FromCache: true}, nil
		}
	}

	contests, err := h.contestRepo.Find(ctx, contest.Filter{})
	if err != nil {
		return nil, shared.WrapError("query", "GetTopCreators", shared.ErrStorage, "failed to load contests", err)
	}
	users, err := h.userRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetTopCreators", shared.ErrStorage, "failed to load users", err)
	}
	parts, err := h.participationRepo.FindAll(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetTopCreators", shared.ErrStorage, "failed to load participations", err)
	}

	idx := projections.NewIndex(projections.Snapshot{Contests: contests})
	creators := stats.TopCreators(users, idx.CreatorEmailsByContest(), parts, query.Limit)

	if h.cache != nil && query.Limit == stats.DefaultTopCreatorsLimit && len(creators) > 0 {
		_ = h.cache.SetTopCreators(ctx, creators)
	}

	return &GetTopCreatorsResult{Creators: creators}, nil
}

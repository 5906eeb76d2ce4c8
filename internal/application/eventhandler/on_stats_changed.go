// Package eventhandler содержит обработчики доменных событий.
// Обработчики - "реактивная" часть системы: они реагируют на записи
// и запускают побочные эффекты, прежде всего инвалидацию кешей
// агрегированной статистики.
package eventhandler

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STATS CHANGED HANDLER
// Любая запись, влияющая на лидерборд, топ создателей или персональную
// статистику, делает кешированные read-модели устаревшими. Обработчик
// сбрасывает их; следующий запрос пересчитает и заново закеширует.
// ═══════════════════════════════════════════════════════════════════════════

// StatsInvalidator - минимальный контракт кеша для обработчика.
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
	InvalidateWinRate(ctx context.Context, email string) error
}

// OnStatsChangedHandler сбрасывает кеши статистики по событиям записи.
type OnStatsChangedHandler struct {
	cache   StatsInvalidator
	log     *logger.Logger
	timeout time.Duration
}

// NewOnStatsChangedHandler создаёт новый обработчик.
func NewOnStatsChangedHandler(cache StatsInvalidator, log *logger.Logger) *OnStatsChangedHandler {
	return &OnStatsChangedHandler{
		cache:   cache,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Register подписывает обработчик на все события, меняющие статистику.
func (h *OnStatsChangedHandler) Register(bus shared.EventSubscriber) error {
	for _, t := range []shared.EventType{
		shared.EventParticipationCreated,
		shared.EventPaymentRecorded,
		shared.EventWinnerPicked,
		shared.EventContestCreated,
		shared.EventContestModerated,
	} {
		if err := bus.Subscribe(t, h.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle обрабатывает одно событие.
func (h *OnStatsChangedHandler) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.cache.Invalidate(ctx); err != nil {
		// Протухший кеш сам истечёт по TTL - ошибка не фатальна.
		h.log.Warn("stats cache invalidation failed",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
		return err
	}

	// Для событий участия дополнительно сбрасываем персональную статистику.
	switch e := event.(type) {
	case shared.ParticipationCreatedEvent:
		_ = h.cache.InvalidateWinRate(ctx, e.UserEmail)
	case shared.PaymentRecordedEvent:
		_ = h.cache.InvalidateWinRate(ctx, e.UserEmail)
	case shared.WinnerPickedEvent:
		_ = h.cache.InvalidateWinRate(ctx, e.UserEmail)
	}

	h.log.Debug("stats caches invalidated",
		logger.String("event_type", string(event.EventType())),
	)
	return nil
}

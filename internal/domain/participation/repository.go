// Package participation содержит доменную модель участия в конкурсе.
package participation

import (
	"context"
)

// Repository определяет контракт для работы с коллекцией участий.
// Реализация находится в infrastructure слое.
type Repository interface {
	// FindByID возвращает участие по каноническому id.
	// Возвращает shared.ErrParticipationNotFound, если запись отсутствует.
	FindByID(ctx context.Context, id string) (*Participation, error)

	// FindByContest возвращает участия конкурса (contestId сравнивается
	// как строка - ровно так, как он хранится).
	FindByContest(ctx context.Context, contestID string) ([]*Participation, error)

	// FindByUser возвращает участия пользователя по email.
	FindByUser(ctx context.Context, userEmail string) ([]*Participation, error)

	// FindAll возвращает все участия в порядке хранения.
	FindAll(ctx context.Context) ([]*Participation, error)

	// CountByContest возвращает количество участий конкурса.
	CountByContest(ctx context.Context, contestID string) (int, error)

	// Insert сохраняет новое участие и возвращает присвоенный id.
	Insert(ctx context.Context, p *Participation) (string, error)

	// Update заменяет изменяемые поля участия по id ($set).
	Update(ctx context.Context, id string, p *Participation) error

	// FindPendingOlderThan возвращает неоплаченные участия, созданные
	// раньше указанного момента. Используется фоновой сверкой платежей.
	FindPendingOlderThan(ctx context.Context, cutoffID string) ([]*Participation, error)
}

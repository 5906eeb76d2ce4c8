// Package contest содержит доменную модель конкурса ContestHub.
package contest

import (
	"context"
)

// Filter описывает условия выборки конкурсов.
// Нулевое значение означает "без фильтра".
type Filter struct {
	// Status - фильтр по статусу модерации (пустой = все статусы).
	Status Status

	// CreatorEmail - фильтр по создателю (пустой = все создатели).
	CreatorEmail string
}

// WithCount - конкурс с производным количеством участий. Количество всегда
// вычисляется на лету (aggregation-пайплайном или in-memory join-ом) и
// нигде не хранится, поэтому не может разойтись с данными.
type WithCount struct {
	Contest             *Contest `json:"contest"`
	ParticipationsCount int      `json:"participationsCount"`
}

// Repository определяет контракт для работы с коллекцией конкурсов.
// Реализация находится в infrastructure слое.
type Repository interface {
	// FindByID возвращает конкурс по каноническому id.
	// Возвращает shared.ErrContestNotFound, если запись отсутствует.
	FindByID(ctx context.Context, id string) (*Contest, error)

	// Find возвращает конкурсы по фильтру, отсортированные по дедлайну
	// по убыванию (порядок по умолчанию для всех листингов).
	Find(ctx context.Context, filter Filter) ([]*Contest, error)

	// FindPage возвращает страницу конкурсов по фильтру и общее количество
	// совпадений. skip/limit - арифметика пагинации вызывающей стороны.
	FindPage(ctx context.Context, filter Filter, skip, limit int) ([]*Contest, int, error)

	// FindPageWithCounts - как FindPage, но каждая строка обогащена
	// количеством участий. Реализация обязана нормализовать типы id при
	// join-е: contestId участия - строка, _id конкурса - нативный id.
	FindPageWithCounts(ctx context.Context, filter Filter, skip, limit int) ([]*WithCount, int, error)

	// Insert сохраняет новый конкурс и возвращает присвоенный id.
	Insert(ctx context.Context, c *Contest) (string, error)

	// Upsert полностью заменяет документ по id (insert-or-replace).
	// Возвращает matchedCount хранилища: повторный вызов с теми же полями
	// обязан вернуть matched >= 1.
	Upsert(ctx context.Context, id string, c *Contest) (int64, error)

	// Count возвращает общее количество конкурсов в системе.
	Count(ctx context.Context) (int, error)
}

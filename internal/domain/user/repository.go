// Package user содержит доменную модель пользователя ContestHub.
package user

import (
	"context"
)

// Repository определяет контракт для работы с коллекцией пользователей.
// Реализация находится в infrastructure слое.
type Repository interface {
	// FindByID возвращает пользователя по каноническому id.
	// Возвращает shared.ErrUserNotFound, если запись отсутствует.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail возвращает пользователя по email (точное совпадение).
	// Возвращает shared.ErrUserNotFound, если запись отсутствует.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll возвращает всех пользователей, отсортированных по имени
	// по возрастанию.
	FindAll(ctx context.Context) ([]*User, error)

	// Insert сохраняет нового пользователя и возвращает присвоенный id.
	// Проверку "email уже занят" выполняет вызывающая сторона - хранилище
	// уникальность не навязывает.
	Insert(ctx context.Context, u *User) (string, error)

	// UpsertByID обновляет пользователя по id ($set + upsert).
	UpsertByID(ctx context.Context, id string, u *User) (int64, error)

	// UpsertByEmail обновляет пользователя по email ($set + upsert).
	UpsertByEmail(ctx context.Context, email string, u *User) (int64, error)
}

// Package user содержит доменную модель пользователя ContestHub.
package user

import (
	"strings"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Role представляет роль пользователя на платформе.
type Role string

const (
	// RoleUser - обычный участник конкурсов.
	RoleUser Role = "user"
	// RoleCreator - креатор, публикующий конкурсы.
	RoleCreator Role = "creator"
	// RoleAdmin - администратор (модерация, статистика).
	RoleAdmin Role = "admin"
)

// IsValid проверяет корректность роли.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// String возвращает строковое представление роли.
func (r Role) String() string {
	return string(r)
}

// ParseRole разбирает роль из строки; пустая строка означает RoleUser.
func ParseRole(value string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return RoleUser, nil
	}
	r := Role(v)
	if !r.IsValid() {
		return "", shared.ErrInvalidRole
	}
	return r, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// USER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// User представляет пользователя платформы.
//
// Email - единственный естественный ключ для join-операций: хранилище не
// навязывает уникальность, её обеспечивает (best-effort) команда регистрации.
type User struct {
	// ID - канонический строковый идентификатор (hex-форма ObjectID).
	ID string `json:"_id" bson:"-"`

	// Email - уникальный (по соглашению) адрес, сравнение case-sensitive.
	Email string `json:"email" bson:"email"`

	// Name - отображаемое имя.
	Name string `json:"name" bson:"name"`

	// PhotoURL - аватар из внешнего auth-провайдера.
	PhotoURL string `json:"photoURL" bson:"photoURL"`

	// Role - роль пользователя.
	Role Role `json:"role" bson:"role"`
}

// NewUser создаёт пользователя с валидацией.
func NewUser(email, name, photoURL string, role Role) (*User, error) {
	e, err := shared.NewEmail(email)
	if err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidRole
	}
	return &User{
		Email:    e.String(),
		Name:     strings.TrimSpace(name),
		PhotoURL: photoURL,
		Role:     role,
	}, nil
}

// IsAdmin возвращает true для администратора.
// Администраторы исключаются из лидерборда.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCreator возвращает true для креатора.
func (u *User) IsCreator() bool {
	return u.Role == RoleCreator
}

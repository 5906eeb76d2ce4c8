// Package contest содержит доменную модель конкурса ContestHub.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package contest

import (
	"strings"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Status представляет статус модерации конкурса.
type Status string

const (
	// StatusPending - конкурс создан и ждёт модерации.
	StatusPending Status = "pending"
	// StatusApproved - конкурс одобрен администратором и виден публично.
	StatusApproved Status = "approved"
	// StatusRejected - конкурс отклонён (с комментарием модератора).
	StatusRejected Status = "rejected"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// ParseStatus разбирает статус из строки. Пустая строка не является статусом.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", shared.ErrInvalidContestStatus
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Contest представляет конкурс, опубликованный креатором.
//
// CreatorEmail - слабая ссылка на User.Email: хранилище её не проверяет,
// поэтому конкурс с удалённым креатором остаётся валидным. Все join-операции
// обязаны переживать отсутствие креатора.
type Contest struct {
	// ID - канонический строковый идентификатор (hex-форма ObjectID).
	ID string `json:"_id" bson:"-"`

	// Name - название конкурса.
	Name string `json:"name" bson:"name"`

	// Description - описание задания.
	Description string `json:"description" bson:"description"`

	// Image - URL обложки.
	Image string `json:"image" bson:"image"`

	// Price - входная плата участника (в центах).
	Price int `json:"price" bson:"price"`

	// PriceMoney - призовой фонд (в центах).
	PriceMoney int `json:"price_money" bson:"price_money"`

	// Type - категория конкурса ("Business Contest", "Article Writing", ...).
	Type string `json:"type" bson:"type"`

	// Instruction - инструкция по отправке работы.
	Instruction string `json:"instruction" bson:"instruction"`

	// Due - дедлайн конкурса.
	Due time.Time `json:"due" bson:"due"`

	// Status - статус модерации.
	Status Status `json:"status" bson:"status"`

	// CreatorEmail - email создателя (слабая ссылка на User.Email).
	CreatorEmail string `json:"creator_email" bson:"creator_email"`

	// Comment - комментарий модератора (обычно при отклонении).
	Comment string `json:"comment,omitempty" bson:"comment,omitempty"`
}

// NewContest создаёт конкурс со статусом pending.
func NewContest(name, description, image string, price, priceMoney int, contestType, instruction string, due time.Time, creatorEmail string) (*Contest, error) {
	c := &Contest{
		Name:         strings.TrimSpace(name),
		Description:  description,
		Image:        image,
		Price:        price,
		PriceMoney:   priceMoney,
		Type:         strings.TrimSpace(contestType),
		Instruction:  instruction,
		Due:          due,
		Status:       StatusPending,
		CreatorEmail: strings.TrimSpace(creatorEmail),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate проверяет инварианты конкурса.
func (c *Contest) Validate() error {
	if c.Name == "" {
		return shared.NewDomainError("contest", "Validate", shared.ErrEmptyValue, "name is required")
	}
	if c.Type == "" {
		return shared.NewDomainError("contest", "Validate", shared.ErrEmptyValue, "type is required")
	}
	if c.Price < 0 || c.PriceMoney < 0 {
		return shared.NewDomainError("contest", "Validate", shared.ErrNegativeValue, "price cannot be negative")
	}
	if _, err := shared.NewEmail(c.CreatorEmail); err != nil {
		return shared.NewDomainError("contest", "Validate", shared.ErrInvalidFormat, "creator_email is not a valid email")
	}
	if !c.Status.IsValid() {
		return shared.ErrInvalidContestStatus
	}
	return nil
}

// IsApproved возвращает true, если конкурс прошёл модерацию.
func (c *Contest) IsApproved() bool {
	return c.Status == StatusApproved
}

// IsOpen возвращает true, если конкурс одобрен и дедлайн ещё не прошёл.
func (c *Contest) IsOpen(now time.Time) bool {
	return c.IsApproved() && now.Before(c.Due)
}

// Approve переводит конкурс в статус approved.
func (c *Contest) Approve() error {
	if c.Status == StatusApproved {
		return shared.NewDomainError("contest", "Approve", shared.ErrStateTransition, "contest is already approved")
	}
	c.Status = StatusApproved
	c.Comment = ""
	return nil
}

// Reject отклоняет конкурс с комментарием модератора.
func (c *Contest) Reject(comment string) error {
	if c.Status == StatusRejected {
		return shared.NewDomainError("contest", "Reject", shared.ErrStateTransition, "contest is already rejected")
	}
	c.Status = StatusRejected
	c.Comment = strings.TrimSpace(comment)
	return nil
}

// MatchesKeyword проверяет, содержит ли одно из текстовых полей конкурса
// ключевое слово (без учёта регистра). Сопоставление - OR по полям.
func (c *Contest) MatchesKeyword(keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	for _, field := range []string{c.Type, c.Name, c.Description} {
		if strings.Contains(strings.ToLower(field), kw) {
			return true
		}
	}
	return false
}

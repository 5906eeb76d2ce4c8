// Package participation содержит доменную модель участия в конкурсе.
package participation

import (
	"strings"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARTICIPATION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// PaymentStatus представляет состояние оплаты участия.
type PaymentStatus string

const (
	// PaymentPending - участие создано, оплата ещё не подтверждена.
	// Создание участия и запись оплаты - два независимых write-а;
	// упавший между ними процесс оставляет участие в этом состоянии.
	PaymentPending PaymentStatus = "pending"
	// PaymentPaid - оплата подтверждена провайдером.
	PaymentPaid PaymentStatus = "paid"
)

// Participation представляет участие пользователя в конкурсе.
//
// ContestID хранится строкой, а не нативным id хранилища - историческая
// особенность данных, из-за которой join с коллекцией конкурсов обязан
// сравнивать канонические строковые формы, а не сырые типы.
type Participation struct {
	// ID - канонический строковый идентификатор (hex-форма ObjectID).
	ID string `json:"_id" bson:"-"`

	// ContestID - слабая ссылка на Contest.ID, всегда строка.
	ContestID string `json:"contestId" bson:"contestId"`

	// UserEmail - слабая ссылка на User.Email.
	UserEmail string `json:"user_email" bson:"user_email"`

	// PaymentIntentID - идентификатор платёжного интента провайдера.
	PaymentIntentID string `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`

	// PaymentStatus - состояние оплаты (pending/paid).
	PaymentStatus PaymentStatus `json:"payment_status,omitempty" bson:"payment_status,omitempty"`

	// PaidAt - время подтверждения оплаты.
	PaidAt *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`

	// IsWinner - флаг победителя. Отсутствие поля и false эквивалентны:
	// оба означают "не выиграл".
	IsWinner bool `json:"isWinner,omitempty" bson:"isWinner,omitempty"`

	// Task - отправленная работа (ссылка или текст).
	Task string `json:"task,omitempty" bson:"task,omitempty"`

	// QuickNote - короткая заметка участника к работе.
	QuickNote string `json:"quickNote,omitempty" bson:"quickNote,omitempty"`
}

// NewParticipation создаёт участие в состоянии pending.
func NewParticipation(contestID, userEmail string) (*Participation, error) {
	cid, err := shared.NewCanonicalID(contestID)
	if err != nil {
		return nil, shared.WrapError("participation", "New", shared.ErrInvalidID, "contestId is not a valid id", err)
	}
	email, err := shared.NewEmail(userEmail)
	if err != nil {
		return nil, err
	}
	return &Participation{
		ContestID:     cid.String(),
		UserEmail:     email.String(),
		PaymentStatus: PaymentPending,
	}, nil
}

// HasWon возвращает true только при явно выставленном флаге победителя.
func (p *Participation) HasWon() bool {
	return p.IsWinner
}

// IsPaid возвращает true, если оплата подтверждена.
func (p *Participation) IsPaid() bool {
	return p.PaidAt != nil
}

// AttachIntent привязывает платёжный intent к ещё не оплаченному участию.
// Статус остаётся pending - подтверждение приходит отдельной записью.
func (p *Participation) AttachIntent(intentID string) error {
	if strings.TrimSpace(intentID) == "" {
		return shared.NewDomainError("participation", "AttachIntent", shared.ErrEmptyValue, "payment intent id is required")
	}
	p.PaymentIntentID = intentID
	return nil
}

// RecordPayment фиксирует подтверждённую оплату.
func (p *Participation) RecordPayment(intentID string, paidAt time.Time) error {
	if strings.TrimSpace(intentID) == "" {
		return shared.NewDomainError("participation", "RecordPayment", shared.ErrEmptyValue, "payment intent id is required")
	}
	p.PaymentIntentID = intentID
	p.PaymentStatus = PaymentPaid
	t := paidAt.UTC()
	p.PaidAt = &t
	return nil
}

// Submit сохраняет работу участника. Хотя бы одно из полей обязательно.
func (p *Participation) Submit(task, quickNote string) error {
	task = strings.TrimSpace(task)
	quickNote = strings.TrimSpace(quickNote)
	if task == "" && quickNote == "" {
		return shared.ErrNothingSubmitted
	}
	p.Task = task
	p.QuickNote = quickNote
	return nil
}

// MarkWinner выставляет флаг победителя.
func (p *Participation) MarkWinner() error {
	if p.IsWinner {
		return shared.ErrAlreadyWinner
	}
	p.IsWinner = true
	return nil
}

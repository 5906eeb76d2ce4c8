package query

import (
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ──────────────────────────────────────────────────────────────────────────────
// Общие DTO-мапперы read-слоя.
// Доменные сущности не сериализуются напрямую: транспортный формат
// зафиксирован здесь и не зависит от внутренних типов.
// ──────────────────────────────────────────────────────────────────────────────

// UserDTO - пользователь в транспортном формате.
type UserDTO struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role"`
}

// ParticipationDTO - участие в транспортном формате.
type ParticipationDTO struct {
	ID              string `json:"_id"`
	ContestID       string `json:"contestId"`
	UserEmail       string `json:"user_email"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	PaymentStatus   string `json:"payment_status"`
	PaidAt          string `json:"paid_at,omitempty"`
	IsWinner        bool   `json:"isWinner"`
	Task            string `json:"task,omitempty"`
	QuickNote       string `json:"quickNote,omitempty"`
}

func contestToDTO(c *contest.Contest) ContestDTO {
	return ContestDTO{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Image:        c.Image,
		Price:        c.Price,
		PriceMoney:   c.PriceMoney,
		Type:         c.Type,
		Instruction:  c.Instruction,
		Due:          c.Due.Format(time.RFC3339),
		Status:       string(c.Status),
		CreatorEmail: c.CreatorEmail,
		Comment:      c.Comment,
	}
}

func userToDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		PhotoURL: u.PhotoURL,
		Role:     string(u.Role),
	}
}

func participationToDTO(p *participation.Participation) ParticipationDTO {
	dto := ParticipationDTO{
		ID:            p.ID,
		ContestID:     p.ContestID,
		UserEmail:     p.UserEmail,
		PaymentStatus: string(p.PaymentStatus),
		IsWinner:      p.IsWinner,
		Task:          p.Task,
		QuickNote:     p.QuickNote,
	}
	if p.PaymentIntentID != "" {
		dto.PaymentIntentID = p.PaymentIntentID
	}
	if p.PaidAt != nil {
		dto.PaidAt = p.PaidAt.Format(time.RFC3339)
	}
	return dto
}

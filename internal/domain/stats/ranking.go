// Package stats содержит чистые вычисления производной статистики ContestHub:
// лидерборд, win rate, топ креаторов. Все функции детерминированы относительно
// переданного снимка данных и не обращаются к хранилищу.
package stats

import (
	"sort"
	"strings"

	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

// Row - строка лидерборда: пользователь с агрегатами по участиям.
type Row struct {
	// UserID - канонический id пользователя.
	UserID string `json:"_id"`

	// Email - email пользователя.
	Email string `json:"email"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// PhotoURL - аватар.
	PhotoURL string `json:"photoURL"`

	// TotalParticipations - количество участий пользователя.
	TotalParticipations int `json:"totalParticipations"`

	// TotalWins - количество участий с флагом победителя.
	TotalWins int `json:"totalWins"`
}

// Leaderboard строит лидерборд: для каждого пользователя (кроме админов)
// считает участия и победы по email, затем сортирует по (wins desc,
// participations desc). Сортировка стабильна: при полном равенстве
// сохраняется исходный порядок пользователей.
//
// Участия, чей email не совпал ни с одним пользователем, не теряются
// молча - они просто не попадают ни в одну строку (осиротевшие записи
// не ломают рейтинг).
func Leaderboard(users []*user.User, participations []*participation.Participation) []Row {
	type tally struct {
		participations int
		wins           int
	}
	byEmail := make(map[string]*tally, len(users))
	for _, p := range participations {
		t := byEmail[p.UserEmail]
		if t == nil {
			t = &tally{}
			byEmail[p.UserEmail] = t
		}
		t.participations++
		if p.HasWon() {
			t.wins++
		}
	}

	rows := make([]Row, 0, len(users))
	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		row := Row{
			UserID:   u.ID,
			Email:    u.Email,
			Name:     u.Name,
			PhotoURL: u.PhotoURL,
		}
		if t, ok := byEmail[u.Email]; ok {
			row.TotalParticipations = t.participations
			row.TotalWins = t.wins
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalWins != rows[j].TotalWins {
			return rows[i].TotalWins > rows[j].TotalWins
		}
		return rows[i].TotalParticipations > rows[j].TotalParticipations
	})

	return rows
}

// ══════════════════════════════════════════════════════════════════════════════
// WIN RATE
// ══════════════════════════════════════════════════════════════════════════════

// WinRate - статистика одного пользователя.
type WinRate struct {
	// Email - email пользователя.
	Email string `json:"email"`

	// TotalParticipations - все участия пользователя.
	TotalParticipations int `json:"totalParticipations"`

	// TotalWins - участия с флагом победителя.
	TotalWins int `json:"totalWins"`

	// WinPercentage - wins/participations * 100.
	WinPercentage shared.Percentage `json:"winPercentage"`

	// AttemptedPercentage - participations/totalContests * 100.
	// Другой знаменатель, чем у WinPercentage: суммировать эти проценты
	// математически некорректно.
	AttemptedPercentage shared.Percentage `json:"attemptedPercentage"`

	// DisplayRemainder = max(0, 100 - win - attempted). Смешивает два
	// разных знаменателя, поэтому НЕ является вероятностным дополнением.
	// Только для отображения; ни одно вычисление на него не опирается.
	DisplayRemainder shared.Percentage `json:"displayRemainder"`
}

// ComputeWinRate считает статистику пользователя по его участиям.
// Ноль участий - это отсутствие статистики, а не нулевой процент:
// возвращается shared.ErrNoParticipations.
func ComputeWinRate(email string, userParticipations []*participation.Participation, totalContests int) (*WinRate, error) {
	total := 0
	wins := 0
	for _, p := range userParticipations {
		if p.UserEmail != email {
			continue
		}
		total++
		if p.HasWon() {
			wins++
		}
	}

	if total == 0 {
		return nil, shared.ErrNoParticipations
	}

	win := shared.Ratio(wins, total)
	attempted := shared.Ratio(total, totalContests)
	remainder := shared.Percentage(100 - win.Float64() - attempted.Float64())
	if remainder < 0 {
		remainder = 0
	}

	return &WinRate{
		Email:               email,
		TotalParticipations: total,
		TotalWins:           wins,
		WinPercentage:       win,
		AttemptedPercentage: attempted,
		DisplayRemainder:    remainder,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TOP CREATORS
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTopCreatorsLimit - размер топа по умолчанию.
const DefaultTopCreatorsLimit = 3

// TopCreator - креатор с суммарным количеством участников его конкурсов.
type TopCreator struct {
	// Email - email креатора.
	Email string `json:"email"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// PhotoURL - аватар.
	PhotoURL string `json:"photoURL"`

	// TotalParticipants - участия во всех конкурсах креатора.
	TotalParticipants int `json:"totalParticipants"`
}

// TopCreators группирует участия по creator_email конкурса, оставляет только
// пользователей с ролью creator и возвращает не более limit креаторов,
// отсортированных по числу участников по убыванию. Участия, ссылающиеся на
// несуществующий конкурс, пропускаются (слабая ссылка может висеть).
func TopCreators(users []*user.User, contests map[string]string, participations []*participation.Participation, limit int) []TopCreator {
	if limit <= 0 {
		limit = DefaultTopCreatorsLimit
	}

	// contests: canonical contest id -> creator email. Ссылка в участии -
	// сырая строка, приводим её к канонической форме перед поиском.
	byCreator := make(map[string]int)
	for _, p := range participations {
		creatorEmail, ok := contests[strings.ToLower(strings.TrimSpace(p.ContestID))]
		if !ok {
			continue
		}
		byCreator[creatorEmail]++
	}

	top := make([]TopCreator, 0, len(users))
	for _, u := range users {
		if !u.IsCreator() {
			continue
		}
		top = append(top, TopCreator{
			Email:             u.Email,
			Name:              u.Name,
			PhotoURL:          u.PhotoURL,
			TotalParticipants: byCreator[u.Email],
		})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalParticipants > top[j].TotalParticipants
	})

	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

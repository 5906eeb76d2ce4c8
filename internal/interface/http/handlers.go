// Package http implements the REST API for ContestHub.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/application/command"
	"github.com/faisal-shohag/contesthub-server/internal/application/query"
	"github.com/faisal-shohag/contesthub-server/internal/application/saga"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	info := map[string]interface{}{
		"name":    "ContestHub API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":      "/health",
			"contests":    "/api/v1/contests",
			"search":      "/api/v1/contests/search",
			"leaderboard": "/api/v1/leaderboard",
			"topCreators": "/api/v1/creators/top",
		},
	}

	writeSuccess(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if s.deps.MongoPinger != nil {
		if err := s.deps.MongoPinger.Ping(r.Context()); err != nil {
			checks["mongo"] = err.Error()
			healthy = false
		} else {
			checks["mongo"] = "ok"
		}
	}

	if s.deps.RedisPinger != nil {
		if err := s.deps.RedisPinger.Ping(r.Context()); err != nil {
			// Redis is a cache, not a source of truth; report but stay healthy.
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	body := map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
		"checks": checks,
	}

	if !healthy {
		body["status"] = "unhealthy"
		writeSuccess(w, http.StatusServiceUnavailable, body)
		return
	}

	writeSuccess(w, http.StatusOK, body)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST READ HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListContests handles GET /api/v1/contests?status=
func (s *Server) handleListContests(w http.ResponseWriter, r *http.Request) {
	q := query.ListContestsQuery{
		Status: getQueryParam(r, "status", ""),
	}

	result, err := s.deps.ListContests.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Contests)
}

// handleGetContest handles GET /api/v1/contests/{id}
func (s *Server) handleGetContest(w http.ResponseWriter, r *http.Request) {
	q := query.GetContestQuery{ID: r.PathValue("id")}

	result, err := s.deps.GetContest.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// handleListAllContests handles GET /api/v1/contests/all?page=
func (s *Server) handleListAllContests(w http.ResponseWriter, r *http.Request) {
	q := query.ListAllContestsQuery{
		Page: getQueryParamInt(r, "page", 1),
	}

	result, err := s.deps.ListAllContests.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccessPage(w, result.Contests, result.Page, result.TotalPages, result.TotalItems)
}

// handleListMyContests handles GET /api/v1/contests/my?email=&page=
func (s *Server) handleListMyContests(w http.ResponseWriter, r *http.Request) {
	q := query.ListMyContestsQuery{
		CreatorEmail: getQueryParam(r, "email", ""),
		Page:         getQueryParamInt(r, "page", 1),
	}

	result, err := s.deps.ListMyContests.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccessPage(w, result.Contests, result.Page, result.TotalPages, result.TotalItems)
}

// handleSearchContests handles GET /api/v1/contests/search?keyword=
func (s *Server) handleSearchContests(w http.ResponseWriter, r *http.Request) {
	q := query.SearchContestsQuery{
		Keyword: getQueryParam(r, "keyword", ""),
	}

	result, err := s.deps.SearchContests.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEST WRITE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// contestPayload is the request body for contest create/update.
type contestPayload struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Price        int       `json:"price"`
	PriceMoney   int       `json:"priceMoney"`
	Type         string    `json:"type"`
	Instruction  string    `json:"taskInstruction"`
	Due          time.Time `json:"due"`
	CreatorEmail string    `json:"creator_email"`
}

// handleCreateContest handles POST /api/v1/contests
func (s *Server) handleCreateContest(w http.ResponseWriter, r *http.Request) {
	var p contestPayload
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.CreateContest.Handle(r.Context(), command.CreateContestCommand{
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		Price:        p.Price,
		PriceMoney:   p.PriceMoney,
		Type:         p.Type,
		Instruction:  p.Instruction,
		Due:          p.Due,
		CreatorEmail: p.CreatorEmail,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]string{"_id": result.ContestID})
}

// handleUpdateContest handles PUT /api/v1/contests/{id}
func (s *Server) handleUpdateContest(w http.ResponseWriter, r *http.Request) {
	var p contestPayload
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.UpdateContest.Handle(r.Context(), command.UpdateContestCommand{
		ID:           r.PathValue("id"),
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		Price:        p.Price,
		PriceMoney:   p.PriceMoney,
		Type:         p.Type,
		Instruction:  p.Instruction,
		Due:          p.Due,
		CreatorEmail: p.CreatorEmail,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// handleModerateContest handles PATCH /api/v1/contests/{id}/moderate
func (s *Server) handleModerateContest(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Approve bool   `json:"approve"`
		Comment string `json:"comment"`
	}
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.ModerateContest.Handle(r.Context(), command.ModerateContestCommand{
		ContestID: r.PathValue("id"),
		Approve:   p.Approve,
		Comment:   p.Comment,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": result.Status})
}

// handleEnterContest handles POST /api/v1/contests/{id}/enter
func (s *Server) handleEnterContest(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Email string `json:"user_email"`
	}
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.EnterContest.Execute(r.Context(), saga.EnterContestInput{
		ContestID: r.PathValue("id"),
		UserEmail: p.Email,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"participationId": result.ParticipationID,
		"paymentIntentId": result.PaymentIntentID,
		"payUrl":          result.PayURL,
		"paid":            result.Paid,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// userPayload is the request body for user register/save.
type userPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role"`
}

// handleRegisterUser handles POST /api/v1/users.
// Registration goes through the serial queue: concurrent requests for
// the same email are processed one at a time.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var p userPayload
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.Registrations.Register(r.Context(), command.RegisterUserCommand{
		Email:    p.Email,
		Name:     p.Name,
		PhotoURL: p.PhotoURL,
		Role:     p.Role,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// Duplicate email is a soft failure: success:false with a message,
	// not an HTTP error status.
	if result.AlreadyExisted {
		writeError(w, http.StatusOK, "User already exists")
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"_id":     result.UserID,
		"existed": false,
	})
}

// handleSaveUser handles PUT /api/v1/users (unconditional profile upsert).
func (s *Server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	var p userPayload
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.SaveUser.Handle(r.Context(), command.SaveUserCommand{
		Email:    p.Email,
		Name:     p.Name,
		PhotoURL: p.PhotoURL,
		Role:     p.Role,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"matched": result.Matched,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Rows)
}

// handleGetWinRate handles GET /api/v1/users/{email}/winrate
func (s *Server) handleGetWinRate(w http.ResponseWriter, r *http.Request) {
	q := query.GetWinRateQuery{Email: r.PathValue("email")}

	result, err := s.deps.GetWinRate.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// handleGetTopCreators handles GET /api/v1/creators/top?limit=
func (s *Server) handleGetTopCreators(w http.ResponseWriter, r *http.Request) {
	q := query.GetTopCreatorsQuery{
		Limit: getQueryParamInt(r, "limit", 0),
	}

	result, err := s.deps.GetTopCreators.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Creators)
}

// handleGetParticipationsByUser handles GET /api/v1/users/{email}/participations
func (s *Server) handleGetParticipationsByUser(w http.ResponseWriter, r *http.Request) {
	q := query.GetParticipationsByUserQuery{Email: r.PathValue("email")}

	result, err := s.deps.GetParticipationsByUser.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Participations)
}

// handleGetContestsByCreator handles GET /api/v1/users/{email}/contests
func (s *Server) handleGetContestsByCreator(w http.ResponseWriter, r *http.Request) {
	q := query.GetContestsByCreatorQuery{Email: r.PathValue("email")}

	result, err := s.deps.GetContestsByCreator.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result.Contests)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTICIPATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleSubmitTask handles POST /api/v1/participations/{id}/submit
func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Task      string `json:"task"`
		QuickNote string `json:"quickNote"`
	}
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.deps.SubmitTask.Handle(r.Context(), command.SubmitTaskCommand{
		ParticipationID: r.PathValue("id"),
		Task:            p.Task,
		QuickNote:       p.QuickNote,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// handlePickWinner handles POST /api/v1/participations/{id}/winner
func (s *Server) handlePickWinner(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.PickWinner.Handle(r.Context(), command.PickWinnerCommand{
		ParticipationID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// PAYMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handlePaymentWebhook handles POST /webhook/payments.
// The body and signature headers are passed through to the entry saga,
// which verifies the signature against the provider secret.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Header keys are normalized to lower case; providers document
	// signature headers case-insensitively.
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[strings.ToLower(k)] = r.Header.Get(k)
	}

	if err := s.deps.EnterContest.ConfirmFromWebhook(r.Context(), body, headers); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "processed"})
}

// handlePayStub handles POST /pay/stub?intent=.
// Local development only: simulates the provider callback by signing a
// paid webhook body and feeding it through the real webhook path.
func (s *Server) handlePayStub(w http.ResponseWriter, r *http.Request) {
	if s.deps.PaymentSigner == nil {
		writeError(w, http.StatusNotImplemented, "Stub payments not configured")
		return
	}

	intentID := getQueryParam(r, "intent", "")
	if intentID == "" {
		writeError(w, http.StatusBadRequest, "intent query parameter is required")
		return
	}

	body, _ := json.Marshal(map[string]string{
		"intent_id": intentID,
		"status":    "paid",
	})

	headers := map[string]string{
		"x-signature": s.deps.PaymentSigner.Sign(body),
	}

	if err := s.deps.EnterContest.ConfirmFromWebhook(r.Context(), body, headers); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "paid"})
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(dst)
}

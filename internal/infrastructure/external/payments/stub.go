package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stub provider:
// - CreateIntent: issues an in-memory intent with a /pay/stub link
// - ConfirmIntent: reports whether the intent was marked paid
// - Webhook: POST body signed with X-Signature (HMAC SHA-256)
//
// Used in development and in tests; it keeps all state in memory.
type Stub struct {
	secret  string
	baseURL string

	mu      sync.Mutex
	intents map[string]*stubIntent
}

type stubIntent struct {
	participationID string
	amount          int
	paid            bool
	createdAt       time.Time
	paidAt          time.Time
}

// NewStub creates a stub provider.
func NewStub(secret, baseURL string) *Stub {
	return &Stub{
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		intents: make(map[string]*stubIntent),
	}
}

// Name implements Provider.
func (s *Stub) Name() string { return "stub" }

// CreateIntent implements Provider.
func (s *Stub) CreateIntent(ctx context.Context, participationID string, amount int) (*Intent, error) {
	if participationID == "" {
		return nil, fmt.Errorf("stub: participation id is required")
	}

	id := "pi_" + uuid.NewString()
	now := time.Now().UTC()

	s.mu.Lock()
	s.intents[id] = &stubIntent{
		participationID: participationID,
		amount:          amount,
		createdAt:       now,
	}
	s.mu.Unlock()

	url := "/pay/stub?intent=" + id
	if s.baseURL != "" {
		url = s.baseURL + url
	}

	return &Intent{
		ID:              id,
		ParticipationID: participationID,
		Amount:          amount,
		PayURL:          url,
		CreatedAt:       now,
	}, nil
}

// ConfirmIntent implements Provider.
func (s *Stub) ConfirmIntent(ctx context.Context, intentID string) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("stub: unknown intent: %s", intentID)
	}

	return &Confirmation{
		IntentID: intentID,
		Paid:     in.paid,
		PaidAt:   in.paidAt,
	}, nil
}

// MarkPaid settles an intent. Test and development helper standing in for
// the participant actually paying.
func (s *Stub) MarkPaid(intentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intents[intentID]
	if !ok {
		return fmt.Errorf("stub: unknown intent: %s", intentID)
	}
	in.paid = true
	in.paidAt = time.Now().UTC()
	return nil
}

type webhookPayload struct {
	IntentID string `json:"intent_id"`
	Status   string `json:"status"` // paid/cancelled
}

// HandleWebhook implements Provider.
func (s *Stub) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (string, string, bool, error) {
	sig := headers["x-signature"]
	expected := s.Sign(body)
	if sig == "" || !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", "", false, fmt.Errorf("stub: invalid signature")
	}

	var pl webhookPayload
	if err := json.Unmarshal(body, &pl); err != nil {
		return "", "", false, err
	}

	s.mu.Lock()
	in, ok := s.intents[pl.IntentID]
	s.mu.Unlock()
	if !ok {
		return "", "", false, fmt.Errorf("stub: unknown intent: %s", pl.IntentID)
	}

	paid := strings.TrimSpace(pl.Status) != "cancelled"
	if paid {
		_ = s.MarkPaid(pl.IntentID)
	}
	return in.participationID, pl.IntentID, paid, nil
}

// Sign computes the HMAC SHA-256 hex signature for a webhook body.
func (s *Stub) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

var _ Provider = (*Stub)(nil)

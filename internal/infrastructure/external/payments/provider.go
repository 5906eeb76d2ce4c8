// Package payments defines the payment provider boundary for contest entry fees.
// The engine never talks to a provider SDK directly - it goes through the
// Provider interface, so the concrete provider is swappable per environment.
package payments

import (
	"context"
	"fmt"
	"time"
)

// Intent represents a provider-side payment intent for a contest entry fee.
type Intent struct {
	// ID is the provider-assigned intent identifier.
	ID string

	// ParticipationID is the participation the intent pays for.
	ParticipationID string

	// Amount is the entry fee amount.
	Amount int

	// PayURL is where the participant completes the payment.
	PayURL string

	// CreatedAt is when the intent was created.
	CreatedAt time.Time
}

// Confirmation is the provider's answer to a confirmation request.
type Confirmation struct {
	// IntentID is the confirmed intent identifier.
	IntentID string

	// Paid is true when the provider reports the intent as settled.
	Paid bool

	// PaidAt is when the provider settled the payment.
	PaidAt time.Time
}

// Provider is the contract every payment provider implements.
type Provider interface {
	// Name identifies the provider ("stub", ...).
	Name() string

	// CreateIntent opens a payment intent for a participation's entry fee.
	CreateIntent(ctx context.Context, participationID string, amount int) (*Intent, error)

	// ConfirmIntent asks the provider whether an intent has been settled.
	ConfirmIntent(ctx context.Context, intentID string) (*Confirmation, error)

	// HandleWebhook validates a provider callback and returns the
	// participation id, intent id and settled state it reports.
	HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (participationID, intentID string, paid bool, err error)
}

// Config selects and configures the provider.
type Config struct {
	// Provider is the provider name ("stub").
	Provider string

	// WebhookSecret signs webhook bodies (HMAC SHA-256).
	WebhookSecret string

	// BaseURL is the public base URL used to build pay links.
	BaseURL string
}

// NewProvider builds the configured provider.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "stub", "":
		return NewStub(cfg.WebhookSecret, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("payments: unknown provider: %s", cfg.Provider)
	}
}

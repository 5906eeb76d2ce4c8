package payments

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStubCreateIntent(t *testing.T) {
	s := NewStub("whsec_test", "https://contesthub.example.com/")

	intent, err := s.CreateIntent(context.Background(), "64a0c2f7e13b9a0012345701", 50)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(intent.ID, "pi_"))
	assert.Equal(t, "64a0c2f7e13b9a0012345701", intent.ParticipationID)
	assert.Equal(t, 50, intent.Amount)
	// Trailing slash of the base URL is trimmed before joining.
	assert.Equal(t, "https://contesthub.example.com/pay/stub?intent="+intent.ID, intent.PayURL)
	assert.False(t, intent.CreatedAt.IsZero())
}

func TestStubCreateIntentWithoutBaseURL(t *testing.T) {
	s := NewStub("whsec_test", "")

	intent, err := s.CreateIntent(context.Background(), "64a0c2f7e13b9a0012345701", 50)

	assert.NoError(t, err)
	assert.Equal(t, "/pay/stub?intent="+intent.ID, intent.PayURL)
}

func TestStubCreateIntentRequiresParticipation(t *testing.T) {
	s := NewStub("whsec_test", "")

	_, err := s.CreateIntent(context.Background(), "", 50)

	assert.Error(t, err)
}

func TestStubConfirmIntentLifecycle(t *testing.T) {
	s := NewStub("whsec_test", "")
	intent, err := s.CreateIntent(context.Background(), "64a0c2f7e13b9a0012345701", 50)
	assert.NoError(t, err)

	conf, err := s.ConfirmIntent(context.Background(), intent.ID)
	assert.NoError(t, err)
	assert.False(t, conf.Paid)

	assert.NoError(t, s.MarkPaid(intent.ID))

	conf, err = s.ConfirmIntent(context.Background(), intent.ID)
	assert.NoError(t, err)
	assert.True(t, conf.Paid)
	assert.False(t, conf.PaidAt.IsZero())
}

func TestStubConfirmUnknownIntent(t *testing.T) {
	s := NewStub("whsec_test", "")

	_, err := s.ConfirmIntent(context.Background(), "pi_missing")

	assert.Error(t, err)
}

func TestStubWebhookPaid(t *testing.T) {
	s := NewStub("whsec_test", "")
	intent, err := s.CreateIntent(context.Background(), "64a0c2f7e13b9a0012345701", 50)
	assert.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"intent_id": intent.ID, "status": "paid"})
	headers := map[string]string{"x-signature": s.Sign(body)}

	participationID, intentID, paid, err := s.HandleWebhook(context.Background(), body, headers)

	assert.NoError(t, err)
	assert.Equal(t, "64a0c2f7e13b9a0012345701", participationID)
	assert.Equal(t, intent.ID, intentID)
	assert.True(t, paid)

	// Webhook settles the intent provider-side too.
	conf, err := s.ConfirmIntent(context.Background(), intent.ID)
	assert.NoError(t, err)
	assert.True(t, conf.Paid)
}

func TestStubWebhookCancelled(t *testing.T) {
	s := NewStub("whsec_test", "")
	intent, err := s.CreateIntent(context.Background(), "64a0c2f7e13b9a0012345701", 50)
	assert.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"intent_id": intent.ID, "status": "cancelled"})
	headers := map[string]string{"x-signature": s.Sign(body)}

	_, _, paid, err := s.HandleWebhook(context.Background(), body, headers)

	assert.NoError(t, err)
	assert.False(t, paid)

	conf, err := s.ConfirmIntent(context.Background(), intent.ID)
	assert.NoError(t, err)
	assert.False(t, conf.Paid)
}

func TestStubWebhookRejectsBadSignature(t *testing.T) {
	s := NewStub("whsec_test", "")
	intent, err := s.CreateIntent(context.Background(), "64a0c2f7e13b9a0012345701", 50)
	assert.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"intent_id": intent.ID, "status": "paid"})

	_, _, _, err = s.HandleWebhook(context.Background(), body, map[string]string{"x-signature": "deadbeef"})
	assert.Error(t, err)

	_, _, _, err = s.HandleWebhook(context.Background(), body, map[string]string{})
	assert.Error(t, err)

	// A forged body with a signature from a different secret is rejected.
	other := NewStub("whsec_other", "")
	_, _, _, err = s.HandleWebhook(context.Background(), body, map[string]string{"x-signature": other.Sign(body)})
	assert.Error(t, err)
}

func TestStubWebhookUnknownIntent(t *testing.T) {
	s := NewStub("whsec_test", "")

	body, _ := json.Marshal(map[string]string{"intent_id": "pi_missing", "status": "paid"})
	headers := map[string]string{"x-signature": s.Sign(body)}

	_, _, _, err := s.HandleWebhook(context.Background(), body, headers)

	assert.Error(t, err)
}

func TestNewProviderSelectsStub(t *testing.T) {
	p, err := NewProvider(Config{Provider: "stub", WebhookSecret: "whsec_test"})
	assert.NoError(t, err)
	assert.Equal(t, "stub", p.Name())

	p, err = NewProvider(Config{})
	assert.NoError(t, err)
	assert.Equal(t, "stub", p.Name())

	_, err = NewProvider(Config{Provider: "paypal"})
	assert.Error(t, err)
}

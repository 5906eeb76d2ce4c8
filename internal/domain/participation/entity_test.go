package participation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
)

func TestNewParticipation(t *testing.T) {
	p, err := NewParticipation(" 64A0C2F7E13B9A0012345601 ", " alice@example.com ")
	assert.NoError(t, err)

	// The weak reference is stored in canonical form.
	assert.Equal(t, "64a0c2f7e13b9a0012345601", p.ContestID)
	assert.Equal(t, "alice@example.com", p.UserEmail)
	assert.Equal(t, PaymentPending, p.PaymentStatus)
	assert.False(t, p.IsPaid())
	assert.False(t, p.HasWon())

	_, err = NewParticipation("nope", "alice@example.com")
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewParticipation("64a0c2f7e13b9a0012345601", "nope")
	assert.Error(t, err)
}

func TestAttachIntent(t *testing.T) {
	p, _ := NewParticipation("64a0c2f7e13b9a0012345601", "alice@example.com")

	assert.ErrorIs(t, p.AttachIntent("  "), shared.ErrEmptyValue)

	assert.NoError(t, p.AttachIntent("pi_123"))
	assert.Equal(t, "pi_123", p.PaymentIntentID)
	// Attaching an intent does not settle the payment.
	assert.Equal(t, PaymentPending, p.PaymentStatus)
	assert.False(t, p.IsPaid())
}

func TestRecordPayment(t *testing.T) {
	p, _ := NewParticipation("64a0c2f7e13b9a0012345601", "alice@example.com")

	paidAt := time.Date(2026, 2, 10, 12, 0, 0, 0, time.FixedZone("X", 6*3600))
	assert.NoError(t, p.RecordPayment("pi_123", paidAt))

	assert.Equal(t, PaymentPaid, p.PaymentStatus)
	assert.True(t, p.IsPaid())
	assert.Equal(t, paidAt.UTC(), *p.PaidAt)

	assert.ErrorIs(t, p.RecordPayment("", time.Now()), shared.ErrEmptyValue)
}

func TestSubmit(t *testing.T) {
	p, _ := NewParticipation("64a0c2f7e13b9a0012345601", "alice@example.com")

	assert.ErrorIs(t, p.Submit("  ", ""), shared.ErrNothingSubmitted)

	assert.NoError(t, p.Submit(" https://work.example.com ", ""))
	assert.Equal(t, "https://work.example.com", p.Task)

	// Resubmission overwrites both fields.
	assert.NoError(t, p.Submit("", "see attachment"))
	assert.Empty(t, p.Task)
	assert.Equal(t, "see attachment", p.QuickNote)
}

func TestMarkWinner(t *testing.T) {
	p, _ := NewParticipation("64a0c2f7e13b9a0012345601", "alice@example.com")

	assert.NoError(t, p.MarkWinner())
	assert.True(t, p.HasWon())

	assert.ErrorIs(t, p.MarkWinner(), shared.ErrAlreadyWinner)
}

package payments

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/pkg/circuitbreaker"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
	"github.com/faisal-shohag/contesthub-server/pkg/retry"
)

// ResilientProvider decorates a Provider with retries and a circuit breaker.
// Intent creation is retried cautiously; a persistently failing provider
// opens the circuit and requests fail fast with ErrPaymentUnavailable.
type ResilientProvider struct {
	inner   Provider
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewResilientProvider wraps the given provider.
func NewResilientProvider(inner Provider, log *logger.Logger) *ResilientProvider {
	breaker := circuitbreaker.PaymentBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit state changed",
			logger.Component(name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	return &ResilientProvider{
		inner:   inner,
		retrier: retry.PaymentRetrier(),
		breaker: breaker,
		log:     log,
	}
}

// Name implements Provider.
func (r *ResilientProvider) Name() string { return r.inner.Name() }

// CreateIntent implements Provider.
func (r *ResilientProvider) CreateIntent(ctx context.Context, participationID string, amount int) (*Intent, error) {
	var intent *Intent
	err := r.execute(ctx, "CreateIntent", func(ctx context.Context) error {
		var err error
		intent, err = r.inner.CreateIntent(ctx, participationID, amount)
		if err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// ConfirmIntent implements Provider.
func (r *ResilientProvider) ConfirmIntent(ctx context.Context, intentID string) (*Confirmation, error) {
	var conf *Confirmation
	err := r.execute(ctx, "ConfirmIntent", func(ctx context.Context) error {
		var err error
		conf, err = r.inner.ConfirmIntent(ctx, intentID)
		if err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conf, nil
}

// HandleWebhook implements Provider. Webhooks are inbound and not retried.
func (r *ResilientProvider) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (string, string, bool, error) {
	return r.inner.HandleWebhook(ctx, body, headers)
}

func (r *ResilientProvider) execute(ctx context.Context, op string, fn func(context.Context) error) error {
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.retrier.Do(ctx, func(ctx context.Context) error {
			return fn(ctx)
		})
	})
	if err == nil {
		return nil
	}

	r.log.Error("payment provider call failed",
		logger.Operation(op),
		logger.Err(err),
	)
	if r.breaker.IsOpen() {
		return shared.WrapError("payments", op, shared.ErrPaymentUnavailable, "provider circuit open", err)
	}
	return shared.WrapError("payments", op, shared.ErrExternalService, "provider call failed", err)
}

var _ Provider = (*ResilientProvider)(nil)

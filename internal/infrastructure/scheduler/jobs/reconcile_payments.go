package jobs

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/application/command"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/external/payments"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECONCILE PAYMENTS JOB
// Sweeps participations stuck in "pending" payment status. Entry and
// payment are two independent writes with no transaction; a crash between
// them leaves a pending row. For rows with an attached intent the job asks
// the provider whether the intent settled and records the payment if so.
// Rows without an intent are only counted - there is nothing to confirm.
// ══════════════════════════════════════════════════════════════════════════════

// CutoffFunc converts a point in time to the storage-level cutoff id used
// to select participations created before it.
type CutoffFunc func(t time.Time) string

// ReconcilePaymentsJob confirms or reports stale pending participations.
type ReconcilePaymentsJob struct {
	participationRepo participation.Repository
	recordPayment     *command.RecordPaymentHandler
	provider          payments.Provider
	cutoff            CutoffFunc
	maxAge            time.Duration
	log               *logger.Logger
}

// NewReconcilePaymentsJob creates the job. maxAge is how old a pending
// participation must be before it is reconciled.
func NewReconcilePaymentsJob(
	participationRepo participation.Repository,
	recordPayment *command.RecordPaymentHandler,
	provider payments.Provider,
	cutoff CutoffFunc,
	maxAge time.Duration,
	log *logger.Logger,
) *ReconcilePaymentsJob {
	if maxAge <= 0 {
		maxAge = 15 * time.Minute
	}
	return &ReconcilePaymentsJob{
		participationRepo: participationRepo,
		recordPayment:     recordPayment,
		provider:          provider,
		cutoff:            cutoff,
		maxAge:            maxAge,
		log:               log,
	}
}

// Name implements scheduler.Job.
func (j *ReconcilePaymentsJob) Name() string { return "reconcile_payments" }

// Description implements scheduler.Job.
func (j *ReconcilePaymentsJob) Description() string {
	return "Confirms payments for participations stuck in pending status"
}

// Run implements scheduler.Job.
func (j *ReconcilePaymentsJob) Run(ctx context.Context) error {
	cutoffID := j.cutoff(time.Now().Add(-j.maxAge))

	pending, err := j.participationRepo.FindPendingOlderThan(ctx, cutoffID)
	if err != nil {
		return shared.WrapError("jobs", "ReconcilePayments", shared.ErrStorage, "failed to load pending participations", err)
	}
	if len(pending) == 0 {
		return nil
	}

	confirmed, orphaned := 0, 0
	for _, p := range pending {
		if p.PaymentIntentID == "" {
			// Crash before intent creation - nothing to confirm.
			orphaned++
			continue
		}

		conf, err := j.provider.ConfirmIntent(ctx, p.PaymentIntentID)
		if err != nil {
			j.log.Warn("intent confirmation failed",
				logger.String("participation_id", p.ID),
				logger.Err(err),
			)
			continue
		}
		if !conf.Paid {
			continue
		}

		if _, err := j.recordPayment.Handle(ctx, command.RecordPaymentCommand{
			ParticipationID: p.ID,
			PaymentIntentID: p.PaymentIntentID,
			PaidAt:          conf.PaidAt,
		}); err != nil {
			j.log.Warn("failed to record reconciled payment",
				logger.String("participation_id", p.ID),
				logger.Err(err),
			)
			continue
		}
		confirmed++
	}

	j.log.Info("payment reconciliation finished",
		logger.Int("pending", len(pending)),
		logger.Int("confirmed", confirmed),
		logger.Int("orphaned", orphaned),
	)
	return nil
}

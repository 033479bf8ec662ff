package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/repository"
)

// DriftSource surfaces credit-mode balances that disagree with the
// ledger sum.
type DriftSource interface {
	FindBalanceDrift(ctx context.Context) ([]repository.BalanceDrift, error)
}

// ReconcileWorker periodically compares each credit-mode reseller's
// balance against the ledger sum and flags any divergence. It never
// repairs; a drift means a write bypassed the ledger and needs a human.
type ReconcileWorker struct {
	source   DriftSource
	interval time.Duration
}

// NewReconcileWorker constructs a ReconcileWorker.
func NewReconcileWorker(source DriftSource, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		source:   source,
		interval: interval,
	}
}

// Start begins the periodic reconcile loop and listens for context cancellation.
func (w *ReconcileWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting reconcile worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Reconcile worker stopped")
			return
		}
	}
}

func (w *ReconcileWorker) run(ctx context.Context) {
	start := time.Now()
	drift, err := w.source.FindBalanceDrift(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to run balance reconcile")
		return
	}

	for _, d := range drift {
		log.Error().
			Int("user_id", d.UserID).
			Str("username", d.Username).
			Str("balance", d.Balance.StringFixed(2)).
			Str("ledger_sum", d.LedgerSum.StringFixed(2)).
			Str("difference", d.Difference.StringFixed(2)).
			Msg("Balance drift detected")
	}

	log.Info().
		Int("drift_count", len(drift)).
		Dur("duration", time.Since(start)).
		Msg("Balance reconcile completed")
}

package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nexatel/portal_api/internal/repository"
)

type fakeDriftSource struct {
	drift []repository.BalanceDrift
	err   error
	calls int
}

func (f *fakeDriftSource) FindBalanceDrift(ctx context.Context) ([]repository.BalanceDrift, error) {
	f.calls++
	return f.drift, f.err
}

// captureLog redirects the global logger into a buffer for the duration
// of a test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = old })
	return &buf
}

func TestReconcileFlagsDrift(t *testing.T) {
	buf := captureLog(t)
	source := &fakeDriftSource{drift: []repository.BalanceDrift{{
		UserID:     7,
		Username:   "shop7",
		Balance:    decimal.NewFromInt(500),
		LedgerSum:  decimal.NewFromInt(470),
		Difference: decimal.NewFromInt(30),
	}}}

	w := NewReconcileWorker(source, time.Hour)
	w.run(context.Background())

	out := buf.String()
	assert.Equal(t, 1, source.calls)
	assert.Contains(t, out, "Balance drift detected")
	assert.Contains(t, out, `"user_id":7`)
	assert.Contains(t, out, `"difference":"30.00"`)
}

func TestReconcileNoDrift(t *testing.T) {
	buf := captureLog(t)
	source := &fakeDriftSource{}

	w := NewReconcileWorker(source, time.Hour)
	w.run(context.Background())

	out := buf.String()
	assert.NotContains(t, out, "Balance drift detected")
	assert.Contains(t, out, "Balance reconcile completed")
	assert.Contains(t, out, `"drift_count":0`)
}

func TestReconcileSourceError(t *testing.T) {
	buf := captureLog(t)
	source := &fakeDriftSource{err: errors.New("connection refused")}

	w := NewReconcileWorker(source, time.Hour)
	w.run(context.Background())

	assert.Contains(t, buf.String(), "Failed to run balance reconcile")
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/metrics"
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/sse"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// DefaultProcessingDelay is the simulated processing latency.
const DefaultProcessingDelay = 900 * time.Millisecond

// FlowState is the state of a SubmissionFlow.
type FlowState string

const (
	FlowIdle       FlowState = "idle"
	FlowSubmitting FlowState = "submitting"
	FlowSucceeded  FlowState = "succeeded"
	FlowFailed     FlowState = "failed"
)

// FlowSnapshot is the displayable outcome of a SubmissionFlow.
type FlowSnapshot struct {
	State  FlowState
	Err    error
	Record *models.Transaction
}

// SubmissionFlow drives validate, delay, build for one selection.
//
// Submit and Acknowledge expect the caller to hold guard, the same lock that
// protects the SelectionMachine. The processing goroutine takes guard itself
// when it completes.
type SubmissionFlow struct {
	guard    sync.Locker
	machine  *SelectionMachine
	builder  *TransactionBuilder
	notifier sse.TransactionNotifier
	metrics  *metrics.PurchaseMetrics
	delay    time.Duration

	state  FlowState
	err    error
	record *models.Transaction
	done   chan struct{}
}

// NewSubmissionFlow constructs an idle flow. A nil notifier drops events and
// nil metrics record nothing.
func NewSubmissionFlow(
	guard sync.Locker,
	machine *SelectionMachine,
	builder *TransactionBuilder,
	notifier sse.TransactionNotifier,
	m *metrics.PurchaseMetrics,
	delay time.Duration,
) *SubmissionFlow {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	if delay < 0 {
		delay = 0
	}
	return &SubmissionFlow{
		guard:    guard,
		machine:  machine,
		builder:  builder,
		notifier: notifier,
		metrics:  m,
		delay:    delay,
		state:    FlowIdle,
	}
}

// State returns the current flow state. Caller holds guard.
func (f *SubmissionFlow) State() FlowState {
	return f.state
}

// Snapshot returns the current outcome. Caller holds guard.
func (f *SubmissionFlow) Snapshot() FlowSnapshot {
	snap := FlowSnapshot{State: f.state, Err: f.err}
	if f.record != nil {
		rec := *f.record
		snap.Record = &rec
	}
	return snap
}

// Submit validates the current selection. On failure the flow moves to
// failed and the reason is returned; the secret is kept for correction. On
// success the flow moves to submitting and completes in the background,
// unless ctx ends first. Caller holds guard.
func (f *SubmissionFlow) Submit(ctx context.Context) error {
	switch f.state {
	case FlowSubmitting:
		return utils.ErrSubmissionInProgress
	case FlowSucceeded:
		return utils.ErrResultNotAcknowledged
	}

	sel := f.machine.Snapshot()
	if err := Validate(sel); err != nil {
		f.state = FlowFailed
		f.err = err
		f.record = nil
		f.metrics.SubmissionRejected(sel.Service, err)
		return err
	}

	f.state = FlowSubmitting
	f.err = nil
	f.record = nil
	f.done = make(chan struct{})
	f.metrics.SubmissionAccepted(sel.Service)

	go f.process(ctx, f.done, time.Now())
	return nil
}

func (f *SubmissionFlow) process(ctx context.Context, done chan struct{}, started time.Time) {
	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		f.guard.Lock()
		service := f.machine.Snapshot().Service
		f.machine.ClearSecret()
		f.state = FlowIdle
		close(done)
		f.guard.Unlock()

		f.metrics.SubmissionAbandoned(service)
		log.Debug().Str("service", string(service)).Msg("Submission abandoned")
		return
	case <-timer.C:
	}

	f.guard.Lock()
	sel := f.machine.Snapshot()
	trx := f.builder.Build(sel, sel.Amount.Decimal)
	f.machine.ClearSecret()
	f.state = FlowSucceeded
	f.record = &trx
	close(done)
	f.guard.Unlock()

	f.metrics.TransactionBuilt(trx, time.Since(started).Seconds())
	log.Info().
		Str("transaction_id", trx.TransactionID).
		Str("service", string(trx.Classification)).
		Str("provider", trx.ProviderID).
		Str("amount", trx.Amount.StringFixed(2)).
		Msg("Transaction built")
	f.notifier.NotifyTransactionBuilt(trx)
}

// Wait blocks until an in-flight submission settles or ctx ends. It returns
// immediately when nothing is in flight. Caller must NOT hold guard.
func (f *SubmissionFlow) Wait(ctx context.Context) error {
	f.guard.Lock()
	done := f.done
	f.guard.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Acknowledge dismisses a held result and returns the flow to idle. After a
// success the selection is reset for a new purchase. Caller holds guard.
func (f *SubmissionFlow) Acknowledge() error {
	switch f.state {
	case FlowSucceeded:
		f.machine.Reset()
	case FlowFailed:
	default:
		return utils.ErrNothingToAcknowledge
	}
	f.state = FlowIdle
	f.err = nil
	f.record = nil
	return nil
}

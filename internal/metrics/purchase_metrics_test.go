package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

func TestReasonLabel(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"sentinel", utils.ErrMissingBundle, "missing_bundle"},
		{"wrapped", fmt.Errorf("submit: %w", utils.ErrInvalidMeterNumber), "invalid_meter_number"},
		{"caller error", utils.ErrUnknownProvider, "unknown"},
		{"foreign", errors.New("boom"), "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReasonLabel(tc.err))
		})
	}
}

func TestSubmissionCounters(t *testing.T) {
	m := NewPurchaseMetrics(prometheus.NewRegistry(), "test")

	m.SubmissionAccepted(models.ServiceData)
	m.SubmissionAccepted(models.ServiceData)
	m.SubmissionRejected(models.ServiceAirtime, utils.ErrMissingAmount)
	m.SubmissionAbandoned(models.ServiceTV)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.submissions.WithLabelValues("data", OutcomeAccepted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("airtime", OutcomeRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.validationFailures.WithLabelValues("airtime", "missing_amount")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.submissions.WithLabelValues("tv", OutcomeAbandoned)))
}

func TestTransactionBuilt(t *testing.T) {
	m := NewPurchaseMetrics(prometheus.NewRegistry(), "test")

	m.TransactionBuilt(models.Transaction{
		Classification: models.ServiceData,
		Amount:         decimal.RequireFromString("463.05"),
		CreatedAt:      time.Now(),
	}, 0.9)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.transactions.WithLabelValues("data")))
	assert.InDelta(t, 463.05, testutil.ToFloat64(m.amount.WithLabelValues("data")), 0.001)
	assert.Equal(t, 1, testutil.CollectAndCount(m.processing))
}

func TestSessionGauge(t *testing.T) {
	m := NewPurchaseMetrics(prometheus.NewRegistry(), "")

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed(SessionCloseEvicted)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessionsClosed.WithLabelValues(SessionCloseEvicted)))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *PurchaseMetrics
	assert.NotPanics(t, func() {
		m.SubmissionAccepted(models.ServiceData)
		m.SubmissionRejected(models.ServiceData, utils.ErrMissingBundle)
		m.SubmissionAbandoned(models.ServiceData)
		m.TransactionBuilt(models.Transaction{}, 1)
		m.SessionOpened()
		m.SessionClosed(SessionCloseEnded)
	})
}

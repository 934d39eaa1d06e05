package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeAbandoned = "abandoned"

	SessionCloseEnded   = "ended"
	SessionCloseEvicted = "evicted"
)

// PurchaseMetrics records purchase engine signals. A nil *PurchaseMetrics is
// valid and records nothing.
type PurchaseMetrics struct {
	submissions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	transactions       *prometheus.CounterVec
	amount             *prometheus.CounterVec
	processing         prometheus.Histogram
	activeSessions     prometheus.Gauge
	sessionsClosed     *prometheus.CounterVec
}

// NewPurchaseMetrics registers the purchase collectors on registerer
// (the default registerer when nil).
func NewPurchaseMetrics(registerer prometheus.Registerer, environment string) *PurchaseMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"env": environment}

	m := &PurchaseMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "smartdev_purchase_submissions_total",
			Help:        "Purchase submissions by service and outcome.",
			ConstLabels: constLabels,
		}, []string{"service", "outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "smartdev_purchase_validation_failures_total",
			Help:        "Blocked submissions by validation reason.",
			ConstLabels: constLabels,
		}, []string{"service", "reason"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "smartdev_transactions_built_total",
			Help:        "Transaction records built by service.",
			ConstLabels: constLabels,
		}, []string{"service"}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "smartdev_transaction_amount_naira_total",
			Help:        "Sum of payable amounts of built transactions.",
			ConstLabels: constLabels,
		}, []string{"service"}),
		processing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "smartdev_purchase_processing_seconds",
			Help:        "Time from accepted submission to built record.",
			Buckets:     []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1, 1.5, 2, 5},
			ConstLabels: constLabels,
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smartdev_purchase_sessions_active",
			Help:        "Open purchase sessions.",
			ConstLabels: constLabels,
		}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "smartdev_purchase_sessions_closed_total",
			Help:        "Closed purchase sessions by cause.",
			ConstLabels: constLabels,
		}, []string{"cause"}),
	}

	registerer.MustRegister(
		m.submissions,
		m.validationFailures,
		m.transactions,
		m.amount,
		m.processing,
		m.activeSessions,
		m.sessionsClosed,
	)
	return m
}

func (m *PurchaseMetrics) SubmissionAccepted(service models.Service) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(service), OutcomeAccepted).Inc()
}

// SubmissionRejected counts a blocked submission and its reason.
func (m *PurchaseMetrics) SubmissionRejected(service models.Service, reason error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(service), OutcomeRejected).Inc()
	m.validationFailures.WithLabelValues(string(service), ReasonLabel(reason)).Inc()
}

func (m *PurchaseMetrics) SubmissionAbandoned(service models.Service) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(service), OutcomeAbandoned).Inc()
}

// TransactionBuilt records a built record and how long processing took.
func (m *PurchaseMetrics) TransactionBuilt(trx models.Transaction, seconds float64) {
	if m == nil {
		return
	}
	service := string(trx.Classification)
	m.transactions.WithLabelValues(service).Inc()
	m.amount.WithLabelValues(service).Add(trx.Amount.InexactFloat64())
	m.processing.Observe(seconds)
}

func (m *PurchaseMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *PurchaseMetrics) SessionClosed(cause string) {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
	m.sessionsClosed.WithLabelValues(cause).Inc()
}

// ReasonLabel maps a validation error onto a low-cardinality label.
func ReasonLabel(err error) string {
	if err == nil {
		return "none"
	}
	if utils.IsValidationReason(err) {
		// Sentinels carry their code as the message; unwrap to it.
		for {
			next := errors.Unwrap(err)
			if next == nil {
				break
			}
			err = next
		}
		return strings.ToLower(err.Error())
	}
	return "unknown"
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPResponseSize     *prometheus.HistogramVec

	// Business Metrics
	PaymentsSubmitted *prometheus.CounterVec
	RefundsFlagged    prometheus.Counter
	RefundsProcessed  *prometheus.CounterVec
	LoansIssued       prometheus.Counter
	LoanRepayments    *prometheus.CounterVec

	// Database Metrics
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge

	// System Metrics
	ServiceUptime prometheus.Gauge
	Goroutines    prometheus.Gauge

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergateway_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergateway_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgergateway_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergateway_http_response_size_bytes",
				Help:    "Size of HTTP responses in bytes",
				Buckets: prometheus.ExponentialBuckets(128, 4, 8),
			},
			[]string{"method", "path"},
		),

		PaymentsSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergateway_payments_submitted_total",
				Help: "Payments submitted by domain and terminal status",
			},
			[]string{"domain", "status"},
		),
		RefundsFlagged: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgergateway_refunds_flagged_total",
				Help: "Records flagged for refund after a post-debit failure",
			},
		),
		RefundsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergateway_refunds_processed_total",
				Help: "Refund commands processed by outcome",
			},
			[]string{"outcome"},
		),
		LoansIssued: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ledgergateway_loans_issued_total",
				Help: "Micro-loans disbursed",
			},
		),
		LoanRepayments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergateway_loan_repayments_total",
				Help: "Loan repayments by outcome",
			},
			[]string{"outcome"},
		),

		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergateway_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table", "status"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergateway_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgergateway_db_connections_in_use",
				Help: "Database connections currently in use",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgergateway_db_connections_idle",
				Help: "Idle database connections",
			},
		),

		ServiceUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgergateway_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledgergateway_goroutines",
				Help: "Number of goroutines",
			},
		),

		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgergateway_validation_errors_total",
				Help: "Request validation errors by field and tag",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgergateway_validation_duration_seconds",
				Help:    "Duration of request validation in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

func (m *Metrics) RecordPayment(domain, status string) {
	m.PaymentsSubmitted.WithLabelValues(domain, status).Inc()
}

func (m *Metrics) RecordRefundFlagged() {
	m.RefundsFlagged.Inc()
}

func (m *Metrics) RecordRefundProcessed(outcome string) {
	m.RefundsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLoanIssued() {
	m.LoansIssued.Inc()
}

func (m *Metrics) RecordLoanRepayment(outcome string) {
	m.LoanRepayments.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table, status).Observe(duration.Seconds())
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(operation string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

package monitoring

import (
	"time"

	"mediagate/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Counters
	decisionsTotal   *prometheus.CounterVec
	denialsTotal     *prometheus.CounterVec
	checkErrorsTotal prometheus.Counter
	tokensIssued     prometheus.Counter
	tokenValidations *prometheus.CounterVec
	revocationBumps  prometheus.Counter

	// Histograms
	decisionDuration prometheus.Histogram
	tokenIssueTime   prometheus.Histogram

	// Resource metrics
	resourcesByKind *prometheus.GaugeVec
	activeCodes     prometheus.Gauge
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		decisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_decisions_total",
			Help: "Total number of access decisions by outcome",
		}, []string{"outcome", "capability"}),

		denialsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_denials_total",
			Help: "Total number of denied access checks by reason",
		}, []string{"reason"}),

		checkErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediagate_check_errors_total",
			Help: "Total number of indeterminate access checks",
		}),

		tokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediagate_stream_tokens_issued_total",
			Help: "Total number of delegation tokens issued",
		}),

		tokenValidations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_stream_token_validations_total",
			Help: "Total number of delegation token validations by result",
		}, []string{"result"}),

		revocationBumps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediagate_revocation_bumps_total",
			Help: "Total number of resource revocation generation bumps",
		}),

		decisionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediagate_decision_duration_seconds",
			Help:    "Duration of access decision evaluation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		tokenIssueTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediagate_token_issue_duration_seconds",
			Help:    "Duration of delegation token issuance",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		resourcesByKind: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mediagate_resources_total",
			Help: "Number of registered resources by kind",
		}, []string{"kind"}),

		activeCodes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mediagate_access_codes_active",
			Help: "Number of active access codes",
		}),
	}
}

func (p *PrometheusCollector) RecordDecision(decision domain.Decision, elapsed time.Duration) {
	outcome := "deny"
	if decision.Allowed {
		outcome = "allow"
	}
	p.decisionsTotal.WithLabelValues(outcome, decision.Capability.String()).Inc()
	if !decision.Allowed {
		p.denialsTotal.WithLabelValues(string(decision.Reason)).Inc()
	}
	p.decisionDuration.Observe(elapsed.Seconds())
}

func (p *PrometheusCollector) RecordCheckError() {
	p.checkErrorsTotal.Inc()
}

func (p *PrometheusCollector) RecordTokenIssued(elapsed time.Duration) {
	p.tokensIssued.Inc()
	p.tokenIssueTime.Observe(elapsed.Seconds())
}

func (p *PrometheusCollector) RecordTokenValidation(valid bool) {
	result := "rejected"
	if valid {
		result = "valid"
	}
	p.tokenValidations.WithLabelValues(result).Inc()
}

func (p *PrometheusCollector) RecordRevocationBump() {
	p.revocationBumps.Inc()
}

func (p *PrometheusCollector) RecordResourceRegistered(kind domain.ResourceKind) {
	p.resourcesByKind.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusCollector) RecordCodeCreated() {
	p.activeCodes.Inc()
}

func (p *PrometheusCollector) RecordCodeDeactivated() {
	p.activeCodes.Dec()
}

// Package telemetry provides OpenTelemetry tracing and Prometheus metrics
// for the triage service.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "triage"

// Metrics holds all triage Prometheus metrics.
type Metrics struct {
	// Classification metrics
	MessagesClassified *prometheus.CounterVec
	NeedsReviewTotal   prometheus.Counter
	ScoringDuration    prometheus.Histogram

	// Model metrics
	TrainingRuns     prometheus.Counter
	TrainingExamples prometheus.Gauge
	MLOverrides      prometheus.Counter
	MLUnavailable    prometheus.Counter

	// Feedback metrics
	FeedbackRecorded prometheus.Counter
}

// Provider wraps the tracer and the metric set.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// NewProvider initializes telemetry with Prometheus metrics. The metric set
// registers with the default registry once per process.
func NewProvider() *Provider {
	metricsOnce.Do(func() {
		metricsInst = initMetrics()
	})
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: metricsInst,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.MessagesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_messages_classified_total",
		Help: "Total messages classified, by final category and decision source",
	}, []string{"category", "source"})

	m.NeedsReviewTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_needs_review_total",
		Help: "Total decisions flagged for human review",
	})

	m.ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_rule_scoring_duration_seconds",
		Help:    "Time spent in signal detection, entity extraction and scoring",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.TrainingRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_model_training_runs_total",
		Help: "Total model training runs",
	})

	m.TrainingExamples = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "triage_model_training_examples",
		Help: "Examples used by the most recent training run",
	})

	m.MLOverrides = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_ml_overrides_total",
		Help: "Total decisions where the statistical classifier overrode the rules",
	})

	m.MLUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_ml_unavailable_total",
		Help: "Total classifications served without a trained model",
	})

	m.FeedbackRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "triage_feedback_recorded_total",
		Help: "Total feedback examples appended to the training store",
	})

	return m
}

// StartSpan begins a traced operation.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

// RecordDecision updates the classification counters for one fused decision.
func (p *Provider) RecordDecision(category, source string, needsReview bool, duration time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.MessagesClassified.WithLabelValues(category, source).Inc()
	if needsReview {
		p.Metrics.NeedsReviewTotal.Inc()
	}
	p.Metrics.ScoringDuration.Observe(duration.Seconds())
}

// RecordTraining updates the training counters after a completed run.
func (p *Provider) RecordTraining(examples int) {
	if p == nil {
		return
	}
	p.Metrics.TrainingRuns.Inc()
	p.Metrics.TrainingExamples.Set(float64(examples))
}

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

const namespace = "beacon"

// Metrics exposes ingestion and scoring state to Prometheus.
type Metrics struct {
	ingests       *prometheus.CounterVec
	ingestSeconds *prometheus.HistogramVec
	categoryScore *prometheus.GaugeVec
	weight        *prometheus.GaugeVec
	index         prometheus.Gauge
	generation    prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ingests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingests_total",
			Help:      "Report ingestions by source and outcome.",
		}, []string{"source", "outcome"}),
		ingestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent loading and parsing a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		categoryScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_score",
			Help:      "Clamped 0-100 score per audit category.",
		}, []string{"category"}),
		weight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_weight",
			Help:      "Active weight per audit category.",
		}, []string{"category"}),
		index: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "composite_index",
			Help:      "Weighted composite quality index.",
		}),
		generation: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score_generation",
			Help:      "Number of successful score replacements.",
		}),
	}
}

// IngestCompleted implements ingest.Observer.
func (m *Metrics) IngestCompleted(r ingest.Result) {
	m.ingests.WithLabelValues(r.Source, Outcome(r.Err)).Inc()
	m.ingestSeconds.WithLabelValues(r.Source).Observe(r.CompletedAt.Sub(r.StartedAt).Seconds())
	if r.OK() {
		m.generation.Set(float64(r.Generation))
	}
}

// ObserveResult records a recompute.
func (m *Metrics) ObserveResult(res scoring.Result) {
	for _, cr := range res.Categories {
		m.categoryScore.WithLabelValues(cr.Category.Key()).Set(cr.Clamped)
		m.weight.WithLabelValues(cr.Category.Key()).Set(cr.Weight)
	}
	m.index.Set(res.Index)
}

// Outcome classifies an ingestion error for the outcome label.
func Outcome(err error) string {
	var pe *scoring.ParseError
	var te *ingest.TransportError
	var se *ingest.SourceError
	var sz *ingest.SizeError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pe):
		return "parse_error"
	case errors.As(err, &te):
		return "transport_error"
	case errors.As(err, &se):
		return "source_error"
	case errors.As(err, &sz):
		return "size_error"
	default:
		return "error"
	}
}

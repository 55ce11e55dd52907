package hermes

import (
	"errors"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// Publisher turns scoring activity into hermes events. A nil client makes
// every method a no-op so callers need not check whether NATS is configured.
type Publisher struct {
	client Client
	logger *slog.Logger
	now    func() time.Time
}

func NewPublisher(c Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: c, logger: logger, now: time.Now}
}

// IngestCompleted implements ingest.Observer.
func (p *Publisher) IngestCompleted(r ingest.Result) {
	if p.client == nil {
		return
	}
	id := r.ID.String()
	if r.OK() {
		p.publish(SubjectReportIngested(id), ReportIngestedEvent{
			ID:         id,
			Source:     r.Source,
			Generation: r.Generation,
			Scores:     scoreMap(r.Scores),
			Timestamp:  p.now(),
		})
		return
	}
	p.publish(SubjectReportRejected(id), ReportRejectedEvent{
		ID:        id,
		Source:    r.Source,
		Reason:    rejectReason(r.Err),
		Error:     r.Err.Error(),
		Timestamp: p.now(),
	})
}

// IndexRecomputed publishes a recompute result.
func (p *Publisher) IndexRecomputed(res scoring.Result) {
	if p.client == nil {
		return
	}
	weights := make(map[string]float64, len(res.Categories))
	for _, cr := range res.Categories {
		weights[cr.Category.Key()] = cr.Weight
	}
	p.publish(SubjectIndexRecomputed, IndexRecomputedEvent{
		Index:      res.Index,
		IndexText:  res.IndexText,
		Generation: res.Generation,
		Weights:    weights,
		Timestamp:  p.now(),
	})
}

// WeightUpdated publishes a weight slot change.
func (p *Publisher) WeightUpdated(c scoring.Category, raw string) {
	if p.client == nil {
		return
	}
	p.publish(SubjectWeightsUpdated, WeightsUpdatedEvent{
		Category:  c.Key(),
		Raw:       raw,
		Weight:    scoring.CoerceWeight(raw),
		Timestamp: p.now(),
	})
}

func (p *Publisher) publish(subject string, v interface{}) {
	if err := p.client.Publish(subject, v); err != nil {
		p.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func scoreMap(m scoring.ScoreMapping) map[string]float64 {
	out := make(map[string]float64, len(scoring.Categories))
	for _, c := range scoring.Categories {
		out[c.Key()] = m.Get(c)
	}
	return out
}

func rejectReason(err error) string {
	var pe *scoring.ParseError
	var te *ingest.TransportError
	var sz *ingest.SizeError
	switch {
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &sz):
		return "size"
	default:
		return "source"
	}
}

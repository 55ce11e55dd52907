package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Beacon/internal/ingest"
	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestIngestCompleted(t *testing.T) {
	m := New(prometheus.NewRegistry())
	now := time.Now()

	m.IngestCompleted(ingest.Result{Source: "file", Generation: 3, StartedAt: now, CompletedAt: now.Add(time.Millisecond)})
	m.IngestCompleted(ingest.Result{Source: "remote", Err: &ingest.TransportError{URL: "x", StatusCode: 500}, StartedAt: now, CompletedAt: now})

	assert.Equal(t, 1.0, counterValue(t, m.ingests.WithLabelValues("file", "ok")))
	assert.Equal(t, 1.0, counterValue(t, m.ingests.WithLabelValues("remote", "transport_error")))
	assert.Equal(t, 3.0, gaugeValue(t, m.generation))
}

func TestObserveResult(t *testing.T) {
	m := New(prometheus.NewRegistry())
	res := scoring.Evaluate(scoring.ScoreMapping{120, 80, 100, 70}, scoring.WeightSet{10, 20, 30, 40})
	m.ObserveResult(res)

	assert.Equal(t, 100.0, gaugeValue(t, m.categoryScore.WithLabelValues("performance")))
	assert.Equal(t, 40.0, gaugeValue(t, m.weight.WithLabelValues("seo")))
	assert.InDelta(t, res.Index, gaugeValue(t, m.index), 1e-9)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&scoring.ParseError{Reason: "bad"}, "parse_error"},
		{&ingest.TransportError{URL: "u", StatusCode: 404}, "transport_error"},
		{&ingest.SourceError{Path: "p", Err: errors.New("denied")}, "source_error"},
		{&ingest.SizeError{URL: "u", Limit: 1}, "size_error"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

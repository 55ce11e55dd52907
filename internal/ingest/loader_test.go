package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession() *scoring.Session {
	return scoring.NewSession(scoring.EqualWeights(25), discardLogger())
}

// gatedSource blocks in Load until release is closed.
type gatedSource struct {
	name    string
	scores  scoring.ScoreMapping
	err     error
	started chan struct{}
	release chan struct{}
}

func newGatedSource(name string, scores scoring.ScoreMapping) *gatedSource {
	return &gatedSource{
		name:    name,
		scores:  scores,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedSource) Name() string { return g.name }

func (g *gatedSource) Load(ctx context.Context) (scoring.ScoreMapping, error) {
	close(g.started)
	<-g.release
	return g.scores, g.err
}

type recordingObserver struct {
	mu      sync.Mutex
	results []Result
}

func (o *recordingObserver) IngestCompleted(r Result) {
	o.mu.Lock()
	o.results = append(o.results, r)
	o.mu.Unlock()
}

func TestLoaderRunSuccess(t *testing.T) {
	session := newSession()
	obs := &recordingObserver{}
	loader := NewLoader(session, discardLogger(), obs)

	res := loader.Run(context.Background(), NewBytesSource("test", []byte(fullReport)))
	require.True(t, res.OK())
	assert.Equal(t, uint64(1), res.Generation)
	assert.Equal(t, "test", res.Source)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, res.Scores, session.CurrentScores())
	assert.InDelta(t, 85, session.Recompute().Index, 1e-9)
	require.Len(t, obs.results, 1)
	assert.Equal(t, res.ID, obs.results[0].ID)
}

func TestLoaderRunFailureKeepsScores(t *testing.T) {
	session := newSession()
	obs := &recordingObserver{}
	loader := NewLoader(session, discardLogger(), obs)

	require.True(t, loader.Run(context.Background(), NewBytesSource("test", []byte(fullReport))).OK())
	before := session.CurrentScores()

	res := loader.Run(context.Background(), NewBytesSource("test", []byte("{")))
	require.False(t, res.OK())
	var pe *scoring.ParseError
	assert.ErrorAs(t, res.Err, &pe)
	assert.Equal(t, before, session.CurrentScores())
	assert.Equal(t, uint64(1), session.Generation())
	require.Len(t, obs.results, 2)
	assert.Error(t, obs.results[1].Err)
}

func TestLoaderLastCompletionWins(t *testing.T) {
	t.Run("later start finishes first", func(t *testing.T) {
		first := newGatedSource("file", scoring.ScoreMapping{10, 10, 10, 10})
		second := newGatedSource("remote", scoring.ScoreMapping{90, 90, 90, 90})
		session := newSession()
		loader := NewLoader(session, discardLogger())

		a := loader.Start(context.Background(), first)
		<-first.started
		b := loader.Start(context.Background(), second)
		<-second.started

		close(second.release)
		rb := <-b
		close(first.release)
		ra := <-a

		assert.Less(t, rb.Generation, ra.Generation)
		assert.Equal(t, first.scores, session.CurrentScores(), "earlier-started task completed last and wins")
	})

	t.Run("earlier start finishes first", func(t *testing.T) {
		first := newGatedSource("file", scoring.ScoreMapping{10, 10, 10, 10})
		second := newGatedSource("remote", scoring.ScoreMapping{90, 90, 90, 90})
		session := newSession()
		loader := NewLoader(session, discardLogger())

		a := loader.Start(context.Background(), first)
		b := loader.Start(context.Background(), second)
		<-first.started
		<-second.started

		close(first.release)
		<-a
		close(second.release)
		<-b

		assert.Equal(t, second.scores, session.CurrentScores())
	})
}

func TestLoaderFailedTaskDoesNotOverrideWinner(t *testing.T) {
	session := newSession()
	loader := NewLoader(session, discardLogger())

	good := newGatedSource("file", scoring.ScoreMapping{50, 50, 50, 50})
	bad := newGatedSource("remote", scoring.ScoreMapping{})
	bad.err = &TransportError{URL: "http://example.invalid", StatusCode: 503}

	g := loader.Start(context.Background(), good)
	b := loader.Start(context.Background(), bad)
	close(good.release)
	<-g
	close(bad.release)
	rb := <-b

	var te *TransportError
	assert.True(t, errors.As(rb.Err, &te))
	assert.Equal(t, good.scores, session.CurrentScores())
	loader.Wait()
}

func TestObserverFunc(t *testing.T) {
	var got Result
	loader := NewLoader(newSession(), discardLogger(), ObserverFunc(func(r Result) { got = r }))
	loader.Run(context.Background(), NewBytesSource("nats", []byte(`{}`)))
	assert.Equal(t, "nats", got.Source)
	assert.True(t, got.OK())
}

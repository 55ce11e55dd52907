package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Beacon/internal/scoring"
)

// Result is the outcome of one ingestion task.
type Result struct {
	ID          uuid.UUID
	Source      string
	Scores      scoring.ScoreMapping
	Generation  uint64
	Err         error
	StartedAt   time.Time
	CompletedAt time.Time
}

// OK reports whether the task replaced the session scores.
func (r Result) OK() bool { return r.Err == nil }

// Observer is notified after every ingestion task completes.
type Observer interface {
	IngestCompleted(r Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Result)

func (f ObserverFunc) IngestCompleted(r Result) { f(r) }

// Loader runs ingestion tasks against a session. Tasks are independent:
// each one replaces the session scores the moment it completes, so when
// several overlap the last to finish wins. Nothing is queued or cancelled.
type Loader struct {
	session   *scoring.Session
	observers []Observer
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewLoader(session *scoring.Session, logger *slog.Logger, observers ...Observer) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{session: session, observers: observers, logger: logger}
}

// Run loads src and applies it synchronously.
func (l *Loader) Run(ctx context.Context, src Source) Result {
	res := Result{
		ID:        uuid.New(),
		Source:    src.Name(),
		StartedAt: time.Now(),
	}

	scores, err := src.Load(ctx)
	res.CompletedAt = time.Now()
	if err != nil {
		res.Err = err
		l.logger.Warn("ingest failed",
			"id", res.ID,
			"source", res.Source,
			"error", err,
		)
	} else {
		res.Scores = scores
		res.Generation = l.session.Replace(scores)
		l.logger.Info("report ingested",
			"id", res.ID,
			"source", res.Source,
			"generation", res.Generation,
			"duration_ms", res.CompletedAt.Sub(res.StartedAt).Milliseconds(),
		)
	}

	for _, o := range l.observers {
		o.IngestCompleted(res)
	}
	return res
}

// Start runs src in its own goroutine. The returned channel receives the
// result once and is then closed.
func (l *Loader) Start(ctx context.Context, src Source) <-chan Result {
	ch := make(chan Result, 1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(ch)
		ch <- l.Run(ctx, src)
	}()
	return ch
}

// Wait blocks until every started task has completed.
func (l *Loader) Wait() {
	l.wg.Wait()
}

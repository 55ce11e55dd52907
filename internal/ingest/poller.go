package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Poller reloads a source on a fixed interval. Each tick runs through the
// loader, so a slow tick racing a manual ingest still resolves by completion
// order.
type Poller struct {
	loader   *Loader
	source   Source
	interval time.Duration
	onLoad   func(Result)
	logger   *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewPoller builds a poller for src. onLoad, when set, runs after every
// successful tick.
func NewPoller(l *Loader, src Source, interval time.Duration, onLoad func(Result), logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		loader:   l,
		source:   src,
		interval: interval,
		onLoad:   onLoad,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.pollLoop(ctx)
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	r := p.loader.Run(ctx, p.source)
	if !r.OK() {
		p.logger.Debug("poll failed", "source", r.Source, "error", r.Err)
		return
	}
	if p.onLoad != nil {
		p.onLoad(r)
	}
}

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/state"
)

const (
	defaultPollInterval = time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// poller reads the backend event feed and forwards converted events.
type poller struct {
	source   board.EventSource
	store    *state.Store
	grid     layout.Grid
	interval time.Duration
	logger   *log.Logger
	out      chan<- layout.Event
}

// run polls until ctx is cancelled. Failures are recorded in the store and
// slow the cadence down.
func (p *poller) run(ctx context.Context) error {
	interval := p.interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := p.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures := p.store.Snapshot().ConsecutiveFailures
			wait := calculateBackoff(failures, interval)
			p.logger.Warn("event poll failed", "err", err, "failures", failures, "retry", wait)
			timer.Reset(wait)
			continue
		}
		timer.Reset(interval)
	}
}

func (p *poller) refresh(ctx context.Context) error {
	since := p.store.Snapshot().LastSeq
	batch, err := p.source.FetchEvents(ctx, since)
	if err != nil {
		p.store.RecordError(err)
		return err
	}
	for _, ev := range batch.LayoutEvents(p.grid) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p.out <- ev:
		}
	}
	p.store.RecordSuccess(batch.LastSeq(since))
	return nil
}

package app

import (
	"context"
	"time"

	"github.com/five82/panegrid/internal/layout"
)

const maxBatch = 256

// batcher coalesces events arriving within window so the reconciler packs
// once per burst.
type batcher struct {
	in     <-chan layout.Event
	out    chan<- []layout.Event
	window time.Duration
	max    int
}

func (b *batcher) run(ctx context.Context) error {
	limit := b.max
	if limit <= 0 {
		limit = maxBatch
	}

	var (
		pending []layout.Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, fire = nil, nil
	}
	defer stop()

	flush := func() bool {
		stop()
		if len(pending) == 0 {
			return true
		}
		batch := pending
		pending = nil
		select {
		case <-ctx.Done():
			return false
		case b.out <- batch:
			return true
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-b.in:
			if !ok {
				flush()
				return nil
			}
			pending = append(pending, ev)
			if len(pending) >= limit || b.window <= 0 {
				if !flush() {
					return nil
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(b.window)
				fire = timer.C
			}
		case <-fire:
			if !flush() {
				return nil
			}
		}
	}
}

package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/state"
)

// command runs against the reconciler on the loop goroutine.
type command func(r *layout.Reconciler)

// loop is the only goroutine that touches the reconciler.
type loop struct {
	rec     *layout.Reconciler
	store   *state.Store
	batches <-chan []layout.Event
	cmds    <-chan command
	logger  *log.Logger
}

func (l *loop) run(ctx context.Context) error {
	l.publish()
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-l.batches:
			l.rec.ApplyBatch(batch)
			l.logger.Debug("applied batch", "events", len(batch), "items", len(l.rec.Layout()))
		case cmd := <-l.cmds:
			cmd(l.rec)
		}
		l.publish()
	}
}

func (l *loop) publish() {
	l.store.Publish(state.Frame{
		Layout: l.rec.Layout(),
		Env:    l.rec.Env(),
		View:   l.rec.ActiveView(),
		Filter: l.rec.Filter(),
		Views:  l.rec.Views(),
		Cols:   l.rec.Cols(),
	})
}

// saveView forks the current arrangement into name.
func saveView(name string, logger *log.Logger) command {
	return func(r *layout.Reconciler) {
		if _, err := r.SaveView(name); err != nil {
			logger.Warn("save view failed", "view", name, "err", err)
			return
		}
		logger.Info("saved view", "env", r.Env(), "view", name)
	}
}

// deleteView drops name, falling back to the default view when it was active.
func deleteView(name string) command {
	return func(r *layout.Reconciler) {
		r.DeleteView(name)
	}
}

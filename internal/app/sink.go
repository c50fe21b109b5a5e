package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/persist"
)

const (
	pushQueueSize = 64
	pushTimeout   = 5 * time.Second
)

// remoteOp is a pending mirror call to the backend.
type remoteOp struct {
	desc string
	do   func(ctx context.Context) error
}

// sink writes committed state to the local store and queues view changes
// for the backend. It is called from the loop goroutine only.
type sink struct {
	store  persist.Store
	remote board.EventSource // nil disables mirroring
	ops    chan remoteOp
	logger *log.Logger
}

var _ layout.Sink = (*sink)(nil)

func newSink(store persist.Store, remote board.EventSource, logger *log.Logger) *sink {
	return &sink{
		store:  store,
		remote: remote,
		ops:    make(chan remoteOp, pushQueueSize),
		logger: logger,
	}
}

func (s *sink) CommitLayout(env, view string, l layout.Layout) {
	if err := s.store.SavePositions(env, view, l); err != nil {
		s.logger.Error("save positions failed", "env", env, "view", view, "err", err)
	}
}

func (s *sink) CommitView(env string, v layout.View) {
	if err := s.store.SaveView(env, v); err != nil {
		s.logger.Error("save view failed", "env", env, "view", v.Name, "err", err)
	}
	if s.remote != nil {
		s.enqueue(remoteOp{desc: "push view " + v.Name, do: func(ctx context.Context) error {
			return s.remote.PushView(ctx, env, v)
		}})
	}
}

func (s *sink) DropView(env, name string) {
	if err := s.store.DeleteView(env, name); err != nil {
		s.logger.Error("delete view failed", "env", env, "view", name, "err", err)
	}
	if s.remote != nil {
		s.enqueue(remoteOp{desc: "delete view " + name, do: func(ctx context.Context) error {
			return s.remote.DeleteView(ctx, env, name)
		}})
	}
}

func (s *sink) enqueue(op remoteOp) {
	select {
	case s.ops <- op:
	default:
		s.logger.Warn("remote queue full, dropping", "op", op.desc)
	}
}

// push drains queued backend calls until ctx is cancelled.
func (s *sink) push(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case op := <-s.ops:
			opCtx, cancel := context.WithTimeout(ctx, pushTimeout)
			err := op.do(opCtx)
			cancel()
			if err != nil {
				s.logger.Warn("remote call failed", "op", op.desc, "err", err)
			}
		}
	}
}

package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/persist"
)

// fakeSource is an in-memory backend.
type fakeSource struct {
	mu       sync.Mutex
	batches  []board.EventBatch
	fetchErr error
	sinces   []uint64
	pushed   []layout.View
	deleted  []string
	calls    chan string
}

var _ board.EventSource = (*fakeSource)(nil)

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(chan string, 16)}
}

func (f *fakeSource) FetchEvents(ctx context.Context, since uint64) (board.EventBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinces = append(f.sinces, since)
	if f.fetchErr != nil {
		return board.EventBatch{}, f.fetchErr
	}
	if len(f.batches) == 0 {
		return board.EventBatch{Next: since}, nil
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

func (f *fakeSource) PushView(ctx context.Context, env string, v layout.View) error {
	f.mu.Lock()
	f.pushed = append(f.pushed, v)
	f.mu.Unlock()
	f.calls <- "push " + env + "/" + v.Name
	return nil
}

func (f *fakeSource) DeleteView(ctx context.Context, env, name string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, name)
	f.mu.Unlock()
	f.calls <- "delete " + env + "/" + name
	return errors.New("backend unavailable")
}

func (f *fakeSource) ForkEnv(ctx context.Context, src, dst string) error { return nil }
func (f *fakeSource) DeleteEnv(ctx context.Context, env string) error    { return nil }

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func waitCall(t *testing.T, calls <-chan string) string {
	t.Helper()
	select {
	case c := <-calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for remote call")
		return ""
	}
}

func TestSink_WritesLocallyAndMirrorsViews(t *testing.T) {
	store := persist.NewMemory()
	remote := newFakeSource()
	s := newSink(store, remote, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = s.push(ctx) }()

	l := layout.Layout{{ID: "a", Width: 2, Height: 2, Placed: true}, {ID: "pending", Width: 2, Height: 2}}
	s.CommitLayout("main", layout.DefaultView, l)

	positions, err := store.Positions("main", layout.DefaultView)
	if err != nil {
		t.Fatalf("Positions returned error: %v", err)
	}
	if len(positions) != 1 || positions["a"].Width != 2 {
		t.Fatalf("positions = %+v, want only placed item a", positions)
	}

	v := layout.View{Name: "mine", Entries: map[string]layout.ViewEntry{"a": {Priority: 0, Width: 2, Height: 2}}}
	s.CommitView("main", v)
	if got := waitCall(t, remote.calls); got != "push main/mine" {
		t.Fatalf("remote call = %q, want push main/mine", got)
	}
	views, err := store.Views("main")
	if err != nil {
		t.Fatalf("Views returned error: %v", err)
	}
	if _, ok := views["mine"]; !ok {
		t.Fatalf("views = %v, want mine stored locally", views)
	}

	// A failing remote call is logged, not fatal.
	s.DropView("main", "mine")
	if got := waitCall(t, remote.calls); got != "delete main/mine" {
		t.Fatalf("remote call = %q, want delete main/mine", got)
	}
	views, _ = store.Views("main")
	if _, ok := views["mine"]; ok {
		t.Fatalf("view mine still stored after DropView")
	}
}

func TestSink_WithoutRemoteOnlyWritesLocally(t *testing.T) {
	store := persist.NewMemory()
	s := newSink(store, nil, quietLogger())
	s.CommitView("main", layout.View{Name: "mine", Entries: map[string]layout.ViewEntry{}})
	if len(s.ops) != 0 {
		t.Fatalf("queued %d remote ops, want 0", len(s.ops))
	}
}

func TestSink_FullQueueDropsOps(t *testing.T) {
	s := newSink(persist.NewMemory(), newFakeSource(), quietLogger())
	for i := 0; i < pushQueueSize+5; i++ {
		s.CommitView("main", layout.View{Name: "v", Entries: map[string]layout.ViewEntry{}})
	}
	if len(s.ops) != pushQueueSize {
		t.Fatalf("queued %d ops, want %d", len(s.ops), pushQueueSize)
	}
}

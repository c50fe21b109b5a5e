package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/layout"
	"github.com/five82/panegrid/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestPoller_RefreshForwardsEventsAndAdvancesSeq(t *testing.T) {
	source := newFakeSource()
	source.batches = []board.EventBatch{{
		Events: []board.Envelope{
			{Seq: 3, Kind: board.KindPaneArrived, Pane: &board.Pane{ID: "a", Type: "plot"}},
			{Seq: 4, Kind: "unknown"},
		},
		Next: 4,
	}}
	store := &state.Store{}
	out := make(chan layout.Event, 4)
	p := &poller{source: source, store: store, out: out, logger: quietLogger()}

	if err := p.refresh(context.Background()); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("forwarded %d events, want 1", len(out))
	}
	if got := store.Snapshot().LastSeq; got != 4 {
		t.Fatalf("LastSeq = %d, want 4", got)
	}

	if err := p.refresh(context.Background()); err != nil {
		t.Fatalf("second refresh returned error: %v", err)
	}
	if got := source.sinces[1]; got != 4 {
		t.Fatalf("second poll since = %d, want 4", got)
	}
}

func TestPoller_RefreshRecordsFailure(t *testing.T) {
	source := newFakeSource()
	source.fetchErr = errors.New("connection refused")
	store := &state.Store{}
	p := &poller{source: source, store: store, out: make(chan layout.Event, 1), logger: quietLogger()}

	for i := 0; i < 2; i++ {
		if err := p.refresh(context.Background()); err == nil {
			t.Fatalf("refresh returned nil error, want failure")
		}
	}
	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("snapshot = %+v, want offline after 2 failures", snap)
	}
}

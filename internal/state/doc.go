// Package state shares the latest pane arrangement between the layout loop
// and the UI.
//
// # Overview
//
// The layout loop owns the reconciler and is the only writer of the
// arrangement. After each batch or command it publishes a Frame; the poller
// records poll health alongside it. The UI reads a Snapshot on its own
// refresh tick and never blocks the writers for longer than a copy.
//
//	Poller ──RecordError/RecordSuccess──┐
//	                                    ├──→ Store ──Snapshot()──→ UI
//	Layout loop ─────────Publish────────┘
//
// # Core Types
//
// Frame is what the layout loop publishes:
//
//   - Layout: the packed panes in order
//   - Env, View, Filter: the active environment, view and filter text
//   - Views: saved view names
//   - Cols: the column count used by the last pack
//
// Snapshot is what readers get:
//
//   - Every Frame field
//   - LastUpdated: time of the last Publish or failed poll
//   - LastError, ConsecutiveFailures: poll health
//   - LastSeq: the highest event sequence consumed from the backend
//
// # Thread Safety
//
// Store is guarded by a sync.RWMutex and the zero value is ready to use.
// Writers take the write lock, Snapshot takes the read lock.
//
// Snapshot returns copies:
//
//   - The layout slice is cloned, so the UI can hold it across ticks while
//     the loop publishes new frames
//   - View names are copied (Publish callers pass them sorted)
//   - LastError is wrapped, so callers can inspect it with errors.Is
//
// # Poll Health
//
//	RecordError(err):
//	  - nil is ignored
//	  - LastError = err
//	  - ConsecutiveFailures++
//	  - arrangement untouched
//
//	RecordSuccess(seq):
//	  - LastError = nil
//	  - ConsecutiveFailures = 0
//	  - LastSeq = max(LastSeq, seq)
//
// IsOffline reports two or more consecutive failures. A single failed poll
// is common during backend restarts and does not flip the UI into its
// offline banner.
//
// # Sequence Tracking
//
// The poller asks the backend for events after LastSeq. Because LastSeq
// never moves backwards, a stale or reordered batch cannot make the client
// replay events it already applied.
//
// # Usage Example
//
//	store := &state.Store{}
//
//	// layout loop
//	store.Publish(state.Frame{Layout: rec.Layout(), Env: rec.Env(), View: rec.ActiveView()})
//
//	// poller
//	if err != nil {
//		store.RecordError(err)
//	} else {
//		store.RecordSuccess(batch.LastSeq(since))
//	}
//
//	// UI
//	snap := store.Snapshot()
//	if snap.IsOffline() {
//		// show banner
//	}
//
// # Testing
//
// store_test.go covers defensive copies, the failure counter, offline
// detection and the monotonic sequence.
package state

// Package app wires the panegrid dashboard together.
//
// # Overview
//
// Run is the composition root behind the bare `panegrid` command. It loads
// the config and user prefs, opens the log file and the SQLite layout store,
// builds the backend client and the layout.Reconciler, and then serves until
// the user quits or the context is cancelled.
//
// # Startup Sequence
//
//  1. config.Load: API address, grid geometry, sizes, state dir
//  2. prefs.Load: theme, last env, view and filter
//  3. open <state_dir>/panegrid.log and build the charmbracelet logger
//  4. persist.OpenSQLite(<state_dir>/layout.db)
//  5. board.NewClient(api_bind)
//  6. layout.New with the store as Records and a sink as Sink
//  7. restorePrefs: reapply view and filter when prefs belong to this env
//  8. serve
//
// The environment is the first non-empty of --env, prefs and config.
//
// # Goroutines
//
// serve starts five goroutines under one errgroup:
//
//	poller ──events──→ batcher ──batches──→ loop ──Publish──→ state.Store ──→ ui
//	                      ↑                  │
//	ui ──Dispatch─────────┘                  └──→ sink ──→ persist.Store
//	ui ──SaveView/DeleteView──→ loop             └──→ pusher ──→ backend
//
//   - poller: reads /api/events from the backend and converts envelopes to
//     layout events. Failures back off exponentially up to maxBackoff.
//   - batcher: coalesces events arriving within the debounce window, or
//     flushes early at maxBatch, so a burst of arrivals packs once.
//   - loop: the only goroutine that touches the layout.Reconciler. Batches
//     and UI commands are applied in arrival order and each result is
//     published to the state store.
//   - pusher: mirrors saved and deleted views to the backend; failures are
//     logged and never block the loop.
//   - ui: the Bubble Tea program. Quitting ends the group.
//
// # Backoff Strategy
//
//	calculateBackoff(failures, base):
//	  - failures <= 0: base
//	  - otherwise: base doubled once per failure
//	  - capped at maxBackoff (30s)
//
// With the default one second interval a dead backend is polled after 2s,
// 4s, 8s, 16s, then every 30s. The first successful poll resets the counter
// in the state store and the interval returns to normal.
//
// # Queues
//
//   - events: buffered (eventQueueSize). The poller blocks on it; the UI's
//     Dispatch never does and drops the event with a warning when full.
//   - batches, cmds: unbuffered; the loop is the only reader.
//   - remote ops: buffered (pushQueueSize); full queues drop with a warning.
//
// # Shutdown
//
// The first goroutine to return cancels the group context. A normal UI exit
// returns errQuit internally, which serve reports as nil. Context
// cancellation (SIGINT, SIGTERM) stops every goroutine and also yields nil.
// Any other error is returned to the CLI.
//
// # Logging
//
// The dashboard logs with charmbracelet/log to <state_dir>/panegrid.log so
// the terminal is left to the UI. Verbose mode switches to debug level. The
// reconciler logs under the "layout" prefix. `panegrid logs` reads the file
// back.
//
// # Testing
//
// serve takes a runtime value with the UI as a function, so tests run the
// whole pipeline against a fake event source and an in-memory store without
// a terminal. Poller, batcher and sink have their own unit tests.
package app

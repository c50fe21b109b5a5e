// Package layout owns the ordered set of panes on the dashboard grid and
// decides when and how they are packed.
//
// # Overview
//
// A Reconciler holds the live Layout for one environment. Inbound events
// (pane arrived, resized, closed, view selected, filter changed, environment
// switched) are applied through Apply or ApplyBatch, or through the direct
// operations UpsertItem, RemoveItem, Repack, SelectView and SetFilter.
//
// # Placement
//
// A pane that arrives with a saved position record and no explicit size is
// restored exactly as recorded and skips the packer. Other new panes are
// queued; PlacePending packs only the queued panes on fresh shelves beneath
// everything already placed, so arrivals never move existing panes. Resizes,
// view switches and filter changes run a full Repack.
//
// # Sort Policy
//
// Repack sorts before packing. The first differing key wins:
//
//  1. Filter match: panes whose title matches the filter sort first.
//  2. View priority, when a named view is active. Panes missing from the
//     view sort after the ones it lists.
//  3. Previous order, snapshotted before the sort starts.
//
// The last key makes Repack idempotent: repacking an unchanged layout yields
// the same order and positions.
//
// # Views
//
// The default view "current" always exists and is never stored. SaveView
// forks the current arrangement into a named view (priority is the layout
// index, size is the current size). A named view also overrides the size of
// each pane it lists.
//
// # Errors
//
// Nothing in this package fails. Invalid filter patterns behave as no
// filter, unknown ids are ignored and missing records fall back to
// defaults. Persistence goes through the Records and Sink interfaces, whose
// implementations deal with their own I/O errors.
//
// # Concurrency
//
// A Reconciler is single-owner and not safe for concurrent use. Coalescing
// bursts of events is the caller's job; ApplyBatch packs at most once per
// batch.
package layout

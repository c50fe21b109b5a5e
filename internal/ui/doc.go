// Package ui renders the pane grid in the terminal with Bubble Tea.
//
// # Overview
//
// The model ticks the state store and redraws the latest snapshot. Each
// placed pane becomes a boxed frame on a character canvas: one text line per
// grid row, and terminal width divided evenly across the grid columns. Pane
// titles sit in the top border. The canvas scrolls inside a viewport.
//
// The UI never touches the reconciler. Filter edits and view switches leave
// through Options.Dispatch as layout events; saving and deleting views go
// through Options.SaveView and Options.DeleteView, which the runtime
// serializes on the layout loop.
//
// # Keys
//
//	/         edit the title filter (enter applies, esc cancels)
//	v / V     next / previous view
//	s         save the current arrangement as a named view
//	x         delete the active view
//	T         cycle theme (saved to prefs)
//	?         help
//	q, ctrl+c quit
//
// # Files
//
//   - app.go: model, update loop and Run
//   - canvas.go: pane frames on a rune grid
//   - header.go: status line and pane type legend
//   - theme.go: Nightfox, Kanagawa and Slate palettes
package ui

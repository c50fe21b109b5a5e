// Package config loads the panegrid client configuration.
//
// # Overview
//
// Settings live in a TOML file. Every field is optional and a missing file
// is not an error: the client should start against a local backend with no
// configuration at all.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/panegrid/config.toml
//  3. If the file doesn't exist, use defaults
//  4. Blank or zero fields fall back to their defaults
//
// # TOML Format
//
//	api_bind    = "127.0.0.1:8097"   # backend host:port
//	env         = "main"             # environment opened at startup
//	cols        = 24                 # grid column count
//	debounce_ms = 50                 # event coalescing window
//	poll_ms     = 1000               # event poll interval
//	state_dir   = "~/.local/state/panegrid"
//
//	[grid]                           # pixel to grid conversion
//	row_height = 24
//	col_width  = 48
//	margin     = 8
//
//	[sizes.plot]                     # default footprint per pane type
//	width  = 8
//	height = 6
//
// Size overrides merge onto the built-in table; a zero dimension keeps the
// built-in value.
//
// # Derived Paths
//
//   - DatabasePath: <state_dir>/layout.db (saved positions and views)
//   - LogPath: <state_dir>/panegrid.log (dashboard log)
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, and TOML parse errors (wrapped as "parse config").
package config

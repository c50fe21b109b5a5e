// Package cli implements the panegrid command-line interface.
//
// # Commands
//
//   - panegrid: run the dashboard (--prefs, --env, --poll)
//   - pack: run the shelf packer on WxH sizes and print positions
//   - env list | fork SRC DST | delete ENV: manage saved environments
//   - views ENV: list saved views
//   - logs: print the end of the dashboard log
//
// # Logging
//
// Subcommands log to stderr through charmbracelet/log; --verbose (-v)
// switches to debug level. The logger travels in the command context. The
// dashboard itself logs to a file so the terminal belongs to the UI.
package cli

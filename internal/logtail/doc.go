// Package logtail reads the end of the dashboard log file.
//
// # Overview
//
// The dashboard writes its log to <state_dir>/panegrid.log so the terminal
// belongs to the UI. This package backs the `panegrid logs` command: it
// extracts the last N lines of that file and filters them by level without
// loading the whole file into memory.
//
// # Core Functionality
//
//  1. Read: extract the last N lines from a log file
//  2. LineLevel: find the level label of one line
//  3. AtLeast: keep lines at or above a level
//
// Example usage:
//
//	lines, err := logtail.Read(cfg.LogPath(), 50)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.AtLeast(lines, log.WarnLevel) {
//		fmt.Println(line)
//	}
//
// # Ring Buffer Algorithm
//
// Read keeps a circular buffer of maxLines entries:
//
//	1. Allocate a ring of size maxLines
//	2. For each line in the file:
//	   - store it at the current index
//	   - advance the index, wrapping at maxLines
//	   - count lines seen, up to maxLines
//	3. Fewer than maxLines seen: return the first count entries
//	4. Otherwise: return the ring starting at the current index
//
// A non-positive maxLines skips the ring and returns every line, which is
// what `panegrid logs -n 0` asks for.
//
// # Level Labels
//
// charmbracelet/log's text formatter writes four-letter labels after the
// timestamp:
//
//	14:32:01.45 INFO layout: packed items=12 cols=24
//	14:32:01.52 WARN remote queue full, dropping op="push view"
//	14:32:02.10 WARN event poll failed err="connection refused" failures=1
//
// LineLevel looks for DEBU, INFO, WARN, ERRO or FATA in the first two
// fields, which covers lines with and without a timestamp. A line with no
// label is a continuation (a wrapped value or a multi-line error), and
// AtLeast keeps or drops it together with the labeled line before it.
//
// # Performance Considerations
//
//   - Scanner buffer: 64KB initial, 1MB max line length
//   - Memory: O(maxLines × average line length)
//   - Time: one sequential pass over the file
//
// # Error Handling
//
// Read returns nil, nil for a missing file: a dashboard that never ran has
// no log yet. Other open and scan errors are returned wrapped as "open log"
// or "read log". LineLevel and AtLeast never fail; unrecognized lines are
// treated as continuations.
//
// # Testing
//
// logtail_test.go covers the ring buffer for files shorter and longer than
// maxLines, the read-all mode, missing files, label detection with and
// without timestamps, and continuation handling in AtLeast.
package logtail

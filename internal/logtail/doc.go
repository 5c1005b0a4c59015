// Package logtail reads and formats marquee's own log file for the in-app
// diagnostics overlay.
//
// # Reading
//
// Read returns the last N lines of a file using a ring buffer, so memory
// stays O(N) regardless of file size. Missing files read as empty.
//
// # Formatting
//
// The log file holds zerolog JSON lines. Parse decodes one line into an
// Entry and Format renders it the way a person wants to scan it:
//
//	2026-01-02 15:04:05 WARN [controller] – fetch failed
//	    - error: fetch failed: api /api/movies/trending returned status 502
//	    - op: load_trending
//
// Lines that are not JSON (a truncated write, a hand-edited file) pass
// through FormatLines unchanged.
//
// # Watching
//
// Watch uses fsnotify on the log directory and emits a debounced signal
// whenever the file is written or recreated after rotation. The overlay
// re-reads the tail on each signal while it is open.
package logtail

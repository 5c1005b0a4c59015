// Package ui provides the Bubble Tea terminal interface for marquee.
//
// # Architecture
//
// The Model owns only presentation state: terminal size, the grid cursor,
// the filter query, text inputs and overlays. Everything about movies lives
// in the controller's state.Store. The Model subscribes to the store and
// renders whichever snapshot it last received, so a response that the
// controller discards as stale never reaches the screen.
//
// Controller calls block on the network, so they run inside tea.Cmds and
// report back as resultMsg. Failures are logged, not displayed: the
// previous list simply stays on screen.
//
// # Files
//
//   - app.go: Model, Update and key routing
//   - commands.go: tea.Cmd constructors and message types
//   - header.go: tab strip, search bar and footer
//   - grid.go: movie rows and empty states
//   - detail.go: the details tab with its recommendations
//   - filter.go: fuzzy narrowing of the visible list
//   - diagnostics.go: live view of the log file
//   - help.go: key binding overlay
//   - theme.go, style_helpers.go: palettes and rendering helpers
//
// # Key Bindings
//
//   - /: search the catalog
//   - t: trending (refetches)
//   - s, v: search results, favorites
//   - enter: open details for the highlighted movie
//   - space: toggle favorite
//   - f: filter the visible list
//   - y: copy title and poster URL
//   - b or esc: back to trending
//   - T: cycle theme
//   - L: diagnostics log
//   - ?: help
//   - q or ctrl+c: quit
package ui

// Package controller orchestrates catalog fetches against the view state.
//
// Each fetch-backed operation (LoadTrending, Search, SelectMovie) starts a new
// store generation, cancels whatever request was in flight, and commits its
// response only if no newer navigation happened in the meantime. Failures
// never surface as errors to the UI: they clear the loading flag, get logged,
// and are reported back as a Result with OutcomeFailed so callers can show a
// transient notice if they want to.
//
// SelectMovie fetches the movie detail and its recommendations concurrently
// and commits both or neither.
package controller

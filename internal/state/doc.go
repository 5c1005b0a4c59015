// Package state holds the marquee view state as immutable snapshots.
//
// # Overview
//
// ViewState captures everything the TUI renders: the active tab, the search
// query, the loading flag, the trending/search/recommendation lists, the
// selected movie and the favorites. Store owns the current snapshot and
// replaces it wholesale on every change; nothing is edited in place.
//
// # Replace-on-write
//
// Update is the single mutation entry point:
//
//	store.Update(func(v state.ViewState) state.ViewState {
//		v.ActiveTab = state.TabFavorites
//		return v
//	})
//
// The callback receives a deep copy, so it may modify slices freely. Snapshot
// also returns a deep copy, which keeps renderers and fetch goroutines from
// sharing backing arrays.
//
// # Generations
//
// Every navigation (a fetch-backed operation or a plain tab switch) starts a
// new generation:
//
//	ticket := store.Begin(nil)          // generation++, Loading = true
//	...fetch...
//	store.Commit(ticket, apply)         // applied only if still current
//	store.Finish(ticket)                // failure: clear Loading if current
//	store.Navigate(fn)                  // generation++, Loading = false
//
// A response that arrives after a newer navigation finds its ticket stale and
// is dropped, so the most recently issued request always wins regardless of
// network ordering. Loading is only ever cleared by the generation that set
// it, which keeps it true exactly while the current navigation's fetch is
// outstanding.
//
// # Concurrency Model
//
// Store guards the snapshot with a sync.RWMutex. Fetches run inside Bubble
// Tea command goroutines, so commits can race with each other and with key
// handling; the lock serialises them and the generation check settles the
// ordering. The lock is never held during network I/O or rendering.
//
// # Subscriptions
//
// Subscribe hands out a one-slot channel per subscriber. Each replacement is
// offered to every subscriber; a subscriber that has not read the previous
// snapshot gets it swapped for the newer one, so readers never block the
// store and never see an outdated snapshot after a newer one.
//
// # Invariants
//
// Validate checks what the store relies on:
//   - Favorites never holds two entries with the same ID
//   - The details tab is only active with a selected movie
package state

package state

import (
	"sync"
	"time"
)

// Ticket identifies the navigation generation a fetch was issued under.
type Ticket uint64

// Store holds the current ViewState and replaces it wholesale on every
// change. The zero value is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot ViewState
	subs     map[int]chan ViewState
	nextSub  int
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Update is the single mutation entry point: fn receives a private copy of
// the current state and returns its replacement.
func (s *Store) Update(fn func(ViewState) ViewState) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(fn(s.snapshot.Clone()))
}

// Begin starts a new navigation generation, marks the state as loading and
// applies fn. Fetches issued afterwards commit with the returned ticket.
func (s *Store) Begin(fn func(ViewState) ViewState) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snapshot.Clone()
	next.Generation++
	next.Loading = true
	if fn != nil {
		next = fn(next)
	}
	s.replaceLocked(next)
	return Ticket(next.Generation)
}

// Navigate starts a new generation without a fetch. Any outstanding ticket
// becomes stale and loading is cleared.
func (s *Store) Navigate(fn func(ViewState) ViewState) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snapshot.Clone()
	next.Generation++
	next.Loading = false
	if fn != nil {
		next = fn(next)
	}
	return s.replaceLocked(next)
}

// Commit applies fn and clears loading, but only when t is still the current
// generation. It reports whether the update was applied.
func (s *Store) Commit(t Ticket, fn func(ViewState) ViewState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(t) != s.snapshot.Generation {
		return false
	}
	next := s.snapshot.Clone()
	if fn != nil {
		next = fn(next)
	}
	next.Generation = uint64(t)
	next.Loading = false
	s.replaceLocked(next)
	return true
}

// Finish clears loading for a fetch that produced no update. Stale tickets
// are ignored.
func (s *Store) Finish(t Ticket) bool {
	return s.Commit(t, nil)
}

// Current reports whether t is still the latest generation.
func (s *Store) Current(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(t) == s.snapshot.Generation
}

// Subscribe returns a channel that receives every committed snapshot. Slow
// readers only ever see the most recent one. The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan ViewState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]chan ViewState)
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan ViewState, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

func (s *Store) replaceLocked(next ViewState) ViewState {
	next.LastUpdated = time.Now()
	s.snapshot = next
	for _, ch := range s.subs {
		snap := next.Clone()
		select {
		case ch <- snap:
		default:
			// drop the stale pending snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return next.Clone()
}

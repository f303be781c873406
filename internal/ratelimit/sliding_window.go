// Package ratelimit implements the in-process sliding-window counter that
// gates AI explanations per user.
package ratelimit

import (
	"sync"
	"time"
)

// Decision reports the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time // when the oldest counted hit leaves the window
}

// SlidingWindow allows at most limit hits per key in any window-long span.
type SlidingWindow struct {
	limit  int
	window time.Duration
	clock  Clock

	mu   sync.Mutex
	hits map[string][]time.Time // ascending
}

func NewSlidingWindow(limit int, window time.Duration, clock Clock) *SlidingWindow {
	if clock == nil {
		clock = realClock{}
	}
	return &SlidingWindow{
		limit:  limit,
		window: window,
		clock:  clock,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a hit for key if the window has room.
func (s *SlidingWindow) Allow(key string) Decision {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	hits := s.cleanup(key, now)
	if len(hits) >= s.limit {
		return Decision{Limit: s.limit, Reset: s.resetAt(hits, now)}
	}
	hits = append(hits, now)
	s.hits[key] = hits
	return Decision{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - len(hits),
		Reset:     s.resetAt(hits, now),
	}
}

// Remaining reports how many hits key may still make, without recording one.
func (s *SlidingWindow) Remaining(key string) int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return max(s.limit-len(s.cleanup(key, now)), 0)
}

// cleanup drops hits that left the window. Caller holds mu.
func (s *SlidingWindow) cleanup(key string, now time.Time) []time.Time {
	hits := s.hits[key]
	cut := 0
	for cut < len(hits) && !hits[cut].Add(s.window).After(now) {
		cut++
	}
	hits = hits[cut:]
	if len(hits) == 0 {
		delete(s.hits, key)
		return nil
	}
	s.hits[key] = hits
	return hits
}

func (s *SlidingWindow) resetAt(hits []time.Time, now time.Time) time.Time {
	if len(hits) == 0 {
		return now
	}
	return hits[0].Add(s.window)
}

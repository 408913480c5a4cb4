package session

import (
	"sync"
	"time"
)

// scheduler owns the single pending-write slot of one session. Arming
// always cancels the previous slot first, so at most one debounce
// timer exists per form instance at any time. Generations invalidate
// callbacks from timers that were stopped after they already fired.
type scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// arm schedules fn to run after d, replacing any pending slot. The
// generation passed to fn identifies this arming; fn must check it
// against current() before acting.
func (s *scheduler) arm(d time.Duration, fn func(gen uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(d, func() { fn(gen) })
}

// cancel stops any pending slot and invalidates in-flight callbacks.
func (s *scheduler) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// current reports whether gen is still the live generation.
func (s *scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

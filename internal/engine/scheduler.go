package engine

import (
	"sync"
	"time"
)

// scheduler coalesces rapid signals into a single pending timer.
// At most one callback is outstanding: scheduling always cancels the prior
// timer (debounce/throttle collapse, not a queue). After close, nothing
// fires.
type scheduler struct {
	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	closed bool
}

// schedule arranges fn to run after d, cancelling any pending callback.
func (s *scheduler) schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(d, func() {
		// A timer that was already firing when schedule or close grabbed
		// the lock must not run a stale callback.
		s.mu.Lock()
		stale := s.closed || seq != s.seq
		s.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// cancel stops any pending callback without closing the scheduler.
func (s *scheduler) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}

// close cancels pending work permanently.
func (s *scheduler) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}

package debounce

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler collapses rapid repeats of a keyed action into one call after a
// quiet period. There is at most one pending timer per key: scheduling again
// replaces the previous timer, so only the most recent value ever fires.
type (
	Scheduler struct {
		l      *zap.Logger
		delay  time.Duration
		mu     sync.Mutex
		timers map[string]*time.Timer
		closed bool
	}
	Option func(*Scheduler)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, delay time.Duration, opts ...Option) *Scheduler {
	inst := &Scheduler{
		l:      l.Named("debounce"),
		delay:  delay,
		timers: map[string]*time.Timer{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Schedule arms fn to run after the quiet period. A still-pending timer for
// the same key is cancelled first. Scheduling on a closed scheduler is a
// no-op.
func (s *Scheduler) Schedule(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.l.Debug("schedule on closed scheduler", zap.String("key", key))
		return
	}
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
	}
	// the callback may already be in flight when Stop returns false; it
	// must only act if the map still points at its own timer, otherwise a
	// stale value could fire after a newer schedule
	var timer *time.Timer
	timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current != timer || s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = timer
}

// Cancel drops a pending timer for the key, if any.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// Pending reports whether a timer is armed for the key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Close cancels every pending timer. Timers that already fired but did not
// run yet will see the closed flag and return without calling their action.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

package playback

import (
	"sync"
	"time"

	"github.com/ivlev/choreo/internal/formation"
)

// DefaultTickInterval is roughly one display refresh.
const DefaultTickInterval = 16 * time.Millisecond

// TickFunc receives the show time after every tick.
type TickFunc func(ms float64, playing bool)

// Scheduler drives Clock.Tick from a self-rearming timer for one play
// session. A tick only rearms while the clock is still playing the session
// it was armed for and nobody cancelled it.
type Scheduler struct {
	clock    *Clock
	interval time.Duration
	frames   func() []formation.Frame
	onTick   TickFunc

	tickMu sync.Mutex // serialises Tick and onTick with Cancel

	mu    sync.Mutex
	timer *time.Timer
	token uint64
	armed bool
}

// NewScheduler ties a clock to a frame source and a tick callback.
func NewScheduler(clock *Clock, interval time.Duration, frames func() []formation.Frame, onTick TickFunc) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{
		clock:    clock,
		interval: interval,
		frames:   frames,
		onTick:   onTick,
	}
}

// Start arms the scheduler for the clock's current session. It is a no-op
// while the clock is stopped.
func (s *Scheduler) Start() {
	if !s.clock.IsPlaying() {
		return
	}
	gen := s.clock.Generation()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.token = gen
	s.armed = true
	s.timer = time.AfterFunc(s.interval, func() { s.fire(gen) })
}

// Cancel prevents any further tick. A tick already running finishes
// before Cancel returns, so onTick must not call Cancel. Safe to call
// repeatedly.
func (s *Scheduler) Cancel() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	s.armed = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Running reports whether a tick is pending.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

func (s *Scheduler) live(token uint64) bool {
	return s.armed && s.token == token
}

func (s *Scheduler) isLive(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(token)
}

func (s *Scheduler) fire(token uint64) {
	if !s.isLive(token) {
		return
	}
	frames := s.frames()

	// Cancel holds tickMu too, so once it returns this tick either has
	// finished or sees itself disarmed.
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if !s.isLive(token) {
		return
	}
	if s.clock.Generation() != token {
		s.disarm(token)
		return
	}

	ms, playing := s.clock.Tick(frames)
	if s.onTick != nil {
		s.onTick(ms, playing)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(token) {
		return
	}
	if !playing {
		s.armed = false
		s.timer = nil
		return
	}
	s.timer = time.AfterFunc(s.interval, func() { s.fire(token) })
}

func (s *Scheduler) disarm(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live(token) {
		s.armed = false
		s.timer = nil
	}
}

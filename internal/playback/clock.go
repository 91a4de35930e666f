// Package playback advances show time while playing. It only decides what
// time it is; evaluating positions at that time is the timeline's job.
package playback

import (
	"sync"
	"time"

	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/timeline"
)

// MinAutoStopEnd is the shortest playback end at which the clock stops on
// its own (ms). Shorter shows play on until stopped.
const MinAutoStopEnd = 10000.0

// Transport is the audio player kept in step with the clock. Stop must be
// safe to call when nothing is playing.
type Transport interface {
	Play(offsetMs float64) error
	Stop()
}

type nopTransport struct{}

func (nopTransport) Play(float64) error { return nil }
func (nopTransport) Stop()              {}

type Option func(*Clock)

// WithTimeProvider replaces the real-time source.
func WithTimeProvider(tp TimeProvider) Option {
	return func(c *Clock) { c.provider = tp }
}

// WithTransport attaches an audio player.
func WithTransport(t Transport) Option {
	return func(c *Clock) { c.transport = t }
}

// Clock is a two-state (stopped, playing) show clock. While playing,
// show time is real time minus an anchor; stopping freezes it and playing
// again resumes from the frozen value.
type Clock struct {
	mu        sync.Mutex
	provider  TimeProvider
	transport Transport

	playing    bool
	anchor     time.Time
	current    float64 // ms, valid while stopped
	generation uint64  // bumped on every state change
}

func NewClock(opts ...Option) *Clock {
	c := &Clock{
		provider:  NewMonotonicTimeProvider(),
		transport: nopTransport{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTransport swaps the audio player, stopping the old one.
func (c *Clock) SetTransport(t Transport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == nil {
		t = nopTransport{}
	}
	c.transport.Stop()
	c.transport = t
}

// Now returns the show time in ms.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowLocked()
}

func (c *Clock) nowLocked() float64 {
	if !c.playing {
		return c.current
	}
	return float64(c.provider.Now().Sub(c.anchor)) / float64(time.Millisecond)
}

// IsPlaying reports the clock state.
func (c *Clock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Generation identifies the current play session. Any stop or start
// changes it, which invalidates ticks scheduled for an earlier session.
func (c *Clock) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Play starts the clock from the current time. Audio failures are returned
// but the clock keeps running.
func (c *Clock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return nil
	}
	c.anchor = c.provider.Now().Add(-msToDuration(c.current))
	c.playing = true
	c.generation++
	return c.transport.Play(c.current)
}

// Stop freezes the clock. Calling it while stopped does nothing.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked(c.nowLocked())
}

func (c *Clock) stopLocked(at float64) {
	if !c.playing {
		return
	}
	c.transport.Stop()
	c.current = at
	c.playing = false
	c.generation++
}

// Toggle plays when stopped and stops when playing.
func (c *Clock) Toggle() error {
	if c.IsPlaying() {
		c.Stop()
		return nil
	}
	return c.Play()
}

// Seek jumps to ms (never negative). While playing the clock re-anchors so
// it continues from the new time; audio is stopped before the jump.
func (c *Clock) Seek(ms float64) error {
	if ms < 0 {
		ms = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		c.current = ms
		return nil
	}
	c.transport.Stop()
	c.anchor = c.provider.Now().Add(-msToDuration(ms))
	return c.transport.Play(ms)
}

// Tick recomputes show time for a display refresh. Past the playback end
// of a long enough show it clamps to the end and stops.
func (c *Clock) Tick(frames []formation.Frame) (ms float64, playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.nowLocked()
	if !c.playing {
		return t, false
	}
	if end, ok := timeline.PlaybackEnd(frames); ok && t > end && end > MinAutoStopEnd {
		c.stopLocked(end)
		return end, false
	}
	return t, true
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

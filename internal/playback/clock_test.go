package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ivlev/choreo/internal/formation"
)

type recordingTransport struct {
	mu     sync.Mutex
	events []string
	offset []float64
	err    error
}

func (r *recordingTransport) Play(offsetMs float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "play")
	r.offset = append(r.offset, offsetMs)
	return r.err
}

func (r *recordingTransport) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "stop")
}

func (r *recordingTransport) log() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestClock() (*Clock, *MockTimeProvider, *recordingTransport) {
	tp := NewMockTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tr := &recordingTransport{}
	return NewClock(WithTimeProvider(tp), WithTransport(tr)), tp, tr
}

func frame(start, dur float64) formation.Frame {
	return formation.Frame{ID: "f", StartTime: start, Duration: dur, Positions: formation.Positions{}}
}

func TestClockPlayStopResume(t *testing.T) {
	c, tp, _ := newTestClock()

	if c.IsPlaying() || c.Now() != 0 {
		t.Fatalf("new clock: playing=%v now=%v", c.IsPlaying(), c.Now())
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}
	tp.Advance(1500 * time.Millisecond)
	if got := c.Now(); got != 1500 {
		t.Errorf("Now() = %v, want 1500", got)
	}

	c.Stop()
	tp.Advance(5 * time.Second)
	if got := c.Now(); got != 1500 {
		t.Errorf("stopped clock moved to %v", got)
	}

	c.Play()
	tp.Advance(500 * time.Millisecond)
	if got := c.Now(); got != 2000 {
		t.Errorf("resumed Now() = %v, want 2000", got)
	}
}

func TestClockStopIdempotent(t *testing.T) {
	c, _, tr := newTestClock()
	c.Play()
	gen := c.Generation()

	c.Stop()
	c.Stop()
	c.Stop()

	if c.Generation() != gen+1 {
		t.Errorf("generation = %d, want %d", c.Generation(), gen+1)
	}
	want := []string{"play", "stop"}
	if got := tr.log(); len(got) != len(want) {
		t.Errorf("transport events = %v, want %v", got, want)
	}
}

func TestClockPlayWhilePlaying(t *testing.T) {
	c, _, tr := newTestClock()
	c.Play()
	gen := c.Generation()
	c.Play()
	if c.Generation() != gen {
		t.Error("second Play started a new session")
	}
	if len(tr.log()) != 1 {
		t.Errorf("transport events = %v", tr.log())
	}
}

func TestClockToggle(t *testing.T) {
	c, _, _ := newTestClock()
	c.Toggle()
	if !c.IsPlaying() {
		t.Fatal("toggle from stopped should play")
	}
	c.Toggle()
	if c.IsPlaying() {
		t.Fatal("toggle from playing should stop")
	}
}

func TestClockSeek(t *testing.T) {
	t.Run("stopped", func(t *testing.T) {
		c, _, tr := newTestClock()
		c.Seek(4200)
		if c.Now() != 4200 || c.IsPlaying() {
			t.Errorf("now=%v playing=%v", c.Now(), c.IsPlaying())
		}
		if len(tr.log()) != 0 {
			t.Errorf("seek while stopped touched transport: %v", tr.log())
		}
	})

	t.Run("negative clamps to zero", func(t *testing.T) {
		c, _, _ := newTestClock()
		c.Seek(-300)
		if c.Now() != 0 {
			t.Errorf("now = %v", c.Now())
		}
	})

	t.Run("playing re-anchors", func(t *testing.T) {
		c, tp, tr := newTestClock()
		c.Play()
		tp.Advance(time.Second)
		gen := c.Generation()

		c.Seek(8000)
		if c.Now() != 8000 {
			t.Errorf("now after seek = %v", c.Now())
		}
		tp.Advance(250 * time.Millisecond)
		if c.Now() != 8250 {
			t.Errorf("now = %v, want 8250", c.Now())
		}
		if c.Generation() != gen {
			t.Error("seek while playing should keep the session")
		}

		got := tr.log()
		want := []string{"play", "stop", "play"}
		if len(got) != len(want) {
			t.Fatalf("transport events = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("transport events = %v, want %v", got, want)
			}
		}
		if tr.offset[1] != 8000 {
			t.Errorf("audio restarted at %v", tr.offset[1])
		}
	})
}

func TestClockTickAutoStop(t *testing.T) {
	long := []formation.Frame{frame(0, 2000), frame(9000, 2000)} // end 13000
	short := []formation.Frame{frame(0, 2000)}                    // end 4000

	tests := []struct {
		name     string
		frames   []formation.Frame
		advance  time.Duration
		wantMs   float64
		wantPlay bool
	}{
		{"before end", long, 12 * time.Second, 12000, true},
		{"at end", long, 13 * time.Second, 13000, true},
		{"past end clamps", long, 20 * time.Second, 13000, false},
		{"short show keeps playing", short, 20 * time.Second, 20000, true},
		{"no frames", nil, 20 * time.Second, 20000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tp, _ := newTestClock()
			c.Play()
			tp.Advance(tt.advance)

			ms, playing := c.Tick(tt.frames)
			if ms != tt.wantMs || playing != tt.wantPlay {
				t.Errorf("Tick() = (%v, %v), want (%v, %v)", ms, playing, tt.wantMs, tt.wantPlay)
			}
			if c.IsPlaying() != tt.wantPlay {
				t.Errorf("IsPlaying() = %v", c.IsPlaying())
			}
			if !tt.wantPlay && c.Now() != tt.wantMs {
				t.Errorf("stopped at %v, want %v", c.Now(), tt.wantMs)
			}
		})
	}
}

func TestClockTickStopped(t *testing.T) {
	c, tp, _ := newTestClock()
	c.Seek(700)
	tp.Advance(time.Minute)
	ms, playing := c.Tick(nil)
	if ms != 700 || playing {
		t.Errorf("Tick() = (%v, %v)", ms, playing)
	}
}

func TestClockTransportError(t *testing.T) {
	c, _, tr := newTestClock()
	tr.err = errors.New("no device")

	if err := c.Play(); err == nil {
		t.Error("expected transport error")
	}
	if !c.IsPlaying() {
		t.Error("clock should run without audio")
	}
}

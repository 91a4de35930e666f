// Package audio measures soundtracks and plays WAV files in step with the
// playback clock.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/ivlev/choreo/internal/system"
)

// Duration returns a soundtrack's length in ms. WAV files are measured
// directly; other formats go through ffprobe.
func Duration(path string) (float64, error) {
	if !isWAV(path) {
		sec, err := system.GetAudioDuration(path)
		if err != nil {
			return 0, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
		}
		return sec * 1000, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	d := format.SampleRate.D(streamer.Len())
	return float64(d) / float64(time.Millisecond), nil
}

func isWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// speaker.Init may only run once per process.
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

func initSpeaker(sr beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerRate = sr
		speakerErr = speaker.Init(sr, sr.N(time.Second/10))
	})
	return speakerErr
}

// Player plays one WAV soundtrack from arbitrary offsets. It satisfies the
// playback clock's Transport.
type Player struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
}

// NewPlayer decodes the WAV header; samples are streamed on Play.
func NewPlayer(path string) (*Player, error) {
	if !isWAV(path) {
		return nil, fmt.Errorf("playback supports WAV only, got %s", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &Player{streamer: streamer, format: format}, nil
}

// Length is the soundtrack length in ms.
func (p *Player) Length() float64 {
	return float64(p.format.SampleRate.D(p.streamer.Len())) / float64(time.Millisecond)
}

// offsetSamples converts a show time to a sample index, or -1 past the end.
func offsetSamples(format beep.Format, length int, offsetMs float64) int {
	if offsetMs < 0 {
		offsetMs = 0
	}
	n := format.SampleRate.N(time.Duration(offsetMs * float64(time.Millisecond)))
	if n >= length {
		return -1
	}
	return n
}

// Play starts the soundtrack at offsetMs, replacing whatever was playing.
// Offsets past the end play nothing.
func (p *Player) Play(offsetMs float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := initSpeaker(p.format.SampleRate); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.stopLocked()

	pos := offsetSamples(p.format, p.streamer.Len(), offsetMs)
	if pos < 0 {
		return nil
	}
	if err := p.streamer.Seek(pos); err != nil {
		return fmt.Errorf("seek audio: %w", err)
	}

	var s beep.Streamer = p.streamer
	if p.format.SampleRate != speakerRate {
		s = beep.Resample(4, p.format.SampleRate, speakerRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: s}
	speaker.Play(p.ctrl)
	return nil
}

// Stop silences the soundtrack. Safe when nothing plays.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.ctrl = nil
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	p.Stop()
	return p.streamer.Close()
}

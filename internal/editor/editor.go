// Package editor is the top-level controller: it owns the formation store
// and the playback clock and sequences the edits that touch both.
package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/ivlev/choreo/internal/clipboard"
	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/playback"
	"github.com/ivlev/choreo/internal/presets"
	"github.com/ivlev/choreo/internal/project"
	"github.com/ivlev/choreo/internal/store"
	"github.com/ivlev/choreo/internal/timeline"
)

// Grid zoom limits and step.
const (
	MinGridZoom  = 1.0
	MaxGridZoom  = 5.0
	GridZoomStep = 0.5
)

type Option func(*Editor)

// WithClock replaces the default real-time clock.
func WithClock(c *playback.Clock) Option {
	return func(e *Editor) { e.clock = c }
}

// WithIDFunc overrides identifier generation in the store.
func WithIDFunc(fn formation.IDFunc) Option {
	return func(e *Editor) { e.ids = fn }
}

// WithNow overrides the wall clock used to stamp exports.
func WithNow(fn func() time.Time) Option {
	return func(e *Editor) { e.now = fn }
}

// Editor holds one open show.
type Editor struct {
	store *store.Store
	clock *playback.Clock

	clipboard []clipboard.Item
	meta      project.Meta
	zoom      float64

	ids formation.IDFunc
	now func() time.Time
}

// New opens a fresh show with a single empty opening frame.
func New(opts ...Option) *Editor {
	e := &Editor{
		zoom: MinGridZoom,
		ids:  formation.NewID,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = playback.NewClock()
	}
	e.store = store.New(store.WithIDFunc(e.ids), store.WithStopper(e.clock))
	e.store.Reset()
	return e
}

func (e *Editor) Store() *store.Store { return e.store }
func (e *Editor) Clock() *playback.Clock { return e.clock }
func (e *Editor) Meta() project.Meta { return e.meta }
func (e *Editor) SetName(name string) { e.meta.Name = name }
func (e *Editor) Clipboard() int { return len(e.clipboard) }
func (e *Editor) CurrentFrameID() string { return e.store.CurrentFrameID() }
func (e *Editor) Time() float64 { return e.clock.Now() }
func (e *Editor) Frames() []formation.Frame { return e.store.Frames() }

// CurrentPositions evaluates the show at the playhead.
func (e *Editor) CurrentPositions() formation.Positions {
	return e.store.Evaluate(e.clock.Now())
}

// DisplayLength is how much timeline the editor shows.
func (e *Editor) DisplayLength() float64 {
	return timeline.DisplayLength(e.store.Frames())
}

// Capture snapshots what is on stage at the playhead as a new current frame.
func (e *Editor) Capture() formation.Frame {
	t := e.clock.Now()
	return e.store.AddFrame(t, e.store.Evaluate(t))
}

// Seek moves the playhead and makes the frame holding it current.
func (e *Editor) Seek(ms float64) error {
	err := e.clock.Seek(ms)
	if f, ok := timeline.FrameAt(e.store.Frames(), e.clock.Now()); ok {
		e.store.SetCurrentFrame(f.ID)
	}
	return err
}

// SelectFrame makes a frame current, pauses and parks the playhead on its
// start.
func (e *Editor) SelectFrame(id string) {
	f, ok := e.store.Frame(id)
	if !ok {
		return
	}
	e.store.SetCurrentFrame(id)
	e.clock.Stop()
	e.clock.Seek(f.StartTime)
}

// PlayPause toggles playback. Audio errors are returned; playback keeps
// going without sound.
func (e *Editor) PlayPause() error {
	return e.clock.Toggle()
}

// Tick advances playback for one display refresh.
func (e *Editor) Tick() (float64, bool) {
	return e.clock.Tick(e.store.Frames())
}

// Scheduler returns a tick driver bound to this editor's show.
func (e *Editor) Scheduler(interval time.Duration, onTick playback.TickFunc) *playback.Scheduler {
	return playback.NewScheduler(e.clock, interval, e.store.Frames, onTick)
}

// Reset discards the show and starts over with an opening frame.
func (e *Editor) Reset() {
	e.clock.Stop()
	e.clock.Seek(0)
	e.store.Reset()
	e.clipboard = nil
	e.meta = project.Meta{}
}

// SetMusic names the soundtrack and attaches its player.
func (e *Editor) SetMusic(name string, t playback.Transport) {
	e.clock.Stop()
	e.clock.SetTransport(t)
	if name == "" {
		e.meta.MusicName = nil
		return
	}
	e.meta.MusicName = &name
}

// PresetCount is how many positions a preset should generate.
func (e *Editor) PresetCount() int {
	if sel := e.store.Selection(); len(sel) > 0 {
		return len(sel)
	}
	return len(e.store.Performers())
}

// ApplySource asks a coordinate source for positions and assigns them in
// the current frame.
func (e *Editor) ApplySource(ctx context.Context, src presets.Source) error {
	frameID := e.store.CurrentFrameID()
	targets := e.store.PresetTargets(frameID)
	if len(targets) == 0 {
		return nil
	}
	coords, err := src.Coordinates(ctx, e.PresetCount())
	if err != nil {
		return fmt.Errorf("generate coordinates: %w", err)
	}
	e.store.ApplyPreset(frameID, targets, coords)
	return nil
}

// ApplyPreset applies a catalogue preset to the current frame.
func (e *Editor) ApplyPreset(ctx context.Context, name string, scale float64) error {
	return e.ApplySource(ctx, presets.PresetSource{Name: name, Scale: scale})
}

// Copy puts the selection on the clipboard and returns how many performers
// were copied. An empty selection leaves the clipboard alone.
func (e *Editor) Copy() int {
	items := e.store.CopySelection()
	if len(items) == 0 {
		return 0
	}
	e.clipboard = items
	return len(items)
}

// Paste adds copies of the clipboard performers and selects them.
func (e *Editor) Paste() []string {
	if len(e.clipboard) == 0 {
		return nil
	}
	return e.store.Paste(e.clipboard)
}

// DuplicateSelection copies and pastes in one step, leaving the clipboard
// untouched.
func (e *Editor) DuplicateSelection() []string {
	return e.store.DuplicateSelection()
}

// GridZoom is the stage grid scale.
func (e *Editor) GridZoom() float64 { return e.zoom }

// ZoomGrid changes the grid scale by delta within [MinGridZoom, MaxGridZoom].
func (e *Editor) ZoomGrid(delta float64) float64 {
	z := e.zoom + delta
	if z < MinGridZoom {
		z = MinGridZoom
	}
	if z > MaxGridZoom {
		z = MaxGridZoom
	}
	e.zoom = z
	return z
}

// Snapshot captures the show for export.
func (e *Editor) Snapshot() *formation.Project {
	return project.Snapshot(e.store, e.meta, e.now())
}

// Export writes the show to path; the extension picks JSON or YAML.
func (e *Editor) Export(path string) error {
	return project.WriteFile(path, e.Snapshot())
}

// Import replaces the show with the file at path. On any error the open
// show is left as it was.
func (e *Editor) Import(path string) error {
	p, err := project.ReadFile(path)
	if err != nil {
		return err
	}
	e.Load(p)
	return nil
}

// Load replaces the show with an already decoded project, rewinding to 0.
func (e *Editor) Load(p *formation.Project) {
	e.clock.Stop()
	e.clock.Seek(0)
	e.meta = project.Apply(e.store, p)
}

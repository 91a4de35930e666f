// Package store owns the cast and the frames of a show and keeps them
// consistent across edits. Unknown ids are ignored rather than reported.
package store

import (
	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/timeline"
)

// Stopper halts playback before an edit lands.
type Stopper interface {
	Stop()
}

type Option func(*Store)

// WithIDFunc overrides identifier generation.
func WithIDFunc(fn formation.IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// WithStopper registers the playback that position edits must halt.
func WithStopper(st Stopper) Option {
	return func(s *Store) { s.stopper = st }
}

// Store is the single owner of editor state. It is not safe for concurrent
// use; callers serialize access on one logical thread.
type Store struct {
	performers []formation.Performer
	frames     []formation.Frame // timeline order
	selection  []string
	current    string

	newID   formation.IDFunc
	stopper Stopper
}

// New returns an empty store: no cast, no frames.
func New(opts ...Option) *Store {
	s := &Store{newID: formation.NewID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Performers returns a copy of the roster in insertion order.
func (s *Store) Performers() []formation.Performer {
	out := make([]formation.Performer, len(s.performers))
	copy(out, s.performers)
	return out
}

// Performer looks up a cast member.
func (s *Store) Performer(id string) (formation.Performer, bool) {
	if i := s.performerIndex(id); i >= 0 {
		return s.performers[i], true
	}
	return formation.Performer{}, false
}

// Frames returns deep copies of the frames in timeline order.
func (s *Store) Frames() []formation.Frame {
	return formation.CloneFrames(s.frames)
}

// Frame returns a deep copy of one frame.
func (s *Store) Frame(id string) (formation.Frame, bool) {
	if i := s.frameIndex(id); i >= 0 {
		return s.frames[i].Clone(), true
	}
	return formation.Frame{}, false
}

// Index returns an evaluator view over the current frames. Frames are kept
// sorted, so building it does not re-sort.
func (s *Store) Index() *timeline.Index {
	return timeline.NewIndex(s.frames)
}

// Evaluate is shorthand for evaluating the current frames at t.
func (s *Store) Evaluate(t float64) formation.Positions {
	return s.Index().Evaluate(s.performers, t)
}

// CurrentFrameID is the frame being edited, empty when none.
func (s *Store) CurrentFrameID() string {
	return s.current
}

// SetCurrentFrame makes id the edited frame. Unknown ids are ignored.
func (s *Store) SetCurrentFrame(id string) {
	if s.frameIndex(id) >= 0 {
		s.current = id
	}
}

// Selection returns the selected performer ids.
func (s *Store) Selection() []string {
	out := make([]string, len(s.selection))
	copy(out, s.selection)
	return out
}

// Select replaces the selection. Unknown and repeated ids are dropped.
func (s *Store) Select(ids []string) {
	seen := make(map[string]bool, len(ids))
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] || s.performerIndex(id) < 0 {
			continue
		}
		seen[id] = true
		sel = append(sel, id)
	}
	s.selection = sel
}

// Load replaces the whole show. Frames are copied and re-ordered; the
// first frame in timeline order becomes current and the selection clears.
func (s *Store) Load(performers []formation.Performer, frames []formation.Frame) {
	s.performers = append([]formation.Performer(nil), performers...)
	s.frames = formation.CloneFrames(frames)
	for i := range s.frames {
		if s.frames[i].Positions == nil {
			s.frames[i].Positions = formation.Positions{}
		}
	}
	timeline.Sort(s.frames)
	s.selection = nil
	s.current = ""
	if len(s.frames) > 0 {
		s.current = s.frames[0].ID
	}
}

// OpeningFrameName names the frame a fresh show starts with.
const OpeningFrameName = "Opening"

// Reset clears the show down to a single empty opening frame.
func (s *Store) Reset() formation.Frame {
	f := formation.Frame{
		ID:        s.newID(),
		Name:      OpeningFrameName,
		StartTime: 0,
		Duration:  formation.DefaultFrameDuration,
		Positions: formation.Positions{},
	}
	s.performers = nil
	s.frames = []formation.Frame{f}
	s.selection = nil
	s.current = f.ID
	return f.Clone()
}

func (s *Store) performerIndex(id string) int {
	for i, p := range s.performers {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) frameIndex(id string) int {
	for i, f := range s.frames {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) stopPlayback() {
	if s.stopper != nil {
		s.stopper.Stop()
	}
}

package store

import (
	"fmt"
	"strings"

	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/timeline"
)

const (
	// MinFrameDuration is the shortest hold a resize may leave.
	MinFrameDuration = 500.0
	// DuplicateGap separates a duplicated frame from its source (ms).
	DuplicateGap = 1000.0
)

// AddFrame captures positions as a new frame at the given time and makes it
// current. The positions are copied.
func (s *Store) AddFrame(at float64, positions formation.Positions) formation.Frame {
	if at < 0 {
		at = 0
	}
	f := formation.Frame{
		ID:        s.newID(),
		Name:      fmt.Sprintf("Formation %d", len(s.frames)+1),
		StartTime: at,
		Duration:  formation.DefaultFrameDuration,
		Positions: positions.Clone(),
	}
	s.insertFrame(f)
	s.current = f.ID
	return f.Clone()
}

// DeleteFrame removes a frame. When it was current, the latest remaining
// frame becomes current, or none.
func (s *Store) DeleteFrame(id string) {
	i := s.frameIndex(id)
	if i < 0 {
		return
	}
	s.frames = append(s.frames[:i], s.frames[i+1:]...)
	if s.current == id {
		s.current = ""
		if n := len(s.frames); n > 0 {
			s.current = s.frames[n-1].ID
		}
	}
}

// DuplicateFrame copies a frame and places it one second after the
// source's hold.
func (s *Store) DuplicateFrame(id string) (formation.Frame, bool) {
	i := s.frameIndex(id)
	if i < 0 {
		return formation.Frame{}, false
	}
	f := s.frames[i].Clone()
	f.ID = s.newID()
	f.Name = f.Name + " (Copy)"
	f.StartTime = s.frames[i].End() + DuplicateGap
	s.insertFrame(f)
	return f.Clone(), true
}

// MoveFrame shifts a frame to a new start time, never before 0.
func (s *Store) MoveFrame(id string, start float64) {
	i := s.frameIndex(id)
	if i < 0 {
		return
	}
	if start < 0 {
		start = 0
	}
	s.frames[i].StartTime = start
	timeline.Sort(s.frames)
}

// ResizeFrame changes a frame's hold, never below MinFrameDuration.
func (s *Store) ResizeFrame(id string, duration float64) {
	i := s.frameIndex(id)
	if i < 0 {
		return
	}
	if duration < MinFrameDuration {
		duration = MinFrameDuration
	}
	s.frames[i].Duration = duration
}

// RenameFrame sets a frame's name. Blank names leave it unchanged.
func (s *Store) RenameFrame(id, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if i := s.frameIndex(id); i >= 0 {
		s.frames[i].Name = name
	}
}

// SetFrameNotes replaces a frame's free-text notes.
func (s *Store) SetFrameNotes(id, notes string) {
	if i := s.frameIndex(id); i >= 0 {
		s.frames[i].Notes = notes
	}
}

func (s *Store) insertFrame(f formation.Frame) {
	s.frames = append(s.frames, f)
	timeline.Sort(s.frames)
}

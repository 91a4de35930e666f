package store

import (
	"strings"

	"github.com/ivlev/choreo/internal/formation"
)

// AddPerformer puts a new performer on stage at centre in every frame.
// An empty colour picks the next palette colour.
func (s *Store) AddPerformer(name, color string, shape formation.Shape) (formation.Performer, error) {
	if strings.TrimSpace(name) == "" {
		return formation.Performer{}, &formation.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !shape.Valid() {
		return formation.Performer{}, &formation.ValidationError{Field: "shape", Reason: "unknown " + shape.String()}
	}
	if color == "" {
		color = formation.DefaultColors[len(s.performers)%len(formation.DefaultColors)]
	}

	p := formation.Performer{
		ID:    s.newID(),
		Name:  name,
		Color: color,
		Label: formation.LabelFor(name),
		Shape: shape,
	}
	s.performers = append(s.performers, p)
	for i := range s.frames {
		s.frames[i].Positions[p.ID] = formation.Center
	}
	return p, nil
}

// RemovePerformer drops a performer from the roster, the selection and
// every frame.
func (s *Store) RemovePerformer(id string) {
	i := s.performerIndex(id)
	if i < 0 {
		return
	}
	s.performers = append(s.performers[:i], s.performers[i+1:]...)

	sel := s.selection[:0]
	for _, sid := range s.selection {
		if sid != id {
			sel = append(sel, sid)
		}
	}
	s.selection = sel

	for _, f := range s.frames {
		delete(f.Positions, id)
	}
}

// PerformerUpdate carries the fields to change; nil fields are kept.
type PerformerUpdate struct {
	Name  *string
	Color *string
	Shape *formation.Shape
}

// UpdatePerformer merges u into the performer. Blank names and unknown
// shapes are ignored field by field.
func (s *Store) UpdatePerformer(id string, u PerformerUpdate) {
	i := s.performerIndex(id)
	if i < 0 {
		return
	}
	p := &s.performers[i]
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		p.Name = *u.Name
		p.Label = formation.LabelFor(p.Name)
	}
	if u.Color != nil && *u.Color != "" {
		p.Color = *u.Color
	}
	if u.Shape != nil && u.Shape.Valid() {
		p.Shape = *u.Shape
	}
}

// TogglePerformerInFrame takes a performer off stage in the frame, or puts
// them back where they last stood in an earlier frame (centre if nowhere).
func (s *Store) TogglePerformerInFrame(frameID, performerID string) {
	fi := s.frameIndex(frameID)
	if fi < 0 {
		return
	}
	f := s.frames[fi]
	if f.Positions.Has(performerID) {
		delete(f.Positions, performerID)
		return
	}
	if s.performerIndex(performerID) < 0 {
		return
	}

	pos := formation.Center
	for i := len(s.frames) - 1; i >= 0; i-- {
		prev := s.frames[i]
		if prev.StartTime >= f.StartTime {
			continue
		}
		if p, ok := prev.Positions[performerID]; ok {
			pos = p
			break
		}
	}
	f.Positions[performerID] = pos
}

// PositionUpdate moves one performer.
type PositionUpdate struct {
	ID       string
	Position formation.Position
}

// SetPositions writes a batch of positions into a frame, stopping playback
// first. Performers not in the roster are skipped.
func (s *Store) SetPositions(frameID string, updates []PositionUpdate) {
	fi := s.frameIndex(frameID)
	if fi < 0 {
		return
	}
	s.stopPlayback()
	f := s.frames[fi]
	for _, u := range updates {
		if s.performerIndex(u.ID) < 0 {
			continue
		}
		f.Positions[u.ID] = u.Position
	}
}

package store

import "github.com/ivlev/choreo/internal/formation"

// Presets keep performers this far inside the stage edge.
const (
	PresetMin = 2.0
	PresetMax = 98.0
)

// PresetTargets is who a preset rearranges in a frame: the selection when
// there is one, otherwise the roster members on stage in that frame.
func (s *Store) PresetTargets(frameID string) []string {
	if len(s.selection) > 0 {
		return s.Selection()
	}
	fi := s.frameIndex(frameID)
	if fi < 0 {
		return nil
	}
	var ids []string
	for _, p := range s.performers {
		if s.frames[fi].Positions.Has(p.ID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// ApplyPreset assigns coords[i] to targets[i] in the frame, clamped into the
// preset bounds. Surplus coordinates or targets are ignored, and so are ids
// not on the roster. With no targets given, PresetTargets decides.
func (s *Store) ApplyPreset(frameID string, targets []string, coords []formation.Position) {
	fi := s.frameIndex(frameID)
	if fi < 0 {
		return
	}
	if len(targets) == 0 {
		targets = s.PresetTargets(frameID)
	}
	n := len(targets)
	if len(coords) < n {
		n = len(coords)
	}
	f := s.frames[fi]
	for i := 0; i < n; i++ {
		if s.performerIndex(targets[i]) < 0 {
			continue
		}
		f.Positions[targets[i]] = coords[i].Clamp(PresetMin, PresetMax)
	}
}

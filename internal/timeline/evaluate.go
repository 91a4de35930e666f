package timeline

import (
	"github.com/ivlev/choreo/internal/formation"
)

// Index is a timeline-ordered view of a frame set. It is cheap to build
// from frames that are already sorted.
type Index struct {
	frames []formation.Frame
}

// NewIndex builds an index over frames. Positions are shared, never written.
func NewIndex(frames []formation.Frame) *Index {
	return &Index{frames: Sorted(frames)}
}

// Frames returns the frames in timeline order.
func (ix *Index) Frames() []formation.Frame {
	return ix.frames
}

// Evaluate computes every on-stage performer's position at t.
func Evaluate(frames []formation.Frame, performers []formation.Performer, t float64) formation.Positions {
	return NewIndex(frames).Evaluate(performers, t)
}

// Evaluate computes positions at t. The result never aliases stored frames.
//
// Inside a hold the frame's positions are returned verbatim. In a gap the
// performers present in both neighbours slide with an ease-in-out curve;
// a performer present on only one side is cut from the result. Before the
// first frame and after the last the nearest frame is held.
func (ix *Index) Evaluate(performers []formation.Performer, t float64) formation.Positions {
	frames := ix.frames
	if len(frames) == 0 {
		return formation.Positions{}
	}

	for _, f := range frames {
		if f.Holds(t) {
			return f.Positions.Clone()
		}
	}

	prev, next := -1, -1
	for i, f := range frames {
		if f.End() <= t && (prev < 0 || f.End() >= frames[prev].End()) {
			prev = i
		}
		if next < 0 && f.StartTime > t {
			next = i
		}
	}

	switch {
	case prev >= 0 && next >= 0:
		return interpolate(frames[prev], frames[next], performers, t)
	case prev < 0:
		return frames[0].Positions.Clone()
	default:
		return frames[len(frames)-1].Positions.Clone()
	}
}

func interpolate(prev, next formation.Frame, performers []formation.Performer, t float64) formation.Positions {
	gapStart := prev.End()
	gapEnd := next.StartTime
	if gapEnd <= gapStart {
		return prev.Positions.Clone()
	}

	ease := EaseInOut((t - gapStart) / (gapEnd - gapStart))

	out := make(formation.Positions, len(performers))
	for _, p := range performers {
		start, ok := prev.Positions[p.ID]
		if !ok {
			continue
		}
		end, ok := next.Positions[p.ID]
		if !ok {
			continue
		}
		out[p.ID] = start.Lerp(end, ease)
	}
	return out
}

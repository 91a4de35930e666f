package timeline

import (
	"sort"

	"github.com/ivlev/choreo/internal/formation"
)

const (
	// TrailingPad is how long playback runs past the end of the last hold (ms).
	TrailingPad = 2000.0
	// MinDisplayLength is the shortest timeline a UI should draw (ms).
	MinDisplayLength = 30000.0
	// DisplayTail is the empty space drawn after the last frame (ms).
	DisplayTail = 10000.0
)

// Less orders frames by start time, breaking ties on the lower id.
func Less(a, b formation.Frame) bool {
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID < b.ID
}

// IsSorted reports whether frames are already in timeline order.
func IsSorted(frames []formation.Frame) bool {
	return sort.SliceIsSorted(frames, func(i, j int) bool { return Less(frames[i], frames[j]) })
}

// Sort orders frames in place.
func Sort(frames []formation.Frame) {
	sort.SliceStable(frames, func(i, j int) bool { return Less(frames[i], frames[j]) })
}

// Sorted returns frames in timeline order without touching the input slice.
// Position maps are shared with the input.
func Sorted(frames []formation.Frame) []formation.Frame {
	out := make([]formation.Frame, len(frames))
	copy(out, frames)
	if !IsSorted(out) {
		Sort(out)
	}
	return out
}

// Extent is the end of the latest hold, or 0 with no frames.
func Extent(frames []formation.Frame) float64 {
	end := 0.0
	for _, f := range frames {
		if e := f.End(); e > end {
			end = e
		}
	}
	return end
}

// DisplayLength is the timeline length a UI should draw.
func DisplayLength(frames []formation.Frame) float64 {
	l := Extent(frames) + DisplayTail
	if l < MinDisplayLength {
		return MinDisplayLength
	}
	return l
}

// PlaybackEnd returns the time playback should stop at: the end of the last
// frame's hold plus TrailingPad. ok is false when there are no frames.
func PlaybackEnd(frames []formation.Frame) (end float64, ok bool) {
	if len(frames) == 0 {
		return 0, false
	}
	sorted := Sorted(frames)
	last := sorted[len(sorted)-1]
	return last.End() + TrailingPad, true
}

// FrameAt returns the frame holding t.
func FrameAt(frames []formation.Frame, t float64) (formation.Frame, bool) {
	for _, f := range Sorted(frames) {
		if f.Holds(t) {
			return f, true
		}
	}
	return formation.Frame{}, false
}

// Gap is a transition between two holds. PrevID is empty for the lead-in
// before the first frame.
type Gap struct {
	Start  float64
	End    float64
	PrevID string
	NextID string
}

// Duration of the transition in ms.
func (g Gap) Duration() float64 {
	return g.End - g.Start
}

// Gaps lists the transitions of the timeline in order. Back-to-back or
// overlapping frames produce no gap.
func Gaps(frames []formation.Frame) []Gap {
	sorted := Sorted(frames)
	var gaps []Gap

	if len(sorted) > 0 && sorted[0].StartTime > 0 {
		gaps = append(gaps, Gap{Start: 0, End: sorted[0].StartTime, NextID: sorted[0].ID})
	}

	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if next.StartTime > cur.End() {
			gaps = append(gaps, Gap{
				Start:  cur.End(),
				End:    next.StartTime,
				PrevID: cur.ID,
				NextID: next.ID,
			})
		}
	}

	return gaps
}

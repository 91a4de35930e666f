package formation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stage coordinates are percentages of the stage extent.
const (
	StageMin = 0.0
	StageMax = 100.0
)

// DefaultFrameDuration is the hold length of a freshly captured frame (ms).
const DefaultFrameDuration = 2000.0

// Center is where performers land when no better position is known.
var Center = Position{X: 50, Y: 50}

// DefaultColors is the palette cycled through for performers added without a colour.
var DefaultColors = []string{
	"#EF4444", // Red
	"#3B82F6", // Blue
	"#10B981", // Green
	"#F59E0B", // Yellow
	"#8B5CF6", // Purple
	"#EC4899", // Pink
	"#06B6D4", // Cyan
	"#F97316", // Orange
}

// Position is a point on the stage, x left to right, y back to front.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Clamp limits both axes to [lo, hi].
func (p Position) Clamp(lo, hi float64) Position {
	return Position{X: clamp(p.X, lo, hi), Y: clamp(p.Y, lo, hi)}
}

// Offset shifts the position by (dx, dy).
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Lerp moves from p towards q by t.
func (p Position) Lerp(q Position, t float64) Position {
	return Position{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Positions maps performer ids to stage positions. A missing key means the
// performer is off stage.
type Positions map[string]Position

// Clone returns an independent copy. A nil map clones to an empty one.
func (ps Positions) Clone() Positions {
	out := make(Positions, len(ps))
	for id, p := range ps {
		out[id] = p
	}
	return out
}

// Has reports whether the performer is on stage.
func (ps Positions) Has(id string) bool {
	_, ok := ps[id]
	return ok
}

// Performer is a member of the cast.
type Performer struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Label string `json:"label" yaml:"label"`
	Shape Shape  `json:"shape" yaml:"shape"`
}

// LabelFor returns the one-letter badge shown on stage for a name.
func LabelFor(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Frame is a formation held on stage for [StartTime, StartTime+Duration).
type Frame struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	StartTime float64   `json:"startTime" yaml:"startTime"` // ms
	Duration  float64   `json:"duration" yaml:"duration"`   // ms
	Positions Positions `json:"positions" yaml:"positions"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// End is the first instant after the hold.
func (f Frame) End() float64 {
	return f.StartTime + f.Duration
}

// Holds reports whether t falls inside the hold interval.
func (f Frame) Holds(t float64) bool {
	return t >= f.StartTime && t < f.End()
}

// Clone deep-copies the frame so position edits never alias.
func (f Frame) Clone() Frame {
	f.Positions = f.Positions.Clone()
	return f
}

// CloneFrames deep-copies a frame list.
func CloneFrames(frames []Frame) []Frame {
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i] = f.Clone()
	}
	return out
}

package formation

import "fmt"

// Shape is the marker drawn for a performer.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeTriangle

	shapeCount
)

var shapeNames = [shapeCount]string{
	ShapeCircle:   "circle",
	ShapeSquare:   "square",
	ShapeTriangle: "triangle",
}

// Shapes lists every valid shape.
func Shapes() []Shape {
	return []Shape{ShapeCircle, ShapeSquare, ShapeTriangle}
}

// Valid reports whether s is one of the known shapes.
func (s Shape) Valid() bool {
	return s >= 0 && s < shapeCount
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape resolves a shape name.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return ShapeCircle, &ValidationError{Field: "shape", Reason: fmt.Sprintf("unknown shape %q", name)}
}

func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", s)
	}
	return []byte(shapeNames[s]), nil
}

// UnmarshalText falls back to a circle for unknown names; imported
// snapshots are not re-validated field by field.
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		parsed = ShapeCircle
	}
	*s = parsed
	return nil
}

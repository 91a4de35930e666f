// Package presets generates named stage arrangements for a performer count.
// Coordinates are stage percentages; vertical offsets are stretched by the
// stage aspect ratio so outlines look round on a 16:9 stage.
package presets

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/choreo/internal/formation"
)

// AspectRatio is the stage width over its height.
const AspectRatio = 16.0 / 9.0

// DefaultScale keeps every outline preset inside the stage margins; at 1 the
// tall shapes run off the top and bottom.
const DefaultScale = 0.8

// ErrUnknownPreset is returned for names missing from the catalogue.
var ErrUnknownPreset = errors.New("unknown preset")

// Generator maps a count and scale to exactly count positions.
type Generator func(count int, scale float64) []formation.Position

type preset struct {
	name string
	gen  Generator
}

// catalogue in display order
var catalogue = []preset{
	{"Horizontal Line", horizontalLine},
	{"Vertical Line", verticalLine},
	{"Diagonal /", diagonal},
	{"Circle (Outline)", circleOutline},
	{"Square (Outline)", squareOutline},
	{"Triangle (Outline)", triangleOutline},
	{"Circle (Fill)", circleFill},
	{"Square (Fill)", squareFill},
	{"Triangle (Fill)", triangleFill},
}

// Names lists the presets in display order.
func Names() []string {
	names := make([]string, len(catalogue))
	for i, p := range catalogue {
		names[i] = p.name
	}
	return names
}

// Lookup returns the generator for name.
func Lookup(name string) (Generator, bool) {
	for _, p := range catalogue {
		if p.name == name {
			return p.gen, true
		}
	}
	return nil, false
}

// Generate runs the named preset. A non-positive scale means 1; a
// non-positive count yields no positions.
func Generate(name string, count int, scale float64) ([]formation.Position, error) {
	gen, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	if count <= 0 {
		return []formation.Position{}, nil
	}
	if scale <= 0 {
		scale = 1
	}
	return gen(count, scale), nil
}

// step is the spacing for n evenly spread points over length.
func step(length float64, n int) float64 {
	if n > 1 {
		return length / float64(n-1)
	}
	return length
}

func horizontalLine(count int, scale float64) []formation.Position {
	width := 60 * scale
	startX := 50 - width/2
	out := make([]formation.Position, count)
	for i := range out {
		out[i] = formation.Position{X: startX + step(width, count)*float64(i), Y: 50}
	}
	return out
}

func verticalLine(count int, scale float64) []formation.Position {
	height := 60 * scale
	startY := 50 - height/2
	out := make([]formation.Position, count)
	for i := range out {
		out[i] = formation.Position{X: 50, Y: startY + step(height, count)*float64(i)}
	}
	return out
}

func diagonal(count int, scale float64) []formation.Position {
	spread := 40 * scale
	height := 60 * scale
	out := make([]formation.Position, count)
	for i := range out {
		out[i] = formation.Position{
			X: 50 - spread/2 + step(spread, count)*float64(i),
			Y: 50 + height/2 - step(height, count)*float64(i),
		}
	}
	return out
}

func circleOutline(count int, scale float64) []formation.Position {
	r := 30 * scale
	out := make([]formation.Position, count)
	for i := range out {
		// start at the top
		angle := float64(i)/float64(count)*2*math.Pi - math.Pi/2
		out[i] = formation.Position{
			X: 50 + r*math.Cos(angle),
			Y: 50 + r*math.Sin(angle)*AspectRatio,
		}
	}
	return out
}

// squareOutline walks the perimeter clockwise from the top-left corner.
func squareOutline(count int, scale float64) []formation.Position {
	r := 30 * scale
	ry := r * AspectRatio
	out := make([]formation.Position, count)
	for i := range out {
		walk := float64(i) / float64(count) * 4
		section := int(math.Floor(walk))
		progress := math.Mod(walk, 1)

		var p formation.Position
		switch section {
		case 0:
			p = formation.Position{X: 50 - r + 2*r*progress, Y: 50 - ry}
		case 1:
			p = formation.Position{X: 50 + r, Y: 50 - ry + 2*ry*progress}
		case 2:
			p = formation.Position{X: 50 + r - 2*r*progress, Y: 50 + ry}
		default:
			p = formation.Position{X: 50 - r, Y: 50 + ry - 2*ry*progress}
		}
		out[i] = p
	}
	return out
}

const third = 0.333

func triangleOutline(count int, scale float64) []formation.Position {
	r := 30 * scale
	ry := r * AspectRatio
	top := formation.Position{X: 50, Y: 50 - ry}
	right := formation.Position{X: 50 + r, Y: 50 + ry}
	left := formation.Position{X: 50 - r, Y: 50 + ry}

	out := make([]formation.Position, count)
	for i := range out {
		progress := float64(i) / float64(count)
		switch {
		case progress < third:
			out[i] = top.Lerp(right, progress/third)
		case progress < 2*third:
			out[i] = right.Lerp(left, (progress-third)/third)
		default:
			out[i] = left.Lerp(top, (progress-2*third)/third)
		}
	}
	return out
}

// goldenAngle is pi*(3-sqrt(5)), the sunflower divergence.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

func circleFill(count int, scale float64) []formation.Position {
	maxR := 30 * scale
	out := make([]formation.Position, count)
	for i := range out {
		r := math.Sqrt(float64(i)/float64(count)) * maxR
		theta := goldenAngle * float64(i) * 20
		out[i] = formation.Position{
			X: 50 + r*math.Cos(theta),
			Y: 50 + r*math.Sin(theta)*AspectRatio,
		}
	}
	return out
}

func squareFill(count int, scale float64) []formation.Position {
	return grid(count, 60*scale)
}

// grid fills a near-square block row by row.
func grid(count int, spread float64) []formation.Position {
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := int(math.Ceil(float64(count) / float64(cols)))
	out := make([]formation.Position, count)
	for i := range out {
		out[i] = formation.Position{
			X: 50 - spread/2 + step(spread, cols)*float64(i%cols),
			Y: 50 - spread/2 + step(spread, rows)*float64(i/cols),
		}
	}
	return out
}

// triangleFill stacks rows of 1, 2, 3... like bowling pins, centred vertically.
func triangleFill(count int, scale float64) []formation.Position {
	rows := 1
	for rows*(rows+1)/2 < count {
		rows++
	}
	spreadX := 10 * scale
	spreadY := 15 * scale
	yBase := 50 - float64(rows-1)*spreadY/2

	out := make([]formation.Position, 0, count)
	row, inRow := 0, 0
	for i := 0; i < count; i++ {
		out = append(out, formation.Position{
			X: 50 - float64(row)*spreadX/2 + float64(inRow)*spreadX,
			Y: yBase + float64(row)*spreadY,
		})
		inRow++
		if inRow > row {
			row++
			inRow = 0
		}
	}
	return out
}

package renderer

import (
	"image"
	"image/color"

	"github.com/ivlev/choreo/internal/formation"
)

type shapeFunc func(dst *image.RGBA, c image.Point, r int, col color.RGBA)

// indexed by formation.Shape
var shapeDrawers = [...]shapeFunc{
	formation.ShapeCircle:   fillCircle,
	formation.ShapeSquare:   fillSquare,
	formation.ShapeTriangle: fillTriangle,
}

func drawShape(dst *image.RGBA, s formation.Shape, c image.Point, r int, col color.RGBA) {
	if !s.Valid() {
		s = formation.ShapeCircle
	}
	shapeDrawers[s](dst, c, r, col)
}

func setPixel(dst *image.RGBA, x, y int, col color.RGBA) {
	if (image.Point{X: x, Y: y}).In(dst.Rect) {
		dst.SetRGBA(x, y, col)
	}
}

func fillCircle(dst *image.RGBA, c image.Point, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setPixel(dst, c.X+dx, c.Y+dy, col)
			}
		}
	}
}

func fillSquare(dst *image.RGBA, c image.Point, r int, col color.RGBA) {
	for y := c.Y - r; y <= c.Y+r; y++ {
		for x := c.X - r; x <= c.X+r; x++ {
			setPixel(dst, x, y, col)
		}
	}
}

// fillTriangle points up: apex at the top, base on the bottom edge.
func fillTriangle(dst *image.RGBA, c image.Point, r int, col color.RGBA) {
	if r == 0 {
		setPixel(dst, c.X, c.Y, col)
		return
	}
	for y := c.Y - r; y <= c.Y+r; y++ {
		half := r * (y - (c.Y - r)) / (2 * r)
		for x := c.X - half; x <= c.X+half; x++ {
			setPixel(dst, x, y, col)
		}
	}
}

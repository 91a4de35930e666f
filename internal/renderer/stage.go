// Package renderer rasterises the stage: backdrop, grid, performers and an
// optional timecode stamp.
package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/timeline"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	Background = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	GridColor  = color.RGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
	LabelColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	StampColor = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// GridStep is the grid spacing at zoom 1, in stage percent.
const GridStep = 10.0

type Options struct {
	Width, Height int
	ShowLabels    bool
	GridZoom      float64
	Timecode      bool
}

// Scene is one moment of the show.
type Scene struct {
	Performers []formation.Performer
	Positions  formation.Positions
	Time       float64 // ms
}

// Stage draws scenes at a fixed size. It is safe for concurrent Render
// calls once built.
type Stage struct {
	opts     Options
	backdrop *image.RGBA
	radius   int
}

// NewStage prepares a stage; backdrop may be nil and is scaled to fit once.
func NewStage(opts Options, backdrop image.Image) *Stage {
	if opts.GridZoom < 1 {
		opts.GridZoom = 1
	}
	s := &Stage{opts: opts, radius: opts.Height / 30}
	if s.radius < 2 {
		s.radius = 2
	}
	if backdrop != nil {
		s.backdrop = fitBackdrop(backdrop, opts.Width, opts.Height)
	}
	return s
}

func (s *Stage) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.opts.Width, s.opts.Height)
}

func fitBackdrop(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// ToPixel maps a stage position to image coordinates.
func (s *Stage) ToPixel(p formation.Position) image.Point {
	return image.Point{
		X: int(p.X / 100 * float64(s.opts.Width-1)),
		Y: int(p.Y / 100 * float64(s.opts.Height-1)),
	}
}

// Render draws the scene into dst, which must match Bounds. Performers
// without a position are off stage and skipped.
func (s *Stage) Render(dst *image.RGBA, sc Scene) error {
	if dst.Bounds() != s.Bounds() {
		return fmt.Errorf("render target %v, want %v", dst.Bounds(), s.Bounds())
	}
	if s.backdrop != nil {
		draw.Draw(dst, dst.Bounds(), s.backdrop, image.Point{}, draw.Src)
	} else {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	}
	s.drawGrid(dst)

	for i, p := range sc.Performers {
		pos, ok := sc.Positions[p.ID]
		if !ok {
			continue
		}
		col := colorOr(p.Color, paletteColor(i))
		c := s.ToPixel(pos)
		drawShape(dst, p.Shape, c, s.radius, col)
		if s.opts.ShowLabels && p.Label != "" {
			drawLabel(dst, p.Label, c, LabelColor)
		}
	}

	if s.opts.Timecode {
		return s.stamp(dst, sc.Time)
	}
	return nil
}

func paletteColor(i int) color.RGBA {
	c, _ := ParseHexColor(formation.DefaultColors[i%len(formation.DefaultColors)])
	return c
}

func (s *Stage) drawGrid(dst *image.RGBA) {
	step := GridStep / s.opts.GridZoom
	for v := step; v < 100; v += step {
		x := s.ToPixel(formation.Position{X: v}).X
		for y := 0; y < s.opts.Height; y++ {
			dst.SetRGBA(x, y, GridColor)
		}
		y := s.ToPixel(formation.Position{Y: v}).Y
		for x := 0; x < s.opts.Width; x++ {
			dst.SetRGBA(x, y, GridColor)
		}
	}
}

// drawLabel centres text on c.
func drawLabel(dst *image.RGBA, text string, c image.Point, col color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(text).Round()
	d.Dot = fixed.P(c.X-w/2, c.Y+face.Ascent/2)
	d.DrawString(text)
}

// TimecodeURI is what the stamp's QR code encodes, so footage can be
// matched back to show time.
func TimecodeURI(ms float64) string {
	return fmt.Sprintf("choreo:t=%d", int64(ms))
}

// stamp puts the formatted time and a QR code in the bottom-right corner.
func (s *Stage) stamp(dst *image.RGBA, ms float64) error {
	size := s.opts.Height / 8
	if size < 21 {
		size = 21
	}
	q, err := qrcode.New(TimecodeURI(ms), qrcode.Low)
	if err != nil {
		return fmt.Errorf("timecode qr: %w", err)
	}
	code := q.Image(size)

	margin := 4
	at := image.Pt(s.opts.Width-size-margin, s.opts.Height-size-margin)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, code, code.Bounds().Min, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(StampColor), Face: basicfont.Face7x13}
	label := timeline.FormatTime(ms)
	d.Dot = fixed.P(at.X+size-d.MeasureString(label).Round(), at.Y-margin)
	d.DrawString(label)
	return nil
}

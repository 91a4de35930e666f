package presets

import (
	"errors"
	"math"
	"testing"

	"github.com/ivlev/choreo/internal/formation"
)

const eps = 1e-9

func near(a, b formation.Position) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestGenerateCounts(t *testing.T) {
	for _, name := range Names() {
		for _, n := range []int{1, 2, 5, 12} {
			got, err := Generate(name, n, 1)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if len(got) != n {
				t.Errorf("%s(%d) returned %d positions", name, n, len(got))
			}
			for _, p := range got {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) {
					t.Errorf("%s(%d) produced NaN", name, n)
				}
			}
		}
	}
}

func TestGenerateZeroCount(t *testing.T) {
	got, err := Generate("Horizontal Line", 0, 1)
	if err != nil || len(got) != 0 {
		t.Errorf("Generate(0) = %v, %v", got, err)
	}
}

func TestGenerateUnknown(t *testing.T) {
	_, err := Generate("Star", 3, 1)
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}
}

func TestNamesOrder(t *testing.T) {
	names := Names()
	if len(names) != 9 {
		t.Fatalf("catalogue has %d presets", len(names))
	}
	if names[0] != "Horizontal Line" || names[8] != "Triangle (Fill)" {
		t.Errorf("unexpected order: %v", names)
	}
}

func TestPresetShapes(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		count  int
		scale  float64
		want   []formation.Position
	}{
		{
			name: "horizontal line spans 20..80", preset: "Horizontal Line", count: 3, scale: 1,
			want: []formation.Position{{X: 20, Y: 50}, {X: 50, Y: 50}, {X: 80, Y: 50}},
		},
		{
			name: "single performer starts the line", preset: "Horizontal Line", count: 1, scale: 1,
			want: []formation.Position{{X: 20, Y: 50}},
		},
		{
			name: "vertical line half scale", preset: "Vertical Line", count: 2, scale: 0.5,
			want: []formation.Position{{X: 50, Y: 35}, {X: 50, Y: 65}},
		},
		{
			name: "diagonal rises left to right", preset: "Diagonal /", count: 2, scale: 1,
			want: []formation.Position{{X: 30, Y: 80}, {X: 70, Y: 20}},
		},
		{
			name: "square fill 2x2", preset: "Square (Fill)", count: 4, scale: 1,
			want: []formation.Position{{X: 20, Y: 20}, {X: 80, Y: 20}, {X: 20, Y: 80}, {X: 80, Y: 80}},
		},
		{
			name: "triangle fill pins", preset: "Triangle (Fill)", count: 3, scale: 1,
			want: []formation.Position{{X: 50, Y: 42.5}, {X: 45, Y: 57.5}, {X: 55, Y: 57.5}},
		},
		{
			name: "circle outline starts at top", preset: "Circle (Outline)", count: 4, scale: 1,
			want: []formation.Position{
				{X: 50, Y: 50 - 30*AspectRatio},
				{X: 80, Y: 50},
				{X: 50, Y: 50 + 30*AspectRatio},
				{X: 20, Y: 50},
			},
		},
		{
			name: "square outline one per side", preset: "Square (Outline)", count: 4, scale: 1,
			want: []formation.Position{
				{X: 20, Y: 50 - 30*AspectRatio},
				{X: 80, Y: 50 - 30*AspectRatio},
				{X: 80, Y: 50 + 30*AspectRatio},
				{X: 20, Y: 50 + 30*AspectRatio},
			},
		},
		{
			name: "circle fill first at centre", preset: "Circle (Fill)", count: 1, scale: 1,
			want: []formation.Position{{X: 50, Y: 50}},
		},
		{
			name: "triangle outline first at apex", preset: "Triangle (Outline)", count: 1, scale: 1,
			want: []formation.Position{{X: 50, Y: 50 - 30*AspectRatio}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.preset, tt.count, tt.scale)
			if err != nil {
				t.Fatal(err)
			}
			for i := range tt.want {
				if !near(got[i], tt.want[i]) {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateNonPositiveScale(t *testing.T) {
	a, _ := Generate("Horizontal Line", 3, 0)
	b, _ := Generate("Horizontal Line", 3, 1)
	for i := range a {
		if !near(a[i], b[i]) {
			t.Errorf("scale 0 should behave as 1: %+v vs %+v", a[i], b[i])
		}
	}
}

func TestDefaultScaleStaysOnStage(t *testing.T) {
	inBand := func(p formation.Position) bool {
		return p.X >= 2 && p.X <= 98 && p.Y >= 2 && p.Y <= 98
	}
	for _, name := range Names() {
		for count := 1; count <= 10; count++ {
			coords, err := Generate(name, count, DefaultScale)
			if err != nil {
				t.Fatal(err)
			}
			for i, p := range coords {
				if !inBand(p) {
					t.Errorf("%s x%d [%d] = %+v is outside the stage margins", name, count, i, p)
				}
			}
		}
	}

	// the tall outlines do not fit at full scale
	coords, _ := Generate("Circle (Outline)", 4, 1)
	if inBand(coords[0]) {
		t.Errorf("top of a full-scale circle = %+v, expected past the margin", coords[0])
	}
}

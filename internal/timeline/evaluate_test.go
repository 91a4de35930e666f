package timeline

import (
	"math"
	"testing"

	"github.com/ivlev/choreo/internal/formation"
)

func scenario() ([]formation.Frame, []formation.Performer) {
	performers := []formation.Performer{{ID: "p1"}, {ID: "p2"}}
	frames := []formation.Frame{
		{
			ID: "B", StartTime: 3000, Duration: 1000,
			Positions: formation.Positions{"p1": {X: 90, Y: 90}, "p2": {X: 90, Y: 90}},
		},
		{
			ID: "A", StartTime: 0, Duration: 1000,
			Positions: formation.Positions{"p1": {X: 10, Y: 10}},
		},
	}
	return frames, performers
}

func near(a, b formation.Position, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestEvaluateScenario(t *testing.T) {
	frames, performers := scenario()

	tests := []struct {
		name   string
		time   float64
		want   formation.Positions
		absent []string
	}{
		{"inside A", 500, formation.Positions{"p1": {X: 10, Y: 10}}, []string{"p2"}},
		{"gap midpoint", 2000, formation.Positions{"p1": {X: 50, Y: 50}}, []string{"p2"}},
		{"inside B", 3000, formation.Positions{"p1": {X: 90, Y: 90}, "p2": {X: 90, Y: 90}}, nil},
		{"end of B", 3999, formation.Positions{"p1": {X: 90, Y: 90}, "p2": {X: 90, Y: 90}}, nil},
		{"after B", 4000, formation.Positions{"p1": {X: 90, Y: 90}, "p2": {X: 90, Y: 90}}, nil},
		{"far after", 60000, formation.Positions{"p1": {X: 90, Y: 90}, "p2": {X: 90, Y: 90}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(frames, performers, tt.time)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("t=%.0f %s = %v, want %v", tt.time, id, got[id], want)
				}
			}
			for _, id := range tt.absent {
				if got.Has(id) {
					t.Errorf("t=%.0f %s should be off stage, got %v", tt.time, id, got[id])
				}
			}
		})
	}
}

func TestEvaluateHoldExactness(t *testing.T) {
	frames, performers := scenario()
	for _, f := range frames {
		for tm := f.StartTime; tm < f.End(); tm += 97 {
			got := Evaluate(frames, performers, tm)
			if len(got) != len(f.Positions) {
				t.Fatalf("t=%.0f: got %d performers, want %d", tm, len(got), len(f.Positions))
			}
			for id, p := range f.Positions {
				if got[id] != p {
					t.Errorf("t=%.0f %s = %v, want %v", tm, id, got[id], p)
				}
			}
		}
	}
}

func TestEvaluateGapContinuity(t *testing.T) {
	frames, performers := scenario()

	start := Evaluate(frames, performers, 1000)
	if start["p1"] != (formation.Position{X: 10, Y: 10}) {
		t.Errorf("gap start = %v, want prev position", start["p1"])
	}

	end := Evaluate(frames, performers, 2999.999)
	if !near(end["p1"], formation.Position{X: 90, Y: 90}, 1e-3) {
		t.Errorf("gap end = %v, want ~next position", end["p1"])
	}

	last := 10.0
	for tm := 1000.0; tm < 3000; tm += 50 {
		x := Evaluate(frames, performers, tm)["p1"].X
		if x < last {
			t.Fatalf("motion reversed at t=%.0f: %.3f < %.3f", tm, x, last)
		}
		last = x
	}
}

func TestEvaluateExclusiveMembershipCut(t *testing.T) {
	frames, performers := scenario()
	for tm := 1000.5; tm < 3000; tm += 123 {
		if got := Evaluate(frames, performers, tm); got.Has("p2") {
			t.Fatalf("p2 present in gap at t=%.1f", tm)
		}
	}

	// Exit: present before the gap, gone during it.
	frames[1].Positions["p3"] = formation.Position{X: 1, Y: 1}
	performers = append(performers, formation.Performer{ID: "p3"})
	if got := Evaluate(frames, performers, 2000); got.Has("p3") {
		t.Error("exiting performer should be cut during the gap")
	}
}

func TestEvaluateBoundaries(t *testing.T) {
	performers := []formation.Performer{{ID: "p1"}}
	frames := []formation.Frame{
		{ID: "a", StartTime: 1000, Duration: 500, Positions: formation.Positions{"p1": {X: 20, Y: 30}}},
	}

	if got := Evaluate(frames, performers, 0); got["p1"] != (formation.Position{X: 20, Y: 30}) {
		t.Errorf("before first frame = %v", got)
	}
	if got := Evaluate(frames, performers, 9000); got["p1"] != (formation.Position{X: 20, Y: 30}) {
		t.Errorf("after last frame = %v", got)
	}
	if got := Evaluate(nil, performers, 100); len(got) != 0 {
		t.Errorf("no frames should evaluate empty, got %v", got)
	}
}

func TestEvaluateDoesNotAlias(t *testing.T) {
	frames, performers := scenario()
	got := Evaluate(frames, performers, 500)
	got["p1"] = formation.Position{X: 0, Y: 0}
	got["intruder"] = formation.Center

	if frames[1].Positions["p1"] != (formation.Position{X: 10, Y: 10}) {
		t.Error("evaluator result aliases stored frame")
	}
	if frames[1].Positions.Has("intruder") {
		t.Error("evaluator result aliases stored frame map")
	}
}

func TestEvaluateDuplicateStartTimes(t *testing.T) {
	performers := []formation.Performer{{ID: "p1"}}
	frames := []formation.Frame{
		{ID: "b", StartTime: 0, Duration: 1000, Positions: formation.Positions{"p1": {X: 2, Y: 2}}},
		{ID: "a", StartTime: 0, Duration: 1000, Positions: formation.Positions{"p1": {X: 1, Y: 1}}},
	}

	for i := 0; i < 3; i++ {
		if got := Evaluate(frames, performers, 500); got["p1"] != (formation.Position{X: 1, Y: 1}) {
			t.Fatalf("lowest id should win the hold, got %v", got["p1"])
		}
		frames[0], frames[1] = frames[1], frames[0]
	}
}

func TestEvaluateSkipsUnknownPerformersInGap(t *testing.T) {
	frames, _ := scenario()
	got := Evaluate(frames, nil, 2000)
	if len(got) != 0 {
		t.Errorf("gap interpolation follows the roster, got %v", got)
	}
}

func TestEaseInOut(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.125},
		{0.5, 0.5},
		{0.75, 0.875},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseInOut(tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("EaseInOut(%.2f) = %.4f, want %.4f", tt.p, got, tt.want)
		}
	}
}

package store

import (
	"testing"

	"github.com/ivlev/choreo/internal/formation"
)

func TestAddFrameDeepCopiesPositions(t *testing.T) {
	s := newTestStore()
	src := formation.Positions{"p": {X: 1, Y: 1}}

	f := s.AddFrame(-50, src)
	if f.StartTime != 0 || f.Duration != formation.DefaultFrameDuration || f.Name != "Formation 1" {
		t.Errorf("frame = %+v", f)
	}
	if s.CurrentFrameID() != f.ID {
		t.Error("new frame should become current")
	}

	src["p"] = formation.Position{X: 9, Y: 9}
	got, _ := s.Frame(f.ID)
	if got.Positions["p"] != (formation.Position{X: 1, Y: 1}) {
		t.Error("frame aliases the captured snapshot")
	}
}

func TestFramesStayOrdered(t *testing.T) {
	s := newTestStore()
	late := s.AddFrame(8000, nil)
	early := s.AddFrame(1000, nil)
	mid := s.AddFrame(4000, nil)

	order := func() []string {
		var ids []string
		for _, f := range s.Frames() {
			ids = append(ids, f.ID)
		}
		return ids
	}

	want := []string{early.ID, mid.ID, late.ID}
	if got := order(); !equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	s.MoveFrame(late.ID, 0)
	want = []string{late.ID, early.ID, mid.ID}
	if got := order(); !equal(got, want) {
		t.Errorf("after move = %v, want %v", got, want)
	}
}

func TestDeleteFrameFallback(t *testing.T) {
	s := newTestStore()
	a := s.AddFrame(0, nil)
	b := s.AddFrame(9000, nil)
	c := s.AddFrame(3000, nil)

	s.SetCurrentFrame(c.ID)
	s.DeleteFrame(c.ID)
	if s.CurrentFrameID() != b.ID {
		t.Errorf("current = %s, want latest frame %s", s.CurrentFrameID(), b.ID)
	}

	s.DeleteFrame(a.ID)
	if s.CurrentFrameID() != b.ID {
		t.Error("deleting a non-current frame must not change current")
	}

	s.DeleteFrame(b.ID)
	if s.CurrentFrameID() != "" {
		t.Errorf("current = %q, want none", s.CurrentFrameID())
	}
	s.DeleteFrame("ghost")
}

func TestDuplicateFramePlacement(t *testing.T) {
	s := newTestStore()
	f := s.AddFrame(1500, formation.Positions{"p": {X: 3, Y: 4}})
	s.ResizeFrame(f.ID, 2500)

	dup, ok := s.DuplicateFrame(f.ID)
	if !ok {
		t.Fatal("duplicate failed")
	}
	if dup.StartTime != 1500+2500+1000 {
		t.Errorf("start = %.0f, want 5000", dup.StartTime)
	}
	if dup.ID == f.ID || dup.Name != "Formation 1 (Copy)" || dup.Duration != 2500 {
		t.Errorf("dup = %+v", dup)
	}

	s.SetPositions(dup.ID, nil)
	s.ApplyPreset(dup.ID, []string{"p"}, []formation.Position{{X: 50, Y: 50}})
	orig, _ := s.Frame(f.ID)
	if orig.Positions["p"] != (formation.Position{X: 3, Y: 4}) {
		t.Error("duplicate aliases source positions")
	}

	if _, ok := s.DuplicateFrame("ghost"); ok {
		t.Error("duplicate of unknown frame succeeded")
	}
}

func TestMoveAndResizeClamp(t *testing.T) {
	s := newTestStore()
	f := s.AddFrame(1000, nil)

	s.MoveFrame(f.ID, -300)
	s.ResizeFrame(f.ID, 100)
	got, _ := s.Frame(f.ID)
	if got.StartTime != 0 || got.Duration != MinFrameDuration {
		t.Errorf("frame = start %.0f dur %.0f", got.StartTime, got.Duration)
	}

	s.MoveFrame(f.ID, 7000)
	got, _ = s.Frame(f.ID)
	if got.Duration != MinFrameDuration {
		t.Error("move changed duration")
	}
	s.ResizeFrame(f.ID, 4000)
	got, _ = s.Frame(f.ID)
	if got.StartTime != 7000 {
		t.Error("resize changed start time")
	}
}

func TestRenameFrame(t *testing.T) {
	s := newTestStore()
	f := s.AddFrame(0, nil)

	s.RenameFrame(f.ID, "  Finale ")
	s.RenameFrame(f.ID, "   ")
	s.RenameFrame("ghost", "x")
	s.SetFrameNotes(f.ID, "hit the mark on 5")

	got, _ := s.Frame(f.ID)
	if got.Name != "Finale" || got.Notes != "hit the mark on 5" {
		t.Errorf("frame = %+v", got)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

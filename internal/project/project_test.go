package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/store"
)

const sample = `{
  "version": "1.0",
  "name": "Finale",
  "musicName": null,
  "performers": [
    {"id": "p1", "name": "Ann", "color": "#EF4444", "label": "A", "shape": "triangle"}
  ],
  "frames": [
    {"id": "b", "name": "Two", "startTime": 3000, "duration": 1000, "positions": {"p1": {"x": 90, "y": 90}}},
    {"id": "a", "name": "One", "startTime": 0, "duration": 1000, "positions": {"p1": {"x": 10, "y": 10}}, "notes": "hold"}
  ]
}`

func TestDecodeJSON(t *testing.T) {
	p, err := Decode([]byte(sample), JSON)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Finale" || p.MusicName != nil {
		t.Errorf("meta = %q %v", p.Name, p.MusicName)
	}
	if len(p.Performers) != 1 || p.Performers[0].Shape != formation.ShapeTriangle {
		t.Errorf("performers = %+v", p.Performers)
	}
	if len(p.Frames) != 2 || p.Frames[1].Notes != "hold" {
		t.Errorf("frames = %+v", p.Frames)
	}
}

func TestDecodeSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		field  string
	}{
		{"json missing performers", JSON, `{"frames": []}`, "performers"},
		{"json frames not a list", JSON, `{"performers": [], "frames": {}}`, "frames"},
		{"json frames null", JSON, `{"performers": [], "frames": null}`, "frames"},
		{"json garbage", JSON, `{"performers": [`, "document"},
		{"json array root", JSON, `[]`, "document"},
		{"yaml missing frames", YAML, "performers: []\n", "frames"},
		{"yaml performers scalar", YAML, "performers: 3\nframes: []\n", "performers"},
		{"yaml empty", YAML, "", "document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			var se *formation.SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want SchemaError", err)
			}
			if se.Field != tt.field {
				t.Errorf("field = %q, want %q", se.Field, tt.field)
			}
		})
	}
}

func TestDecodeFillsEmptyPositions(t *testing.T) {
	p, err := Decode([]byte(`{"performers": [], "frames": [{"id": "f", "startTime": 0, "duration": 10}]}`), JSON)
	if err != nil {
		t.Fatal(err)
	}
	if p.Frames[0].Positions == nil {
		t.Error("positions should decode to an empty map")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	src, err := Decode([]byte(sample), JSON)
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode(src, YAML)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("yaml:\n%s", data)
	if !strings.Contains(string(data), "startTime: 3000") || !strings.Contains(string(data), "shape: triangle") {
		t.Errorf("unexpected yaml:\n%s", data)
	}

	got, err := Decode(data, YAML)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frames[0].Positions["p1"] != (formation.Position{X: 90, Y: 90}) {
		t.Errorf("positions lost: %+v", got.Frames[0])
	}
	if got.Performers[0].Shape != formation.ShapeTriangle {
		t.Errorf("shape lost: %+v", got.Performers[0])
	}
}

func TestEncodeEmptyLists(t *testing.T) {
	data, err := Encode(&formation.Project{Version: "1.0", Name: "x"}, JSON)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"performers": []`, `"frames": []`, `"musicName": null`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestSnapshotAndApply(t *testing.T) {
	s := store.New()
	s.Reset()
	if _, err := s.AddPerformer("Ann", "", formation.ShapeSquare); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	p := Snapshot(s, Meta{}, now)
	if p.Name != formation.DefaultProjectName || p.Version != formation.SnapshotVersion {
		t.Errorf("meta = %q %q", p.Name, p.Version)
	}
	if p.CreatedAt != "2024-05-01T12:00:00Z" {
		t.Errorf("createdAt = %s", p.CreatedAt)
	}

	music := "song.wav"
	p.MusicName = &music
	other := store.New()
	meta := Apply(other, p)
	if meta.MusicName == nil || *meta.MusicName != music {
		t.Errorf("meta = %+v", meta)
	}
	if len(other.Performers()) != 1 || len(other.Frames()) != 1 {
		t.Errorf("applied %d performers, %d frames", len(other.Performers()), len(other.Frames()))
	}
	if other.CurrentFrameID() != p.Frames[0].ID {
		t.Errorf("current = %q", other.CurrentFrameID())
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	p, err := Decode([]byte(sample), JSON)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"show.json", "show.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, p); err != nil {
				t.Fatal(err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != p.Name || len(got.Frames) != len(p.Frames) {
				t.Errorf("read back %+v", got)
			}
		})
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"frames": []}`), 0644)
	if _, err := ReadFile(bad); !errors.As(err, new(*formation.SchemaError)) {
		t.Errorf("err = %v", err)
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"a.json": JSON, "a.YAML": YAML, "a.yml": YAML, "a": JSON, "a.choreo": JSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}

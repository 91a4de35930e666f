// Package project reads and writes show snapshots as JSON or YAML files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/choreo/internal/formation"
	"github.com/ivlev/choreo/internal/store"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot file encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks the encoding from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Meta is the show-level data the store does not own.
type Meta struct {
	Name      string
	MusicName *string
}

// Snapshot captures the store as a project.
func Snapshot(s *store.Store, meta Meta, now time.Time) *formation.Project {
	name := meta.Name
	if name == "" {
		name = formation.DefaultProjectName
	}
	return &formation.Project{
		Version:    formation.SnapshotVersion,
		CreatedAt:  now.UTC().Format(time.RFC3339),
		Name:       name,
		MusicName:  meta.MusicName,
		Performers: s.Performers(),
		Frames:     s.Frames(),
	}
}

// Apply replaces the store contents with the project. Projects come from
// Decode, which has already validated them, so this cannot fail halfway.
func Apply(s *store.Store, p *formation.Project) Meta {
	s.Load(p.Performers, p.Frames)
	return Meta{Name: p.Name, MusicName: p.MusicName}
}

// Encode serializes the project in the given format.
func Encode(p *formation.Project, f Format) ([]byte, error) {
	out := *p
	if out.Performers == nil {
		out.Performers = []formation.Performer{}
	}
	if out.Frames == nil {
		out.Frames = []formation.Frame{}
	}
	if f == YAML {
		return yaml.Marshal(&out)
	}
	return json.MarshalIndent(&out, "", "  ")
}

// Decode parses and validates a snapshot. A missing or non-list performers
// or frames field is a *formation.SchemaError.
func Decode(data []byte, f Format) (*formation.Project, error) {
	var (
		p   *formation.Project
		err error
	)
	if f == YAML {
		p, err = decodeYAML(data)
	} else {
		p, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}
	normalize(p)
	return p, nil
}

func normalize(p *formation.Project) {
	if p.Performers == nil {
		p.Performers = []formation.Performer{}
	}
	if p.Frames == nil {
		p.Frames = []formation.Frame{}
	}
	for i := range p.Frames {
		if p.Frames[i].Positions == nil {
			p.Frames[i].Positions = formation.Positions{}
		}
	}
}

// WriteFile writes the project in the format its extension names.
func WriteFile(path string, p *formation.Project) error {
	data, err := Encode(p, FormatFor(path))
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a project in the format its extension names.
func ReadFile(path string) (*formation.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

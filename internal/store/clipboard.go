package store

import (
	"github.com/ivlev/choreo/internal/clipboard"
)

// CopySelection snapshots the selected performers across all frames.
func (s *Store) CopySelection() []clipboard.Item {
	return clipboard.Copy(s.selection, s.frames, s.performers)
}

// Paste adds copies of the items to the show and selects exactly them.
func (s *Store) Paste(items []clipboard.Item) []string {
	if len(items) == 0 {
		return nil
	}
	res := clipboard.Paste(items, s.frames, s.newID)
	s.performers = append(s.performers, res.Performers...)
	for _, f := range s.frames {
		for id, pos := range res.Updates[f.ID] {
			f.Positions[id] = pos
		}
	}
	s.selection = res.IDs()
	return s.Selection()
}

// DuplicateSelection is a copy immediately followed by a paste.
func (s *Store) DuplicateSelection() []string {
	return s.Paste(s.CopySelection())
}

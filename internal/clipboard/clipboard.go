// Package clipboard detaches performers, with their position in every frame,
// and re-attaches them as new cast members.
package clipboard

import (
	"github.com/ivlev/choreo/internal/formation"
)

// PasteOffset shifts pasted performers off their originals on both axes.
const PasteOffset = 2.0

// CopySuffix is appended to the names of pasted performers.
const CopySuffix = " (Copy)"

// Item is a detached performer. Positions is keyed by frame id; frames the
// performer was absent from have no entry.
type Item struct {
	Performer formation.Performer
	Positions formation.Positions
}

// Copy snapshots the selected performers. Unknown ids are skipped.
func Copy(selected []string, frames []formation.Frame, performers []formation.Performer) []Item {
	byID := make(map[string]formation.Performer, len(performers))
	for _, p := range performers {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(selected))
	for _, id := range selected {
		p, ok := byID[id]
		if !ok {
			continue
		}
		positions := make(formation.Positions)
		for _, f := range frames {
			if pos, ok := f.Positions[id]; ok {
				positions[f.ID] = pos
			}
		}
		items = append(items, Item{Performer: p, Positions: positions})
	}
	return items
}

// Result is what a paste adds to the store.
type Result struct {
	Performers []formation.Performer
	// Updates maps frame id to the positions of the new performers in it.
	Updates map[string]formation.Positions
}

// IDs lists the new performer ids in paste order.
func (r Result) IDs() []string {
	ids := make([]string, len(r.Performers))
	for i, p := range r.Performers {
		ids[i] = p.ID
	}
	return ids
}

// Paste mints a new performer per item and places it in every current
// frame: at its copied position when the frame was captured, otherwise at
// centre stage, always nudged by PasteOffset and kept on stage.
func Paste(items []Item, frames []formation.Frame, newID formation.IDFunc) Result {
	res := Result{Updates: make(map[string]formation.Positions, len(frames))}
	if len(items) == 0 {
		return res
	}

	for _, item := range items {
		p := item.Performer
		p.ID = newID()
		p.Name = item.Performer.Name + CopySuffix
		res.Performers = append(res.Performers, p)

		for _, f := range frames {
			orig, ok := item.Positions[f.ID]
			if !ok {
				orig = formation.Center
			}
			if res.Updates[f.ID] == nil {
				res.Updates[f.ID] = make(formation.Positions)
			}
			res.Updates[f.ID][p.ID] = orig.Offset(PasteOffset, PasteOffset).Clamp(formation.StageMin, formation.StageMax)
		}
	}
	return res
}

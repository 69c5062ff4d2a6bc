package grid

import "fmt"

// ViolationKind classifies a [Violation].
type ViolationKind string

const (
	// ViolationOverlap means two unlocked widgets share a cell.
	ViolationOverlap ViolationKind = "overlap"
	// ViolationBounds means a widget sticks out of the grid.
	ViolationBounds ViolationKind = "bounds"
	// ViolationSize means a widget breaks its own min/max constraints.
	ViolationSize ViolationKind = "size"
	// ViolationDuplicate means two widgets share an id.
	ViolationDuplicate ViolationKind = "duplicate"
)

// Violation describes one way a stored layout breaks the grid's invariants.
type Violation struct {
	Kind  ViolationKind `json:"kind"`
	ID    string        `json:"id"`
	Other string        `json:"other,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case ViolationOverlap:
		return fmt.Sprintf("%s overlaps %s", v.ID, v.Other)
	case ViolationDuplicate:
		return fmt.Sprintf("duplicate id %s", v.ID)
	case ViolationBounds:
		return fmt.Sprintf("%s is out of bounds", v.ID)
	default:
		return fmt.Sprintf("%s breaks its size constraints", v.ID)
	}
}

// Check inspects widgets as stored, without normalizing them, and reports
// every invariant they break on a grid of the given size. A maxRow of 0
// means unbounded. Widgets flagged for auto-positioning are only checked
// for size.
func Check(widgets []Widget, column, maxRow int) []Violation {
	if column <= 0 {
		column = DefaultColumn
	}
	var out []Violation

	seen := make(map[string]bool, len(widgets))
	for _, w := range widgets {
		if w.ID == "" {
			continue
		}
		if seen[w.ID] {
			out = append(out, Violation{Kind: ViolationDuplicate, ID: w.ID})
		}
		seen[w.ID] = true
	}

	for _, w := range widgets {
		if w.W < 1 || w.H < 1 ||
			(w.MaxW > 0 && w.W > w.MaxW) || (w.MinW > 0 && w.W < w.MinW) ||
			(w.MaxH > 0 && w.H > w.MaxH) || (w.MinH > 0 && w.H < w.MinH) {
			out = append(out, Violation{Kind: ViolationSize, ID: w.ID})
		}
		if w.AutoPosition {
			continue
		}
		if w.X < 0 || w.Y < 0 || w.X+w.W > column || (maxRow > 0 && w.Y+w.H > maxRow) {
			out = append(out, Violation{Kind: ViolationBounds, ID: w.ID})
		}
	}

	for i := range widgets {
		a := widgets[i]
		if a.Locked || a.AutoPosition {
			continue
		}
		for j := i + 1; j < len(widgets); j++ {
			b := widgets[j]
			if b.Locked || b.AutoPosition {
				continue
			}
			if a.Rect().Intersects(b.Rect()) {
				out = append(out, Violation{Kind: ViolationOverlap, ID: a.ID, Other: b.ID})
			}
		}
	}
	return out
}

package selection

import (
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
	"platenav/internal/plate"
)

// WellsInBox returns the names of physical wells whose display footprint
// intersects box (display frame), in document order.
func WellsInBox(doc *plate.Document, box geom.BBox) []string {
	if doc == nil || doc.Plate == nil {
		return nil
	}
	var out []string
	for _, w := range doc.Wells {
		if w.IsHeader() {
			continue
		}
		if plate.WellBox(doc.Plate, w.Col, w.Row).Intersects(box) {
			out = append(out, w.Name())
		}
	}
	return out
}

// SitesInBox returns the mask indices of sites whose backend fov footprint
// intersects box (backend frame) inside at least one selected well. The
// mask is shared by all wells, so an index is reported once.
func SitesInBox(doc *plate.Document, box geom.BBox, fov r2.Vec) []int {
	if doc == nil || doc.Plate == nil {
		return nil
	}
	hit := make([]bool, len(doc.Grid.Mask))
	for _, w := range doc.Wells {
		if w.IsHeader() || !w.Selected {
			continue
		}
		for i, s := range doc.Grid.Mask {
			if hit[i] {
				continue
			}
			if plate.SiteBackendBox(doc.Plate, doc.Grid, w.Col, w.Row, s, fov).Intersects(box) {
				hit[i] = true
			}
		}
	}
	var out []int
	for i, h := range hit {
		if h {
			out = append(out, i)
		}
	}
	return out
}

// Apply writes a result into doc in place and reports how many flags
// actually changed. Well results flip wells; site results flip mask entries.
func Apply(doc *plate.Document, r Result) int {
	if doc == nil || doc.Plate == nil {
		return 0
	}
	want := r.Mode == Select
	n := 0
	switch r.Target {
	case TargetSites:
		for _, i := range r.Sites {
			if i < 0 || i >= len(doc.Grid.Mask) {
				continue
			}
			if doc.Grid.Mask[i].Selected != want {
				doc.Grid.Mask[i].Selected = want
				n++
			}
		}
	default:
		idx := doc.WellIndex()
		for _, name := range r.Wells {
			i, ok := idx[name]
			if !ok {
				continue
			}
			if doc.Wells[i].Selected != want {
				doc.Wells[i].Selected = want
				n++
			}
		}
	}
	return n
}

// Package scene turns a plate document into a handful of batched drawables.
// A batch is one shared style plus a list of instance transforms, so a
// 384-well plate with nine sites per well is a few draw calls, not thousands.
package scene

import (
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
)

// Kind identifies what a batch holds.
type Kind int

const (
	KindWellsUnselected Kind = iota
	KindWellsSelected
	KindSitesSelected
	KindSitesUnselected
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindWellsUnselected:
		return "wells"
	case KindWellsSelected:
		return "wells-selected"
	case KindSitesSelected:
		return "sites-selected"
	case KindSitesUnselected:
		return "sites"
	case KindForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Style is the visual shared by every instance of a batch.
type Style struct {
	Fill     color.RGBA
	Stroke   color.RGBA
	Filled   bool
	RadiusMM float64 // corner radius; 0 draws a plain quad
	Glyph    rune    // terminal surfaces fill with this rune
}

// Batch is an instanced drawable: a unit square [0,1]² placed by each
// transform. Transforms are display-frame affine matrices.
type Batch struct {
	Kind       Kind
	Style      Style
	Transforms []gg.Matrix
}

func newBatch(k Kind, st Style, capacity int) *Batch {
	return &Batch{Kind: k, Style: st, Transforms: make([]gg.Matrix, 0, capacity)}
}

// BoxMatrix maps the unit square onto box.
func BoxMatrix(box geom.BBox) gg.Matrix {
	return gg.Matrix{XX: box.Width(), YY: box.Height(), X0: box.MinX, Y0: box.MinY}
}

// Add appends one instance covering box.
func (b *Batch) Add(box geom.BBox) {
	b.Transforms = append(b.Transforms, BoxMatrix(box))
}

// Len is the instance count.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Transforms)
}

// Box decodes instance i back into its display box.
func (b *Batch) Box(i int) geom.BBox {
	m := b.Transforms[i]
	x0, y0 := m.TransformPoint(0, 0)
	x1, y1 := m.TransformPoint(1, 1)
	return geom.FromCorners(r2.Vec{X: x0, Y: y0}, r2.Vec{X: x1, Y: y1})
}

// Path is a polyline in display coordinates.
type Path struct {
	Points []r2.Vec
	Closed bool
}

// Outline holds the static plate decorations.
type Outline struct {
	Style Style
	Paths []Path
}

// Label is one piece of text centred at a display point.
type Label struct {
	Text   string
	Center r2.Vec
	SizeMM float64
	Header bool
}

// Labels is the merged text drawable for a plate.
type Labels struct {
	Style Style
	Items []Label
}

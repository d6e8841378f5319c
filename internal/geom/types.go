package geom

import "gonum.org/v1/gonum/spatial/r2"

// BBox is an axis-aligned box. Callers keep MinX <= MaxX and MinY <= MaxY;
// FromCorners builds a well-formed one from any two corners.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// FromCorners returns the box spanned by two arbitrary corners. Transforming
// both corners of a box can swap which one is the minimum, so min/max are
// re-derived per axis.
func FromCorners(a, b r2.Vec) BBox {
	bb := BBox{MinX: a.X, MinY: a.Y, MaxX: b.X, MaxY: b.Y}
	if bb.MinX > bb.MaxX {
		bb.MinX, bb.MaxX = bb.MaxX, bb.MinX
	}
	if bb.MinY > bb.MaxY {
		bb.MinY, bb.MaxY = bb.MaxY, bb.MinY
	}
	return bb
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

func (b BBox) Center() r2.Vec {
	return r2.Vec{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Empty reports whether the box has no positive area.
func (b BBox) Empty() bool { return !(b.MaxX > b.MinX && b.MaxY > b.MinY) }

// Intersects reports whether the boxes overlap. Touching edges count as an
// intersection: two boxes intersect unless separated along some axis.
func (b BBox) Intersects(o BBox) bool {
	if b.MaxX < o.MinX || b.MinX > o.MaxX {
		return false
	}
	if b.MaxY < o.MinY || b.MinY > o.MaxY {
		return false
	}
	return true
}

// Contains reports whether p lies inside the box, edges included.
func (b BBox) Contains(p r2.Vec) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp returns p moved onto the nearest point of the box.
func (b BBox) Clamp(p r2.Vec) r2.Vec {
	return r2.Vec{X: clamp(p.X, b.MinX, b.MaxX), Y: clamp(p.Y, b.MinY, b.MaxY)}
}

// Expand grows the box to include p.
func (b *BBox) Expand(p r2.Vec) {
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
}

// Inset shrinks the box by d on every side.
func (b BBox) Inset(d float64) BBox {
	return BBox{MinX: b.MinX + d, MinY: b.MinY + d, MaxX: b.MaxX - d, MaxY: b.MaxY - d}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package geom holds the coordinate transforms shared by every plate
// component.
//
// Three frames are in play:
//
//   - backend (physical): millimetres, origin at the plate's top-left (A1)
//     corner, Y grows downward. The stage moves in this frame.
//   - display: millimetres, origin bottom-left, Y grows upward. Everything
//     drawn on screen lives here.
//   - screen: pixels inside the render surface, origin top-left, Y grows
//     downward.
//
// The camera box (see package viewport) is expressed in display units.
package geom

import "gonum.org/v1/gonum/spatial/r2"

// Extent is the physical footprint of a loaded plate.
type Extent struct {
	LengthMM float64 // X
	WidthMM  float64 // Y
}

// Bounds returns the plate rectangle. It is the same box in the backend
// and display frames.
func (e Extent) Bounds() BBox {
	return BBox{MaxX: e.LengthMM, MaxY: e.WidthMM}
}

// BackendToDisplay flips a backend point into the display frame.
func BackendToDisplay(p r2.Vec, e Extent) r2.Vec {
	return r2.Vec{X: p.X, Y: e.WidthMM - p.Y}
}

// DisplayToBackend is the inverse of BackendToDisplay. The arithmetic is the
// same reflection, but callers name the direction they mean.
func DisplayToBackend(p r2.Vec, e Extent) r2.Vec {
	return r2.Vec{X: p.X, Y: e.WidthMM - p.Y}
}

// BoxBackendToDisplay maps a backend box into the display frame. Both
// corners are transformed independently and re-sorted.
func BoxBackendToDisplay(b BBox, e Extent) BBox {
	return FromCorners(
		BackendToDisplay(r2.Vec{X: b.MinX, Y: b.MinY}, e),
		BackendToDisplay(r2.Vec{X: b.MaxX, Y: b.MaxY}, e),
	)
}

// BoxDisplayToBackend maps a display box into the backend frame.
func BoxDisplayToBackend(b BBox, e Extent) BBox {
	return FromCorners(
		DisplayToBackend(r2.Vec{X: b.MinX, Y: b.MinY}, e),
		DisplayToBackend(r2.Vec{X: b.MaxX, Y: b.MaxY}, e),
	)
}

// ScreenToWorld converts a pixel offset inside a rectW x rectH surface into
// the display frame seen through cam (MinX=left, MaxX=right, MinY=bottom,
// MaxY=top). Screen Y grows downward, world Y upward.
func ScreenToWorld(offX, offY, rectW, rectH float64, cam BBox) r2.Vec {
	if rectW <= 0 || rectH <= 0 {
		return cam.Center()
	}
	nx := offX / rectW
	ny := offY / rectH
	return r2.Vec{
		X: cam.MinX + nx*(cam.MaxX-cam.MinX),
		Y: cam.MaxY - ny*(cam.MaxY-cam.MinY),
	}
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(p r2.Vec, rectW, rectH float64, cam BBox) r2.Vec {
	w, h := cam.Width(), cam.Height()
	if w == 0 || h == 0 {
		return r2.Vec{}
	}
	return r2.Vec{
		X: (p.X - cam.MinX) / w * rectW,
		Y: (cam.MaxY - p.Y) / h * rectH,
	}
}

// ScreenToPhysical converts a pixel offset into backend millimetres. The
// display point is clamped to the plate first, so the result always lies in
// [0, length] x [0, width]. ok is false when no plate is loaded.
func ScreenToPhysical(offX, offY, rectW, rectH float64, cam BBox, e *Extent) (r2.Vec, bool) {
	if e == nil {
		return r2.Vec{}, false
	}
	w := ScreenToWorld(offX, offY, rectW, rectH, cam)
	w = e.Bounds().Clamp(w)
	return DisplayToBackend(w, *e), true
}

// ScreenToPhysicalUnclamped is ScreenToPhysical without the clamp, for
// callers that need to know whether the pointer was on the plate at all.
func ScreenToPhysicalUnclamped(offX, offY, rectW, rectH float64, cam BBox, e *Extent) (r2.Vec, bool) {
	if e == nil {
		return r2.Vec{}, false
	}
	return DisplayToBackend(ScreenToWorld(offX, offY, rectW, rectH, cam), *e), true
}

// Package viewport owns the orthographic camera looking at the plate:
// pan, zoom-under-cursor and fit-to-box.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
)

const (
	DefaultMinZoom     = 0.05
	DefaultMaxZoom     = 1.2
	DefaultScrollSpeed = 0.001
)

// Limits bounds the zoom factor and scales wheel input.
type Limits struct {
	MinZoom     float64
	MaxZoom     float64
	ScrollSpeed float64
}

// DefaultLimits returns the stock zoom range.
func DefaultLimits() Limits {
	return Limits{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom, ScrollSpeed: DefaultScrollSpeed}
}

// Camera is a display-frame box plus a zoom factor. Zoom is world units per
// surface pixel; it scales drag deltas and is kept proportional to the box
// by every operation here. Panning is not clamped, the plate may leave the
// view entirely.
type Camera struct {
	Left, Right float64
	Top, Bottom float64
	Zoom        float64

	limits Limits
	wPx    float64
	hPx    float64
}

// NewCamera returns a camera for a wPx x hPx surface at zoom 1 (clamped),
// with the world origin at the bottom-left of the surface.
func NewCamera(wPx, hPx int, l Limits) *Camera {
	if l.MinZoom <= 0 || l.MaxZoom < l.MinZoom {
		l = DefaultLimits()
	}
	if l.ScrollSpeed == 0 {
		l.ScrollSpeed = DefaultScrollSpeed
	}
	c := &Camera{Zoom: clampZoom(1, l), limits: l}
	c.wPx, c.hPx = float64(max(wPx, 1)), float64(max(hPx, 1))
	c.Right = c.wPx * c.Zoom
	c.Top = c.hPx * c.Zoom
	return c
}

func clampZoom(z float64, l Limits) float64 {
	return math.Min(math.Max(z, l.MinZoom), l.MaxZoom)
}

// Limits returns the configured zoom limits.
func (c *Camera) Limits() Limits { return c.limits }

// Box returns the camera box (MinX=left, MaxX=right, MinY=bottom, MaxY=top).
func (c *Camera) Box() geom.BBox {
	return geom.BBox{MinX: c.Left, MinY: c.Bottom, MaxX: c.Right, MaxY: c.Top}
}

// Width and Height are the camera box size in world units.
func (c *Camera) Width() float64  { return c.Right - c.Left }
func (c *Camera) Height() float64 { return c.Top - c.Bottom }

// Magnification is the inverse of Zoom, for status displays.
func (c *Camera) Magnification() float64 { return 1 / c.Zoom }

// Pan moves the view so content follows a pointer drag of (dx, dy) pixels.
// Screen Y grows downward, world Y upward.
func (c *Camera) Pan(dx, dy float64) {
	wx := dx * c.Zoom
	wy := dy * c.Zoom
	c.Left -= wx
	c.Right -= wx
	c.Top += wy
	c.Bottom += wy
}

// ZoomAt multiplies Zoom by (1+delta), clamped to the limits, and scales the
// box about a pivot given as a fraction of the surface ((0,0) top-left,
// (1,1) bottom-right). The world point under the pivot stays put.
func (c *Camera) ZoomAt(delta float64, pivot r2.Vec) {
	nz := clampZoom(c.Zoom*(1+delta), c.limits)
	f := nz / c.Zoom
	if f == 1 || math.IsNaN(f) || f <= 0 {
		return
	}
	px := c.Left + pivot.X*(c.Right-c.Left)
	py := c.Top - pivot.Y*(c.Top-c.Bottom)
	c.Left = px - (px-c.Left)*f
	c.Right = px + (c.Right-px)*f
	c.Top = py + (c.Top-py)*f
	c.Bottom = py - (py-c.Bottom)*f
	c.Zoom = nz
}

// ScrollDelta converts a wheel magnitude into a ZoomAt delta.
func (c *Camera) ScrollDelta(wheel float64) float64 {
	return wheel * c.limits.ScrollSpeed
}

// Fit centres the camera on box and zooms so the larger of the two size
// ratios becomes 1. When the required zoom falls outside the limits the
// result only approximately fits.
func (c *Camera) Fit(box geom.BBox) {
	if box.Width() <= 0 && box.Height() <= 0 {
		return
	}
	center := box.Center()
	cur := c.Box().Center()
	dx, dy := center.X-cur.X, center.Y-cur.Y
	c.Left += dx
	c.Right += dx
	c.Top += dy
	c.Bottom += dy

	ratio := math.Max(box.Width()/c.Width(), box.Height()/c.Height())
	c.ZoomAt(ratio-1, r2.Vec{X: 0.5, Y: 0.5})
}

// Resize adapts the box to a new surface size, keeping centre and zoom.
func (c *Camera) Resize(wPx, hPx int) {
	if wPx <= 0 || hPx <= 0 {
		return
	}
	center := c.Box().Center()
	c.wPx, c.hPx = float64(wPx), float64(hPx)
	hw := c.wPx * c.Zoom / 2
	hh := c.hPx * c.Zoom / 2
	c.Left, c.Right = center.X-hw, center.X+hw
	c.Bottom, c.Top = center.Y-hh, center.Y+hh
}

// SurfaceSize returns the pixel size the camera was last sized for.
func (c *Camera) SurfaceSize() (float64, float64) { return c.wPx, c.hPx }

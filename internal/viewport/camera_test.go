package viewport

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

var plateBox = geom.BBox{MaxX: 127.76, MaxY: 85.48}

func TestFitContainsBoxMinimally(t *testing.T) {
	c := NewCamera(200, 100, DefaultLimits())
	c.Fit(plateBox)
	box := c.Box()
	if box.MinX > plateBox.MinX+1e-9 || box.MaxX < plateBox.MaxX-1e-9 ||
		box.MinY > plateBox.MinY+1e-9 || box.MaxY < plateBox.MaxY-1e-9 {
		t.Fatalf("camera %+v does not contain plate", box)
	}
	// height is the limiting axis: it must match exactly
	if !near(box.Height(), plateBox.Height()) {
		t.Errorf("camera height %v, want %v", box.Height(), plateBox.Height())
	}
	if !near(box.Center().X, plateBox.Center().X) || !near(box.Center().Y, plateBox.Center().Y) {
		t.Errorf("camera not centred: %v", box.Center())
	}
	// aspect is preserved
	if !near(box.Width()/box.Height(), 2) {
		t.Errorf("aspect changed: %v", box.Width()/box.Height())
	}
	if !near(c.Zoom, plateBox.Height()/100) {
		t.Errorf("zoom = %v", c.Zoom)
	}
}

func TestFitClampsZoom(t *testing.T) {
	c := NewCamera(10, 10, DefaultLimits())
	c.Fit(plateBox)
	if c.Zoom != DefaultMaxZoom {
		t.Fatalf("zoom = %v, want clamp at %v", c.Zoom, DefaultMaxZoom)
	}
	// only approximately fits: the box is centred but smaller than the plate
	if !near(c.Width(), 12) || !near(c.Box().Center().X, plateBox.Center().X) {
		t.Errorf("unexpected clamped camera %+v", c.Box())
	}
}

func TestZoomAtKeepsPivotFixed(t *testing.T) {
	c := NewCamera(100, 100, DefaultLimits())
	pivot := r2.Vec{X: 0.25, Y: 0.75}
	before := geom.ScreenToWorld(25, 75, 100, 100, c.Box())
	c.ZoomAt(-0.5, pivot)
	if !near(c.Zoom, 0.5) {
		t.Fatalf("zoom = %v", c.Zoom)
	}
	after := geom.ScreenToWorld(25, 75, 100, 100, c.Box())
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("pivot moved from %v to %v", before, after)
	}
	if !near(c.Width(), 50) || !near(c.Height(), 50) {
		t.Errorf("box not scaled: %vx%v", c.Width(), c.Height())
	}
}

func TestZoomClampRange(t *testing.T) {
	c := NewCamera(100, 100, DefaultLimits())
	for i := 0; i < 200; i++ {
		c.ZoomAt(-0.3, r2.Vec{X: 0.5, Y: 0.5})
	}
	if c.Zoom != DefaultMinZoom {
		t.Errorf("zoom = %v, want min %v", c.Zoom, DefaultMinZoom)
	}
	if !near(c.Width(), 100*DefaultMinZoom) {
		t.Errorf("box width %v not proportional to zoom", c.Width())
	}
	for i := 0; i < 200; i++ {
		c.ZoomAt(0.3, r2.Vec{X: 0.1, Y: 0.9})
	}
	if c.Zoom != DefaultMaxZoom {
		t.Errorf("zoom = %v, want max %v", c.Zoom, DefaultMaxZoom)
	}
}

func TestPanFollowsPointer(t *testing.T) {
	c := NewCamera(100, 100, DefaultLimits())
	c.ZoomAt(-0.5, r2.Vec{X: 0.5, Y: 0.5})
	world := geom.ScreenToWorld(40, 40, 100, 100, c.Box())
	c.Pan(10, -20)
	// the world point previously under (40,40) is now under (50,20)
	moved := geom.ScreenToWorld(50, 20, 100, 100, c.Box())
	if !near(world.X, moved.X) || !near(world.Y, moved.Y) {
		t.Errorf("pan: %v vs %v", world, moved)
	}
	// unclamped: the view can leave the plate entirely
	c.Pan(1e6, 0)
	if c.Right > 0 {
		t.Errorf("expected camera far left of origin, got %+v", c.Box())
	}
}

func TestResizeKeepsCentreAndZoom(t *testing.T) {
	c := NewCamera(100, 50, DefaultLimits())
	c.Fit(plateBox)
	z, center := c.Zoom, c.Box().Center()
	c.Resize(300, 80)
	if c.Zoom != z || !near(c.Box().Center().X, center.X) || !near(c.Box().Center().Y, center.Y) {
		t.Errorf("resize changed zoom or centre: %v %v", c.Zoom, c.Box().Center())
	}
	if !near(c.Width(), 300*z) || !near(c.Height(), 80*z) {
		t.Errorf("box %vx%v", c.Width(), c.Height())
	}
	if !near(c.Magnification()*c.Zoom, 1) {
		t.Errorf("magnification %v at zoom %v", c.Magnification(), c.Zoom)
	}
}

func TestScrollDelta(t *testing.T) {
	c := NewCamera(1, 1, Limits{MinZoom: 0.1, MaxZoom: 2, ScrollSpeed: 0.002})
	if got := c.ScrollDelta(100); !near(got, 0.2) {
		t.Errorf("ScrollDelta = %v", got)
	}
	bad := NewCamera(1, 1, Limits{MinZoom: 2, MaxZoom: 1})
	if bad.Limits() != DefaultLimits() {
		t.Errorf("invalid limits should fall back to defaults, got %+v", bad.Limits())
	}
}

// Package selection turns pointer gestures over the plate into well and site
// selections, camera pans and objective moves.
package selection

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
	"platenav/internal/plate"
	"platenav/internal/scene"
	"platenav/internal/viewport"
)

// State is the gesture state of the controller.
type State int

const (
	Idle State = iota
	Selecting
	Panning
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Panning:
		return "panning"
	}
	return "idle"
}

// Mode says whether a gesture selects or deselects.
type Mode int

const (
	Select Mode = iota
	Deselect
)

func (m Mode) String() string {
	if m == Deselect {
		return "deselect"
	}
	return "select"
}

// Target says whether a rectangle acts on wells or on the site mask.
type Target int

const (
	TargetWells Target = iota
	TargetSites
)

func (t Target) String() string {
	if t == TargetSites {
		return "sites"
	}
	return "wells"
}

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Pointer is one pointer event in surface pixels.
type Pointer struct {
	X, Y     float64
	Button   Button
	Modifier bool // selection modifier held
}

// Session is the in-flight rectangle gesture, in surface pixels.
type Session struct {
	Active  bool
	Mode    Mode
	Start   r2.Vec
	Current r2.Vec
}

// Result is a finished rectangle gesture. Bounds is in backend millimetres.
// Wells always lists the intersected wells; Sites lists mask indices when
// Target is TargetSites.
type Result struct {
	ID     string
	Mode   Mode
	Target Target
	Wells  []string
	Sites  []int
	Bounds geom.BBox
}

// DocumentSource hands out the live configuration document.
type DocumentSource interface {
	Document() *plate.Document
}

// Callbacks are the controller's outward effects. Any of them may be nil.
type Callbacks struct {
	Commit func(Result)
	Move   func(xMM, yMM float64)
	Warn   func(msg string)
}

// Controller is the pointer state machine. It never mutates the document:
// committing a Result is the caller's job (see Apply).
type Controller struct {
	cam    *viewport.Camera
	scene  *scene.Scene
	src    DocumentSource
	cb     Callbacks
	fov    r2.Vec
	target Target

	state State
	sess  Session
	last  r2.Vec
}

// NewController wires a controller to its camera, scene overlay and document.
func NewController(cam *viewport.Camera, sc *scene.Scene, src DocumentSource, fov r2.Vec, cb Callbacks) *Controller {
	return &Controller{cam: cam, scene: sc, src: src, fov: fov, cb: cb}
}

func (c *Controller) State() State       { return c.state }
func (c *Controller) Session() Session   { return c.sess }
func (c *Controller) Target() Target     { return c.target }
func (c *Controller) SetTarget(t Target) { c.target = t }
func (c *Controller) SetFOV(fov r2.Vec)  { c.fov = fov }

func (c *Controller) plate() *plate.Plate {
	if c.src == nil {
		return nil
	}
	d := c.src.Document()
	if d == nil {
		return nil
	}
	return d.Plate
}

func (c *Controller) physical(pt r2.Vec) (r2.Vec, bool) {
	w, h := c.cam.SurfaceSize()
	return geom.ScreenToPhysical(pt.X, pt.Y, w, h, c.cam.Box(), c.plate().Extent())
}

// PointerDown starts a rectangle gesture when the modifier is held and a
// pan otherwise.
func (c *Controller) PointerDown(p Pointer) {
	if c.plate() == nil {
		log.Printf("selection: pointer down ignored: %v", plate.ErrNoPlate)
		return
	}
	if c.state != Idle {
		return
	}
	pt := r2.Vec{X: p.X, Y: p.Y}
	if !p.Modifier {
		c.state = Panning
		c.last = pt
		return
	}
	mode := Select
	if p.Button != ButtonPrimary {
		mode = Deselect
	}
	c.state = Selecting
	c.sess = Session{Active: true, Mode: mode, Start: pt, Current: pt}
	c.updateOverlay()
}

// PointerMove pans or grows the live rectangle.
func (c *Controller) PointerMove(p Pointer) {
	if c.plate() == nil {
		return
	}
	pt := r2.Vec{X: p.X, Y: p.Y}
	switch c.state {
	case Panning:
		c.cam.Pan(pt.X-c.last.X, pt.Y-c.last.Y)
		c.last = pt
	case Selecting:
		c.sess.Current = pt
		c.updateOverlay()
	}
}

// PointerUp ends the gesture. A rectangle gesture yields a Result, which is
// also handed to the Commit callback.
func (c *Controller) PointerUp(p Pointer) (Result, bool) {
	if c.plate() == nil {
		log.Printf("selection: pointer up ignored: %v", plate.ErrNoPlate)
		c.reset()
		return Result{}, false
	}
	switch c.state {
	case Panning:
		c.cam.Pan(p.X-c.last.X, p.Y-c.last.Y)
		c.reset()
		return Result{}, false
	case Selecting:
		c.sess.Current = r2.Vec{X: p.X, Y: p.Y}
		r, ok := c.finish()
		c.reset()
		if ok && c.cb.Commit != nil {
			c.cb.Commit(r)
		}
		return r, ok
	}
	return Result{}, false
}

// Leave abandons any gesture in flight.
func (c *Controller) Leave() {
	if c.state == Selecting {
		log.Printf("selection: gesture abandoned")
	}
	c.reset()
}

// DoubleClick requests an objective move to the clicked point. It is ignored
// while a gesture is active; points off the plate raise a warning instead.
func (c *Controller) DoubleClick(x, y float64) {
	p := c.plate()
	if p == nil {
		log.Printf("selection: double click ignored: %v", plate.ErrNoPlate)
		return
	}
	if c.state != Idle {
		return
	}
	w, h := c.cam.SurfaceSize()
	pt, _ := geom.ScreenToPhysicalUnclamped(x, y, w, h, c.cam.Box(), p.Extent())
	if !p.Bounds().Contains(pt) {
		if c.cb.Warn != nil {
			c.cb.Warn(fmt.Sprintf("point (%.2f, %.2f) mm is outside the plate", pt.X, pt.Y))
		}
		return
	}
	if c.cb.Move != nil {
		c.cb.Move(pt.X, pt.Y)
	}
}

func (c *Controller) finish() (Result, bool) {
	start, ok := c.physical(c.sess.Start)
	if !ok {
		return Result{}, false
	}
	cur, _ := c.physical(c.sess.Current)
	bounds := geom.FromCorners(start, cur)
	doc := c.src.Document()
	r := Result{
		ID:     uuid.NewString(),
		Mode:   c.sess.Mode,
		Target: c.target,
		Bounds: bounds,
		Wells:  WellsInBox(doc, geom.BoxBackendToDisplay(bounds, *doc.Plate.Extent())),
	}
	if c.target == TargetSites {
		r.Sites = SitesInBox(doc, bounds, c.fov)
	}
	return r, true
}

func (c *Controller) updateOverlay() {
	if c.scene == nil {
		return
	}
	start, ok := c.physical(c.sess.Start)
	if !ok {
		return
	}
	cur, _ := c.physical(c.sess.Current)
	e := *c.plate().Extent()
	box := geom.FromCorners(geom.BackendToDisplay(start, e), geom.BackendToDisplay(cur, e))
	c.scene.SetOverlay(box, c.sess.Mode == Deselect)
}

func (c *Controller) reset() {
	c.state = Idle
	c.sess = Session{}
	if c.scene != nil {
		c.scene.ClearOverlay()
	}
}

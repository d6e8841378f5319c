// Package navigator is the plate navigator: it ties the camera, the scene
// builder and the selection controller to a live plate document and to the
// microscope.
//
// A Navigator is not safe for concurrent use. Every method except the
// dispatched move and FetchForbiddenAreas runs on the caller's UI goroutine.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
	"platenav/internal/plate"
	"platenav/internal/scene"
	"platenav/internal/selection"
	"platenav/internal/viewport"
)

// Store exposes the live configuration document by reference and persists
// it when told that it changed.
type Store interface {
	Document() *plate.Document
	Changed() error
}

// Mover asks the stage to move the objective. Coordinates are backend
// millimetres. The server may reject the move.
type Mover interface {
	MoveObjectiveTo(ctx context.Context, xMM, yMM float64) error
}

// ForbiddenAreaProvider lists the areas the objective must avoid.
type ForbiddenAreaProvider interface {
	FetchForbiddenAreas(ctx context.Context) ([]plate.ForbiddenArea, error)
}

// Surface draws a scene through a camera box and reports its pixel size.
type Surface interface {
	Size() (w, h int)
	Draw(s *scene.Scene, camera geom.BBox)
}

// Options tunes a Navigator. Zero values select defaults.
type Options struct {
	Limits    viewport.Limits
	FOV       r2.Vec
	CacheSize int
	Styles    *scene.Styles

	// Dispatch runs a move request off the UI goroutine. Defaults to a new
	// goroutine per request.
	Dispatch func(func())

	OnWarning   func(msg string)
	OnMoveError func(err error)
	OnCommit    func(r selection.Result, changed int)
}

// Navigator is one plate view. Several may coexist over different stores.
type Navigator struct {
	store Store
	mover Mover
	areas ForbiddenAreaProvider

	cam     *viewport.Camera
	builder *scene.Builder
	scene   *scene.Scene
	ctl     *selection.Controller

	dispatch    func(func())
	onWarning   func(string)
	onMoveError func(error)
	onCommit    func(selection.Result, int)
}

// New builds a navigator for a wPx x hPx surface. mover and areas may be
// nil, in which case moves are refused and no forbidden areas are shown.
func New(store Store, mover Mover, areas ForbiddenAreaProvider, wPx, hPx int, opts Options) (*Navigator, error) {
	if store == nil {
		return nil, errors.New("navigator: nil store")
	}
	if opts.FOV == (r2.Vec{}) {
		opts.FOV = r2.Vec{X: 0.7, Y: 0.7}
	}
	styles := scene.DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	b, err := scene.NewBuilder(opts.FOV, opts.CacheSize, styles)
	if err != nil {
		return nil, fmt.Errorf("navigator: %w", err)
	}
	n := &Navigator{
		store:       store,
		mover:       mover,
		areas:       areas,
		cam:         viewport.NewCamera(wPx, hPx, opts.Limits),
		builder:     b,
		scene:       &scene.Scene{},
		dispatch:    opts.Dispatch,
		onWarning:   opts.OnWarning,
		onMoveError: opts.OnMoveError,
		onCommit:    opts.OnCommit,
	}
	if n.dispatch == nil {
		n.dispatch = func(f func()) { go f() }
	}
	n.ctl = selection.NewController(n.cam, n.scene, store, opts.FOV, selection.Callbacks{
		Commit: n.commit,
		Move:   n.move,
		Warn:   n.warn,
	})
	return n, nil
}

func (n *Navigator) Camera() *viewport.Camera     { return n.cam }
func (n *Navigator) Scene() *scene.Scene          { return n.scene }
func (n *Navigator) Document() *plate.Document    { return n.store.Document() }
func (n *Navigator) State() selection.State       { return n.ctl.State() }
func (n *Navigator) Target() selection.Target     { return n.ctl.Target() }
func (n *Navigator) FOV() r2.Vec                  { return n.builder.FOV() }
func (n *Navigator) SetTarget(t selection.Target) { n.ctl.SetTarget(t) }

// Reload rebuilds the scene from the store's document and fits the plate
// into view. Use it at startup and after the document is replaced.
func (n *Navigator) Reload() error {
	doc := n.store.Document()
	if err := n.builder.Load(n.scene, doc); err != nil {
		log.Printf("navigator: reload: %v", err)
		return err
	}
	n.Fit()
	return nil
}

// LoadPlate switches the document to plate p. The well list is kept when the
// model is unchanged and recreated otherwise.
func (n *Navigator) LoadPlate(p *plate.Plate) error {
	doc := n.store.Document()
	if doc == nil {
		return plate.ErrNoPlate
	}
	if p == nil {
		return plate.ErrNoPlate
	}
	if err := p.Validate(); err != nil {
		return err
	}
	changed := doc.Plate == nil || doc.Plate.ModelID != p.ModelID
	doc.SetPlate(p)
	if err := n.Reload(); err != nil {
		return err
	}
	if changed {
		n.persist()
	}
	return nil
}

// RefreshSelection rebuilds the well and site batches from the live flags.
func (n *Navigator) RefreshSelection() {
	if err := n.builder.Refresh(n.scene, n.store.Document()); err != nil {
		log.Printf("navigator: refresh: %v", err)
	}
}

// FetchForbiddenAreas asks the provider for the current areas. It touches
// no navigator state and may run off the UI goroutine. Failures are logged
// and yield no areas.
func (n *Navigator) FetchForbiddenAreas(ctx context.Context) []plate.ForbiddenArea {
	if n.areas == nil {
		return nil
	}
	areas, err := n.areas.FetchForbiddenAreas(ctx)
	if err != nil {
		log.Printf("navigator: forbidden areas unavailable: %v", err)
		return nil
	}
	return areas
}

// SetForbiddenAreas places areas in the scene.
func (n *Navigator) SetForbiddenAreas(areas []plate.ForbiddenArea) {
	var p *plate.Plate
	if doc := n.store.Document(); doc != nil {
		p = doc.Plate
	}
	n.builder.SetForbiddenAreas(n.scene, p, areas)
}

// LoadForbiddenAreas fetches and places the forbidden areas synchronously.
func (n *Navigator) LoadForbiddenAreas(ctx context.Context) {
	n.SetForbiddenAreas(n.FetchForbiddenAreas(ctx))
}

// SetFOV changes the objective field of view and redraws the sites.
func (n *Navigator) SetFOV(fov r2.Vec) {
	n.builder.SetFOV(fov)
	n.ctl.SetFOV(n.builder.FOV())
	n.RefreshSelection()
}

func (n *Navigator) PointerDown(p selection.Pointer) { n.ctl.PointerDown(p) }
func (n *Navigator) PointerMove(p selection.Pointer) { n.ctl.PointerMove(p) }
func (n *Navigator) PointerLeave()                   { n.ctl.Leave() }
func (n *Navigator) DoubleClick(x, y float64)        { n.ctl.DoubleClick(x, y) }

// PointerUp ends a gesture; a rectangle is committed before it returns.
func (n *Navigator) PointerUp(p selection.Pointer) (selection.Result, bool) {
	return n.ctl.PointerUp(p)
}

// Wheel zooms about the pointer at (x, y) pixels. Positive wheel values
// zoom out.
func (n *Navigator) Wheel(x, y, wheel float64) {
	w, h := n.cam.SurfaceSize()
	n.cam.ZoomAt(n.cam.ScrollDelta(wheel), r2.Vec{X: x / w, Y: y / h})
}

// Zoom zooms about the surface centre.
func (n *Navigator) Zoom(delta float64) {
	n.cam.ZoomAt(delta, r2.Vec{X: 0.5, Y: 0.5})
}

// Pan moves the view by a pointer drag of (dx, dy) pixels.
func (n *Navigator) Pan(dx, dy float64) { n.cam.Pan(dx, dy) }

// Fit frames the whole plate.
func (n *Navigator) Fit() {
	doc := n.store.Document()
	if doc == nil || doc.Plate == nil {
		return
	}
	n.cam.Fit(doc.Plate.Bounds())
}

// VisibleBounds is the camera box in backend millimetres. ok is false when
// no plate is loaded.
func (n *Navigator) VisibleBounds() (geom.BBox, bool) {
	doc := n.store.Document()
	if doc == nil || doc.Plate == nil {
		return geom.BBox{}, false
	}
	return geom.BoxDisplayToBackend(n.cam.Box(), *doc.Plate.Extent()), true
}

// Resize follows a surface size change.
func (n *Navigator) Resize(wPx, hPx int) { n.cam.Resize(wPx, hPx) }

// SelectWells applies mode to the named wells, as if they had been swept by
// a rectangle. Unknown names are skipped. It returns how many wells changed.
func (n *Navigator) SelectWells(names []string, mode selection.Mode) (int, error) {
	doc := n.store.Document()
	if doc == nil || doc.Plate == nil {
		log.Printf("navigator: select wells ignored: %v", plate.ErrNoPlate)
		return 0, plate.ErrNoPlate
	}
	idx := doc.WellIndex()
	var valid []string
	for _, name := range names {
		row, col, err := plate.ParseWellName(name)
		if err != nil {
			log.Printf("navigator: %v", err)
			continue
		}
		canon := plate.WellName(row, col)
		if _, ok := idx[canon]; !ok {
			log.Printf("navigator: well %s not on plate %s", canon, doc.Plate.ModelID)
			continue
		}
		valid = append(valid, canon)
	}
	r := selection.Result{Mode: mode, Target: selection.TargetWells, Wells: valid}
	return n.apply(r), nil
}

// Render hands the scene and camera box to s, following its size first.
func (n *Navigator) Render(s Surface) {
	w, h := s.Size()
	if cw, ch := n.cam.SurfaceSize(); float64(w) != cw || float64(h) != ch {
		n.cam.Resize(w, h)
	}
	s.Draw(n.scene, n.cam.Box())
}

// commit is the controller's Commit hook.
func (n *Navigator) commit(r selection.Result) { n.apply(r) }

// apply writes a selection into the live document, rebuilds the batches
// before returning and then lets the store persist.
func (n *Navigator) apply(r selection.Result) int {
	doc := n.store.Document()
	changed := selection.Apply(doc, r)
	if r.ID != "" {
		log.Printf("navigator: %s %s %s: %d wells, %d sites, %d changed", r.ID, r.Mode, r.Target, len(r.Wells), len(r.Sites), changed)
	}
	if changed > 0 {
		n.RefreshSelection()
		n.persist()
	}
	if n.onCommit != nil {
		n.onCommit(r, changed)
	}
	return changed
}

func (n *Navigator) persist() {
	if err := n.store.Changed(); err != nil {
		log.Printf("navigator: store: %v", err)
		n.warn(fmt.Sprintf("could not save: %v", err))
	}
}

func (n *Navigator) move(x, y float64) {
	if n.mover == nil {
		n.warn("no microscope connected")
		return
	}
	mover, onErr := n.mover, n.onMoveError
	n.dispatch(func() {
		if err := mover.MoveObjectiveTo(context.Background(), x, y); err != nil {
			log.Printf("navigator: move to (%.2f, %.2f): %v", x, y, err)
			if onErr != nil {
				onErr(err)
			}
		}
	})
}

func (n *Navigator) warn(msg string) {
	log.Printf("navigator: %s", msg)
	if n.onWarning != nil {
		n.onWarning(msg)
	}
}

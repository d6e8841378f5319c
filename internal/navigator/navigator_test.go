package navigator

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
	"platenav/internal/plate"
	"platenav/internal/scene"
	"platenav/internal/selection"
)

type memStore struct {
	doc     *plate.Document
	changes int
	err     error
}

func (s *memStore) Document() *plate.Document { return s.doc }

func (s *memStore) Changed() error {
	s.changes++
	return s.err
}

type fakeMover struct {
	calls [][2]float64
	err   error
}

func (m *fakeMover) MoveObjectiveTo(_ context.Context, x, y float64) error {
	m.calls = append(m.calls, [2]float64{x, y})
	return m.err
}

type fakeAreas struct {
	areas []plate.ForbiddenArea
	err   error
}

func (f fakeAreas) FetchForbiddenAreas(context.Context) ([]plate.ForbiddenArea, error) {
	return f.areas, f.err
}

type fakeSurface struct {
	w, h  int
	draws int
	cam   geom.BBox
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }
func (s *fakeSurface) Draw(_ *scene.Scene, cam geom.BBox) {
	s.draws++
	s.cam = cam
}

type fixture struct {
	nav      *Navigator
	store    *memStore
	mover    *fakeMover
	warnings []string
	moveErrs []error
	commits  []int
}

func newFixture(t *testing.T, areas ForbiddenAreaProvider) *fixture {
	t.Helper()
	g, err := plate.NewGrid(3, 3, 1.5, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := plate.NewDocument(plate.Builtin()["sbs-96"], g)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{store: &memStore{doc: doc}, mover: &fakeMover{}}
	nav, err := New(f.store, f.mover, areas, 200, 100, Options{
		Dispatch:    func(fn func()) { fn() },
		OnWarning:   func(msg string) { f.warnings = append(f.warnings, msg) },
		OnMoveError: func(err error) { f.moveErrs = append(f.moveErrs, err) },
		OnCommit:    func(_ selection.Result, changed int) { f.commits = append(f.commits, changed) },
	})
	if err != nil {
		t.Fatal(err)
	}
	f.nav = nav
	if err := nav.Reload(); err != nil {
		t.Fatal(err)
	}
	return f
}

// screenFor returns the pixel under backend point (x, y) for the current
// camera.
func screenFor(n *Navigator, x, y float64) (float64, float64) {
	doc := n.Document()
	d := geom.BackendToDisplay(vec(x, y), *doc.Plate.Extent())
	w, h := n.Camera().SurfaceSize()
	s := geom.WorldToScreen(d, w, h, n.Camera().Box())
	return s.X, s.Y
}

func TestRectangleCommitRebuildsAndPersists(t *testing.T) {
	f := newFixture(t, nil)
	x0, y0 := screenFor(f.nav, 5, 5)
	x1, y1 := screenFor(f.nav, 25, 25)
	f.nav.PointerDown(selection.Pointer{X: x0, Y: y0, Modifier: true})
	f.nav.PointerMove(selection.Pointer{X: x1, Y: y1, Modifier: true})
	r, ok := f.nav.PointerUp(selection.Pointer{X: x1, Y: y1, Modifier: true})
	if !ok {
		t.Fatal("no result")
	}
	want := []string{"A01", "A02", "B01", "B02"}
	if !reflect.DeepEqual(r.Wells, want) {
		t.Fatalf("wells = %v, want %v", r.Wells, want)
	}
	if got := f.store.doc.SelectedWells(); !reflect.DeepEqual(got, want) {
		t.Errorf("document selection = %v", got)
	}
	if f.nav.Scene().WellsSelected.Len() != 4 {
		t.Errorf("scene not rebuilt: %d selected wells", f.nav.Scene().WellsSelected.Len())
	}
	if f.nav.Scene().SitesSelected.Len() != 36 {
		t.Errorf("sites = %d, want 36", f.nav.Scene().SitesSelected.Len())
	}
	if f.store.changes != 1 {
		t.Errorf("store changes = %d", f.store.changes)
	}
	if !reflect.DeepEqual(f.commits, []int{4}) {
		t.Errorf("commit hook = %v, want [4]", f.commits)
	}

	// the same rectangle again changes nothing and writes nothing
	f.nav.PointerDown(selection.Pointer{X: x0, Y: y0, Modifier: true})
	f.nav.PointerUp(selection.Pointer{X: x1, Y: y1, Modifier: true})
	if f.store.changes != 1 || !reflect.DeepEqual(f.commits, []int{4, 0}) {
		t.Errorf("repeat commit: changes = %d, hook = %v", f.store.changes, f.commits)
	}
}

func TestDoubleClickMoves(t *testing.T) {
	f := newFixture(t, nil)
	x, y := screenFor(f.nav, 40, 20)
	f.nav.DoubleClick(x, y)
	if len(f.mover.calls) != 1 {
		t.Fatalf("mover calls = %v", f.mover.calls)
	}
	c := f.mover.calls[0]
	if d := c[0] - 40; d > 1e-6 || d < -1e-6 {
		t.Errorf("x = %v", c[0])
	}
	if d := c[1] - 20; d > 1e-6 || d < -1e-6 {
		t.Errorf("y = %v", c[1])
	}

	f.mover.err = errors.New("forbidden area")
	f.nav.DoubleClick(x, y)
	if len(f.moveErrs) != 1 {
		t.Errorf("rejection not reported: %v", f.moveErrs)
	}

	f.nav.Camera().Pan(-10000, 0)
	f.nav.DoubleClick(x, y)
	if len(f.warnings) != 1 || len(f.mover.calls) != 2 {
		t.Errorf("off-plate click: warnings %v, calls %d", f.warnings, len(f.mover.calls))
	}
}

func TestForbiddenAreas(t *testing.T) {
	areas := []plate.ForbiddenArea{{Name: "clip", MinXMM: 0, MaxXMM: 10, MinYMM: 0, MaxYMM: 5}}
	f := newFixture(t, fakeAreas{areas: areas})
	f.nav.LoadForbiddenAreas(context.Background())
	if f.nav.Scene().Forbidden.Len() != 1 {
		t.Fatalf("forbidden = %d", f.nav.Scene().Forbidden.Len())
	}

	broken := newFixture(t, fakeAreas{err: errors.New("timeout")})
	broken.nav.LoadForbiddenAreas(context.Background())
	if broken.nav.Scene().Forbidden.Len() != 0 {
		t.Error("failed fetch should leave no areas")
	}
}

func TestSelectWellsAndSites(t *testing.T) {
	f := newFixture(t, nil)
	n, err := f.nav.SelectWells([]string{"A1", "C3", "Q01", "bogus"}, selection.Select)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("changed = %d", n)
	}
	if got := f.store.doc.SelectedWells(); !reflect.DeepEqual(got, []string{"A01", "C03"}) {
		t.Errorf("selected = %v", got)
	}
	if n, _ := f.nav.SelectWells([]string{"A01"}, selection.Select); n != 0 || f.store.changes != 1 {
		t.Errorf("no-op selection should not persist: n=%d changes=%d", n, f.store.changes)
	}

	// sweep the whole plate in site mode: every site of a selected well hits
	f.nav.SetTarget(selection.TargetSites)
	x0, y0 := screenFor(f.nav, 0, 0)
	x1, y1 := screenFor(f.nav, 127.76, 85.48)
	f.nav.PointerDown(selection.Pointer{X: x0, Y: y0, Button: selection.ButtonSecondary, Modifier: true})
	r, ok := f.nav.PointerUp(selection.Pointer{X: x1, Y: y1, Modifier: true})
	if !ok || r.Target != selection.TargetSites || len(r.Sites) != 9 {
		t.Fatalf("site sweep = %+v", r)
	}
	if f.store.doc.Grid.SelectedCount() != 0 {
		t.Errorf("mask not cleared: %d", f.store.doc.Grid.SelectedCount())
	}
	if len(f.store.doc.SelectedWells()) != 2 {
		t.Error("site mode must not touch wells")
	}
	if f.nav.Scene().SitesUnselected.Len() != 18 {
		t.Errorf("unselected sites = %d", f.nav.Scene().SitesUnselected.Len())
	}
}

func TestLoadPlateAndRender(t *testing.T) {
	f := newFixture(t, nil)
	f.store.doc.Wells[0].Selected = true
	if err := f.nav.LoadPlate(plate.Builtin()["sbs-384"]); err != nil {
		t.Fatal(err)
	}
	if len(f.store.doc.Wells) != 384 || f.store.changes != 1 {
		t.Errorf("wells %d, changes %d", len(f.store.doc.Wells), f.store.changes)
	}
	if f.nav.Scene().ModelID != "sbs-384" {
		t.Errorf("scene model = %s", f.nav.Scene().ModelID)
	}
	s := &fakeSurface{w: 400, h: 300}
	f.nav.Render(s)
	if s.draws != 1 {
		t.Fatal("surface not drawn")
	}
	if w, h := f.nav.Camera().SurfaceSize(); w != 400 || h != 300 {
		t.Errorf("camera not resized: %vx%v", w, h)
	}
	if err := f.nav.LoadPlate(&plate.Plate{ModelID: "bad"}); !errors.Is(err, plate.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestNoPlate(t *testing.T) {
	store := &memStore{}
	nav, err := New(store, nil, nil, 100, 100, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.Reload(); !errors.Is(err, plate.ErrNoPlate) {
		t.Errorf("reload: %v", err)
	}
	nav.PointerDown(selection.Pointer{X: 1, Y: 1, Modifier: true})
	nav.DoubleClick(1, 1)
	if _, err := nav.SelectWells([]string{"A01"}, selection.Select); !errors.Is(err, plate.ErrNoPlate) {
		t.Errorf("select: %v", err)
	}
	if store.changes != 0 {
		t.Error("nothing should be persisted without a plate")
	}
}

func TestVisibleBoundsAfterFit(t *testing.T) {
	f := newFixture(t, nil)
	vb, ok := f.nav.VisibleBounds()
	if !ok {
		t.Fatal("plate is loaded")
	}
	p := f.store.doc.Plate
	const eps = 1e-6
	if vb.MinX > eps || vb.MinY > eps || vb.MaxX < p.LengthMM-eps || vb.MaxY < p.WidthMM-eps {
		t.Errorf("visible %+v does not cover the plate", vb)
	}
	if _, ok := (&Navigator{store: &memStore{}}).VisibleBounds(); ok {
		t.Error("no plate should report no bounds")
	}
}

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

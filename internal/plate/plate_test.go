package plate

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
)

func plate96(t *testing.T) *Plate {
	t.Helper()
	p, ok := Builtin()["sbs-96"]
	if !ok {
		t.Fatal("builtin sbs-96 missing")
	}
	return p
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWellName(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A01"},
		{1, 1, "B02"},
		{0, 10, "A11"},
		{26, 20, "a21"},
		{25, 0, "Z01"},
		{51, 0, "z01"},
		{2, 99, "C100"},
	}
	for _, tt := range tests {
		if got := WellName(tt.row, tt.col); got != tt.want {
			t.Errorf("WellName(%d,%d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
		row, col, err := ParseWellName(tt.want)
		if err != nil || row != tt.row || col != tt.col {
			t.Errorf("ParseWellName(%q) = %d,%d,%v", tt.want, row, col, err)
		}
	}
	for _, bad := range []string{"", "A", "101", "A0", "#3", "Ax"} {
		if _, _, err := ParseWellName(bad); err == nil {
			t.Errorf("ParseWellName(%q) should fail", bad)
		}
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	good := *plate96(t)
	mutations := map[string]func(p *Plate){
		"no id":           func(p *Plate) { p.ModelID = "" },
		"zero columns":    func(p *Plate) { p.NumWellsX = 0 },
		"negative length": func(p *Plate) { p.LengthMM = -1 },
		"zero well size":  func(p *Plate) { p.WellSizeYMM = 0 },
		"negative pitch":  func(p *Plate) { p.WellDistanceXMM = -9 },
		"negative offset": func(p *Plate) { p.OffsetA1YMM = -0.1 },
		"negative radius": func(p *Plate) { p.WellEdgeRadiusMM = -2 },
	}
	for name, mut := range mutations {
		p := good
		mut(&p)
		if _, err := NewPlate(p); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("%s: expected ErrInvalidGeometry, got %v", name, err)
		}
	}
	defer func() {
		if recover() == nil {
			t.Error("MustPlate should panic on invalid geometry")
		}
	}()
	MustPlate(Plate{ModelID: "broken"})
}

func TestWellPosition96(t *testing.T) {
	p := plate96(t)
	pos := WellPosition(p, 0, 0)
	if !near(pos.X, 11.18) || !near(pos.Y, 71.04) {
		t.Fatalf("A01 display position = %v, want (11.18, 71.04)", pos)
	}
	// the display box of a well mirrors its backend box
	for _, cr := range [][2]int{{0, 0}, {5, 3}, {11, 7}} {
		disp := WellBox(p, cr[0], cr[1])
		back := geom.BoxBackendToDisplay(WellBackendBox(p, cr[0], cr[1]), *p.Extent())
		if !near(disp.MinX, back.MinX) || !near(disp.MinY, back.MinY) ||
			!near(disp.MaxX, back.MaxX) || !near(disp.MaxY, back.MaxY) {
			t.Errorf("well %v: display %+v vs mapped backend %+v", cr, disp, back)
		}
	}
}

func TestSiteFormulasAgreeOnCentres(t *testing.T) {
	p := plate96(t)
	g, err := NewGrid(3, 2, 1.2, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	fov := r2.Vec{X: 0.8, Y: 0.6}
	for _, s := range g.Mask {
		render := SiteRenderBox(p, g, 4, 2, s, fov)
		backend := SiteBackendBox(p, g, 4, 2, s, fov)
		mapped := geom.BoxDisplayToBackend(render, *p.Extent())
		if !near(mapped.MinX, backend.MinX) || !near(mapped.MinY, backend.MinY) ||
			!near(mapped.MaxX, backend.MaxX) || !near(mapped.MaxY, backend.MaxY) {
			t.Errorf("site %+v: render %+v maps to %+v, backend %+v", s, render, mapped, backend)
		}
	}
	// the raw formulas stay numerically distinct
	w := WellPosition(p, 0, 0)
	r := SitePositionRender(w.X, w.Y, p.WellSizeXMM, p.WellSizeYMM, 0, 0, 3, 2, 1.2, 0.9, 0.8, 0.6)
	b := SitePositionBackend(w.X, w.Y, p.WellSizeXMM, p.WellSizeYMM, 0, 0, 3, 2, 1.2, 0.9)
	if near(r.X, b.X) && near(r.Y, b.Y) {
		t.Error("render and backend site formulas should not coincide")
	}
}

func TestGridValidate(t *testing.T) {
	g, err := NewGrid(3, 3, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Mask) != 9 || g.SelectedCount() != 9 {
		t.Fatalf("unexpected mask: %d entries, %d selected", len(g.Mask), g.SelectedCount())
	}
	short := g
	short.Mask = g.Mask[:8]
	if err := short.Validate(); err == nil {
		t.Error("short mask should fail validation")
	}
	out := g
	out.Mask = append([]Site(nil), g.Mask...)
	out.Mask[0].Col = 3
	if err := out.Validate(); err == nil {
		t.Error("out-of-range site should fail validation")
	}
	if _, err := NewGrid(0, 2, 1, 1); err == nil {
		t.Error("empty grid should fail")
	}
}

func TestDocumentSetPlate(t *testing.T) {
	lib := Builtin()
	g, _ := NewGrid(1, 1, 0, 0)
	d, err := NewDocument(lib["sbs-96"], g)
	if err != nil {
		t.Fatal(err)
	}
	d.Wells[13].Selected = true
	same := *lib["sbs-96"]
	d.SetPlate(&same)
	if got := d.SelectedWells(); len(got) != 1 || got[0] != "B02" {
		t.Fatalf("selection lost on same-model reload: %v", got)
	}
	d.SetPlate(lib["sbs-384"])
	if len(d.Wells) != 384 || len(d.SelectedWells()) != 0 {
		t.Fatalf("model change should recreate wells, got %d wells, %d selected", len(d.Wells), len(d.SelectedWells()))
	}
	d.Wells = append(d.Wells, HeaderWells(d.Plate)...)
	if err := d.Validate(); err != nil {
		t.Fatalf("headers should not fail validation: %v", err)
	}
	if _, ok := d.WellIndex()["A00"]; ok {
		t.Error("headers must not be indexed")
	}
}

func TestParseForbiddenAreasSkipsMalformed(t *testing.T) {
	data := []byte(`[
  {"name": "clip", "min_x_mm": 0, "max_x_mm": 10, "min_y_mm": 0, "max_y_mm": 5},
  {"name": "broken", "min_x_mm": 0, "max_x_mm": 10},
  {"name": "edge", "min_x_mm": 120, "max_x_mm": 127.76, "min_y_mm": 80, "max_y_mm": 85.48}
]`)
	areas, err := ParseForbiddenAreas(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(areas) != 2 || areas[0].Name != "clip" || areas[1].Name != "edge" {
		t.Fatalf("unexpected areas: %+v", areas)
	}
	if _, err := ParseForbiddenAreas([]byte(`{"not": "a list"}`)); err == nil {
		t.Error("expected error for non-array document")
	}
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plates.yaml")
	content := `
plates:
  - model_id: custom-48
    name: 48 well
    num_wells_x: 8
    num_wells_y: 6
    length_mm: 127.76
    width_mm: 85.48
    well_size_x_mm: 10.5
    well_size_y_mm: 10.5
    well_distance_x_mm: 13
    well_distance_y_mm: 13
    offset_a1_x_mm: 13.13
    offset_a1_y_mm: 6.99
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	if _, ok := lib["custom-48"]; !ok {
		t.Fatal("custom plate missing")
	}
	if _, ok := lib["sbs-96"]; !ok {
		t.Fatal("builtin plates should remain")
	}
	ids := lib.IDs()
	if ids[0] != "sbs-6" || ids[len(ids)-1] != "sbs-384" {
		t.Errorf("unexpected order: %v", ids)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("plates:\n  - model_id: x\n    num_wells_x: 0\n"), 0o644)
	if _, err := LoadLibrary(bad); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestWellLists(t *testing.T) {
	dir := t.TempDir()
	withHeader := filepath.Join(dir, "wells.csv")
	os.WriteFile(withHeader, []byte("sample,Well\nctrl,A01\nx,B2\ny,??\n"), 0o644)
	names, err := LoadWellList(withHeader)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "A01" || names[1] != "B2" {
		t.Errorf("unexpected names: %v", names)
	}
	bare := filepath.Join(dir, "bare.csv")
	os.WriteFile(bare, []byte("C03\nD04\n"), 0o644)
	names, err = LoadWellList(bare)
	if err != nil || len(names) != 2 {
		t.Errorf("headerless csv: %v %v", names, err)
	}
	if got := ParseWellList("A01, B02;C3\n zz9x"); len(got) != 3 {
		t.Errorf("ParseWellList = %v", got)
	}
}

func TestAreaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "areas.geojson")
	data := `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "clip"},
   "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,5],[0,5],[0,0]]]}}
]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	areas, err := AreaFile(path).FetchForbiddenAreas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(areas) != 1 || areas[0].Name != "clip" || areas[0].MaxXMM != 10 || areas[0].MaxYMM != 5 {
		t.Fatalf("unexpected areas: %+v", areas)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := AreaFile(path).FetchForbiddenAreas(ctx); err == nil {
		t.Error("cancelled fetch should fail")
	}
}

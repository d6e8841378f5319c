package scene

import (
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
	"platenav/internal/plate"
)

const (
	outlineInsetMM   = 1.5
	outlineChamferMM = 5.0
	labelScale       = 0.4
	headerLabelMM    = 2.0
)

// Scene holds the typed handles for everything a surface draws. It is owned
// by one navigator and rebuilt in place.
type Scene struct {
	ModelID string
	Bounds  geom.BBox // display-frame plate rectangle

	Outline *Outline
	Labels  *Labels

	WellsUnselected *Batch
	WellsSelected   *Batch
	SitesSelected   *Batch
	SitesUnselected *Batch
	Forbidden       *Batch

	// Overlay is the live selection rectangle in display units, nil when no
	// gesture is active. OverlayDeselect picks the colour.
	Overlay         *geom.BBox
	OverlayDeselect bool

	// Revision increments on every rebuild; surfaces may cache on it.
	Revision uint64

	areas []plate.ForbiddenArea
}

// Batches returns the instanced layers in draw order.
func (s *Scene) Batches() []*Batch {
	out := make([]*Batch, 0, 5)
	for _, b := range []*Batch{s.WellsUnselected, s.WellsSelected, s.SitesUnselected, s.SitesSelected, s.Forbidden} {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// Areas returns the forbidden areas currently placed in the scene.
func (s *Scene) Areas() []plate.ForbiddenArea { return s.areas }

type static struct {
	bounds  geom.BBox
	outline *Outline
	labels  *Labels
}

// Builder generates scene batches from a document. The static layers of a
// plate model depend only on its geometry and are cached by model id.
type Builder struct {
	fov    r2.Vec
	styles Styles
	cache  *lru.Cache[string, *static]
}

// NewBuilder returns a builder for an objective with the given field of view
// (mm). cacheSize bounds the number of plate models whose static layers are
// kept.
func NewBuilder(fov r2.Vec, cacheSize int, styles Styles) (*Builder, error) {
	if fov.X <= 0 || fov.Y <= 0 {
		return nil, fmt.Errorf("scene: field of view must be positive, got %vx%v", fov.X, fov.Y)
	}
	if cacheSize <= 0 {
		cacheSize = 8
	}
	c, err := lru.New[string, *static](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Builder{fov: fov, styles: styles, cache: c}, nil
}

// FOV returns the objective field of view used for site footprints.
func (b *Builder) FOV() r2.Vec { return b.fov }

// SetFOV changes the objective field of view. Callers follow up with Refresh.
func (b *Builder) SetFOV(fov r2.Vec) {
	if fov.X > 0 && fov.Y > 0 {
		b.fov = fov
	}
}

// Load brings s in line with doc. Static layers are swapped only when the
// plate model changes; selection batches are always rebuilt. Forbidden areas
// are kept and re-placed for the new plate height.
func (b *Builder) Load(s *Scene, doc *plate.Document) error {
	if doc == nil || doc.Plate == nil {
		return plate.ErrNoPlate
	}
	p := doc.Plate
	if s.ModelID != p.ModelID || s.Outline == nil {
		st, ok := b.cache.Get(p.ModelID)
		if !ok {
			st = b.buildStatic(p)
			b.cache.Add(p.ModelID, st)
		}
		s.ModelID = p.ModelID
		s.Bounds = st.bounds
		s.Outline = st.outline
		s.Labels = st.labels
		b.placeForbidden(s, p)
	}
	return b.Refresh(s, doc)
}

// Refresh rebuilds the well and site batches from the current flags. Sites
// are emitted only inside selected wells.
func (b *Builder) Refresh(s *Scene, doc *plate.Document) error {
	if doc == nil || doc.Plate == nil {
		return plate.ErrNoPlate
	}
	p := doc.Plate
	g := doc.Grid
	nSel := 0
	for _, w := range doc.Wells {
		if !w.IsHeader() && w.Selected {
			nSel++
		}
	}
	nSites := g.SelectedCount()

	s.WellsUnselected = newBatch(KindWellsUnselected, b.wellStyle(b.styles.WellsUnselected, p), max(p.WellCount()-nSel, 0))
	s.WellsSelected = newBatch(KindWellsSelected, b.wellStyle(b.styles.WellsSelected, p), nSel)
	s.SitesSelected = newBatch(KindSitesSelected, b.styles.SitesSelected, nSel*nSites)
	s.SitesUnselected = newBatch(KindSitesUnselected, b.styles.SitesUnselected, nSel*(len(g.Mask)-nSites))

	for _, w := range doc.Wells {
		if w.IsHeader() {
			continue
		}
		box := plate.WellBox(p, w.Col, w.Row)
		if !w.Selected {
			s.WellsUnselected.Add(box)
			continue
		}
		s.WellsSelected.Add(box)
		for _, site := range g.Mask {
			sb := plate.SiteRenderBox(p, g, w.Col, w.Row, site, b.fov)
			if site.Selected {
				s.SitesSelected.Add(sb)
			} else {
				s.SitesUnselected.Add(sb)
			}
		}
	}
	s.Revision++
	return nil
}

// SetForbiddenAreas replaces the forbidden batch. Each area's corners are
// mapped to the display frame independently and re-sorted.
func (b *Builder) SetForbiddenAreas(s *Scene, p *plate.Plate, areas []plate.ForbiddenArea) {
	s.areas = append(s.areas[:0:0], areas...)
	b.placeForbidden(s, p)
	s.Revision++
}

func (b *Builder) placeForbidden(s *Scene, p *plate.Plate) {
	s.Forbidden = newBatch(KindForbidden, b.styles.Forbidden, len(s.areas))
	if p == nil {
		return
	}
	e := *p.Extent()
	for _, a := range s.areas {
		box := geom.BoxBackendToDisplay(geom.FromCorners(
			r2.Vec{X: a.MinXMM, Y: a.MinYMM},
			r2.Vec{X: a.MaxXMM, Y: a.MaxYMM},
		), e)
		s.Forbidden.Add(box)
	}
}

func (b *Builder) wellStyle(st Style, p *plate.Plate) Style {
	st.RadiusMM = p.WellEdgeRadiusMM
	return st
}

func (b *Builder) buildStatic(p *plate.Plate) *static {
	bounds := p.Bounds()
	return &static{
		bounds:  bounds,
		outline: &Outline{Style: b.styles.Outline, Paths: outlinePaths(bounds)},
		labels:  &Labels{Style: b.styles.Labels, Items: wellLabels(p)},
	}
}

// outlinePaths returns the plate border and an inset boundary with the A1
// corner (display top-left) chamfered, the orientation mark of SBS plates.
func outlinePaths(bounds geom.BBox) []Path {
	border := Path{Closed: true, Points: []r2.Vec{
		{X: bounds.MinX, Y: bounds.MinY},
		{X: bounds.MaxX, Y: bounds.MinY},
		{X: bounds.MaxX, Y: bounds.MaxY},
		{X: bounds.MinX, Y: bounds.MaxY},
	}}
	in := bounds.Inset(outlineInsetMM)
	ch := outlineChamferMM
	if lim := min(in.Width(), in.Height()) / 2; ch > lim {
		ch = lim
	}
	if in.Empty() {
		return []Path{border}
	}
	inner := Path{Closed: true, Points: []r2.Vec{
		{X: in.MinX, Y: in.MinY},
		{X: in.MaxX, Y: in.MinY},
		{X: in.MaxX, Y: in.MaxY},
		{X: in.MinX + ch, Y: in.MaxY},
		{X: in.MinX, Y: in.MaxY - ch},
	}}
	return []Path{border, inner}
}

// wellLabels names every well at its centre and adds the column numbers
// above row A and the row letters left of column 1.
func wellLabels(p *plate.Plate) []Label {
	size := min(p.WellSizeXMM, p.WellSizeYMM) * labelScale
	out := make([]Label, 0, p.WellCount()+p.NumWellsX+p.NumWellsY)
	for row := 0; row < p.NumWellsY; row++ {
		for col := 0; col < p.NumWellsX; col++ {
			out = append(out, Label{
				Text:   plate.WellName(row, col),
				Center: plate.WellBox(p, col, row).Center(),
				SizeMM: size,
			})
		}
	}
	hs := min(headerLabelMM, size*2)
	for _, h := range plate.HeaderWells(p) {
		l := Label{SizeMM: hs, Header: true}
		if h.Row < 0 {
			top := plate.WellBox(p, h.Col, 0)
			l.Text = strconv.Itoa(h.Col + 1)
			l.Center = r2.Vec{X: top.Center().X, Y: (top.MaxY + p.WidthMM) / 2}
		} else {
			l.Text = plate.RowLetter(h.Row)
			l.Center = r2.Vec{X: p.OffsetA1XMM / 2, Y: plate.WellBox(p, 0, h.Row).Center().Y}
		}
		out = append(out, l)
	}
	return out
}

// SetOverlay shows the live selection rectangle.
func (s *Scene) SetOverlay(box geom.BBox, deselect bool) {
	s.Overlay = &box
	s.OverlayDeselect = deselect
}

// ClearOverlay hides the selection rectangle.
func (s *Scene) ClearOverlay() {
	s.Overlay = nil
	s.OverlayDeselect = false
}

package plate

import (
	"errors"
	"fmt"
)

// ErrNoPlate is returned (and usually just logged) when an operation runs
// before any plate has been loaded.
var ErrNoPlate = errors.New("no plate loaded")

// Document is the mutable configuration shared between the navigator and
// its store: the plate, the well selection and the site grid. It is always
// passed by reference; nothing in this module keeps a package-level copy.
type Document struct {
	Plate *Plate `yaml:"plate" json:"plate"`
	Wells []Well `yaml:"wells" json:"wells"`
	Grid  Grid   `yaml:"grid" json:"grid"`
}

// NewDocument returns a document for p with no wells selected and grid g.
func NewDocument(p *Plate, g Grid) (*Document, error) {
	if p == nil {
		return nil, ErrNoPlate
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Document{Plate: p, Wells: NewWells(p), Grid: g}, nil
}

// Validate checks the plate, the grid and that every physical well lies on
// the plate's well grid.
func (d *Document) Validate() error {
	if d.Plate == nil {
		return ErrNoPlate
	}
	if err := d.Plate.Validate(); err != nil {
		return err
	}
	if err := d.Grid.Validate(); err != nil {
		return err
	}
	for _, w := range d.Wells {
		if w.IsHeader() {
			continue
		}
		if w.Col >= d.Plate.NumWellsX || w.Row >= d.Plate.NumWellsY {
			return fmt.Errorf("%w: well %s outside %dx%d plate", ErrInvalidGeometry, w.Name(), d.Plate.NumWellsX, d.Plate.NumWellsY)
		}
	}
	return nil
}

// SetPlate swaps the plate. When the model changes the well list is
// recreated; otherwise the current selection is kept.
func (d *Document) SetPlate(p *Plate) {
	if d.Plate != nil && p != nil && d.Plate.ModelID == p.ModelID {
		d.Plate = p
		return
	}
	d.Plate = p
	if p == nil {
		d.Wells = nil
		return
	}
	d.Wells = NewWells(p)
}

// SelectedWells returns the names of selected physical wells in list order.
func (d *Document) SelectedWells() []string {
	var out []string
	for _, w := range d.Wells {
		if !w.IsHeader() && w.Selected {
			out = append(out, w.Name())
		}
	}
	return out
}

// WellIndex maps well names to their index in Wells. Headers are skipped.
func (d *Document) WellIndex() map[string]int {
	idx := make(map[string]int, len(d.Wells))
	for i, w := range d.Wells {
		if !w.IsHeader() {
			idx[w.Name()] = i
		}
	}
	return idx
}

// Package plate describes multi-well plates, the wells and imaging sites on
// them, and the layout math that places both in millimetres.
package plate

import (
	"errors"
	"fmt"

	"platenav/internal/geom"
)

// ErrInvalidGeometry is returned when a plate or grid definition cannot
// describe a physical object.
var ErrInvalidGeometry = errors.New("invalid plate geometry")

// Plate is the physical descriptor of a plate model. Values are immutable
// once loaded; ModelID decides whether derived geometry must be rebuilt.
type Plate struct {
	ModelID string `yaml:"model_id" json:"model_id"`
	Name    string `yaml:"name" json:"name"`

	NumWellsX int `yaml:"num_wells_x" json:"num_wells_x"`
	NumWellsY int `yaml:"num_wells_y" json:"num_wells_y"`

	LengthMM float64 `yaml:"length_mm" json:"length_mm"`
	WidthMM  float64 `yaml:"width_mm" json:"width_mm"`

	WellSizeXMM float64 `yaml:"well_size_x_mm" json:"well_size_x_mm"`
	WellSizeYMM float64 `yaml:"well_size_y_mm" json:"well_size_y_mm"`

	WellDistanceXMM float64 `yaml:"well_distance_x_mm" json:"well_distance_x_mm"`
	WellDistanceYMM float64 `yaml:"well_distance_y_mm" json:"well_distance_y_mm"`

	OffsetA1XMM float64 `yaml:"offset_a1_x_mm" json:"offset_a1_x_mm"`
	OffsetA1YMM float64 `yaml:"offset_a1_y_mm" json:"offset_a1_y_mm"`

	WellEdgeRadiusMM float64 `yaml:"well_edge_radius_mm" json:"well_edge_radius_mm"`
}

// NewPlate validates p and returns a copy owned by the caller.
func NewPlate(p Plate) (*Plate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// MustPlate is NewPlate for literals; it panics on invalid geometry.
func MustPlate(p Plate) *Plate {
	out, err := NewPlate(p)
	if err != nil {
		panic(err)
	}
	return out
}

// Validate rejects definitions that cannot describe a real plate.
func (p Plate) Validate() error {
	switch {
	case p.ModelID == "":
		return fmt.Errorf("%w: empty model id", ErrInvalidGeometry)
	case p.NumWellsX <= 0 || p.NumWellsY <= 0:
		return fmt.Errorf("%w: %s: well grid %dx%d", ErrInvalidGeometry, p.ModelID, p.NumWellsX, p.NumWellsY)
	case p.LengthMM <= 0 || p.WidthMM <= 0:
		return fmt.Errorf("%w: %s: plate size %gx%g", ErrInvalidGeometry, p.ModelID, p.LengthMM, p.WidthMM)
	case p.WellSizeXMM <= 0 || p.WellSizeYMM <= 0:
		return fmt.Errorf("%w: %s: well size %gx%g", ErrInvalidGeometry, p.ModelID, p.WellSizeXMM, p.WellSizeYMM)
	case p.WellDistanceXMM < 0 || p.WellDistanceYMM < 0:
		return fmt.Errorf("%w: %s: negative well pitch", ErrInvalidGeometry, p.ModelID)
	case p.OffsetA1XMM < 0 || p.OffsetA1YMM < 0:
		return fmt.Errorf("%w: %s: negative A1 offset", ErrInvalidGeometry, p.ModelID)
	case p.WellEdgeRadiusMM < 0:
		return fmt.Errorf("%w: %s: negative well edge radius", ErrInvalidGeometry, p.ModelID)
	}
	return nil
}

// Extent returns the plate footprint used by the coordinate transforms.
func (p *Plate) Extent() *geom.Extent {
	if p == nil {
		return nil
	}
	return &geom.Extent{LengthMM: p.LengthMM, WidthMM: p.WidthMM}
}

// Bounds is the plate rectangle, identical in the backend and display frames.
func (p *Plate) Bounds() geom.BBox {
	return geom.BBox{MaxX: p.LengthMM, MaxY: p.WidthMM}
}

// WellCount is the number of physical wells.
func (p *Plate) WellCount() int { return p.NumWellsX * p.NumWellsY }

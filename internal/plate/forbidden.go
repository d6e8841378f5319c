package plate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"platenav/internal/geom"
)

// ForbiddenArea is a backend-frame rectangle the objective must not enter.
// It is advisory on the client; the microscope validates moves itself.
type ForbiddenArea struct {
	Name   string  `yaml:"name" json:"name"`
	MinXMM float64 `yaml:"min_x_mm" json:"min_x_mm"`
	MaxXMM float64 `yaml:"max_x_mm" json:"max_x_mm"`
	MinYMM float64 `yaml:"min_y_mm" json:"min_y_mm"`
	MaxYMM float64 `yaml:"max_y_mm" json:"max_y_mm"`
}

// Box returns the area as a backend-frame box.
func (a ForbiddenArea) Box() geom.BBox {
	return geom.BBox{MinX: a.MinXMM, MinY: a.MinYMM, MaxX: a.MaxXMM, MaxY: a.MaxYMM}
}

type rawArea struct {
	Name   string   `json:"name"`
	MinXMM *float64 `json:"min_x_mm"`
	MaxXMM *float64 `json:"max_x_mm"`
	MinYMM *float64 `json:"min_y_mm"`
	MaxYMM *float64 `json:"max_y_mm"`
}

func finite(v *float64) bool { return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) }

// ParseForbiddenAreas decodes a JSON array of areas. An entry missing a
// numeric bound is skipped with a logged warning; only a document that is
// not a JSON array is an error.
func ParseForbiddenAreas(data []byte) ([]ForbiddenArea, error) {
	var raw []rawArea
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode forbidden areas: %w", err)
	}
	out := make([]ForbiddenArea, 0, len(raw))
	for i, r := range raw {
		if !finite(r.MinXMM) || !finite(r.MaxXMM) || !finite(r.MinYMM) || !finite(r.MaxYMM) {
			log.Printf("forbidden area %d (%q): missing numeric bounds, skipped", i, r.Name)
			continue
		}
		out = append(out, ForbiddenArea{
			Name:   r.Name,
			MinXMM: *r.MinXMM, MaxXMM: *r.MaxXMM,
			MinYMM: *r.MinYMM, MaxYMM: *r.MaxYMM,
		})
	}
	return out, nil
}

// AreasFromBoxes converts boxes read from a geometry file.
func AreasFromBoxes(boxes []geom.NamedBox) []ForbiddenArea {
	out := make([]ForbiddenArea, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, ForbiddenArea{
			Name:   b.Name,
			MinXMM: b.Box.MinX, MaxXMM: b.Box.MaxX,
			MinYMM: b.Box.MinY, MaxYMM: b.Box.MaxY,
		})
	}
	return out
}

// AreaFile serves forbidden areas from a GeoJSON file when no microscope
// server is configured. The file is re-read on every fetch.
type AreaFile string

func (f AreaFile) FetchForbiddenAreas(ctx context.Context) ([]ForbiddenArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	boxes, err := geom.LoadAreas(string(f))
	if err != nil {
		return nil, err
	}
	return AreasFromBoxes(boxes), nil
}

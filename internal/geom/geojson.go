package geom

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
)

// NamedBox is a rectangle read from a geometry file, in backend millimetres.
type NamedBox struct {
	Name string
	Box  BBox
}

// LoadAreas reads a GeoJSON file of polygons and returns the bounding box
// of each feature. Feature names come from properties.name.
func LoadAreas(path string) ([]NamedBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseAreas(data)
}

// ParseAreas extracts one box per Polygon/MultiPolygon feature. Features
// without usable coordinates are skipped with a logged warning.
func ParseAreas(data []byte) ([]NamedBox, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var out []NamedBox
	parsePoint := func(v any) (pt r2.Vec, ok bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			x, xok := a[0].(float64)
			y, yok := a[1].(float64)
			if xok && yok {
				return r2.Vec{X: x, Y: y}, true
			}
		}
		return r2.Vec{}, false
	}
	// walkRings folds every vertex of a (multi)polygon into one box.
	var walkRings func(v any, bb *BBox, n *int)
	walkRings = func(v any, bb *BBox, n *int) {
		if pt, ok := parsePoint(v); ok {
			if *n == 0 {
				*bb = BBox{MinX: pt.X, MinY: pt.Y, MaxX: pt.X, MaxY: pt.Y}
			} else {
				bb.Expand(pt)
			}
			*n++
			return
		}
		arr, ok := v.([]any)
		if !ok {
			return
		}
		for _, el := range arr {
			walkRings(el, bb, n)
		}
	}
	addFeature := func(name string, g map[string]any) {
		gt, _ := g["type"].(string)
		if gt != "Polygon" && gt != "MultiPolygon" {
			log.Printf("geojson: skipping area %q: unsupported geometry %q", name, gt)
			return
		}
		var bb BBox
		n := 0
		walkRings(g["coordinates"], &bb, &n)
		if n < 3 || bb.Empty() {
			log.Printf("geojson: skipping area %q: degenerate coordinates", name)
			return
		}
		out = append(out, NamedBox{Name: name, Box: bb})
	}
	featureName := func(fm map[string]any) string {
		if pm, ok := fm["properties"].(map[string]any); ok {
			if s, ok := pm["name"].(string); ok {
				return s
			}
		}
		return ""
	}
	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		if g, ok := raw["geometry"].(map[string]any); ok {
			addFeature(featureName(raw), g)
		}
	case "FeatureCollection":
		if fs, ok := raw["features"].([]any); ok {
			for _, f := range fs {
				if fm, ok := f.(map[string]any); ok {
					if g, ok := fm["geometry"].(map[string]any); ok {
						addFeature(featureName(fm), g)
					}
				}
			}
		}
	default:
		if len(raw) > 0 {
			addFeature("", raw)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("geojson: no polygon areas found")
	}
	return out, nil
}

package plate

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Library is a set of plate models keyed by ModelID.
type Library map[string]*Plate

// Builtin returns the standard SBS-footprint plates.
func Builtin() Library {
	sbs := func(id, name string, nx, ny int, pitch, size, offX, offY, radius float64) *Plate {
		return MustPlate(Plate{
			ModelID: id, Name: name,
			NumWellsX: nx, NumWellsY: ny,
			LengthMM: 127.76, WidthMM: 85.48,
			WellSizeXMM: size, WellSizeYMM: size,
			WellDistanceXMM: pitch, WellDistanceYMM: pitch,
			OffsetA1XMM: offX, OffsetA1YMM: offY,
			WellEdgeRadiusMM: radius,
		})
	}
	lib := Library{}
	for _, p := range []*Plate{
		sbs("sbs-6", "6 well", 3, 2, 39.12, 34.8, 7.36, 5.78, 17.4),
		sbs("sbs-24", "24 well", 6, 4, 19.3, 15.5, 9.3, 6.04, 7.75),
		sbs("sbs-96", "96 well", 12, 8, 9, 6.4, 11.18, 8.04, 0.5),
		sbs("sbs-384", "384 well", 24, 16, 4.5, 3.6, 10.33, 7.19, 0.2),
	} {
		lib[p.ModelID] = p
	}
	return lib
}

// LoadLibrary reads a YAML list of plate definitions and merges it over the
// builtin models. Every entry is validated; one bad entry fails the load.
func LoadLibrary(path string) (Library, error) {
	lib := Builtin()
	if path == "" {
		return lib, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plate library: %w", err)
	}
	var doc struct {
		Plates []Plate `yaml:"plates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plate library %s: %w", path, err)
	}
	for _, p := range doc.Plates {
		np, err := NewPlate(p)
		if err != nil {
			return nil, fmt.Errorf("plate library %s: %w", path, err)
		}
		lib[np.ModelID] = np
	}
	return lib, nil
}

// IDs returns the model ids sorted by well count, then id.
func (l Library) IDs() []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := l[ids[i]], l[ids[j]]
		if a.WellCount() != b.WellCount() {
			return a.WellCount() < b.WellCount()
		}
		return a.ModelID < b.ModelID
	})
	return ids
}

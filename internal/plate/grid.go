package plate

import "fmt"

// Site is one entry of the site mask. The mask is shared by every well:
// a site's selection state is global to its (Col, Row) index.
type Site struct {
	Col      int  `yaml:"col" json:"col"`
	Row      int  `yaml:"row" json:"row"`
	Selected bool `yaml:"selected" json:"selected"`
}

// Grid is the imaging-site pattern applied inside every selected well.
type Grid struct {
	NumX     int     `yaml:"num_x" json:"num_x"`
	NumY     int     `yaml:"num_y" json:"num_y"`
	DeltaXMM float64 `yaml:"delta_x_mm" json:"delta_x_mm"`
	DeltaYMM float64 `yaml:"delta_y_mm" json:"delta_y_mm"`
	Mask     []Site  `yaml:"mask" json:"mask"`
}

// NewGrid builds a numX x numY grid with every site selected.
func NewGrid(numX, numY int, dx, dy float64) (Grid, error) {
	g := Grid{NumX: numX, NumY: numY, DeltaXMM: dx, DeltaYMM: dy}
	if numX <= 0 || numY <= 0 {
		return Grid{}, fmt.Errorf("%w: site grid %dx%d", ErrInvalidGeometry, numX, numY)
	}
	g.Mask = make([]Site, 0, numX*numY)
	for row := 0; row < numY; row++ {
		for col := 0; col < numX; col++ {
			g.Mask = append(g.Mask, Site{Col: col, Row: row, Selected: true})
		}
	}
	return g, g.Validate()
}

// Validate enforces len(Mask) == NumX*NumY with in-range, unique indices.
func (g Grid) Validate() error {
	if g.NumX <= 0 || g.NumY <= 0 {
		return fmt.Errorf("%w: site grid %dx%d", ErrInvalidGeometry, g.NumX, g.NumY)
	}
	if g.DeltaXMM < 0 || g.DeltaYMM < 0 {
		return fmt.Errorf("%w: negative site spacing", ErrInvalidGeometry)
	}
	if len(g.Mask) != g.NumX*g.NumY {
		return fmt.Errorf("%w: site mask has %d entries, want %d", ErrInvalidGeometry, len(g.Mask), g.NumX*g.NumY)
	}
	seen := make(map[[2]int]bool, len(g.Mask))
	for _, s := range g.Mask {
		if s.Col < 0 || s.Col >= g.NumX || s.Row < 0 || s.Row >= g.NumY {
			return fmt.Errorf("%w: site (%d,%d) outside %dx%d grid", ErrInvalidGeometry, s.Col, s.Row, g.NumX, g.NumY)
		}
		k := [2]int{s.Col, s.Row}
		if seen[k] {
			return fmt.Errorf("%w: duplicate site (%d,%d)", ErrInvalidGeometry, s.Col, s.Row)
		}
		seen[k] = true
	}
	return nil
}

// SelectedCount returns how many mask entries are selected.
func (g Grid) SelectedCount() int {
	n := 0
	for _, s := range g.Mask {
		if s.Selected {
			n++
		}
	}
	return n
}

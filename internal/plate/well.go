package plate

import (
	"fmt"
	"strconv"
	"strings"
)

// Well is one well position. Col or Row below zero marks a header entity:
// it only carries an axis label and takes no part in layout or selection.
type Well struct {
	Col      int  `yaml:"col" json:"col"`
	Row      int  `yaml:"row" json:"row"`
	Selected bool `yaml:"selected" json:"selected"`
}

// IsHeader reports whether w is a label-only header entity.
func (w Well) IsHeader() bool { return w.Col < 0 || w.Row < 0 }

// Name returns the well's display name, e.g. "B02".
func (w Well) Name() string { return WellName(w.Row, w.Col) }

// RowLetter names a row: 0..25 are A..Z, 26..51 are a..z. Rows past that
// fall back to "r<index>".
func RowLetter(row int) string {
	switch {
	case row < 0:
		return ""
	case row < 26:
		return string(rune('A' + row))
	case row < 52:
		return string(rune('a' + row - 26))
	}
	return "r" + strconv.Itoa(row)
}

// WellName formats a well as row letter plus the 1-based column padded to
// at least two digits: (0,0) is "A01", (26,20) is "a21".
func WellName(row, col int) string {
	return fmt.Sprintf("%s%02d", RowLetter(row), col+1)
}

// ParseWellName is the inverse of WellName for rows below 52.
func ParseWellName(name string) (row, col int, err error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("well name %q: too short", name)
	}
	c := s[0]
	switch {
	case c >= 'A' && c <= 'Z':
		row = int(c - 'A')
	case c >= 'a' && c <= 'z':
		row = int(c-'a') + 26
	default:
		return 0, 0, fmt.Errorf("well name %q: bad row letter", name)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("well name %q: bad column", name)
	}
	return row, n - 1, nil
}

// NewWells returns every physical well of p, unselected, row-major.
func NewWells(p *Plate) []Well {
	wells := make([]Well, 0, p.WellCount())
	for row := 0; row < p.NumWellsY; row++ {
		for col := 0; col < p.NumWellsX; col++ {
			wells = append(wells, Well{Col: col, Row: row})
		}
	}
	return wells
}

// HeaderWells returns the label-only header entities for p: one per column
// (Row -1) and one per row (Col -1).
func HeaderWells(p *Plate) []Well {
	out := make([]Well, 0, p.NumWellsX+p.NumWellsY)
	for col := 0; col < p.NumWellsX; col++ {
		out = append(out, Well{Col: col, Row: -1})
	}
	for row := 0; row < p.NumWellsY; row++ {
		out = append(out, Well{Col: -1, Row: row})
	}
	return out
}

package plate

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"
)

// LoadWellList reads a CSV well list and returns the well names in file
// order. The name column is detected from the header (well|name|position,
// case-insensitive); without a recognised header the first column is used
// and the first row is data.
func LoadWellList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	idx := -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "well", "name", "position":
			if idx == -1 {
				idx = i
			}
		}
	}
	rows := recs[1:]
	if idx == -1 {
		idx = 0
		rows = recs
	}
	var names []string
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[idx])
		if _, _, err := ParseWellName(name); err != nil {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errors.New("csv: no valid well names parsed")
	}
	return names, nil
}

// ParseWellList splits pasted text (commas, semicolons, whitespace) into
// well names, dropping anything that does not parse.
func ParseWellList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	var out []string
	for _, f := range fields {
		if _, _, err := ParseWellName(f); err == nil {
			out = append(out, f)
		}
	}
	return out
}

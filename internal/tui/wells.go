package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"platenav/internal/plate"
)

func wellColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Well", Width: 6},
		{Title: "X mm", Width: 8},
		{Title: "Y mm", Width: 8},
		{Title: "Sites", Width: 6},
	}
}

// refreshWellsTable lists the selected wells with their physical centres.
func (m *Model) refreshWellsTable() {
	rows := wellRows(m.nav.Document())
	if len(rows) == 0 {
		m.showWells = false
		m.status = "no wells selected"
		return
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(wellColumns())
	m.tbl.SetRows(rows)
}

func wellRows(doc *plate.Document) []table.Row {
	if doc == nil || doc.Plate == nil {
		return nil
	}
	sites := doc.Grid.SelectedCount()
	var rows []table.Row
	for _, w := range doc.Wells {
		if w.IsHeader() || !w.Selected {
			continue
		}
		c := plate.WellBackendBox(doc.Plate, w.Col, w.Row).Center()
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", len(rows)+1),
			w.Name(),
			fmt.Sprintf("%.2f", c.X),
			fmt.Sprintf("%.2f", c.Y),
			fmt.Sprintf("%d", sites),
		})
	}
	return rows
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"platenav/internal/selection"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	header := titleStyle.Render(" platenav ─ plate navigator ")
	if doc := m.nav.Document(); doc != nil && doc.Plate != nil {
		header += dimStyle.Render(fmt.Sprintf("  %s  %d wells selected  %d/%d sites  target: %s",
			doc.Plate.ModelID, len(doc.SelectedWells()), doc.Grid.SelectedCount(), len(doc.Grid.Mask), m.nav.Target()))
	}
	header = lipgloss.NewStyle().Width(lay.contentW).MaxHeight(1).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(lay.sidebarW).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showWells:
		// Render the selected wells table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		wellsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, wellsBox)
	case m.pasteMode:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.ta.View())
	default:
		m.nav.Render(m.canvas)
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.canvas.View())
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	var status string
	if m.warning != "" {
		status = warnStyle.Render(" " + m.warning + " ")
	} else {
		status = dimStyle.Render(" " + m.status + " ")
	}
	coords := ""
	if m.hovering && m.hoverOnPlate {
		coords = dimStyle.Render(fmt.Sprintf("  x=%.2f y=%.2f mm  ", m.hoverPhys.X, m.hoverPhys.Y))
	}
	if st := m.nav.State(); st != selection.Idle {
		coords = dimStyle.Render(" "+st.String()+" ") + coords
	}
	spacerW := max(0, lay.contentW-lipgloss.Width(status)-lipgloss.Width(coords))
	line1 := lipgloss.JoinHorizontal(lipgloss.Bottom, status, lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords))
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinVertical(lipgloss.Left, line1, help))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"drag pan",
		"alt+drag select",
		"alt+right-drag deselect",
		"dbl-click move",
		"↑↓←→ pan",
		"+/- zoom",
		"f fit",
		"w wells/sites",
		"c clear",
		"Tab plates",
		"p paste",
		"a wells",
		"e png",
		"r areas",
		"h help",
		"q quit",
	}
	return dimStyle.MaxWidth(m.width).Render(" " + strings.Join(keys, "  "))
}

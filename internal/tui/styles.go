package tui

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"platenav/internal/scene"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	warnFg    = lipgloss.Color("#F97316")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)
)

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// palette colours each canvas layer after the scene style that feeds it.
func palette(st scene.Styles) [layerCount]lipgloss.Style {
	fg := func(c color.RGBA) lipgloss.Style { return lipgloss.NewStyle().Foreground(hexColor(c)) }
	var p [layerCount]lipgloss.Style
	p[layerNone] = lipgloss.NewStyle()
	p[layerOutline] = fg(st.Outline.Stroke)
	p[layerWells] = fg(st.WellsUnselected.Stroke)
	p[layerWellsSelected] = fg(st.WellsSelected.Fill)
	p[layerSites] = fg(st.SitesUnselected.Stroke)
	p[layerSitesSelected] = fg(st.SitesSelected.Fill)
	p[layerForbidden] = fg(st.Forbidden.Stroke)
	p[layerOverlay] = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8")).Bold(true)
	p[layerOverlayDeselect] = lipgloss.NewStyle().Foreground(warnFg).Bold(true)
	p[layerLabel] = fg(st.Labels.Fill).Bold(true)
	return p
}

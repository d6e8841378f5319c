package scene

import "image/color"

// Styles is the palette the builder stamps onto batches.
type Styles struct {
	WellsUnselected Style
	WellsSelected   Style
	SitesSelected   Style
	SitesUnselected Style
	Forbidden       Style
	Outline         Style
	Labels          Style
}

// DefaultStyles matches the terminal palette.
func DefaultStyles() Styles {
	return Styles{
		WellsUnselected: Style{Stroke: rgb(0x6B, 0x72, 0x80), Glyph: '·'},
		WellsSelected:   Style{Fill: rgb(0x7C, 0x3A, 0xED), Stroke: rgb(0xA7, 0x8B, 0xFA), Filled: true, Glyph: '▒'},
		SitesSelected:   Style{Fill: rgb(0x22, 0xC5, 0x5E), Filled: true, Glyph: '■'},
		SitesUnselected: Style{Stroke: rgb(0x9C, 0xA3, 0xAF), Glyph: '□'},
		Forbidden:       Style{Fill: color.RGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0x80}, Stroke: rgb(0xEF, 0x44, 0x44), Filled: true, Glyph: '╳'},
		Outline:         Style{Stroke: rgb(0xE6, 0xE6, 0xE6)},
		Labels:          Style{Fill: rgb(0xE6, 0xE6, 0xE6)},
	}
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xFF} }

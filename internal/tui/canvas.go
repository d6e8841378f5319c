package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"platenav/internal/geom"
	"platenav/internal/scene"
)

// canvas is the terminal render surface: braille dots are its pixels.
type canvas struct {
	w, h    int // in cells
	buf     *brailleBuf
	palette [layerCount]lipgloss.Style
	cam     geom.BBox
}

func newCanvas(w, h int, styles scene.Styles) *canvas {
	c := &canvas{}
	c.resize(w, h)
	c.palette = palette(styles)
	return c
}

func (c *canvas) resize(w, h int) {
	c.w, c.h = max(w, 1), max(h, 1)
	c.buf = newBrailleBuf(c.w, c.h)
}

// Size reports the surface in braille dots.
func (c *canvas) Size() (int, int) { return c.w * 2, c.h * 4 }

// Draw rasterises the scene through cam into the braille buffer.
func (c *canvas) Draw(s *scene.Scene, cam geom.BBox) {
	c.buf = newBrailleBuf(c.w, c.h)
	c.cam = cam
	if s == nil || cam.Width() <= 0 || cam.Height() <= 0 {
		return
	}
	wd, hd := float64(c.buf.microW()), float64(c.buf.microH())
	toDot := func(x, y float64) (int, int) {
		p := geom.WorldToScreen(vec(x, y), wd, hd, cam)
		return int(math.Floor(p.X)), int(math.Floor(p.Y))
	}

	if s.Outline != nil {
		for _, p := range s.Outline.Paths {
			n := len(p.Points)
			for i := 0; i+1 < n || (p.Closed && i < n); i++ {
				a, b := p.Points[i], p.Points[(i+1)%n]
				x0, y0 := toDot(a.X, a.Y)
				x1, y1 := toDot(b.X, b.Y)
				c.buf.drawLineMicro(x0, y0, x1, y1, layerOutline)
			}
		}
	}

	for _, b := range s.Batches() {
		ly := batchLayer(b.Kind)
		for i := range b.Transforms {
			box := b.Box(i)
			x0, y0 := toDot(box.MinX, box.MaxY)
			x1, y1 := toDot(box.MaxX, box.MinY)
			if x1 < 0 || y1 < 0 || x0 >= c.buf.microW() || y0 >= c.buf.microH() {
				continue
			}
			if b.Style.Filled {
				c.buf.fillRect(x0, y0, x1, y1, ly)
			} else {
				c.buf.strokeRect(x0, y0, x1, y1, ly)
			}
		}
	}

	if s.Labels != nil {
		dotsPerMM := hd / cam.Height()
		for _, l := range s.Labels.Items {
			// a well label needs a full cell row (4 dots) to be legible
			need := 4.0
			if l.Header {
				need = 2
			}
			if l.SizeMM*dotsPerMM < need {
				continue
			}
			x, y := toDot(l.Center.X, l.Center.Y)
			n := len([]rune(l.Text))
			c.buf.putText(x/2-n/2, y/4, l.Text)
		}
	}

	if s.Overlay != nil {
		ly := layerOverlay
		if s.OverlayDeselect {
			ly = layerOverlayDeselect
		}
		x0, y0 := toDot(s.Overlay.MinX, s.Overlay.MaxY)
		x1, y1 := toDot(s.Overlay.MaxX, s.Overlay.MinY)
		c.buf.strokeRect(x0, y0, x1, y1, ly)
	}
}

// View renders the buffer, grouping runs of equal colour into one style call.
func (c *canvas) View() string {
	lines := make([]string, c.buf.h)
	var run strings.Builder
	for y := 0; y < c.buf.h; y++ {
		var line strings.Builder
		cur := layerNone
		run.Reset()
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == layerNone {
				line.WriteString(run.String())
			} else {
				line.WriteString(c.palette[cur].Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.buf.w; x++ {
			r, ly := c.buf.cell(x, y)
			if ly != cur {
				flush()
				cur = ly
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

// plain renders the buffer without colour.
func (c *canvas) plain() []string {
	out := make([]string, c.buf.h)
	for y := 0; y < c.buf.h; y++ {
		row := make([]rune, c.buf.w)
		for x := 0; x < c.buf.w; x++ {
			row[x], _ = c.buf.cell(x, y)
		}
		out[y] = string(row)
	}
	return out
}

// dotAt maps a map cell to the centre of its dot block.
func dotAt(cx, cy int) (float64, float64) {
	return float64(cx*2) + 1, float64(cy*4) + 2
}

func batchLayer(k scene.Kind) layer {
	switch k {
	case scene.KindWellsSelected:
		return layerWellsSelected
	case scene.KindSitesSelected:
		return layerSitesSelected
	case scene.KindSitesUnselected:
		return layerSites
	case scene.KindForbidden:
		return layerForbidden
	}
	return layerWells
}

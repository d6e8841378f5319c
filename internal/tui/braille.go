package tui

// layer tags a braille cell with what painted it last, for colouring.
type layer uint8

const (
	layerNone layer = iota
	layerOutline
	layerWells
	layerWellsSelected
	layerSites
	layerSitesSelected
	layerForbidden
	layerOverlay
	layerOverlayDeselect
	layerLabel
	layerCount
)

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	l    [][]layer // per-cell top layer
	text [][]rune  // per-cell text override, 0 when unset
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.l = make([][]layer, h)
	b.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.l[i] = make([]layer, w)
		b.text[i] = make([]rune, w)
	}
	return b
}

// microW and microH are the surface size in braille dots (2x4 per cell).
func (b *brailleBuf) microW() int { return b.w * 2 }
func (b *brailleBuf) microH() int { return b.h * 4 }

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, ly layer) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	b.l[cy][cx] = ly
}

// fillRect sets every dot of the inclusive micro rectangle.
func (b *brailleBuf) fillRect(x0, y0, x1, y1 int, ly layer) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.microW()-1), min(y1, b.microH()-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			b.setPixel(x, y, ly)
		}
	}
}

// strokeRect outlines the inclusive micro rectangle.
func (b *brailleBuf) strokeRect(x0, y0, x1, y1 int, ly layer) {
	b.drawLineMicro(x0, y0, x1, y0, ly)
	b.drawLineMicro(x1, y0, x1, y1, ly)
	b.drawLineMicro(x1, y1, x0, y1, ly)
	b.drawLineMicro(x0, y1, x0, y0, ly)
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, ly layer) {
	// clip lines far outside the canvas to keep the walk short
	lim := 4 * (b.microW() + b.microH())
	if (x0 < -lim && x1 < -lim) || (y0 < -lim && y1 < -lim) || (x0 > lim && x1 > lim) || (y0 > lim && y1 > lim) {
		return
	}
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, ly)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// putText writes s into cells starting at (cx, cy). Text wins over dots.
func (b *brailleBuf) putText(cx, cy int, s string) {
	if cy < 0 || cy >= b.h {
		return
	}
	for i, r := range []rune(s) {
		x := cx + i
		if x < 0 || x >= b.w {
			continue
		}
		b.text[cy][x] = r
		b.l[cy][x] = layerLabel
	}
}

// cell returns the rune and layer of one cell.
func (b *brailleBuf) cell(x, y int) (rune, layer) {
	if r := b.text[y][x]; r != 0 {
		return r, layerLabel
	}
	mask := b.m[y][x]
	if mask == 0 {
		return ' ', layerNone
	}
	return rune(0x2800 + int(mask)), b.l[y][x]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

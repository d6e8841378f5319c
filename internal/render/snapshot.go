// Package render provides a PNG render surface using fogleman/gg.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"platenav/internal/geom"
	"platenav/internal/scene"
)

var (
	background   = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xFF}
	selectColor  = color.RGBA{R: 0x38, G: 0xBD, B: 0xF8, A: 0xFF}
	deselectFill = color.RGBA{R: 0xF9, G: 0x73, B: 0x16, A: 0x40}
)

// Snapshot draws scenes into an in-memory image. It satisfies the
// navigator's Surface interface.
type Snapshot struct {
	width  int
	height int
	dc     *gg.Context
}

// NewSnapshot creates a width x height surface.
func NewSnapshot(width, height int) *Snapshot {
	return &Snapshot{width: max(width, 1), height: max(height, 1)}
}

// Size returns the surface size in pixels.
func (s *Snapshot) Size() (int, int) { return s.width, s.height }

// Draw renders the scene as seen through cam (display units).
func (s *Snapshot) Draw(sc *scene.Scene, cam geom.BBox) {
	dc := gg.NewContext(s.width, s.height)
	s.dc = dc

	dc.SetColor(background)
	dc.Clear()

	if sc == nil || cam.Width() <= 0 || cam.Height() <= 0 {
		return
	}

	// view maps display units to pixels, Y flipped
	sx := float64(s.width) / cam.Width()
	sy := float64(s.height) / cam.Height()
	view := gg.Matrix{XX: sx, YY: -sy, X0: -cam.MinX * sx, Y0: cam.MaxY * sy}

	if sc.Outline != nil {
		dc.SetLineWidth(1.5)
		dc.SetColor(sc.Outline.Style.Stroke)
		for _, p := range sc.Outline.Paths {
			for i, pt := range p.Points {
				x, y := view.TransformPoint(pt.X, pt.Y)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			if p.Closed {
				dc.ClosePath()
			}
			dc.Stroke()
		}
	}

	for _, b := range sc.Batches() {
		drawBatch(dc, b, view, sx)
	}

	if sc.Labels != nil {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(sc.Labels.Style.Fill)
		for _, l := range sc.Labels.Items {
			// skip labels that would not fit the well at this zoom
			if !l.Header && l.SizeMM*sy < 9 {
				continue
			}
			x, y := view.TransformPoint(l.Center.X, l.Center.Y)
			dc.DrawStringAnchored(l.Text, x, y, 0.5, 0.5)
		}
	}

	if sc.Overlay != nil {
		x0, y0 := view.TransformPoint(sc.Overlay.MinX, sc.Overlay.MaxY)
		x1, y1 := view.TransformPoint(sc.Overlay.MaxX, sc.Overlay.MinY)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		if sc.OverlayDeselect {
			dc.SetColor(deselectFill)
		} else {
			dc.SetColor(color.RGBA{R: selectColor.R, G: selectColor.G, B: selectColor.B, A: 0x40})
		}
		dc.FillPreserve()
		dc.SetColor(selectColor)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func drawBatch(dc *gg.Context, b *scene.Batch, view gg.Matrix, scale float64) {
	st := b.Style
	r := st.RadiusMM * scale
	for _, m := range b.Transforms {
		// unit square -> display -> pixels
		x0, y0 := view.TransformPoint(m.TransformPoint(0, 1))
		x1, y1 := view.TransformPoint(m.TransformPoint(1, 0))
		w, h := x1-x0, y1-y0
		if r > 0 {
			dc.DrawRoundedRectangle(x0, y0, w, h, min(r, w/2, h/2))
		} else {
			dc.DrawRectangle(x0, y0, w, h)
		}
		if st.Filled {
			dc.SetColor(st.Fill)
			if st.Stroke.A > 0 {
				dc.FillPreserve()
				dc.SetColor(st.Stroke)
				dc.SetLineWidth(1)
				dc.Stroke()
			} else {
				dc.Fill()
			}
			continue
		}
		dc.SetColor(st.Stroke)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

// Image returns the last drawn frame, or nil before the first Draw.
func (s *Snapshot) Image() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// EncodePNG returns the last frame as PNG bytes.
func (s *Snapshot) EncodePNG() ([]byte, error) {
	img := s.Image()
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SavePNG writes the last frame to path.
func (s *Snapshot) SavePNG(path string) error {
	data, err := s.EncodePNG()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FitBox grows b by margin on every side and then along one axis so that it
// has the aspect ratio of a width x height image, keeping its centre.
func FitBox(b geom.BBox, width, height int, margin float64) geom.BBox {
	b = b.Inset(-margin)
	if width <= 0 || height <= 0 || b.Width() <= 0 || b.Height() <= 0 {
		return b
	}
	c := b.Center()
	aspect := float64(width) / float64(height)
	w, h := b.Width(), b.Height()
	if w/h < aspect {
		w = h * aspect
	} else {
		h = w / aspect
	}
	return geom.BBox{MinX: c.X - w/2, MinY: c.Y - h/2, MaxX: c.X + w/2, MaxY: c.Y + h/2}
}

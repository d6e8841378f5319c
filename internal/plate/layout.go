package plate

import (
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/geom"
)

// WellPosition returns the display-frame minimum corner of well (col, row).
// Row 0 (A) sits at the physical top, so the row index is inverted against
// the upward display Y axis.
func WellPosition(p *Plate, col, row int) r2.Vec {
	return r2.Vec{
		X: p.OffsetA1XMM + float64(col)*p.WellDistanceXMM,
		Y: p.OffsetA1YMM + float64(p.NumWellsY-1-row)*p.WellDistanceYMM,
	}
}

// WellBox is the display-frame footprint of a well.
func WellBox(p *Plate, col, row int) geom.BBox {
	pos := WellPosition(p, col, row)
	return geom.BBox{MinX: pos.X, MinY: pos.Y, MaxX: pos.X + p.WellSizeXMM, MaxY: pos.Y + p.WellSizeYMM}
}

// WellBackendPosition returns the backend-frame top-left corner of a well.
func WellBackendPosition(p *Plate, col, row int) r2.Vec {
	return r2.Vec{
		X: p.OffsetA1XMM + float64(col)*p.WellDistanceXMM,
		Y: p.OffsetA1YMM + float64(row)*p.WellDistanceYMM,
	}
}

// WellBackendBox is the backend-frame footprint of a well.
func WellBackendBox(p *Plate, col, row int) geom.BBox {
	pos := WellBackendPosition(p, col, row)
	return geom.BBox{MinX: pos.X, MinY: pos.Y, MaxX: pos.X + p.WellSizeXMM, MaxY: pos.Y + p.WellSizeYMM}
}

// SitePositionRender places a site for drawing. The whole site grid plus one
// field of view is centred inside the well, then the site is offset by its
// index. Grid row 0 is drawn at the top of the well. The result is the
// display-frame minimum corner of the site's fov footprint.
//
// Keep this distinct from SitePositionBackend: this one serves the picture,
// the other decides what the stage will visit.
func SitePositionRender(wellX, wellY, wellSizeX, wellSizeY float64,
	siteCol, siteRow, gridNumX, gridNumY int,
	deltaX, deltaY, fovX, fovY float64) r2.Vec {
	gridW := float64(gridNumX-1)*deltaX + fovX
	gridH := float64(gridNumY-1)*deltaY + fovY
	startX := wellX + (wellSizeX-gridW)/2
	startY := wellY + (wellSizeY-gridH)/2
	return r2.Vec{
		X: startX + float64(siteCol)*deltaX,
		Y: startY + float64(gridNumY-1-siteRow)*deltaY,
	}
}

// SitePositionBackend places a site the way the acquisition backend does:
// the grid is centred inside the well without any fov margin and rows are
// not inverted. wellX/wellY is the backend top-left corner of the well and
// the result is the backend-frame site centre. Selection hit tests use this
// formula.
func SitePositionBackend(wellX, wellY, wellSizeX, wellSizeY float64,
	siteCol, siteRow, gridNumX, gridNumY int,
	deltaX, deltaY float64) r2.Vec {
	gridW := float64(gridNumX-1) * deltaX
	gridH := float64(gridNumY-1) * deltaY
	return r2.Vec{
		X: wellX + wellSizeX/2 - gridW/2 + float64(siteCol)*deltaX,
		Y: wellY + wellSizeY/2 - gridH/2 + float64(siteRow)*deltaY,
	}
}

// SiteRenderBox is the display-frame footprint of a site inside well
// (col, row) as drawn.
func SiteRenderBox(p *Plate, g Grid, col, row int, s Site, fov r2.Vec) geom.BBox {
	w := WellPosition(p, col, row)
	pos := SitePositionRender(w.X, w.Y, p.WellSizeXMM, p.WellSizeYMM,
		s.Col, s.Row, g.NumX, g.NumY, g.DeltaXMM, g.DeltaYMM, fov.X, fov.Y)
	return geom.BBox{MinX: pos.X, MinY: pos.Y, MaxX: pos.X + fov.X, MaxY: pos.Y + fov.Y}
}

// SiteBackendBox is the backend-frame fov footprint of a site as imaged.
func SiteBackendBox(p *Plate, g Grid, col, row int, s Site, fov r2.Vec) geom.BBox {
	w := WellBackendPosition(p, col, row)
	c := SitePositionBackend(w.X, w.Y, p.WellSizeXMM, p.WellSizeYMM,
		s.Col, s.Row, g.NumX, g.NumY, g.DeltaXMM, g.DeltaYMM)
	return geom.BBox{MinX: c.X - fov.X/2, MinY: c.Y - fov.Y/2, MaxX: c.X + fov.X/2, MaxY: c.Y + fov.Y/2}
}

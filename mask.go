package raster

import "image"

// RasterizeToAlpha renders polygon into an 8-bit coverage mask for the pixels
// of rect. Pixels not reached by any span remain zero.
func RasterizeToAlpha(polygon *Polygon, rect image.Rectangle, fillRule FillRule, aa Antialias) *image.Alpha {
	mask := image.NewAlpha(rect)
	conv := NewAAScanConverter(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, fillRule, aa)
	conv.AddPolygon(polygon)
	conv.Generate(func(y, height int, spans []Span) {
		for i := range spans {
			if spans[i].Coverage == 0 {
				continue
			}
			x0, x1 := spans[i].X, rect.Max.X
			if i+1 < len(spans) {
				x1 = spans[i+1].X
			}
			x0 = max(x0, rect.Min.X)
			x1 = min(x1, rect.Max.X)
			for row := 0; row < height; row++ {
				pix := mask.Pix[(y+row-rect.Min.Y)*mask.Stride:]
				for x := x0; x < x1; x++ {
					pix[x-rect.Min.X] = spans[i].Coverage
				}
			}
		}
	})
	return mask
}

// Mask rasterizes polygon over its own extents rounded out to whole pixels.
// An empty polygon yields a zero-sized image.
func Mask(polygon *Polygon, fillRule FillRule, aa Antialias) *image.Alpha {
	return RasterizeToAlpha(polygon, polygon.Extents().RoundOut(), fillRule, aa)
}

package raster

import (
	"image"
	"testing"

	"github.com/tdewolff/test"
)

func TestRasterizeToAlpha(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(1.0, 1.0), P(3.0, 1.0), P(3.0, 3.0), P(1.0, 3.0)})

	mask := RasterizeToAlpha(p, image.Rect(0, 0, 4, 4), NonZero, AntialiasDefault)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := 1 <= x && x < 3 && 1 <= y && y < 3
			if inside {
				test.T(t, mask.AlphaAt(x, y).A, uint8(255), "pixel", x, y)
			} else {
				test.T(t, mask.AlphaAt(x, y).A, uint8(0), "pixel", x, y)
			}
		}
	}
}

func TestRasterizeToAlphaOffset(t *testing.T) {
	// a rect not anchored at the origin indexes the mask correctly
	p := NewPolygon()
	p.AddPoints([]Point{P(2.0, 2.0), P(4.0, 2.0), P(4.0, 4.0), P(2.0, 4.0)})

	mask := RasterizeToAlpha(p, image.Rect(2, 2, 4, 4), NonZero, AntialiasDefault)
	test.T(t, mask.Bounds(), image.Rect(2, 2, 4, 4))
	for y := 2; y < 4; y++ {
		for x := 2; x < 4; x++ {
			test.T(t, mask.AlphaAt(x, y).A, uint8(255), "pixel", x, y)
		}
	}
}

func TestMask(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(0.5, 0.5), P(2.5, 0.5), P(2.5, 2.5), P(0.5, 2.5)})

	mask := Mask(p, NonZero, AntialiasDefault)
	test.T(t, mask.Bounds(), image.Rect(0, 0, 3, 3))
	test.T(t, mask.AlphaAt(1, 1).A, uint8(255), "interior")
	test.T(t, mask.AlphaAt(0, 1).A, uint8(128), "half covered edge")
	test.T(t, mask.AlphaAt(1, 0).A, uint8(119), "7 of 15 subsample rows")
	test.T(t, mask.AlphaAt(1, 2).A, uint8(136), "8 of 15 subsample rows")
	test.That(t, 0 < mask.AlphaAt(0, 0).A && mask.AlphaAt(0, 0).A < 128, "quarter covered corner")
}

func TestMaskEmpty(t *testing.T) {
	mask := Mask(NewPolygon(), NonZero, AntialiasDefault)
	test.T(t, mask.Bounds().Empty(), true)
}

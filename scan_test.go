package raster

import (
	"testing"

	"github.com/tdewolff/test"
)

func rasterizeMono(polygon *Polygon, fillRule FillRule, w, h int) []bool {
	covered := make([]bool, w*h)
	c := NewMonoScanConverter(0, 0, w, h, fillRule)
	c.AddPolygon(polygon)
	c.Generate(func(y, height int, spans []Span) {
		for i := 0; i+1 < len(spans); i++ {
			if spans[i].Coverage == 0 {
				continue
			}
			for yy := y; yy < y+height; yy++ {
				for x := spans[i].X; x < spans[i+1].X; x++ {
					covered[yy*w+x] = true
				}
			}
		}
	})
	return covered
}

func countCovered(covered []bool) int {
	n := 0
	for _, c := range covered {
		if c {
			n++
		}
	}
	return n
}

func TestMonoSquare(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0), P(0.0, 4.0)})

	// all four rows are identical and reported as one batch
	calls := 0
	c := NewMonoScanConverter(0, 0, 4, 4, NonZero)
	c.AddPolygon(p)
	c.Generate(func(y, height int, spans []Span) {
		calls++
		test.T(t, y, 0)
		test.T(t, height, 4)
		test.T(t, append([]Span{}, spans...), []Span{{0, 255}, {4, 0}})
	})
	test.T(t, calls, 1)
}

func TestMonoDisjointContours(t *testing.T) {
	// the second contour's edges end up ahead of the first in the edge
	// list, so the x-sort merges runs starting with the lower-x one
	p := NewPolygon()
	p.AddPoints([]Point{P(0.0, 0.0), P(2.0, 0.0), P(2.0, 2.0), P(0.0, 2.0)})
	p.AddPoints([]Point{P(3.0, 0.0), P(5.0, 0.0), P(5.0, 2.0), P(3.0, 2.0)})

	covered := rasterizeMono(p, NonZero, 5, 2)
	test.T(t, countCovered(covered), 8)
	for y := 0; y < 2; y++ {
		test.T(t, covered[y*5+2], false, "gap between the squares")
	}
}

func TestMonoTriangle(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0)})

	covered := rasterizeMono(p, NonZero, 4, 4)
	test.T(t, countCovered(covered), 10)

	// row y covers the pixels right of the hypotenuse at the row center
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			test.T(t, covered[y*4+x], y <= x, "pixel", x, y)
		}
	}
}

func TestMonoFillRules(t *testing.T) {
	// two squares overlapping in a 2x2 block, both wound the same way
	pts1 := []Point{P(0.0, 0.0), P(3.0, 0.0), P(3.0, 3.0), P(0.0, 3.0)}
	pts2 := []Point{P(1.0, 1.0), P(5.0, 1.0), P(5.0, 5.0), P(1.0, 5.0)}

	p := NewPolygon()
	p.AddPoints(pts1)
	p.AddPoints(pts2)
	test.T(t, countCovered(rasterizeMono(p, NonZero, 5, 5)), 21)

	p = NewPolygon()
	p.AddPoints(pts1)
	p.AddPoints(pts2)
	test.T(t, countCovered(rasterizeMono(p, EvenOdd, 5, 5)), 17, "the doubly wound block drops out")
}

func TestMonoSinglePixelHole(t *testing.T) {
	// holes narrower than two pixels do not break a span
	p := NewPolygon()
	p.AddPoints([]Point{P(0.0, 0.0), P(2.0, 0.0), P(2.0, 2.0), P(0.0, 2.0)})
	p.AddPoints([]Point{P(1.0, 1.0), P(3.0, 1.0), P(3.0, 3.0), P(1.0, 3.0)})
	test.T(t, countCovered(rasterizeMono(p, EvenOdd, 3, 3)), 7)
}

func TestMonoClipped(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(-2.0, -2.0), P(6.0, -2.0), P(6.0, 6.0), P(-2.0, 6.0)})
	test.T(t, countCovered(rasterizeMono(p, NonZero, 4, 4)), 16, "spans clip to the converter box")
}

func TestMonoEmpty(t *testing.T) {
	c := NewMonoScanConverter(0, 0, 4, 4, NonZero)
	c.AddPolygon(NewPolygon())
	c.Generate(func(y, height int, spans []Span) {
		test.Fail(t, "no spans for an empty polygon")
	})
}

func TestRasterizeToBoxes(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0), P(0.0, 4.0)})

	b := NewBoxes()
	RasterizeToBoxes(p, NonZero, b)
	test.T(t, b.Len(), 1)
	test.T(t, b.ToArray(), []Box{BoxFromInts(0, 0, 4, 4)})
	test.T(t, b.IsPixelAligned(), true)
}

func TestRasterizeToTraps(t *testing.T) {
	p := NewPolygon()
	p.AddPoints([]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0)})

	tp := NewTraps()
	RasterizeToTraps(p, NonZero, tp)
	test.T(t, tp.Len(), 4, "one rectangle per scanline")
	test.T(t, tp.IsPixelAligned(AntialiasDefault), true)

	boxes, ok := tp.ToBoxes(AntialiasDefault)
	test.That(t, ok)
	test.T(t, boxes.Len(), 4)
	test.T(t, boxes.Extents(), BoxFromInts(0, 0, 4, 4))
}

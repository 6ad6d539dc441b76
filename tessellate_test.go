package raster

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestTriangulateContour(t *testing.T) {
	test.T(t, len(TriangulateContour(nil)), 0)
	test.T(t, len(TriangulateContour([]Point{P(0.0, 0.0), P(1.0, 0.0)})), 0)

	tris := TriangulateContour([]Point{P(0.0, 0.0), P(4.0, 0.0), P(2.0, 3.0)})
	test.T(t, len(tris), 1)

	tris = TriangulateContour([]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0), P(0.0, 4.0)})
	test.T(t, len(tris), 2)

	// the triangles partition the square
	area := 0.0
	for _, tri := range tris {
		ax, ay := tri[0].X.Float64(), tri[0].Y.Float64()
		bx, by := tri[1].X.Float64(), tri[1].Y.Float64()
		cx, cy := tri[2].X.Float64(), tri[2].Y.Float64()
		a := ((bx-ax)*(cy-ay) - (cx-ax)*(by-ay)) / 2.0
		if a < 0.0 {
			a = -a
		}
		area += a
	}
	test.Float(t, area, 16.0)
}

func TestTrapsAddContour(t *testing.T) {
	tp := NewTraps()
	tp.AddContour([]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0), P(0.0, 4.0)})
	test.T(t, tp.Extents(), BoxFromInts(0, 0, 4, 4))
	test.T(t, tp.Contains(1.0, 2.0), true)
	test.T(t, tp.Contains(3.0, 2.0), true)
	test.T(t, tp.Contains(5.0, 1.0), false)
}

func TestTriStripAddContour(t *testing.T) {
	s := NewTriStrip()
	s.AddContour([]Point{P(0.0, 0.0), P(4.0, 0.0), P(2.0, 3.0)})
	test.T(t, s.Len(), 3)
	test.T(t, s.Extents(), BoxFromInts(0, 0, 4, 3))

	s.AddContour([]Point{P(5.0, 0.0), P(6.0, 0.0), P(5.0, 1.0)})
	test.T(t, s.Len(), 7, "one joint between the strips")
}
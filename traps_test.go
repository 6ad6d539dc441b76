package raster

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestTrapsRectangle(t *testing.T) {
	tp := NewTraps()
	tp.TessellateRectangle(P(0.0, 0.0), P(4.0, 4.0))
	test.T(t, tp.Len(), 1)
	test.T(t, tp.IsPixelAligned(AntialiasDefault), true)
	test.T(t, tp.Extents(), BoxFromInts(0, 0, 4, 4))
	test.T(t, tp.Contains(2.0, 2.0), true)
	test.T(t, tp.Contains(5.0, 2.0), false)

	boxes, ok := tp.ToBoxes(AntialiasDefault)
	test.That(t, ok)
	test.T(t, boxes.ToArray(), []Box{BoxFromInts(0, 0, 4, 4)})

	// degenerate rectangles add nothing
	tp.TessellateRectangle(P(1.0, 1.0), P(1.0, 3.0))
	tp.TessellateRectangle(P(1.0, 1.0), P(3.0, 1.0))
	test.T(t, tp.Len(), 1)

	tp.Clear()
	test.T(t, tp.Len(), 0)
}

func TestTrapsContainsEndpoints(t *testing.T) {
	tp := NewTraps()
	tp.TessellateRectangle(P(0.0, 0.0), P(4.0, 4.0))

	// the degenerate slope from a side's start point to itself compares
	// greater than the side, so the left start is outside and the right
	// start inside
	test.T(t, tp.Contains(0.0, 0.0), false)
	test.T(t, tp.Contains(4.0, 0.0), true)
	test.T(t, tp.Contains(0.0, 2.0), true)
	test.T(t, tp.Contains(4.0, 2.0), true)
}

func TestTrapsRectangleReversed(t *testing.T) {
	tp := NewTraps(BoxFromInts(0, 0, 4, 4))
	tp.TessellateRectangle(P(4.0, 0.0), P(0.0, 4.0))
	test.T(t, tp.Len(), 1)

	// the swapped sides preserve the negative winding
	trap := tp.Traps()[0]
	test.T(t, trap.Left.P1.X, FromInt(4))
	test.T(t, trap.Right.P1.X, FromInt(0))

	boxes, ok := tp.ToBoxes(AntialiasDefault)
	test.That(t, ok)
	test.T(t, boxes.ToArray()[0], Box{Point{FromInt(4), 0}, Point{0, FromInt(4)}})
}

func TestTrapsRectangleLimited(t *testing.T) {
	tp := NewTraps(BoxFromInts(0, 0, 2, 4))
	tp.TessellateRectangle(P(0.0, 0.0), P(4.0, 4.0))
	test.T(t, tp.Len(), 1)

	boxes, ok := tp.ToBoxes(AntialiasDefault)
	test.That(t, ok)
	test.T(t, boxes.ToArray(), []Box{BoxFromInts(0, 0, 2, 4)})

	tp.TessellateRectangle(P(3.0, 0.0), P(4.0, 4.0))
	test.T(t, tp.Len(), 1, "outside the limit")
}

func TestTrapsConvexQuad(t *testing.T) {
	tp := NewTraps()
	tp.TessellateConvexQuad([4]Point{P(2.0, 0.0), P(4.0, 2.0), P(2.0, 4.0), P(0.0, 2.0)})
	test.T(t, tp.Len(), 2, "the empty middle band is dropped")
	test.T(t, tp.Extents(), BoxFromInts(0, 0, 4, 4))
	test.T(t, tp.Contains(2.0, 2.0), true)
	test.T(t, tp.Contains(0.5, 0.5), false)
	test.T(t, tp.IsPixelAligned(AntialiasDefault), false)

	_, ok := tp.ToBoxes(AntialiasDefault)
	test.T(t, ok, false, "slanted sides")
}

func TestTrapsConvexQuadRectangle(t *testing.T) {
	// a quad that happens to be a rectangle gives a single trapezoid
	tp := NewTraps()
	tp.TessellateConvexQuad([4]Point{P(0.0, 0.0), P(3.0, 0.0), P(3.0, 2.0), P(0.0, 2.0)})
	test.T(t, tp.Len(), 1)
	test.T(t, tp.Extents(), BoxFromInts(0, 0, 3, 2))
}

func TestTrapsTriangle(t *testing.T) {
	tri := [3]Point{P(0.0, 0.0), P(4.0, 0.0), P(4.0, 4.0)}
	tp := NewTraps()
	tp.TessellateTriangle(tri, [4]Point{tri[0], tri[1], tri[0], tri[2]})
	test.T(t, tp.Len(), 1)
	test.T(t, tp.Extents(), BoxFromInts(0, 0, 4, 4))
	test.T(t, tp.Contains(3.0, 1.0), true)
	test.T(t, tp.Contains(1.0, 3.0), false, "left of the hypotenuse")
}

func TestTrapsTriangleSplit(t *testing.T) {
	// no two vertices share a y coordinate, forcing two trapezoids
	tri := [3]Point{P(0.0, 0.0), P(4.0, 1.0), P(2.0, 4.0)}
	tp := NewTraps()
	tp.TessellateTriangle(tri, [4]Point{tri[0], tri[1], tri[0], tri[2]})
	test.T(t, tp.Len(), 2)
	test.T(t, tp.Extents(), BoxFromInts(0, 0, 4, 4))
	test.T(t, tp.Contains(2.0, 1.0), true)
	test.T(t, tp.Contains(2.0, 3.5), true)
	test.T(t, tp.Contains(3.9, 3.9), false)
}

func TestTrapsFromBoxes(t *testing.T) {
	b := NewBoxes()
	b.Add(AntialiasDefault, BoxFromInts(0, 0, 2, 2))
	b.Add(AntialiasDefault, BoxFromInts(3, 1, 1, 2))

	tp := TrapsFromBoxes(b)
	test.T(t, tp.Len(), 2)
	test.T(t, tp.IsPixelAligned(AntialiasDefault), true)

	boxes, ok := tp.ToBoxes(AntialiasDefault)
	test.That(t, ok)
	test.T(t, boxes.ToArray(), b.ToArray())
}

func TestTrapsTranslate(t *testing.T) {
	tp := NewTraps()
	tp.TessellateRectangle(P(0.0, 0.0), P(4.0, 4.0))
	tp.Translate(1, 2)
	test.T(t, tp.Extents(), BoxFromInts(1, 2, 4, 4))
	test.T(t, tp.Contains(1.5, 2.5), true)
	test.T(t, tp.Contains(0.5, 0.5), false)
}

func TestTrapsToBoxesSnapped(t *testing.T) {
	tp := NewTraps()
	tp.TessellateRectangle(P(0.5, 0.5), P(2.5, 3.5))
	test.T(t, tp.IsPixelAligned(AntialiasDefault), false)

	// halves round down to the pixel grid
	boxes, ok := tp.ToBoxes(AntialiasNone)
	test.That(t, ok)
	test.T(t, boxes.ToArray(), []Box{BoxFromInts(0, 0, 2, 3)})
}

func TestTrapsPixelAlignedMono(t *testing.T) {
	// sides staying within a pixel column count as vertical without
	// antialiasing
	tp := NewTraps()
	tp.AddTrap(FromInt(0), FromInt(4),
		Line{P(1.1, 0.0), P(1.4, 4.0)},
		Line{P(3.2, 0.0), P(3.3, 4.0)})
	test.T(t, tp.IsPixelAligned(AntialiasNone), true)
	test.T(t, tp.IsPixelAligned(AntialiasDefault), false)
}

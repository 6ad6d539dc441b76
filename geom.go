package raster

import (
	"fmt"
	"image"
	"math"
)

// Point is a coordinate in fixed-point 2D space.
type Point struct {
	X, Y Fixed
}

// P constructs a Point from float64 coordinates.
func P(x, y float64) Point {
	return Point{FromFloat64(x), FromFloat64(y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%v,%v)", p.X, p.Y)
}

// Line is a directed segment between two points. It is used both as a
// polygon edge carrier and for ordering predicates along the sweep line.
type Line struct {
	P1, P2 Point
}

// compareAtY orders two lines by their x-position at the horizontal line at
// y. When they intersect exactly there, the slopes order them by their
// position just below y. Both lines must span y vertically.
func (l Line) compareAtY(m Line, y Fixed) int {
	if l.P1.X == l.P2.X && m.P1.X == m.P2.X {
		return int(l.P1.X) - int(m.P1.X)
	}

	lx := intersectXforY(l.P1, l.P2, y)
	mx := intersectXforY(m.P1, m.P2, y)
	if lx != mx {
		if lx < mx {
			return -1
		}
		return 1
	}

	sl := SlopeOf(l.P1, l.P2)
	sm := SlopeOf(m.P1, m.P2)
	return sm.Compare(sl)
}

// Slope is the direction of a line as a dx,dy pair. Comparisons are exact,
// using the 64-bit cross product.
type Slope struct {
	Dx, Dy Fixed
}

// SlopeOf returns the slope of the directed segment from a to b.
func SlopeOf(a, b Point) Slope {
	return Slope{b.X - a.X, b.Y - a.Y}
}

// IsZero is true for the degenerate slope of two coincident points.
func (s Slope) IsZero() bool {
	return s.Dx == 0 && s.Dy == 0
}

// Compare orders two slopes by angle, counter-clockwise from the positive
// x-axis. Zero slopes compare equal to each other and greater than any
// non-zero slope. Anti-parallel slopes are distinguished by quadrant.
func (s Slope) Compare(t Slope) int {
	c := int64(s.Dy)*int64(t.Dx) - int64(t.Dy)*int64(s.Dx)
	if c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}

	// zero vectors compare equal to each other and more positive than any
	// non-zero vector
	if s.IsZero() && t.IsZero() {
		return 0
	}
	if s.IsZero() {
		return 1
	}
	if t.IsZero() {
		return -1
	}

	// the slopes are parallel; distinguish anti-parallel directions by
	// quadrant
	if (s.Dx > 0) != (t.Dx > 0) || (s.Dy > 0) != (t.Dy > 0) {
		if s.Dx > 0 || (s.Dx == 0 && s.Dy > 0) {
			return 1
		}
		return -1
	}
	return 0
}

// Box is an axis-aligned rectangle with P1 the minimum corner and P2 the
// maximum corner. A box with P1.X==P2.X or P1.Y==P2.Y is degenerate and
// carries no area; accumulators drop such boxes.
type Box struct {
	P1, P2 Point
}

// BoxFromInts constructs a pixel-aligned Box from integer coordinates.
func BoxFromInts(x, y, w, h int) Box {
	return Box{
		Point{FromInt(x), FromInt(y)},
		Point{FromInt(x + w), FromInt(y + h)},
	}
}

// BoxFromFloats constructs a Box from float64 coordinates.
func BoxFromFloats(x1, y1, x2, y2 float64) Box {
	return Box{P(x1, y1), P(x2, y2)}
}

// BoxFromRect converts an integer rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	return BoxFromInts(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

func (b Box) String() string {
	return fmt.Sprintf("[%v %v]", b.P1, b.P2)
}

// IsDegenerate is true when the box has zero width or zero height.
func (b Box) IsDegenerate() bool {
	return b.P1.X == b.P2.X || b.P1.Y == b.P2.Y
}

// IsPixelAligned is true when all four corners lie on integer coordinates.
func (b Box) IsPixelAligned() bool {
	f := b.P1.X | b.P1.Y | b.P2.X | b.P2.Y
	return f&fracMask == 0
}

// AddPoint grows the box to contain p.
func (b *Box) AddPoint(p Point) {
	if p.X < b.P1.X {
		b.P1.X = p.X
	}
	if p.Y < b.P1.Y {
		b.P1.Y = p.Y
	}
	if p.X > b.P2.X {
		b.P2.X = p.X
	}
	if p.Y > b.P2.Y {
		b.P2.Y = p.Y
	}
}

// AddBox grows the box to contain c.
func (b *Box) AddBox(c Box) {
	if c.P1.X < b.P1.X {
		b.P1.X = c.P1.X
	}
	if c.P1.Y < b.P1.Y {
		b.P1.Y = c.P1.Y
	}
	if c.P2.X > b.P2.X {
		b.P2.X = c.P2.X
	}
	if c.P2.Y > b.P2.Y {
		b.P2.Y = c.P2.Y
	}
}

// ContainsPoint is true when p lies within the closed box.
func (b Box) ContainsPoint(p Point) bool {
	return b.P1.X <= p.X && p.X <= b.P2.X &&
		b.P1.Y <= p.Y && p.Y <= b.P2.Y
}

// Intersect clips b to c, returning the overlap and whether it is non-empty.
func (b Box) Intersect(c Box) (Box, bool) {
	if c.P1.X > b.P1.X {
		b.P1.X = c.P1.X
	}
	if c.P1.Y > b.P1.Y {
		b.P1.Y = c.P1.Y
	}
	if c.P2.X < b.P2.X {
		b.P2.X = c.P2.X
	}
	if c.P2.Y < b.P2.Y {
		b.P2.Y = c.P2.Y
	}
	return b, b.P1.X < b.P2.X && b.P1.Y < b.P2.Y
}

// RoundOut returns the smallest integer rectangle containing the box.
func (b Box) RoundOut() image.Rectangle {
	x0 := b.P1.X.IntFloor()
	y0 := b.P1.Y.IntFloor()
	return image.Rect(x0, y0, b.P2.X.IntCeil(), b.P2.Y.IntCeil())
}

// Area returns the signed area of the box as a float64.
func (b Box) Area() float64 {
	w := (b.P2.X - b.P1.X).Float64()
	h := (b.P2.Y - b.P1.Y).Float64()
	return w * h
}

// IntersectsLine is true when any part of the segment lies within the box.
// The test is exact; it compares the parametric entry and exit positions by
// cross-multiplication instead of dividing.
func (b Box) IntersectsLine(l Line) bool {
	if b.ContainsPoint(l.P1) || b.ContainsPoint(l.P2) {
		return true
	}

	var t1, t2, t3, t4 Fixed
	xlen := l.P2.X - l.P1.X
	ylen := l.P2.Y - l.P1.Y

	if xlen != 0 {
		if xlen > 0 {
			t1 = b.P1.X - l.P1.X
			t2 = b.P2.X - l.P1.X
		} else {
			t1 = l.P1.X - b.P2.X
			t2 = l.P1.X - b.P1.X
			xlen = -xlen
		}
		if (t1 < 0 || t1 > xlen) && (t2 < 0 || t2 > xlen) {
			return false
		}
	} else if l.P1.X < b.P1.X || l.P1.X > b.P2.X {
		return false
	}

	if ylen != 0 {
		if ylen > 0 {
			t3 = b.P1.Y - l.P1.Y
			t4 = b.P2.Y - l.P1.Y
		} else {
			t3 = l.P1.Y - b.P2.Y
			t4 = l.P1.Y - b.P1.Y
			ylen = -ylen
		}
		if (t3 < 0 || t3 > ylen) && (t4 < 0 || t4 > ylen) {
			return false
		}
	} else if l.P1.Y < b.P1.Y || l.P1.Y > b.P2.Y {
		return false
	}

	// axis-aligned segments have been fully checked above
	if l.P1.X == l.P2.X || l.P1.Y == l.P2.Y {
		return true
	}

	// overlap check on the parametric intervals; t1 < t2 and t3 < t4 here
	t1y := int64(t1) * int64(ylen)
	t2y := int64(t2) * int64(ylen)
	t3x := int64(t3) * int64(xlen)
	t4x := int64(t4) * int64(xlen)
	return t1y < t4x && t3x < t2y
}

// boxesExtents returns the bounding box of a non-empty slice of boxes.
func boxesExtents(boxes []Box) Box {
	extents := boxes[0]
	for _, b := range boxes[1:] {
		extents.AddBox(b)
	}
	return extents
}

// unboundedBox covers the entire representable plane.
func unboundedBox() Box {
	return Box{
		Point{FixedMin, FixedMin},
		Point{FixedMax, FixedMax},
	}
}

// emptyBox is the inside-out box used to start extent accumulation.
func emptyBox() Box {
	return Box{
		Point{math.MaxInt32, math.MaxInt32},
		Point{math.MinInt32, math.MinInt32},
	}
}

package raster

const trapsEmbedded = 16

// Trapezoid has a horizontal top and bottom and two slanted sides. The sides
// are carried as arbitrary lines; they may extend beyond the top and bottom
// and are clipped to them implicitly.
type Trapezoid struct {
	Top, Bottom Fixed
	Left, Right Line
}

// Traps accumulates trapezoids, tracking whether the set may still be
// representable as a region of pixel-aligned rectangles. An optional set of
// limit boxes coarsely clips incoming trapezoids.
type Traps struct {
	traps []Trapezoid

	maybeRegion   bool
	isRectilinear bool
	isRectangular bool

	limits []Box
	bounds Box

	embedded [trapsEmbedded]Trapezoid
}

// NewTraps returns an empty trapezoid accumulator clipped to the given limit
// boxes, if any.
func NewTraps(limits ...Box) *Traps {
	t := &Traps{}
	t.traps = t.embedded[:0]
	t.maybeRegion = true
	t.Limit(limits)
	return t
}

// TrapsFromBoxes converts each box to a rectangular trapezoid.
func TrapsFromBoxes(boxes *Boxes) *Traps {
	t := NewTraps()
	if trapsEmbedded < boxes.Len() {
		t.traps = make([]Trapezoid, 0, boxes.Len())
	}
	t.isRectilinear = true
	t.isRectangular = true
	t.maybeRegion = boxes.IsPixelAligned()
	boxes.ForEach(func(box Box) bool {
		t.traps = append(t.traps, Trapezoid{
			Top:    box.P1.Y,
			Bottom: box.P2.Y,
			Left:   Line{box.P1, Point{box.P1.X, box.P2.Y}},
			Right:  Line{Point{box.P2.X, box.P1.Y}, box.P2},
		})
		return true
	})
	return t
}

// Limit sets the clip boxes applied to subsequently added trapezoids.
func (t *Traps) Limit(limits []Box) {
	t.limits = limits
	if 0 < len(limits) {
		t.bounds = boxesExtents(limits)
	}
}

// Len returns the number of accumulated trapezoids.
func (t *Traps) Len() int {
	return len(t.traps)
}

// Traps returns the accumulated trapezoids. The slice is owned by t and
// valid until the next Add or Clear.
func (t *Traps) Traps() []Trapezoid {
	return t.traps
}

// Clear removes all trapezoids but keeps the limits.
func (t *Traps) Clear() {
	t.traps = t.traps[:0]
	t.maybeRegion = true
	t.isRectilinear = false
	t.isRectangular = false
}

// AddTrap appends a trapezoid without clipping. The sides must not be
// horizontal and bottom must be below top.
func (t *Traps) AddTrap(top, bottom Fixed, left, right Line) {
	if left.P1.Y == left.P2.Y || right.P1.Y == right.P2.Y {
		panic("raster: trapezoid side is horizontal")
	}
	if bottom <= top {
		panic("raster: trapezoid is inverted")
	}
	t.traps = append(t.traps, Trapezoid{top, bottom, left, right})
}

// addClippedTrap clips coarsely against the bounds of the limits: only the
// vertical range is clipped exactly, a side is snapped to the bounds when it
// lies entirely outside. Sides crossing the bounds are left alone; the
// consumer resolves the overshoot.
func (t *Traps) addClippedTrap(top, bottom Fixed, left, right Line) {
	if bottom <= top {
		// the tessellators readily produce empty bands
		return
	}
	if len(t.limits) == 0 {
		t.AddTrap(top, bottom, left, right)
		return
	}

	b := t.bounds
	if left.P1.X >= b.P2.X && left.P2.X >= b.P2.X {
		return
	}
	if right.P1.X <= b.P1.X && right.P2.X <= b.P1.X {
		return
	}
	if top >= b.P2.Y || bottom <= b.P1.Y {
		return
	}

	top = max(top, b.P1.Y)
	bottom = min(bottom, b.P2.Y)

	if left.P1.X <= b.P1.X && left.P2.X <= b.P1.X {
		left.P1.X = b.P1.X
		left.P2.X = b.P1.X
	}
	if right.P1.X >= b.P2.X && right.P2.X >= b.P2.X {
		right.P1.X = b.P2.X
		right.P2.X = b.P2.X
	}

	if top >= bottom {
		return
	}
	// cheap colinearity check
	if right.P1.X <= left.P1.X && right.P1.Y == left.P1.Y &&
		right.P2.X <= left.P2.X && right.P2.Y == left.P2.Y {
		return
	}

	t.AddTrap(top, bottom, left, right)
}

func comparePointByY(a, b Point) int {
	if a.Y != b.Y {
		return int(a.Y) - int(b.Y)
	}
	return int(a.X) - int(b.X)
}

// TessellateConvexQuad adds the trapezoids covering the convex quadrilateral
// q, given in either winding order.
func (t *Traps) TessellateConvexQuad(q [4]Point) {
	// a is the topmost vertex, b and d its neighbors with b above d, and c
	// opposite a. The y-sort is then abcd or abdc, and a slope comparison of
	// ab against ad decides which chain is the left one.
	a := 0
	for i := 1; i < 4; i++ {
		if comparePointByY(q[i], q[a]) < 0 {
			a = i
		}
	}

	b := (a + 1) % 4
	c := (a + 2) % 4
	d := (a + 3) % 4
	if comparePointByY(q[d], q[b]) < 0 {
		b, d = d, b
	}

	// a degenerate ab gives no direction; ac orders the same chains
	var ab Slope
	if q[a] == q[b] {
		ab = SlopeOf(q[a], q[c])
	} else {
		ab = SlopeOf(q[a], q[b])
	}
	ad := SlopeOf(q[a], q[d])
	bLeftOfD := 0 < ab.Compare(ad)

	if q[c].Y <= q[d].Y {
		// y-sort abcd
		if bLeftOfD {
			left := Line{q[a], q[b]}
			right := Line{q[a], q[d]}
			t.addClippedTrap(q[a].Y, q[b].Y, left, right)
			left = Line{q[b], q[c]}
			t.addClippedTrap(q[b].Y, q[c].Y, left, right)
			left = Line{q[c], q[d]}
			t.addClippedTrap(q[c].Y, q[d].Y, left, right)
		} else {
			left := Line{q[a], q[d]}
			right := Line{q[a], q[b]}
			t.addClippedTrap(q[a].Y, q[b].Y, left, right)
			right = Line{q[b], q[c]}
			t.addClippedTrap(q[b].Y, q[c].Y, left, right)
			right = Line{q[c], q[d]}
			t.addClippedTrap(q[c].Y, q[d].Y, left, right)
		}
	} else {
		// y-sort abdc
		if bLeftOfD {
			left := Line{q[a], q[b]}
			right := Line{q[a], q[d]}
			t.addClippedTrap(q[a].Y, q[b].Y, left, right)
			left = Line{q[b], q[c]}
			t.addClippedTrap(q[b].Y, q[d].Y, left, right)
			right = Line{q[d], q[c]}
			t.addClippedTrap(q[d].Y, q[c].Y, left, right)
		} else {
			left := Line{q[a], q[d]}
			right := Line{q[a], q[b]}
			t.addClippedTrap(q[a].Y, q[b].Y, left, right)
			right = Line{q[b], q[c]}
			t.addClippedTrap(q[b].Y, q[d].Y, left, right)
			left = Line{q[d], q[c]}
			t.addClippedTrap(q[d].Y, q[c].Y, left, right)
		}
	}
}

func (t *Traps) addTri(y1, y2 Fixed, left, right Line) {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	if 0 < left.compareAtY(right, y1) {
		left, right = right, left
	}
	t.addClippedTrap(y1, y2, left, right)
}

// TessellateTriangle adds the trapezoids covering the triangle tri. The
// edges argument carries the original, unclipped endpoints of the two edges
// meeting at tri[0] so that shared triangle fans tessellate without cracks:
// edges[0]-edges[1] runs through tri[0]-tri[1] and edges[2]-edges[3] through
// tri[0]-tri[2].
func (t *Traps) TessellateTriangle(tri [3]Point, edges [4]Point) {
	var lines [3]Line
	if edges[0].Y <= edges[1].Y {
		lines[0] = Line{edges[0], edges[1]}
	} else {
		lines[0] = Line{edges[1], edges[0]}
	}
	if edges[2].Y <= edges[3].Y {
		lines[1] = Line{edges[2], edges[3]}
	} else {
		lines[1] = Line{edges[3], edges[2]}
	}

	if tri[1].Y == tri[2].Y {
		t.addTri(tri[0].Y, tri[1].Y, lines[0], lines[1])
		return
	}

	if tri[1].Y <= tri[2].Y {
		lines[2] = Line{tri[1], tri[2]}
	} else {
		lines[2] = Line{tri[2], tri[1]}
	}

	abs := func(f Fixed) Fixed {
		if f < 0 {
			return -f
		}
		return f
	}
	if (tri[1].Y-tri[0].Y < 0) != (tri[2].Y-tri[0].Y < 0) {
		// tri[0] is vertically between the other two
		t.addTri(tri[0].Y, tri[1].Y, lines[0], lines[2])
		t.addTri(tri[0].Y, tri[2].Y, lines[1], lines[2])
	} else if abs(tri[1].Y-tri[0].Y) < abs(tri[2].Y-tri[0].Y) {
		t.addTri(tri[0].Y, tri[1].Y, lines[0], lines[1])
		t.addTri(tri[1].Y, tri[2].Y, lines[2], lines[1])
	} else {
		t.addTri(tri[0].Y, tri[2].Y, lines[1], lines[0])
		t.addTri(tri[1].Y, tri[2].Y, lines[2], lines[0])
	}
}

// TessellateRectangle adds the axis-aligned rectangle spanned by topLeft and
// bottomRight as a single trapezoid per intersected limit. Passing the
// corners in reversed x-order adds the trapezoid with swapped sides,
// preserving a counter-clockwise winding.
func (t *Traps) TessellateRectangle(topLeft, bottomRight Point) {
	if topLeft.Y == bottomRight.Y || topLeft.X == bottomRight.X {
		return
	}

	left := Line{topLeft, Point{topLeft.X, bottomRight.Y}}
	right := Line{Point{bottomRight.X, topLeft.Y}, bottomRight}
	top, bottom := topLeft.Y, bottomRight.Y

	if len(t.limits) == 0 {
		t.AddTrap(top, bottom, left, right)
		return
	}

	if top >= t.bounds.P2.Y || bottom <= t.bounds.P1.Y {
		return
	}

	reversed := topLeft.X > bottomRight.X
	if reversed {
		left.P1.X, left.P2.X = bottomRight.X, bottomRight.X
		right.P1.X, right.P2.X = topLeft.X, topLeft.X
	}

	if left.P1.X >= t.bounds.P2.X || right.P1.X <= t.bounds.P1.X {
		return
	}

	for _, limit := range t.limits {
		if top >= limit.P2.Y || bottom <= limit.P1.Y {
			continue
		}
		if left.P1.X >= limit.P2.X || right.P1.X <= limit.P1.X {
			continue
		}

		ctop := max(top, limit.P1.Y)
		cbot := min(bottom, limit.P2.Y)
		if cbot <= ctop {
			continue
		}

		cleft := left
		if cleft.P1.X < limit.P1.X {
			cleft = Line{Point{limit.P1.X, limit.P1.Y}, Point{limit.P1.X, limit.P2.Y}}
		}
		cright := right
		if cright.P1.X > limit.P2.X {
			cright = Line{Point{limit.P2.X, limit.P1.Y}, Point{limit.P2.X, limit.P2.Y}}
		}

		if reversed {
			t.AddTrap(ctop, cbot, cright, cleft)
		} else {
			t.AddTrap(ctop, cbot, cleft, cright)
		}
	}
}

// Translate shifts all trapezoids by an integer pixel offset.
func (t *Traps) Translate(x, y int) {
	xoff, yoff := FromInt(x), FromInt(y)
	for i := range t.traps {
		tr := &t.traps[i]
		tr.Top += yoff
		tr.Bottom += yoff
		tr.Left.P1.X += xoff
		tr.Left.P1.Y += yoff
		tr.Left.P2.X += xoff
		tr.Left.P2.Y += yoff
		tr.Right.P1.X += xoff
		tr.Right.P1.Y += yoff
		tr.Right.P2.X += xoff
		tr.Right.P2.Y += yoff
	}
}

// Contains is true when the point lies within any accumulated trapezoid.
func (t *Traps) Contains(x, y float64) bool {
	pt := P(x, y)
	for i := range t.traps {
		if t.traps[i].contains(pt) {
			return true
		}
	}
	return false
}

func (t *Trapezoid) contains(pt Point) bool {
	if t.Top > pt.Y || t.Bottom < pt.Y {
		return false
	}

	left := SlopeOf(t.Left.P1, t.Left.P2)
	if left.Compare(SlopeOf(t.Left.P1, pt)) < 0 {
		return false
	}
	right := SlopeOf(t.Right.P1, t.Right.P2)
	if SlopeOf(t.Right.P1, pt).Compare(right) < 0 {
		return false
	}
	return true
}

// Extents returns the bounding box of all trapezoids, or the zero Box when
// empty. Sides overshooting the vertical range only contribute their
// position at the clipped top and bottom.
func (t *Traps) Extents() Box {
	if len(t.traps) == 0 {
		return Box{}
	}

	extents := emptyBox()
	for i := range t.traps {
		trap := &t.traps[i]

		if trap.Top < extents.P1.Y {
			extents.P1.Y = trap.Top
		}
		if trap.Bottom > extents.P2.Y {
			extents.P2.Y = trap.Bottom
		}

		if trap.Left.P1.X < extents.P1.X {
			x := trap.Left.P1.X
			if trap.Top != trap.Left.P1.Y {
				x = intersectXforY(trap.Left.P1, trap.Left.P2, trap.Top)
			}
			if x < extents.P1.X {
				extents.P1.X = x
			}
		}
		if trap.Left.P2.X < extents.P1.X {
			x := trap.Left.P2.X
			if trap.Bottom != trap.Left.P2.Y {
				x = intersectXforY(trap.Left.P1, trap.Left.P2, trap.Bottom)
			}
			if x < extents.P1.X {
				extents.P1.X = x
			}
		}

		if trap.Right.P1.X > extents.P2.X {
			x := trap.Right.P1.X
			if trap.Top != trap.Right.P1.Y {
				x = intersectXforY(trap.Right.P1, trap.Right.P2, trap.Top)
			}
			if x > extents.P2.X {
				extents.P2.X = x
			}
		}
		if trap.Right.P2.X > extents.P2.X {
			x := trap.Right.P2.X
			if trap.Bottom != trap.Right.P2.Y {
				x = intersectXforY(trap.Right.P1, trap.Right.P2, trap.Bottom)
			}
			if x > extents.P2.X {
				extents.P2.X = x
			}
		}
	}
	return extents
}

func monoEdgeIsVertical(l Line) bool {
	return l.P1.X.IntRoundDown() == l.P2.X.IntRoundDown()
}

// IsPixelAligned is true when all trapezoids are rectangles on the pixel
// grid under the given antialias mode. Without antialiasing the sides only
// need to round down to the same pixel column.
func (t *Traps) IsPixelAligned(aa Antialias) bool {
	if aa == AntialiasNone {
		for i := range t.traps {
			if !monoEdgeIsVertical(t.traps[i].Left) || !monoEdgeIsVertical(t.traps[i].Right) {
				t.maybeRegion = false
				return false
			}
		}
		return true
	}

	for i := range t.traps {
		tr := &t.traps[i]
		if tr.Left.P1.X != tr.Left.P2.X || tr.Right.P1.X != tr.Right.P2.X ||
			!tr.Top.IsInt() || !tr.Bottom.IsInt() ||
			!tr.Left.P1.X.IsInt() || !tr.Right.P1.X.IsInt() {
			t.maybeRegion = false
			return false
		}
	}
	return true
}

// ToBoxes converts the trapezoids to a box set if all sides are vertical,
// returning false otherwise. Without antialiasing, coordinates are rounded
// half-down to the pixel grid.
func (t *Traps) ToBoxes(aa Antialias) (*Boxes, bool) {
	for i := range t.traps {
		if t.traps[i].Left.P1.X != t.traps[i].Left.P2.X ||
			t.traps[i].Right.P1.X != t.traps[i].Right.P2.X {
			return nil, false
		}
	}

	boxes := NewBoxes()
	if aa != AntialiasNone {
		for i := range t.traps {
			boxes.addInternal(Box{
				Point{t.traps[i].Left.P1.X, t.traps[i].Top},
				Point{t.traps[i].Right.P1.X, t.traps[i].Bottom},
			})
		}
	} else {
		for i := range t.traps {
			boxes.addInternal(Box{
				Point{t.traps[i].Left.P1.X.RoundDown(), t.traps[i].Top.RoundDown()},
				Point{t.traps[i].Right.P1.X.RoundDown(), t.traps[i].Bottom.RoundDown()},
			})
		}
	}
	return boxes, true
}

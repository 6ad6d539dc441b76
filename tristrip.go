package raster

const tristripEmbedded = 64

// TriStrip accumulates a triangle strip: every consecutive triple of points
// spans one triangle. Disjoint shapes are joined by doubling the connecting
// points, which yields degenerate, zero-area triangles in between.
type TriStrip struct {
	points []Point

	limits []Box
	bounds Box

	embedded [tristripEmbedded]Point
}

// NewTriStrip returns an empty triangle strip with the given limit boxes
// recorded for consumers, if any.
func NewTriStrip(limits ...Box) *TriStrip {
	s := &TriStrip{}
	s.points = s.embedded[:0]
	s.Limit(limits)
	return s
}

// TriStripFromTraps converts each trapezoid to the two triangles of its
// corner quad, jumping between trapezoids with degenerate triangles.
func TriStripFromTraps(traps *Traps) *TriStrip {
	s := NewTriStrip()
	if tristripEmbedded/4 < traps.Len() {
		s.points = make([]Point, 0, 6*traps.Len())
	}
	for _, t := range traps.Traps() {
		topLeft := Point{intersectXforY(t.Left.P1, t.Left.P2, t.Top), t.Top}
		topRight := Point{intersectXforY(t.Right.P1, t.Right.P2, t.Top), t.Top}
		botLeft := Point{intersectXforY(t.Left.P1, t.Left.P2, t.Bottom), t.Bottom}
		botRight := Point{intersectXforY(t.Right.P1, t.Right.P2, t.Bottom), t.Bottom}

		s.MoveTo(topLeft)
		s.AddPoint(topRight)
		s.AddPoint(botLeft)
		s.AddPoint(botRight)
	}
	return s
}

// Limit records the clip boxes of the strip. Points are not clipped; the
// limits are carried for the consumer compositing the strip.
func (s *TriStrip) Limit(limits []Box) {
	s.limits = limits
	if 0 < len(limits) {
		s.bounds = boxesExtents(limits)
	}
}

// Len returns the number of points in the strip.
func (s *TriStrip) Len() int {
	return len(s.points)
}

// Points returns the strip's points. The slice is owned by s and valid until
// the next AddPoint or Clear.
func (s *TriStrip) Points() []Point {
	return s.points
}

// Clear removes all points but keeps the limits.
func (s *TriStrip) Clear() {
	s.points = s.points[:0]
}

// AddPoint appends one point to the strip.
func (s *TriStrip) AddPoint(p Point) {
	s.points = append(s.points, p)
}

// MoveTo breaks the strip and continues it at p by inserting the degenerate
// triangles connecting the previous point to p.
func (s *TriStrip) MoveTo(p Point) {
	if len(s.points) == 0 {
		s.AddPoint(p)
		return
	}
	s.AddPoint(s.points[len(s.points)-1])
	s.AddPoint(p)
}

// Translate shifts all points by an integer pixel offset.
func (s *TriStrip) Translate(x, y int) {
	xoff, yoff := FromInt(x), FromInt(y)
	for i := range s.points {
		s.points[i].X += xoff
		s.points[i].Y += yoff
	}
}

// Extents returns the bounding box of all points, or the zero Box when the
// strip is empty.
func (s *TriStrip) Extents() Box {
	if len(s.points) == 0 {
		return Box{}
	}

	extents := Box{s.points[0], s.points[0]}
	for _, p := range s.points[1:] {
		extents.AddPoint(p)
	}
	return extents
}

package raster

const polygonEmbedded = 32

// Edge is one directed polygon edge. The carrying line may extend beyond the
// top/bottom range when the edge was clipped vertically.
type Edge struct {
	Line        Line
	Top, Bottom Fixed
	Dir         int
}

// Polygon accumulates the directed edges of one or more closed contours
// together with their bounding extents. An optional set of limit boxes clips
// every incoming edge, inserting vertical substitute edges along the limit
// sides so that winding counts are preserved.
type Polygon struct {
	Edges   []Edge
	extents Box

	limits []Box
	limit  Box

	embedded [polygonEmbedded]Edge
}

// NewPolygon returns an empty polygon clipped to the given limit boxes, if
// any.
func NewPolygon(limits ...Box) *Polygon {
	p := &Polygon{}
	p.Edges = p.embedded[:0]
	p.extents = emptyBox()
	p.Limit(limits)
	return p
}

// PolygonFromBoxes converts a box set to a polygon of vertical edges, two
// per box. Horizontal sides are implied by the scan converter.
func PolygonFromBoxes(boxes *Boxes) *Polygon {
	p := NewPolygon()
	if polygonEmbedded/2 < boxes.Len() {
		p.Edges = make([]Edge, 0, 2*boxes.Len())
	}
	boxes.ForEach(func(box Box) bool {
		p.addBoxEdges(box)
		return true
	})
	return p
}

// PolygonFromBoxArray is like PolygonFromBoxes for a plain slice.
func PolygonFromBoxArray(boxes []Box) *Polygon {
	p := NewPolygon()
	if polygonEmbedded/2 < len(boxes) {
		p.Edges = make([]Edge, 0, 2*len(boxes))
	}
	for _, box := range boxes {
		p.addBoxEdges(box)
	}
	return p
}

func (p *Polygon) addBoxEdges(box Box) {
	p.AddLine(box.P1, Point{box.P1.X, box.P2.Y}, 1)
	p.AddLine(box.P2, Point{box.P2.X, box.P1.Y}, 1)
}

// Limit sets the clip boxes applied by AddLine and records their bounding
// box for trivial rejection.
func (p *Polygon) Limit(limits []Box) {
	p.limits = limits
	if 0 < len(limits) {
		p.limit = boxesExtents(limits)
	}
}

// Extents returns the bounding box of all added edges, or the zero Box when
// no edge has been added.
func (p *Polygon) Extents() Box {
	if len(p.Edges) == 0 {
		return Box{}
	}
	return p.extents
}

func (p *Polygon) addEdge(p1, p2 Point, top, bottom Fixed, dir int) {
	p.Edges = append(p.Edges, Edge{
		Line:   Line{p1, p2},
		Top:    top,
		Bottom: bottom,
		Dir:    dir,
	})

	if top < p.extents.P1.Y {
		p.extents.P1.Y = top
	}
	if bottom > p.extents.P2.Y {
		p.extents.P2.Y = bottom
	}

	// the line may overshoot the clipped range; track the extreme x at the
	// clipped top and bottom rather than at the endpoints
	if p1.X < p.extents.P1.X || p1.X > p.extents.P2.X {
		x := p1.X
		if top != p1.Y {
			x = intersectXforY(p1, p2, top)
		}
		if x < p.extents.P1.X {
			p.extents.P1.X = x
		}
		if x > p.extents.P2.X {
			p.extents.P2.X = x
		}
	}
	if p2.X < p.extents.P1.X || p2.X > p.extents.P2.X {
		x := p2.X
		if bottom != p2.Y {
			x = intersectXforY(p1, p2, bottom)
		}
		if x < p.extents.P1.X {
			p.extents.P1.X = x
		}
		if x > p.extents.P2.X {
			p.extents.P2.X = x
		}
	}
}

func (p *Polygon) addClippedEdge(p1, p2 Point, top, bottom Fixed, dir int) {
	for _, limit := range p.limits {
		if top >= limit.P2.Y || bottom <= limit.P1.Y {
			continue
		}

		botLeft := Point{limit.P1.X, limit.P2.Y}
		topRight := Point{limit.P2.X, limit.P1.Y}

		topY := max(top, limit.P1.Y)
		botY := min(bottom, limit.P2.Y)

		pleft := min(p1.X, p2.X)
		pright := max(p1.X, p2.X)

		if limit.P1.X <= pleft && pright <= limit.P2.X {
			// contained horizontally, only clip vertically
			p.addEdge(p1, p2, topY, botY, dir)
		} else if pright <= limit.P1.X {
			// fully to the left, substitute the limit's left side
			p.addEdge(limit.P1, botLeft, topY, botY, dir)
		} else if limit.P2.X <= pleft {
			// fully to the right, substitute the limit's right side
			p.addEdge(topRight, limit.P2, topY, botY, dir)
		} else {
			// The edge crosses a vertical side of the limit box. Find the y
			// at which it crosses each side; the part outside is replaced by
			// a vertical edge on that side so the winding count at every
			// point inside the limit is unchanged.
			topLeftToBottomRight := (p1.X <= p2.X) == (p1.Y <= p2.Y)
			if topLeftToBottomRight {
				leftY := topY
				if pleft < limit.P1.X {
					leftY = intersectYforX(p1, p2, limit.P1.X)
					if intersectXforY(p1, p2, leftY) < limit.P1.X {
						leftY++
					}
				}
				leftY = min(leftY, botY)
				if topY < leftY {
					p.addEdge(limit.P1, botLeft, topY, leftY, dir)
					topY = leftY
				}

				rightY := botY
				if limit.P2.X < pright {
					rightY = intersectYforX(p1, p2, limit.P2.X)
					if intersectXforY(p1, p2, rightY) > limit.P2.X {
						rightY--
					}
				}
				rightY = max(rightY, topY)
				if rightY < botY {
					p.addEdge(topRight, limit.P2, rightY, botY, dir)
					botY = rightY
				}
			} else {
				rightY := topY
				if limit.P2.X < pright {
					rightY = intersectYforX(p1, p2, limit.P2.X)
					if intersectXforY(p1, p2, rightY) > limit.P2.X {
						rightY++
					}
				}
				rightY = min(rightY, botY)
				if topY < rightY {
					p.addEdge(topRight, limit.P2, topY, rightY, dir)
					topY = rightY
				}

				leftY := botY
				if pleft < limit.P1.X {
					leftY = intersectYforX(p1, p2, limit.P1.X)
					if intersectXforY(p1, p2, leftY) < limit.P1.X {
						leftY--
					}
				}
				leftY = max(leftY, topY)
				if leftY < botY {
					p.addEdge(limit.P1, botLeft, leftY, botY, dir)
					botY = leftY
				}
			}

			if topY < botY {
				p.addEdge(p1, p2, topY, botY, dir)
			}
		}
	}
}

// AddLine appends the edge from p1 to p2 with winding direction dir,
// clipping it to the limit boxes when set. Horizontal edges and edges with
// coincident endpoints are dropped; p1 above p2 flips the direction.
func (p *Polygon) AddLine(p1, p2 Point, dir int) {
	if p1.Y == p2.Y {
		return
	}

	if p2.Y < p1.Y {
		p1, p2 = p2, p1
		dir = -dir
	}

	if len(p.limits) == 0 {
		p.addEdge(p1, p2, p1.Y, p2.Y, dir)
		return
	}

	if p2.Y <= p.limit.P1.Y || p1.Y >= p.limit.P2.Y {
		return
	}
	p.addClippedEdge(p1, p2, p1.Y, p2.Y, dir)
}

// AddPoints appends the closed contour through pts with winding direction
// following the point order.
func (p *Polygon) AddPoints(pts []Point) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		p.AddLine(pts[i-1], pts[i], 1)
	}
	p.AddLine(pts[len(pts)-1], pts[0], 1)
}

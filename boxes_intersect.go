package raster

import "math"

// The pairwise box intersection is a Bentley-Ottmann style sweep over the
// vertical extents of the rectangles of both input sets. Each rectangle
// contributes a left edge (direction +1) and a right edge (direction -1),
// tagged with its source set. The sweep keeps an x-sorted active edge list
// between two sentinels and a min-heap of pending bottom-edge stop events.
// A horizontal span is inside the intersection exactly when the winding
// counts of both source sets are simultaneously non-zero.

type sweepEdge struct {
	next, prev *sweepEdge

	// right points at the closing edge of an in-progress output box, nil
	// while no box is open at this edge.
	right *sweepEdge

	x, top Fixed
	aOrB   int
	dir    int
}

type sweepRect struct {
	left, right sweepEdge
	top, bottom Fixed
}

const pqueueEmbedded = 1024

// pqueue is a binary min-heap of rectangles keyed on bottom y. The first
// entry is kept at index 1 so that parent/child relations are pure shifts.
// The embedded array avoids allocation until more than about a thousand
// rectangles overlap vertically.
type pqueue struct {
	elements []*sweepRect
	embedded [pqueueEmbedded]*sweepRect
}

func (pq *pqueue) init() {
	pq.elements = pq.embedded[:1:pqueueEmbedded]
	pq.elements[0] = nil
}

func (pq *pqueue) push(r *sweepRect) {
	pq.elements = append(pq.elements, nil)
	i := len(pq.elements) - 1
	for i != 1 {
		parent := i >> 1
		if pq.elements[parent].bottom <= r.bottom {
			break
		}
		pq.elements[i] = pq.elements[parent]
		i = parent
	}
	pq.elements[i] = r
}

func (pq *pqueue) pop() {
	n := len(pq.elements) - 1
	tail := pq.elements[n]
	pq.elements = pq.elements[:n]
	if n == 1 {
		return
	}

	i := 1
	for {
		child := i << 1
		if child >= n {
			break
		}
		if child+1 < n && pq.elements[child+1].bottom < pq.elements[child].bottom {
			child++
		}
		if tail.bottom <= pq.elements[child].bottom {
			break
		}
		pq.elements[i] = pq.elements[child]
		i = child
	}
	pq.elements[i] = tail
}

// peek returns the rectangle with the smallest bottom y, or nil.
func (pq *pqueue) peek() *sweepRect {
	if len(pq.elements) < 2 {
		return nil
	}
	return pq.elements[1]
}

type sweepLine struct {
	rects []*sweepRect
	pq    pqueue

	head, tail              sweepEdge
	insertLeft, insertRight *sweepEdge
	currentY, lastY         Fixed
}

func (s *sweepLine) init(rects []*sweepRect) {
	combSort(rects, func(a, b *sweepRect) bool {
		return a.top < b.top
	})
	s.rects = rects

	s.head.x = math.MinInt32
	s.head.next = &s.tail
	s.tail.x = math.MaxInt32
	s.tail.prev = &s.head

	s.insertLeft = &s.tail
	s.insertRight = &s.tail

	s.currentY = math.MinInt32
	s.lastY = math.MinInt32

	s.pq.init()
}

// endBox closes the output box opened at left, emitting it when it has
// positive height.
func (s *sweepLine) endBox(left *sweepEdge, bottom Fixed, out *Boxes) {
	if left.top < bottom {
		out.Add(AntialiasDefault, Box{
			Point{left.x, left.top},
			Point{left.right.x, bottom},
		})
	}
	left.right = nil
}

// startOrContinueBox opens a box between left and right at top. If left
// already carries a box it is either continued (same right x), handed over to
// the new right edge, or closed first.
func (s *sweepLine) startOrContinueBox(left, right *sweepEdge, top Fixed, out *Boxes) {
	if left.right == right {
		return
	}

	if left.right != nil {
		if right != nil && left.right.x == right.x {
			// continuation on the right, so just swap the edges
			left.right = right
			return
		}
		s.endBox(left, top, out)
	}

	if right != nil && left.x != right.x {
		left.top = top
		left.right = right
	}
}

// activeEdges walks the active list once and emits or extends the spans
// where both source sets wind non-zero.
func (s *sweepLine) activeEdges(out *Boxes) {
	if s.lastY == s.currentY {
		return
	}
	top := s.currentY

	pos := s.head.next
	if pos == &s.tail {
		return
	}

	var winding [2]int
	isZero := func() bool {
		return winding[0] == 0 || winding[1] == 0
	}

loop:
	for pos != &s.tail {
		left := pos
		for {
			winding[left.aOrB] += left.dir
			if !isZero() {
				break
			}
			if left.next == &s.tail {
				break loop
			}
			if left.right != nil {
				s.endBox(left, top, out)
			}
			left = left.next
		}

		right := left.next
		for {
			if right.right != nil {
				s.endBox(right, top, out)
			}
			winding[right.aOrB] += right.dir
			if isZero() {
				// skip co-linear edges
				if right.x != right.next.x {
					break
				}
			}
			right = right.next
		}

		s.startOrContinueBox(left, right, top, out)
		pos = right.next
	}

	s.lastY = s.currentY
}

func (s *sweepLine) deleteEdge(edge *sweepEdge, out *Boxes) {
	if edge.right != nil {
		next := edge.next
		if next.x == edge.x {
			next.top = edge.top
			next.right = edge.right
		} else {
			s.endBox(edge, s.currentY, out)
		}
	}

	if s.insertLeft == edge {
		s.insertLeft = edge.next
	}
	if s.insertRight == edge {
		s.insertRight = edge.next
	}

	edge.prev.next = edge.next
	edge.next.prev = edge.prev
}

func (s *sweepLine) delete(r *sweepRect, out *Boxes) {
	s.deleteEdge(&r.left, out)
	s.deleteEdge(&r.right, out)
	s.pq.pop()
}

// insertEdge links edge into the active list at its x position, walking
// linearly from pos. The walk is effectively O(1) amortized as the cached
// insertion points track the nearly-sorted input.
func insertEdge(edge, pos *sweepEdge) {
	if pos.x != edge.x {
		if pos.x > edge.x {
			for pos.prev.x > edge.x {
				pos = pos.prev
			}
		} else {
			for {
				pos = pos.next
				if pos.x >= edge.x {
					break
				}
			}
		}
	}

	pos.prev.next = edge
	edge.prev = pos.prev
	edge.next = pos
	pos.prev = edge
}

func (s *sweepLine) insert(r *sweepRect) {
	pos := s.insertRight
	insertEdge(&r.right, pos)
	s.insertRight = &r.right

	pos = s.insertLeft
	if pos.x > s.insertRight.x {
		pos = s.insertRight.prev
	}
	insertEdge(&r.left, pos)
	s.insertLeft = &r.left

	s.pq.push(r)
}

func intersectSweep(rects []*sweepRect, out *Boxes) {
	var sweep sweepLine
	sweep.init(rects)

	for _, r := range sweep.rects {
		if r.top != sweep.currentY {
			for {
				stop := sweep.pq.peek()
				if stop == nil || stop.bottom >= r.top {
					break
				}
				if stop.bottom != sweep.currentY {
					sweep.activeEdges(out)
					sweep.currentY = stop.bottom
				}
				sweep.delete(stop, out)
			}

			sweep.activeEdges(out)
			sweep.currentY = r.top
		}

		sweep.insert(r)
	}

	for {
		stop := sweep.pq.peek()
		if stop == nil {
			break
		}
		if stop.bottom != sweep.currentY {
			sweep.activeEdges(out)
			sweep.currentY = stop.bottom
		}
		sweep.delete(stop, out)
	}
}

// intersectWithBox intersects boxes with a single box, either rewriting the
// set in place or clipping into out. This duplicates the Add clipping on
// purpose; both paths must stay bit-identical (see TestIntersectFastPath).
func intersectWithBox(boxes *Boxes, box Box, out *Boxes) {
	if out == boxes {
		out.num = 0
		out.pixelAligned = true
		for chunk := &out.chunks; chunk != nil; chunk = chunk.next {
			j := 0
			for i := 0; i < chunk.count; i++ {
				if clipped, ok := chunk.base[i].Intersect(box); ok {
					chunk.base[j] = clipped
					if out.pixelAligned {
						out.pixelAligned = clipped.IsPixelAligned()
					}
					j++
				}
			}
			chunk.count = j
			out.num += j
		}
		return
	}

	out.Clear()
	savedLimits, savedLimit := out.limits, out.limit
	out.Limit([]Box{box})
	boxes.ForEach(func(b Box) bool {
		out.Add(AntialiasDefault, b)
		return true
	})
	out.limits, out.limit = savedLimits, savedLimit
}

// Intersect computes the intersection of the areas covered by a and b and
// stores the resulting boxes in out, which is cleared first. Either input
// may alias out. Single-box inputs bypass the sweep with a direct clip.
func Intersect(a, b, out *Boxes) {
	if a.num == 0 || b.num == 0 {
		out.Clear()
		return
	}

	if a.num == 1 {
		logger().Debug("boxes intersect single-box fast path", "boxes", b.num)
		intersectWithBox(b, a.chunks.base[0], out)
		return
	}
	if b.num == 1 {
		logger().Debug("boxes intersect single-box fast path", "boxes", a.num)
		intersectWithBox(a, b.chunks.base[0], out)
		return
	}

	rects := make([]sweepRect, a.num+b.num)
	ptrs := make([]*sweepRect, len(rects))
	j := 0
	fill := func(boxes *Boxes, aOrB int) {
		boxes.ForEach(func(box Box) bool {
			r := &rects[j]
			if box.P1.X < box.P2.X {
				r.left.x = box.P1.X
				r.left.dir = 1
				r.right.x = box.P2.X
				r.right.dir = -1
			} else {
				// reversed winding, normalize and flip the directions
				r.right.x = box.P1.X
				r.right.dir = 1
				r.left.x = box.P2.X
				r.left.dir = -1
			}
			r.left.aOrB = aOrB
			r.right.aOrB = aOrB
			r.top = box.P1.Y
			r.bottom = box.P2.Y
			ptrs[j] = r
			j++
			return true
		})
	}
	fill(a, 0)
	fill(b, 1)

	out.Clear()
	intersectSweep(ptrs, out)
}

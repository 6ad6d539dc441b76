package raster

import (
	"fmt"
	"strings"
)

// FillRule selects how the winding number of a point decides whether it is
// inside the polygon.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Antialias selects whether geometry is snapped to pixel boundaries or left
// at subpixel precision for coverage computation.
type Antialias int

const (
	AntialiasDefault Antialias = iota
	AntialiasNone
)

const boxesEmbedded = 32

type boxesChunk struct {
	next  *boxesChunk
	base  []Box
	count int
}

// Boxes accumulates axis-aligned boxes in a chain of growable chunks; the
// first chunk is embedded so that small sets never allocate. An optional set
// of limit boxes clips every incoming box on Add. The limits slice is
// borrowed from the caller and must outlive the accumulator.
type Boxes struct {
	chunks boxesChunk
	tail   *boxesChunk
	num    int

	limits []Box
	limit  Box

	pixelAligned bool

	embedded [boxesEmbedded]Box
}

// NewBoxes returns an empty accumulator clipped to the given limit boxes, if
// any.
func NewBoxes(limits ...Box) *Boxes {
	b := &Boxes{}
	b.init()
	b.Limit(limits)
	return b
}

// NewBoxesFromRect returns an accumulator holding the single pixel-aligned
// box (x,y)-(x+w,y+h).
func NewBoxesFromRect(x, y, w, h int) *Boxes {
	b := &Boxes{}
	b.init()
	b.chunks.base[0] = BoxFromInts(x, y, w, h)
	b.chunks.count = 1
	b.num = 1
	return b
}

func (b *Boxes) init() {
	b.tail = &b.chunks
	b.chunks.next = nil
	b.chunks.base = b.embedded[:]
	b.chunks.count = 0
	b.num = 0
	b.pixelAligned = true
}

// Limit sets the clip boxes applied by Add and records their bounding box
// for trivial rejection. A nil or empty slice removes the limits.
func (b *Boxes) Limit(limits []Box) {
	b.limits = limits
	if 0 < len(limits) {
		b.limit = boxesExtents(limits)
	}
}

// Len returns the number of accumulated boxes.
func (b *Boxes) Len() int {
	return b.num
}

// IsPixelAligned is true while every accumulated box has integer corners.
func (b *Boxes) IsPixelAligned() bool {
	return b.pixelAligned
}

func (b *Boxes) addInternal(box Box) {
	chunk := b.tail
	if chunk.count == len(chunk.base) {
		next := &boxesChunk{base: make([]Box, 2*len(chunk.base))}
		chunk.next = next
		b.tail = next
		chunk = next
	}

	chunk.base[chunk.count] = box
	chunk.count++
	b.num++

	if b.pixelAligned {
		b.pixelAligned = box.IsPixelAligned()
	}
}

// Add appends a box. With AntialiasNone all corners are first snapped to the
// pixel grid rounding half down. Degenerate boxes are dropped. When limit
// boxes are set the box is clipped against each limit in turn, appending
// zero or more sub-boxes and preserving a reversed (counter-clockwise)
// winding through the clip.
func (b *Boxes) Add(aa Antialias, box Box) {
	if aa == AntialiasNone {
		box.P1.X = box.P1.X.RoundDown()
		box.P1.Y = box.P1.Y.RoundDown()
		box.P2.X = box.P2.X.RoundDown()
		box.P2.Y = box.P2.Y.RoundDown()
	}

	if box.P1.Y == box.P2.Y || box.P1.X == box.P2.X {
		return
	}

	if len(b.limits) == 0 {
		b.addInternal(box)
		return
	}

	// support counter-clockwise winding for rectangular tessellation
	var p1, p2 Point
	reversed := false
	if box.P1.X < box.P2.X {
		p1.X, p2.X = box.P1.X, box.P2.X
	} else {
		p1.X, p2.X = box.P2.X, box.P1.X
		reversed = !reversed
	}
	if p1.X >= b.limit.P2.X || p2.X <= b.limit.P1.X {
		return
	}

	if box.P1.Y < box.P2.Y {
		p1.Y, p2.Y = box.P1.Y, box.P2.Y
	} else {
		p1.Y, p2.Y = box.P2.Y, box.P1.Y
		reversed = !reversed
	}
	if p1.Y >= b.limit.P2.Y || p2.Y <= b.limit.P1.Y {
		return
	}

	for _, limit := range b.limits {
		if p1.X >= limit.P2.X || p2.X <= limit.P1.X {
			continue
		}
		if p1.Y >= limit.P2.Y || p2.Y <= limit.P1.Y {
			continue
		}

		q1, q2 := p1, p2
		if q1.X < limit.P1.X {
			q1.X = limit.P1.X
		}
		if q1.Y < limit.P1.Y {
			q1.Y = limit.P1.Y
		}
		if q2.X > limit.P2.X {
			q2.X = limit.P2.X
		}
		if q2.Y > limit.P2.Y {
			q2.Y = limit.P2.Y
		}
		if q2.Y <= q1.Y || q2.X <= q1.X {
			continue
		}

		clipped := Box{Point{q1.X, q1.Y}, Point{q2.X, q2.Y}}
		if reversed {
			clipped.P1.X, clipped.P2.X = q2.X, q1.X
		}
		b.addInternal(clipped)
	}
}

// AddBoxes appends every box of c, applying the same snapping and clipping
// as Add.
func (b *Boxes) AddBoxes(aa Antialias, c *Boxes) {
	c.ForEach(func(box Box) bool {
		b.Add(aa, box)
		return true
	})
}

// Extents returns the bounding box of the accumulated boxes, or the zero Box
// when empty.
func (b *Boxes) Extents() Box {
	if b.num == 0 {
		return Box{}
	}

	extents := b.chunks.base[0]
	for chunk := &b.chunks; chunk != nil; chunk = chunk.next {
		for _, box := range chunk.base[:chunk.count] {
			extents.AddBox(box)
		}
	}
	return extents
}

// Clear removes all boxes, releasing overflow chunks but keeping the limits.
func (b *Boxes) Clear() {
	b.tail = &b.chunks
	b.chunks.next = nil
	b.chunks.count = 0
	b.num = 0
	b.pixelAligned = true
}

// ToArray flattens the chunk chain into a single contiguous slice.
func (b *Boxes) ToArray() []Box {
	boxes := make([]Box, 0, b.num)
	for chunk := &b.chunks; chunk != nil; chunk = chunk.next {
		boxes = append(boxes, chunk.base[:chunk.count]...)
	}
	return boxes
}

// ForEach calls f for every box in insertion order until f returns false.
// It reports whether the iteration ran to completion.
func (b *Boxes) ForEach(f func(Box) bool) bool {
	for chunk := &b.chunks; chunk != nil; chunk = chunk.next {
		for i := 0; i < chunk.count; i++ {
			if !f(chunk.base[i]) {
				return false
			}
		}
	}
	return true
}

func (b *Boxes) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "boxes x %d: %v", b.num, b.Extents())
	b.ForEach(func(box Box) bool {
		fmt.Fprintf(&sb, "\n  %v", box)
		return true
	})
	return sb.String()
}

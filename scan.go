package raster

import "math"

const (
	scanBucketsEmbedded = 64
	scanEdgesEmbedded   = 32
	scanSpansEmbedded   = 64
)

// Span is the start of a half-open horizontal coverage run. A row is
// reported as an ordered span list where each span covers [spans[i].X,
// spans[i+1].X) with coverage spans[i].Coverage; the final span carries
// coverage zero and only terminates its predecessor.
type Span struct {
	X        int
	Coverage uint8
}

// SpanFunc receives the spans of height consecutive identical rows starting
// at row y. The spans slice is reused between calls.
type SpanFunc func(y, height int, spans []Span)

type quorem struct {
	quo, rem int32
}

// flooredDivRem computes the floored division a/b and its remainder, with
// the remainder taking the sign of b.
func flooredDivRem(a, b int32) quorem {
	qr := quorem{a / b, a % b}
	if (a^b) < 0 && qr.rem != 0 {
		qr.quo--
		qr.rem += b
	}
	return qr
}

// flooredMulDivRem computes the floored division (x*a)/b using a 64-bit
// intermediate product.
func flooredMulDivRem(x, a, b int32) quorem {
	xa := int64(x) * int64(a)
	qr := quorem{int32(xa / int64(b)), int32(xa % int64(b))}
	if (0 <= xa) != (0 <= b) && qr.rem != 0 {
		qr.quo--
		qr.rem += b
	}
	return qr
}

type scanEdge struct {
	next, prev *scanEdge

	heightLeft int32
	dir        int32
	vertical   bool

	dy   int32
	x    quorem
	dxdy quorem
}

// scanPolygon holds the vertically clipped edges of the polygon, bucketed by
// the scanline on which they become active. Edges move from a bucket to the
// converter's active list while scanning.
type scanPolygon struct {
	ymin, ymax int

	edges    []scanEdge
	yBuckets []*scanEdge

	bucketsEmbedded [scanBucketsEmbedded]*scanEdge
	edgesEmbedded   [scanEdgesEmbedded]scanEdge
}

func (p *scanPolygon) init(ymin, ymax, numEdges int) {
	h := ymax - ymin + 1
	if h <= len(p.bucketsEmbedded) {
		p.yBuckets = p.bucketsEmbedded[:h]
	} else {
		p.yBuckets = make([]*scanEdge, h)
	}

	// edge pointers are linked into buckets, the backing array must not move
	if numEdges <= len(p.edgesEmbedded) {
		p.edges = p.edgesEmbedded[:0]
	} else {
		p.edges = make([]scanEdge, 0, numEdges)
	}

	p.ymin = ymin
	p.ymax = ymax
}

func (p *scanPolygon) insertIntoBucket(e *scanEdge, y int) {
	bucket := &p.yBuckets[y-p.ymin]
	if *bucket != nil {
		(*bucket).prev = e
	}
	e.next = *bucket
	e.prev = nil
	*bucket = e
}

func (p *scanPolygon) addEdge(edge Edge) {
	ytop := max(edge.Top.IntRoundDown(), p.ymin)
	ybot := min(edge.Bottom.IntRoundDown(), p.ymax)
	if ybot <= ytop {
		return
	}

	p.edges = append(p.edges, scanEdge{})
	e := &p.edges[len(p.edges)-1]
	e.heightLeft = int32(ybot - ytop)
	e.dir = int32(edge.Dir)

	dx := int32(edge.Line.P2.X - edge.Line.P1.X)
	dy := int32(edge.Line.P2.Y - edge.Line.P1.Y)

	if dx == 0 {
		e.vertical = true
		e.x.quo = int32(edge.Line.P1.X)
	} else {
		e.dxdy = flooredMulDivRem(dx, int32(FixedOne), dy)
		e.dy = dy

		e.x = flooredMulDivRem(int32(ytop)*int32(FixedOne)+int32(fracMask)/2-int32(edge.Line.P1.Y), dx, dy)
		e.x.quo += int32(edge.Line.P1.X)
	}
	e.x.rem -= dy

	p.insertIntoBucket(e, ytop)
}

// mergeSortedEdges merges two non-empty lists of edges sorted by x into one,
// preferring the a-list on ties so the merge is stable.
func mergeSortedEdges(headA, headB *scanEdge) *scanEdge {
	var head *scanEdge
	prev := headA.prev
	next := &head
	startWithB := headB.x.quo < headA.x.quo
	if !startWithB {
		head = headA
	} else {
		head = headB
		headB.prev = prev
	}

	for {
		if !startWithB {
			x := headB.x.quo
			for headA != nil && headA.x.quo <= x {
				prev = headA
				next = &headA.next
				headA = headA.next
			}

			headB.prev = prev
			*next = headB
			if headA == nil {
				return head
			}
		}
		startWithB = false

		x := headA.x.quo
		for headB != nil && headB.x.quo <= x {
			prev = headB
			next = &headB.next
			headB = headB.next
		}

		headA.prev = prev
		*next = headA
		if headB == nil {
			return head
		}
	}
}

// sortEdges merge-sorts a list of edges by x, processing 2^level edges and
// returning the rest. A level of maxInt sorts the whole list.
func sortEdges(list *scanEdge, level uint, headOut **scanEdge) *scanEdge {
	headOther := list.next
	if headOther == nil {
		*headOut = list
		return nil
	}

	remaining := headOther.next
	if list.x.quo <= headOther.x.quo {
		*headOut = list
		headOther.next = nil
	} else {
		*headOut = headOther
		headOther.prev = list.prev
		headOther.next = list
		list.prev = headOther
		list.next = nil
	}

	for i := uint(0); i < level && remaining != nil; i++ {
		remaining = sortEdges(remaining, i, &headOther)
		*headOut = mergeSortedEdges(*headOut, headOther)
	}

	return remaining
}

func mergeUnsortedEdges(head, unsorted *scanEdge) *scanEdge {
	sortEdges(unsorted, math.MaxUint32, &unsorted)
	return mergeSortedEdges(head, unsorted)
}

// MonoScanConverter converts a polygon to non-antialiased coverage spans by
// stepping edges one scanline at a time with a DDA. Pixels whose center is
// inside the polygon according to the fill rule are covered fully, all other
// pixels not at all.
type MonoScanConverter struct {
	polygon scanPolygon

	// head and tail delimit the active list, sorted by x.
	head, tail scanEdge
	isVertical bool

	spans    []Span
	numSpans int

	xmin, xmax int
	ymin, ymax int

	mask uint32

	spansEmbedded [scanSpansEmbedded]Span
}

// NewMonoScanConverter returns a converter for the clip box
// [xmin,xmax)x[ymin,ymax) in integer pixel coordinates.
func NewMonoScanConverter(xmin, ymin, xmax, ymax int, fillRule FillRule) *MonoScanConverter {
	c := &MonoScanConverter{}

	maxNumSpans := xmax - xmin + 1
	if maxNumSpans <= len(c.spansEmbedded) {
		c.spans = c.spansEmbedded[:]
	} else {
		c.spans = make([]Span, maxNumSpans)
	}

	c.xmin, c.xmax = xmin, xmax
	c.ymin, c.ymax = ymin, ymax

	c.head.vertical = true
	c.head.heightLeft = math.MaxInt32
	c.head.x.quo = math.MinInt32
	c.head.next = &c.tail
	c.tail.prev = &c.head
	// a whole-pixel sentinel so that rounding it cannot overflow
	c.tail.x.quo = math.MaxInt32 >> FracBits << FracBits
	c.tail.heightLeft = math.MaxInt32
	c.tail.vertical = true

	c.isVertical = true

	c.mask = 1
	if fillRule == NonZero {
		c.mask = ^uint32(0)
	}
	return c
}

// AddPolygon adds all edges of polygon, clipped to the converter's vertical
// range. It must be called exactly once, before Generate.
func (c *MonoScanConverter) AddPolygon(polygon *Polygon) {
	c.polygon.init(c.ymin, c.ymax, len(polygon.Edges))
	for i := range polygon.Edges {
		c.polygon.addEdge(polygon.Edges[i])
	}
}

func (c *MonoScanConverter) mergeEdges(edges *scanEdge) {
	for e := edges; c.isVertical && e != nil; e = e.next {
		c.isVertical = e.vertical
	}
	c.head.next = mergeUnsortedEdges(c.head.next, edges)
}

func (c *MonoScanConverter) addSpan(x1, x2 int) {
	if x1 < c.xmin {
		x1 = c.xmin
	}
	if x2 > c.xmax {
		x2 = c.xmax
	}
	if x2 <= x1 {
		return
	}

	c.spans[c.numSpans] = Span{x1, 255}
	c.spans[c.numSpans+1] = Span{x2, 0}
	c.numSpans += 2
}

// row walks the active list once, stepping every edge one scanline and
// emitting the spans where the winding count matches the fill rule mask.
// Edges that advance past their neighbor are re-sorted in place.
func (c *MonoScanConverter) row() {
	edge := c.head.next
	xstart, prevX := math.MinInt32, int32(math.MinInt32)
	winding := int32(0)

	c.numSpans = 0
	for edge != &c.tail {
		next := edge.next
		xend := Fixed(edge.x.quo).IntRoundDown()

		edge.heightLeft--
		if edge.heightLeft != 0 {
			if !edge.vertical {
				edge.x.quo += edge.dxdy.quo
				edge.x.rem += edge.dxdy.rem
				if 0 <= edge.x.rem {
					edge.x.quo++
					edge.x.rem -= edge.dy
				}
			}

			if edge.x.quo < prevX {
				pos := edge.prev
				pos.next = next
				next.prev = pos
				for {
					pos = pos.prev
					if pos.x.quo <= edge.x.quo {
						break
					}
				}
				pos.next.prev = edge
				edge.next = pos.next
				edge.prev = pos
				pos.next = edge
			} else {
				prevX = edge.x.quo
			}
		} else {
			edge.prev.next = next
			next.prev = edge.prev
		}

		winding += edge.dir
		if uint32(winding)&c.mask == 0 {
			if xend+1 < Fixed(next.x.quo).IntRoundDown() {
				c.addSpan(xstart, xend)
				xstart = math.MinInt32
			}
		} else if xstart == math.MinInt32 {
			xstart = xend
		}

		edge = next
	}
}

func (c *MonoScanConverter) stepEdges(count int32) {
	for edge := c.head.next; edge != &c.tail; edge = edge.next {
		edge.heightLeft -= count
		if edge.heightLeft == 0 {
			edge.prev.next = edge.next
			edge.next.prev = edge.prev
		}
	}
}

// Generate scans all rows and reports the resulting spans to fn. Runs of
// identical rows produced by purely vertical edges are reported once with
// the appropriate height.
func (c *MonoScanConverter) Generate(fn SpanFunc) {
	h := c.ymax - c.ymin
	for i, j := 0, 0; i < h; i = j {
		j = i + 1

		if c.polygon.yBuckets[i] != nil {
			c.mergeEdges(c.polygon.yBuckets[i])
		}

		if c.isVertical {
			minHeight := c.head.next.heightLeft
			for e := c.head.next; e != &c.tail; e = e.next {
				if e.heightLeft < minHeight {
					minHeight = e.heightLeft
				}
			}

			for minHeight--; 1 <= minHeight && j < h && c.polygon.yBuckets[j] == nil; minHeight-- {
				j++
			}
			if j != i+1 {
				c.stepEdges(int32(j - (i + 1)))
			}
		}

		c.row()
		if 0 < c.numSpans {
			fn(c.ymin+i, j-i, c.spans[:c.numSpans])
		}

		if c.head.next == &c.tail {
			c.isVertical = true
		}
	}
}

// RasterizeToBoxes scan converts polygon without antialiasing and adds one
// pixel-aligned box per covered span to boxes.
func RasterizeToBoxes(polygon *Polygon, fillRule FillRule, boxes *Boxes) {
	r := polygon.Extents().RoundOut()
	c := NewMonoScanConverter(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, fillRule)
	c.AddPolygon(polygon)
	c.Generate(func(y, h int, spans []Span) {
		box := Box{P1: Point{Y: FromInt(y)}, P2: Point{Y: FromInt(y + h)}}
		for len(spans) > 1 {
			if spans[0].Coverage != 0 {
				box.P1.X = FromInt(spans[0].X)
				box.P2.X = FromInt(spans[1].X)
				boxes.Add(AntialiasDefault, box)
			}
			spans = spans[1:]
		}
	})
}

// RasterizeToTraps scan converts polygon without antialiasing and adds one
// pixel-aligned trapezoid per covered span to traps.
func RasterizeToTraps(polygon *Polygon, fillRule FillRule, traps *Traps) {
	r := polygon.Extents().RoundOut()
	c := NewMonoScanConverter(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, fillRule)
	c.AddPolygon(polygon)
	c.Generate(func(y, h int, spans []Span) {
		top, bot := FromInt(y), FromInt(y+h)
		for len(spans) > 1 {
			if spans[0].Coverage != 0 {
				x0, x1 := FromInt(spans[0].X), FromInt(spans[1].X)
				left := Line{Point{x0, top}, Point{x0, bot}}
				right := Line{Point{x1, top}, Point{x1, bot}}
				traps.AddTrap(top, bot, left, right)
			}
			spans = spans[1:]
		}
	})
}

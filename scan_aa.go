package raster

import "math"

// The antialiased scan converter samples each pixel row on a subsample grid
// of 256 x-positions by 15 y-rows and accumulates exact edge coverage into a
// sparse cell list per pixel row. Rows without edge events are rendered
// analytically in one step instead of 15 subsample passes.

const (
	gridX = int32(FixedOne)
	gridY = 15

	// a full cell's area, 2*gridX*gridY, the unit mapped to alpha 255
	gridXY = 2 * gridX * gridY
)

// gridAreaToAlpha maps an accumulated area in [0,gridXY] to [0,255];
// c*(1+1/16)/2^9 approximates c*255/7680 exactly enough to hit both ends.
func gridAreaToAlpha(c int32) uint8 {
	return uint8((c + c<<4 + 256) >> 9)
}

func gridAreaToA1(c int32) uint8 {
	if 127 < gridAreaToAlpha(c) {
		return 255
	}
	return 0
}

type aaQuorem struct {
	quo int32
	rem int64
}

type aaEdge struct {
	next, prev *aaEdge

	// ytop is the clipped top in subsample rows, heightLeft the number of
	// subsample rows remaining.
	ytop       int32
	heightLeft int32

	dir  int32
	cell int32

	// x is the current subsample x-intercept; the remainder is mod dy.
	x        aaQuorem
	dxdy     aaQuorem
	dxdyFull aaQuorem
	dy       int64
}

func (e *aaEdge) step() {
	if e.dy == 0 {
		return
	}
	e.x.quo += e.dxdy.quo
	e.x.rem += e.dxdy.rem
	if e.x.rem < 0 {
		e.x.quo--
		e.x.rem += e.dy
	} else if e.x.rem >= e.dy {
		e.x.quo++
		e.x.rem -= e.dy
	}
	e.cell = e.x.quo
	if e.x.rem >= e.dy/2 {
		e.cell++
	}
}

func (e *aaEdge) fullStep() {
	if e.dy == 0 {
		return
	}
	e.x.quo += e.dxdyFull.quo
	e.x.rem += e.dxdyFull.rem
	if e.x.rem < 0 {
		e.x.quo--
		e.x.rem += e.dy
	} else if e.x.rem >= e.dy {
		e.x.quo++
		e.x.rem -= e.dy
	}
	e.cell = e.x.quo
	if e.x.rem >= e.dy/2 {
		e.cell++
	}
}

// aaCell records the effect of edges crossing one pixel: the covered height
// of the following pixel and the uncovered area to the left of the edges
// within this one. Left edges add with positive sign, right edges negative.
type aaCell struct {
	next *aaCell

	x                             int32
	uncoveredArea, coveredHeight int32
}

// cellPool hands out cells from growing chunks, all reclaimed at once per
// pixel row.
type cellPool struct {
	chunks [][]aaCell
	active int
	used   int
}

func (p *cellPool) alloc() *aaCell {
	if len(p.chunks) == 0 {
		p.chunks = append(p.chunks, make([]aaCell, 32))
	}
	if p.used == len(p.chunks[p.active]) {
		p.active++
		if p.active == len(p.chunks) {
			p.chunks = append(p.chunks, make([]aaCell, 256))
		}
		p.used = 0
	}
	c := &p.chunks[p.active][p.used]
	p.used++
	*c = aaCell{}
	return c
}

func (p *cellPool) reset() {
	p.active = 0
	p.used = 0
}

// cellList is the sparse pixel row, cells ordered by ascending x and walked
// with a cursor that only moves right between rewinds.
type cellList struct {
	head, tail aaCell
	cursor     *aaCell
	rewindPt   *aaCell

	pool cellPool
}

func (l *cellList) init() {
	l.tail.next = nil
	l.tail.x = math.MaxInt32
	l.head.x = math.MinInt32
	l.head.next = &l.tail
	l.rewind()
}

func (l *cellList) rewind() {
	l.cursor = &l.head
}

func (l *cellList) maybeRewind(x int32) {
	if x < l.cursor.x {
		l.cursor = l.rewindPt
		if x < l.cursor.x {
			l.cursor = &l.head
		}
	}
}

func (l *cellList) setRewind() {
	l.rewindPt = l.cursor
}

func (l *cellList) reset() {
	l.rewind()
	l.head.next = &l.tail
	l.pool.reset()
}

func (l *cellList) allocAfter(tail *aaCell, x int32) *aaCell {
	cell := l.pool.alloc()
	cell.next = tail.next
	tail.next = cell
	cell.x = x
	return cell
}

// find returns the cell at x, allocating it if needed. Finds must have
// non-decreasing x until the next rewind.
func (l *cellList) find(x int32) *aaCell {
	tail := l.cursor
	if tail.x == x {
		return tail
	}

	for tail.next.x <= x {
		tail = tail.next
	}
	if tail.x != x {
		tail = l.allocAfter(tail, x)
	}
	l.cursor = tail
	return tail
}

func (l *cellList) findPair(x1, x2 int32) (*aaCell, *aaCell) {
	cell1 := l.cursor
	for cell1.next.x <= x1 {
		cell1 = cell1.next
	}
	if cell1.x != x1 {
		cell1 = l.allocAfter(cell1, x1)
	}

	cell2 := cell1
	for cell2.next.x <= x2 {
		cell2 = cell2.next
	}
	if cell2.x != x2 {
		cell2 = l.allocAfter(cell2, x2)
	}

	l.cursor = cell2
	return cell1, cell2
}

// addSubspan adds one subsample row's coverage of [x1,x2) in grid units.
func (l *cellList) addSubspan(x1, x2 int32) {
	if x1 == x2 {
		return
	}

	ix1, fx1 := x1>>FracBits, x1&int32(fracMask)
	ix2, fx2 := x2>>FracBits, x2&int32(fracMask)

	if ix1 != ix2 {
		cell1, cell2 := l.findPair(ix1, ix2)
		cell1.uncoveredArea += 2 * fx1
		cell1.coveredHeight++
		cell2.uncoveredArea -= 2 * fx2
		cell2.coveredHeight--
	} else {
		cell := l.find(ix1)
		cell.uncoveredArea += 2 * (fx1 - fx2)
	}
}

// renderEdge adds the analytical coverage of an edge crossing the current
// pixel row and advances the edge to the next row. Valid only when no edges
// start, end, or cross within the row, and called in left-to-right order.
func (l *cellList) renderEdge(edge *aaEdge, sign int32) {
	x1 := edge.x
	edge.fullStep()
	x2 := edge.x

	// step back from the sample position at half a subrow to the row origin
	if edge.dy != 0 {
		x1.quo -= edge.dxdy.quo / 2
		x1.rem -= edge.dxdy.rem / 2
		if x1.rem < 0 {
			x1.quo--
			x1.rem += edge.dy
		} else if x1.rem >= edge.dy {
			x1.quo++
			x1.rem -= edge.dy
		}

		x2.quo -= edge.dxdy.quo / 2
		x2.rem -= edge.dxdy.rem / 2
		if x2.rem < 0 {
			x2.quo--
			x2.rem += edge.dy
		} else if x2.rem >= edge.dy {
			x2.quo++
			x2.rem -= edge.dy
		}
	}

	ix1, fx1 := x1.quo>>FracBits, x1.quo&int32(fracMask)
	ix2, fx2 := x2.quo>>FracBits, x2.quo&int32(fracMask)

	l.maybeRewind(min(ix1, ix2))

	if ix1 == ix2 {
		cell := l.find(ix1)
		cell.coveredHeight += sign * gridY
		cell.uncoveredArea += sign * (fx1 + fx2) * gridY
		return
	}

	if ix2 < ix1 {
		ix1, ix2 = ix2, ix1
		fx1, fx2 = fx2, fx1
		x1, x2 = x2, x1
	}

	// spread the coverage over every pixel [ix1,ix2] the edge crosses,
	// computing the y at which it leaves each column
	dx := (int64(x2.quo)-int64(x1.quo))*edge.dy + (x2.rem - x1.rem)

	tmp := int64(ix1+1) * int64(gridX) * edge.dy
	tmp -= int64(x1.quo)*edge.dy + x1.rem
	tmp *= gridY

	var y aaQuorem
	y.quo = int32(tmp / dx)
	y.rem = tmp % dx

	cell1, cell2 := l.findPair(ix1, ix1+1)
	cell1.uncoveredArea += sign * y.quo * (gridX + fx1)
	cell1.coveredHeight += sign * y.quo
	yLast := y.quo

	if ix1+1 < ix2 {
		cell := cell2
		var dydxFull aaQuorem
		dydxFull.quo = int32(int64(gridY) * int64(gridX) * edge.dy / dx)
		dydxFull.rem = int64(gridY) * int64(gridX) * edge.dy % dx

		ix1++
		for {
			y.quo += dydxFull.quo
			y.rem += dydxFull.rem
			if y.rem >= dx {
				y.quo++
				y.rem -= dx
			}

			cell.uncoveredArea += sign * (y.quo - yLast) * gridX
			cell.coveredHeight += sign * (y.quo - yLast)
			yLast = y.quo

			ix1++
			cell = l.find(ix1)
			if ix1 == ix2 {
				break
			}
		}
		cell2 = cell
	}
	cell2.uncoveredArea += sign * (gridY - yLast) * fx2
	cell2.coveredHeight += sign * (gridY - yLast)
}

// aaPolygon buckets edges by the pixel row in which they start.
type aaPolygon struct {
	ymin, ymax int32

	edges    []aaEdge
	yBuckets []*aaEdge

	bucketsEmbedded [scanBucketsEmbedded]*aaEdge
}

func (p *aaPolygon) init(ymin, ymax int32, numEdges int) {
	numBuckets := int(ymax+gridY-1-ymin) / gridY
	if numBuckets <= len(p.bucketsEmbedded) {
		p.yBuckets = p.bucketsEmbedded[:numBuckets]
		clear(p.yBuckets)
	} else {
		p.yBuckets = make([]*aaEdge, numBuckets)
	}

	p.edges = make([]aaEdge, 0, numEdges)
	p.ymin = ymin
	p.ymax = ymax
}

// inputToGridY converts a fixed-point y to subsample rows, rounding to
// nearest.
func inputToGridY(y Fixed) int32 {
	return int32((int64(y)*gridY + 1<<(FracBits-1)) >> FracBits)
}

func (p *aaPolygon) addEdge(edge Edge) {
	ytop := max(inputToGridY(edge.Top), p.ymin)
	ybot := min(inputToGridY(edge.Bottom), p.ymax)
	if ybot <= ytop {
		return
	}

	p.edges = append(p.edges, aaEdge{})
	e := &p.edges[len(p.edges)-1]
	e.ytop = ytop
	e.heightLeft = ybot - ytop

	p1, p2 := edge.Line.P1, edge.Line.P2
	e.dir = int32(edge.Dir)
	if p2.Y <= p1.Y {
		e.dir = -e.dir
		p1, p2 = p2, p1
	}

	if p2.X == p1.X {
		e.cell = int32(p1.X)
		e.x.quo = int32(p1.X)
	} else {
		// the sample point of subrow y is at its vertical center, hence
		// the doubled grid with the +1 offset
		ex := int64(p2.X-p1.X) * int64(gridX)
		ey := int64(p2.Y-p1.Y) * gridY * (2 << FracBits)

		e.dxdy.quo = int32(ex * (2 << FracBits) / ey)
		e.dxdy.rem = ex * (2 << FracBits) % ey

		tmp := int64(2*ytop+1) << FracBits
		tmp -= int64(p1.Y) * gridY * 2
		tmp *= ex
		e.x.quo = int32(tmp / ey)
		e.x.rem = tmp % ey
		e.x.quo += int32(p1.X)

		if e.x.rem < 0 {
			e.x.quo--
			e.x.rem += ey
		} else if e.x.rem >= ey {
			e.x.quo++
			e.x.rem -= ey
		}

		if gridY <= e.heightLeft {
			tmp = ex * (2 * gridY << FracBits)
			e.dxdyFull.quo = int32(tmp / ey)
			e.dxdyFull.rem = tmp % ey
		}

		e.cell = e.x.quo
		if e.x.rem >= ey/2 {
			e.cell++
		}
		e.dy = ey
	}

	bucket := (e.ytop - p.ymin) / gridY
	e.next = p.yBuckets[bucket]
	p.yBuckets[bucket] = e
}

func mergeSortedAAEdges(headA, headB *aaEdge) *aaEdge {
	var head *aaEdge
	prev := headA.prev
	next := &head
	startWithB := headB.cell < headA.cell
	if !startWithB {
		head = headA
	} else {
		head = headB
		headB.prev = prev
	}

	for {
		if !startWithB {
			x := headB.cell
			for headA != nil && headA.cell <= x {
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

		x := headA.cell
		for headB != nil && headB.cell <= x {
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

func sortAAEdges(list *aaEdge, level uint, headOut **aaEdge) *aaEdge {
	headOther := list.next
	if headOther == nil {
		*headOut = list
		return nil
	}

	remaining := headOther.next
	if list.cell <= headOther.cell {
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
		remaining = sortAAEdges(remaining, i, &headOther)
		*headOut = mergeSortedAAEdges(*headOut, headOther)
	}

	return remaining
}

// activeList holds the edges crossing the current subsample row, ordered by
// their x-intercept.
type activeList struct {
	head, tail aaEdge

	// minHeight is a lower bound on the remaining height of the active
	// edges; negative means it must be recomputed.
	minHeight  int32
	isVertical bool
}

func (a *activeList) reset() {
	a.head.heightLeft = math.MaxInt32
	a.head.cell = math.MinInt32
	a.head.prev = nil
	a.head.next = &a.tail
	a.tail.prev = &a.head
	a.tail.next = nil
	a.tail.cell = math.MaxInt32
	a.tail.heightLeft = math.MaxInt32
	a.minHeight = 0
	a.isVertical = true
}

func (a *activeList) mergeEdges(edges *aaEdge) {
	sortAAEdges(edges, math.MaxUint32, &edges)
	a.head.next = mergeSortedAAEdges(a.head.next, edges)
}

// canDoFullRow is true when no active edge ends within the next pixel row
// and stepping each edge a full row keeps them sorted, so the row can be
// rendered analytically.
func (a *activeList) canDoFullRow() bool {
	if a.minHeight <= 0 {
		minHeight := int32(math.MaxInt32)
		isVertical := true
		for e := a.head.next; e != nil; e = e.next {
			if e.heightLeft < minHeight {
				minHeight = e.heightLeft
			}
			isVertical = isVertical && e.dy == 0
		}
		a.isVertical = isVertical
		a.minHeight = minHeight
	}

	if a.minHeight < gridY {
		return false
	}

	prevX := int32(math.MinInt32)
	for e := a.head.next; e != &a.tail; e = e.next {
		cell := e.cell
		if e.dy != 0 {
			x := e.x
			x.quo += e.dxdyFull.quo
			x.rem += e.dxdyFull.rem
			if x.rem < 0 {
				x.quo--
				x.rem += e.dy
			} else if x.rem >= e.dy {
				x.quo++
				x.rem -= e.dy
			}
			cell = x.quo
			if x.rem >= e.dy/2 {
				cell++
			}
		}

		if cell < prevX {
			return false
		}
		prevX = cell
	}
	return true
}

// fillBuckets scatters the pixel row's incoming edges over its subsample
// rows, returning the highest subrow that receives one.
func (a *activeList) fillBuckets(edge *aaEdge, y int32, buckets *[gridY]*aaEdge) int32 {
	minHeight := a.minHeight
	isVertical := a.isVertical
	maxSuby := int32(0)

	for edge != nil {
		next := edge.next
		suby := edge.ytop - y
		if buckets[suby] != nil {
			buckets[suby].prev = edge
		}
		edge.next = buckets[suby]
		edge.prev = nil
		buckets[suby] = edge
		if edge.heightLeft < minHeight {
			minHeight = edge.heightLeft
		}
		isVertical = isVertical && edge.dy == 0
		if suby > maxSuby {
			maxSuby = suby
		}
		edge = next
	}

	a.isVertical = isVertical
	a.minHeight = minHeight
	return maxSuby
}

// subRow scans one subsample row, stepping every edge and accumulating the
// covered subspans.
func (a *activeList) subRow(coverages *cellList, mask uint32) {
	edge := a.head.next
	xstart, prevX := int32(math.MinInt32), int32(math.MinInt32)
	winding := int32(0)

	coverages.rewind()

	for edge != &a.tail {
		next := edge.next
		xend := edge.cell

		edge.heightLeft--
		if edge.heightLeft != 0 {
			edge.step()

			if edge.cell < prevX {
				pos := edge.prev
				pos.next = next
				next.prev = pos
				for {
					pos = pos.prev
					if pos.cell <= edge.cell {
						break
					}
				}
				pos.next.prev = edge
				edge.next = pos.next
				edge.prev = pos
				pos.next = edge
				a.minHeight = -1
			} else {
				prevX = edge.cell
			}
		} else {
			edge.prev.next = next
			next.prev = edge.prev
		}

		winding += edge.dir
		if uint32(winding)&mask == 0 {
			if next.cell != xend {
				coverages.addSubspan(xstart, xend)
				xstart = math.MinInt32
			}
		} else if xstart == math.MinInt32 {
			xstart = xend
		}

		edge = next
	}
}

func (a *activeList) dec(e *aaEdge, h int32) {
	e.heightLeft -= h
	if e.heightLeft == 0 {
		e.prev.next = e.next
		e.next.prev = e.prev
		a.minHeight = -1
	}
}

// fullRow renders a whole pixel row analytically, pairing each left edge
// with the matching right edge of its span.
func (a *activeList) fullRow(coverages *cellList, mask uint32) {
	left := a.head.next
	for left != &a.tail {
		a.dec(left, gridY)

		winding := left.dir
		right := left.next
		for {
			a.dec(right, gridY)

			winding += right.dir
			if uint32(winding)&mask == 0 && right.next.cell != right.cell {
				break
			}

			right.fullStep()
			right = right.next
		}

		coverages.setRewind()
		coverages.renderEdge(left, +1)
		coverages.renderEdge(right, -1)

		left = right.next
	}
}

func (a *activeList) stepEdges(count int32) {
	count *= gridY
	for edge := a.head.next; edge != &a.tail; edge = edge.next {
		edge.heightLeft -= count
		if edge.heightLeft == 0 {
			edge.prev.next = edge.next
			edge.next.prev = edge.prev
		}
	}
}

// AAScanConverter converts a polygon to coverage spans with 8-bit
// antialiasing, or thresholded to full pixels when antialiasing is off.
type AAScanConverter struct {
	polygon   aaPolygon
	active    activeList
	coverages cellList

	spans []Span

	xmin, xmax int32
	ymin, ymax int32

	mask      uint32
	antialias bool

	spansEmbedded [scanSpansEmbedded]Span
}

// NewAAScanConverter returns a converter for the clip box
// [xmin,xmax)x[ymin,ymax) in integer pixel coordinates.
func NewAAScanConverter(xmin, ymin, xmax, ymax int, fillRule FillRule, aa Antialias) *AAScanConverter {
	c := &AAScanConverter{}

	maxNumSpans := xmax - xmin + 1
	if maxNumSpans <= len(c.spansEmbedded) {
		c.spans = c.spansEmbedded[:]
	} else {
		c.spans = make([]Span, maxNumSpans)
	}

	c.active.reset()
	c.coverages.init()

	c.xmin = int32(xmin) * gridX
	c.xmax = int32(xmax) * gridX
	c.ymin = int32(ymin) * gridY
	c.ymax = int32(ymax) * gridY

	c.mask = 1
	if fillRule == NonZero {
		c.mask = ^uint32(0)
	}
	c.antialias = aa != AntialiasNone
	return c
}

// AddPolygon adds all edges of polygon, clipped to the converter's vertical
// range. It must be called exactly once, before Generate.
func (c *AAScanConverter) AddPolygon(polygon *Polygon) {
	c.polygon.init(c.ymin, c.ymax, len(polygon.Edges))
	for i := range polygon.Edges {
		c.polygon.addEdge(polygon.Edges[i])
	}
}

// blit forms spans from the row's accumulated cell coverages.
func (c *AAScanConverter) blit(y, height int, fn SpanFunc) {
	xminI := int(c.xmin / gridX)
	xmaxI := int(c.xmax / gridX)

	cell := c.coverages.head.next
	if cell == &c.coverages.tail {
		return
	}

	prevX, lastX := xminI, -1
	var cover, lastCover int32

	for cell.x < int32(xminI) {
		cover += cell.coveredHeight
		cell = cell.next
	}
	cover *= gridX * 2

	toAlpha := gridAreaToAlpha
	if !c.antialias {
		toAlpha = gridAreaToA1
	}

	numSpans := 0
	for ; cell.x < int32(xmaxI); cell = cell.next {
		x := int(cell.x)

		if prevX < x && cover != lastCover {
			c.spans[numSpans] = Span{prevX, toAlpha(cover)}
			lastCover = cover
			lastX = prevX
			numSpans++
		}

		cover += cell.coveredHeight * gridX * 2
		area := cover - cell.uncoveredArea

		if area != lastCover {
			c.spans[numSpans] = Span{x, toAlpha(area)}
			lastCover = area
			lastX = x
			numSpans++
		}

		prevX = x + 1
	}

	if prevX <= xmaxI && cover != lastCover {
		c.spans[numSpans] = Span{prevX, toAlpha(cover)}
		lastCover = cover
		lastX = prevX
		numSpans++
	}

	if lastX < xmaxI && lastCover != 0 {
		c.spans[numSpans] = Span{xmaxI, 0}
		numSpans++
	}

	if 0 < numSpans {
		fn(y, height, c.spans[:numSpans])
	}
}

// Generate scans all rows and reports the resulting spans to fn. The
// converter must be discarded afterwards.
func (c *AAScanConverter) Generate(fn SpanFunc) {
	yminI := int(c.ymin / gridY)
	ymaxI := int(c.ymax / gridY)
	h := ymaxI - yminI
	if c.xmin >= c.xmax {
		return
	}

	var buckets [gridY]*aaEdge

	for i, j := 0, 0; i < h; i = j {
		j = i + 1
		doFullRow := false

		if c.active.fillBuckets(c.polygon.yBuckets[i], int32(i+yminI)*gridY, &buckets) == 0 {
			if buckets[0] != nil {
				c.active.mergeEdges(buckets[0])
				buckets[0] = nil
			}

			if c.active.head.next == &c.active.tail {
				c.active.minHeight = math.MaxInt32
				c.active.isVertical = true
				for j < h && c.polygon.yBuckets[j] == nil {
					j++
				}
				continue
			}

			doFullRow = c.active.canDoFullRow()
		}

		if doFullRow {
			c.active.fullRow(&c.coverages, c.mask)

			if c.active.isVertical {
				for j < h && c.polygon.yBuckets[j] == nil && 2*gridY <= c.active.minHeight {
					c.active.minHeight -= gridY
					j++
				}
				if j != i+1 {
					c.active.stepEdges(int32(j - (i + 1)))
				}
			}
		} else {
			for sub := 0; sub < gridY; sub++ {
				if buckets[sub] != nil {
					c.active.mergeEdges(buckets[sub])
					buckets[sub] = nil
				}
				c.active.subRow(&c.coverages, c.mask)
			}
		}

		c.blit(i+yminI, j-i, fn)
		c.coverages.reset()

		c.active.minHeight -= gridY
	}
}

package raster

import (
	poly2tri "github.com/ByteArena/poly2tri-go"
)

// TriangulateContour triangulates the closed contour given by points. The
// contour must be simple; the closing point is implied.
func TriangulateContour(points []Point) [][3]Point {
	if len(points) < 3 {
		return nil
	}

	contour := make([]*poly2tri.Point, len(points))
	for i, p := range points {
		contour[i] = poly2tri.NewPoint(p.X.Float64(), p.Y.Float64())
	}

	swctx := poly2tri.NewSweepContext(contour, false)
	swctx.Triangulate()

	var triangles [][3]Point
	for _, tr := range swctx.GetTriangles() {
		triangles = append(triangles, [3]Point{
			P(tr.Points[0].X, tr.Points[0].Y),
			P(tr.Points[1].X, tr.Points[1].Y),
			P(tr.Points[2].X, tr.Points[2].Y),
		})
	}
	return triangles
}

// AddContour triangulates the closed contour and adds each triangle's
// trapezoids.
func (t *Traps) AddContour(points []Point) {
	for _, tri := range TriangulateContour(points) {
		t.TessellateTriangle(tri, [4]Point{tri[0], tri[1], tri[0], tri[2]})
	}
}

// AddContour triangulates the closed contour into degenerate strips of one
// triangle each.
func (s *TriStrip) AddContour(points []Point) {
	for _, tri := range TriangulateContour(points) {
		s.MoveTo(tri[0])
		s.AddPoint(tri[1])
		s.AddPoint(tri[2])
	}
}

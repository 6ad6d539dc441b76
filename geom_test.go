package raster

import (
	"fmt"
	"image"
	"testing"

	"github.com/tdewolff/test"
)

func TestSlopeCompare(t *testing.T) {
	var tts = []struct {
		s, t Slope
		cmp  int
	}{
		{SlopeOf(P(0.0, 0.0), P(1.0, 1.0)), SlopeOf(P(0.0, 0.0), P(1.0, 2.0)), -1},
		{SlopeOf(P(0.0, 0.0), P(1.0, 2.0)), SlopeOf(P(0.0, 0.0), P(1.0, 1.0)), 1},
		{SlopeOf(P(0.0, 0.0), P(1.0, 1.0)), SlopeOf(P(0.0, 0.0), P(2.0, 2.0)), 0},
		{SlopeOf(P(0.0, 0.0), P(1.0, 1.0)), SlopeOf(P(0.0, 0.0), P(-1.0, -1.0)), 1},
		{SlopeOf(P(0.0, 0.0), P(-1.0, -1.0)), SlopeOf(P(0.0, 0.0), P(1.0, 1.0)), -1},
		{SlopeOf(P(0.0, 0.0), P(0.0, 1.0)), SlopeOf(P(0.0, 0.0), P(0.0, -1.0)), 1},
		// zero vectors compare greater than any non-zero vector
		{Slope{}, SlopeOf(P(0.0, 0.0), P(1.0, 0.0)), 1},
		{SlopeOf(P(0.0, 0.0), P(1.0, 0.0)), Slope{}, -1},
		{Slope{}, Slope{}, 0},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, tt.s.Compare(tt.t), tt.cmp)
		})
	}
}

func TestLineCompareAtY(t *testing.T) {
	vertical1 := Line{P(1.0, 0.0), P(1.0, 4.0)}
	vertical2 := Line{P(2.0, 0.0), P(2.0, 4.0)}
	diagonal := Line{P(0.0, 0.0), P(2.0, 2.0)}
	antidiag := Line{P(2.0, 0.0), P(0.0, 2.0)}

	test.That(t, vertical1.compareAtY(vertical2, FromFloat64(1.0)) < 0)
	test.That(t, vertical2.compareAtY(vertical1, FromFloat64(1.0)) > 0)
	test.That(t, diagonal.compareAtY(antidiag, 0) < 0)
	test.That(t, diagonal.compareAtY(antidiag, FromFloat64(1.0)) > 0, "where they cross, the slopes order the lines by their position just below")
	test.That(t, antidiag.compareAtY(diagonal, FromFloat64(1.0)) < 0)
}

func TestBoxBasics(t *testing.T) {
	b := BoxFromInts(1, 2, 3, 4)
	test.T(t, b.P1, Point{FromInt(1), FromInt(2)})
	test.T(t, b.P2, Point{FromInt(4), FromInt(6)})
	test.T(t, b.IsDegenerate(), false)
	test.T(t, b.IsPixelAligned(), true)
	test.Float(t, b.Area(), 12.0)

	test.T(t, BoxFromFloats(0.5, 0.0, 1.5, 1.0).IsPixelAligned(), false)
	test.T(t, BoxFromFloats(1.0, 1.0, 1.0, 2.0).IsDegenerate(), true)
	test.T(t, BoxFromRect(image.Rect(1, 2, 4, 6)), b)
}

func TestBoxAddPoint(t *testing.T) {
	b := emptyBox()
	b.AddPoint(P(1.0, 1.0))
	b.AddPoint(P(-1.0, 3.0))
	test.T(t, b, BoxFromFloats(-1.0, 1.0, 1.0, 3.0))

	b.AddBox(BoxFromFloats(0.0, 0.0, 2.0, 2.0))
	test.T(t, b, BoxFromFloats(-1.0, 0.0, 2.0, 3.0))
}

func TestBoxContainsPoint(t *testing.T) {
	b := BoxFromInts(0, 0, 4, 4)
	test.T(t, b.ContainsPoint(P(2.0, 2.0)), true)
	test.T(t, b.ContainsPoint(P(0.0, 0.0)), true)
	test.T(t, b.ContainsPoint(P(4.0, 4.0)), true)
	test.T(t, b.ContainsPoint(P(4.5, 2.0)), false)
	test.T(t, b.ContainsPoint(P(2.0, -0.5)), false)
}

func TestBoxIntersect(t *testing.T) {
	b := BoxFromInts(0, 0, 4, 4)
	clipped, ok := b.Intersect(BoxFromInts(2, 2, 4, 4))
	test.T(t, ok, true)
	test.T(t, clipped, BoxFromInts(2, 2, 2, 2))

	_, ok = b.Intersect(BoxFromInts(5, 5, 1, 1))
	test.T(t, ok, false)

	_, ok = b.Intersect(BoxFromInts(4, 0, 1, 1))
	test.T(t, ok, false, "touching boxes have no area")
}

func TestBoxRoundOut(t *testing.T) {
	test.T(t, BoxFromFloats(0.25, 0.25, 1.75, 1.75).RoundOut(), image.Rect(0, 0, 2, 2))
	test.T(t, BoxFromFloats(-0.25, -1.25, 0.0, 0.5).RoundOut(), image.Rect(-1, -2, 0, 1))
	test.T(t, BoxFromInts(1, 1, 2, 2).RoundOut(), image.Rect(1, 1, 3, 3))
}

func TestBoxIntersectsLine(t *testing.T) {
	b := BoxFromInts(0, 0, 4, 4)
	var tts = []struct {
		l  Line
		is bool
	}{
		{Line{P(1.0, 1.0), P(2.0, 2.0)}, true},      // fully inside
		{Line{P(-1.0, -1.0), P(5.0, 5.0)}, true},    // crosses diagonally
		{Line{P(2.0, -1.0), P(2.0, 5.0)}, true},     // vertical through
		{Line{P(-1.0, 2.0), P(5.0, 2.0)}, true},     // horizontal through
		{Line{P(5.0, 0.0), P(8.0, 2.0)}, false},     // right of the box
		{Line{P(-3.0, 1.0), P(-1.0, 2.0)}, false},   // left of the box
		{Line{P(0.0, 5.0), P(4.0, 6.0)}, false},     // below the box
		{Line{P(3.0, -2.0), P(6.0, 1.0)}, false},    // passes the corner outside
		{Line{P(3.0, -1.0), P(6.0, 2.0)}, false},    // touches the corner exactly
		{Line{P(2.0, -1.0), P(5.0, 2.0)}, true},     // clips the corner
		{Line{P(5.0, -1.0), P(9.0, 1.0)}, false},    // off to the right
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, b.IntersectsLine(tt.l), tt.is)
		})
	}
}

package raster

import (
	"fmt"
	"testing"

	"github.com/tdewolff/test"
	xfixed "golang.org/x/image/math/fixed"
)

func TestFixedFromFloat64(t *testing.T) {
	var tts = []struct {
		f float64
		x Fixed
	}{
		{0.0, 0},
		{1.0, 256},
		{-1.0, -256},
		{0.5, 128},
		{-0.5, -128},
		{1.25, 320},
		{100.75, 25792},
		{-3.125, -800},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, FromFloat64(tt.f), tt.x)
			test.Float(t, tt.x.Float64(), tt.f)
		})
	}
}

func TestFixedFromFloat64Clamped(t *testing.T) {
	test.T(t, FromFloat64Clamped(1.0e12, 1.0), FromFloat64(float64(FixedMax)/float64(FixedOne)-1.0))
	test.T(t, FromFloat64Clamped(-1.0e12, 1.0), FromFloat64(float64(FixedMin)/float64(FixedOne)+1.0))
	test.T(t, FromFloat64Clamped(2.0, 1.0), FromFloat64(2.0))
}

func TestFixedRounding(t *testing.T) {
	var tts = []struct {
		f                             Fixed
		floor, ceil, round, roundDown Fixed
	}{
		{FromFloat64(2.0), FromFloat64(2.0), FromFloat64(2.0), FromFloat64(2.0), FromFloat64(2.0)},
		{FromFloat64(2.25), FromFloat64(2.0), FromFloat64(3.0), FromFloat64(2.0), FromFloat64(2.0)},
		{FromFloat64(2.5), FromFloat64(2.0), FromFloat64(3.0), FromFloat64(3.0), FromFloat64(2.0)},
		{FromFloat64(2.75), FromFloat64(2.0), FromFloat64(3.0), FromFloat64(3.0), FromFloat64(3.0)},
		{FromFloat64(-2.25), FromFloat64(-3.0), FromFloat64(-2.0), FromFloat64(-2.0), FromFloat64(-2.0)},
		{FromFloat64(-2.5), FromFloat64(-3.0), FromFloat64(-2.0), FromFloat64(-2.0), FromFloat64(-3.0)},
		{FromFloat64(-2.75), FromFloat64(-3.0), FromFloat64(-2.0), FromFloat64(-3.0), FromFloat64(-3.0)},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, tt.f.Floor(), tt.floor)
			test.T(t, tt.f.Ceil(), tt.ceil)
			test.T(t, tt.f.Round(), tt.round)
			test.T(t, tt.f.RoundDown(), tt.roundDown)
			test.T(t, tt.f.IntRound(), tt.round.Int())
			test.T(t, tt.f.IntRoundDown(), tt.roundDown.Int())
		})
	}
}

func TestFixedIntFloorCeil(t *testing.T) {
	var tts = []struct {
		f           Fixed
		floor, ceil int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{FromFloat64(1.5), 1, 2},
		{FromFloat64(2.0), 2, 2},
		{FromFloat64(-0.5), -1, 0},
		{FromFloat64(-2.0), -2, -2},
		{FromFloat64(-2.5), -3, -2},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, tt.f.IntFloor(), tt.floor)
			test.T(t, tt.f.IntCeil(), tt.ceil)
		})
	}
}

func TestFixedIsInt(t *testing.T) {
	test.T(t, FromInt(5).IsInt(), true)
	test.T(t, FromFloat64(5.5).IsInt(), false)
	test.T(t, FromInt(5).Frac(), Fixed(0))
	test.T(t, FromFloat64(5.5).Frac(), Fixed(128))
}

func TestFixedInt26_6(t *testing.T) {
	test.T(t, FromInt26_6(xfixed.Int26_6(64)), FixedOne)
	test.T(t, FromInt26_6(xfixed.Int26_6(-96)), FromFloat64(-1.5))
	test.T(t, FromInt(3).Int26_6(), xfixed.Int26_6(192))
	test.T(t, FromFloat64(0.5).Int26_6(), xfixed.Int26_6(32))
}

func TestFixedMulDiv(t *testing.T) {
	test.T(t, FromFloat64(1.5).Mul(FromFloat64(2.0)), FromFloat64(3.0))
	test.T(t, FromFloat64(-1.5).Mul(FromFloat64(0.5)), FromFloat64(-0.75))

	test.T(t, Fixed(7).MulDiv(3, 2), Fixed(10))
	test.T(t, Fixed(-7).MulDiv(3, 2), Fixed(-10))
	test.T(t, Fixed(7).MulDivFloor(3, 2), Fixed(10))
	test.T(t, Fixed(-7).MulDivFloor(3, 2), Fixed(-11))
	test.T(t, Fixed(7).MulDivFloor(3, -2), Fixed(-11))
}

func TestIntersectXforY(t *testing.T) {
	p1, p2 := P(0.0, 0.0), P(4.0, 4.0)
	test.T(t, intersectXforY(p1, p2, FromFloat64(2.0)), FromFloat64(2.0))
	test.T(t, intersectXforY(p1, p2, p1.Y), p1.X)
	test.T(t, intersectXforY(p1, p2, p2.Y), p2.X)
	test.T(t, intersectYforX(p1, p2, FromFloat64(3.0)), FromFloat64(3.0))
	test.T(t, intersectYforX(p1, p2, p1.X), p1.Y)
}

package raster

import (
	"fmt"
	"math"

	xfixed "golang.org/x/image/math/fixed"
)

// Fixed is a signed 24.8 fixed-point number used for all geometry in this
// package. Arithmetic that could overflow 32 bits is routed through 64-bit
// intermediates, see Mul and MulDiv.
type Fixed int32

const (
	// FracBits is the number of fractional bits in a Fixed.
	FracBits = 8

	// FixedOne is the Fixed representation of 1.
	FixedOne Fixed = 1 << FracBits

	// FixedEpsilon is the smallest positive Fixed.
	FixedEpsilon Fixed = 1

	// FixedMax and FixedMin delimit the representable range.
	FixedMax Fixed = math.MaxInt32
	FixedMin Fixed = math.MinInt32

	fracMask  = FixedOne - 1
	wholeMask = ^fracMask
)

// FixedErr is the maximum error made when converting a float64 to a Fixed.
const FixedErr = 1.0 / (2 * float64(FixedOne))

// magicNumber shifts a float64 such that the bottom of its mantissa holds the
// 24.8 fixed-point value, avoiding a slow cast truncation. It must be
// (2^(52-FracBits))*1.5 so that the low mantissa bits are free. Note that the
// additions below round to nearest even instead of truncating.
const magicNumber = float64(1<<(52-FracBits)) * 1.5

// FromFloat64 converts a float64 to a Fixed, rounding to nearest even.
// Values outside the representable range wrap, see FromFloat64Clamped.
func FromFloat64(f float64) Fixed {
	return Fixed(int32(uint32(math.Float64bits(f + magicNumber))))
}

// FromFloat64Clamped converts a float64 to a Fixed, clamping it to the
// representable range shrunk by tolerance on both sides.
func FromFloat64Clamped(f, tolerance float64) Fixed {
	max := float64(FixedMax) / float64(FixedOne)
	min := float64(FixedMin) / float64(FixedOne)
	if f > max-tolerance {
		f = max - tolerance
	} else if f < min+tolerance {
		f = min + tolerance
	}
	return FromFloat64(f)
}

// FromInt converts an integer to a Fixed.
func FromInt(i int) Fixed {
	return Fixed(i) << FracBits
}

// FromInt26_6 converts a 26.6 fixed-point value (as used by font rasterizers)
// to a Fixed.
func FromInt26_6(f xfixed.Int26_6) Fixed {
	return Fixed(f) << (FracBits - 6)
}

// Int26_6 converts f to a 26.6 fixed-point value.
func (f Fixed) Int26_6() xfixed.Int26_6 {
	return xfixed.Int26_6(f >> (FracBits - 6))
}

// Float64 converts f to a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / float64(FixedOne)
}

// IsInt is true when f has no fractional part.
func (f Fixed) IsInt() bool {
	return f&fracMask == 0
}

// Floor rounds f down to an integer value.
func (f Fixed) Floor() Fixed {
	return f & wholeMask
}

// Ceil rounds f up to an integer value.
func (f Fixed) Ceil() Fixed {
	return (f + fracMask).Floor()
}

// Round rounds f to the nearest integer value, rounding half up.
func (f Fixed) Round() Fixed {
	return (f + fracMask/2 + 1).Floor()
}

// RoundDown rounds f to the nearest integer value, rounding half down.
func (f Fixed) RoundDown() Fixed {
	return (f + fracMask/2).Floor()
}

// Int truncates the fractional bits, rounding towards negative infinity for
// values in [FixedMin>>FracBits, FixedMax>>FracBits].
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// IntRound returns the nearest integer, rounding half up.
func (f Fixed) IntRound() int {
	return (f + fracMask/2 + 1).Int()
}

// IntRoundDown returns the nearest integer, rounding half down.
func (f Fixed) IntRoundDown() int {
	return (f + fracMask/2).Int()
}

// IntFloor returns the largest integer not greater than f.
func (f Fixed) IntFloor() int {
	if 0 <= f {
		return int(f >> FracBits)
	}
	return -int((-f-1)>>FracBits) - 1
}

// IntCeil returns the smallest integer not less than f.
func (f Fixed) IntCeil() int {
	if 0 < f {
		return int((f-1)>>FracBits) + 1
	}
	return -int(uint32(-f) >> FracBits)
}

// Frac returns the fractional bits of f.
func (f Fixed) Frac() Fixed {
	return f & fracMask
}

// Mul multiplies two Fixed values using a 64-bit intermediate product.
func (f Fixed) Mul(g Fixed) Fixed {
	return Fixed(int64(f) * int64(g) >> FracBits)
}

// MulDiv computes f*g/h, truncated towards zero, using a 64-bit intermediate
// product. The divisor must not be zero.
func (f Fixed) MulDiv(g, h Fixed) Fixed {
	return Fixed(int64(f) * int64(g) / int64(h))
}

// MulDivFloor computes floor(f*g/h) using a 64-bit intermediate product. The
// divisor must not be zero.
func (f Fixed) MulDivFloor(g, h Fixed) Fixed {
	p := int64(f) * int64(g)
	q := p / int64(h)
	if (p%int64(h) != 0) && (p < 0) != (int64(h) < 0) {
		q--
	}
	return Fixed(q)
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float64())
}

// intersectXforY computes the x at which the line p1-p2 crosses the
// horizontal line at y, such that (x,y), p1, and p2 are collinear.
func intersectXforY(p1, p2 Point, y Fixed) Fixed {
	if y == p1.Y {
		return p1.X
	}
	if y == p2.Y {
		return p2.X
	}

	x := p1.X
	if dy := p2.Y - p1.Y; dy != 0 {
		x += (y - p1.Y).MulDivFloor(p2.X-p1.X, dy)
	}
	return x
}

// intersectYforX computes the y at which the line p1-p2 crosses the vertical
// line at x, such that (x,y), p1, and p2 are collinear.
func intersectYforX(p1, p2 Point, x Fixed) Fixed {
	if x == p1.X {
		return p1.Y
	}
	if x == p2.X {
		return p2.Y
	}

	y := p1.Y
	if dx := p2.X - p1.X; dx != 0 {
		y += (x - p1.X).MulDivFloor(p2.Y-p1.Y, dx)
	}
	return y
}

package raster

import "math/bits"

// Uint128 is an unsigned 128-bit integer built from two 64-bit halves. It
// backs the exact geometric predicates that need products of 64-bit values.
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement.
type Int128 struct {
	Hi, Lo uint64
}

// Uint128From64 widens a uint64.
func Uint128From64(v uint64) Uint128 {
	return Uint128{0, v}
}

// Int128From64 sign-extends an int64.
func Int128From64(v int64) Int128 {
	var hi uint64
	if v < 0 {
		hi = ^uint64(0)
	}
	return Int128{hi, uint64(v)}
}

// Mul64x64 returns the full 128-bit product of two uint64.
func Mul64x64(a, b uint64) Uint128 {
	hi, lo := bits.Mul64(a, b)
	return Uint128{hi, lo}
}

// MulInt64x64 returns the full 128-bit product of two int64.
func MulInt64x64(a, b int64) Int128 {
	neg := false
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
		neg = !neg
	}
	if b < 0 {
		ub = uint64(-b)
		neg = !neg
	}
	p := Mul64x64(ua, ub)
	r := Int128(p)
	if neg {
		r = r.Neg()
	}
	return r
}

// Add returns a+b.
func (a Uint128) Add(b Uint128) Uint128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, _ := bits.Add64(a.Hi, b.Hi, carry)
	return Uint128{hi, lo}
}

// Sub returns a-b.
func (a Uint128) Sub(b Uint128) Uint128 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, _ := bits.Sub64(a.Hi, b.Hi, borrow)
	return Uint128{hi, lo}
}

// Mul returns the low 128 bits of a*b.
func (a Uint128) Mul(b Uint128) Uint128 {
	hi, lo := bits.Mul64(a.Lo, b.Lo)
	hi += a.Hi*b.Lo + a.Lo*b.Hi
	return Uint128{hi, lo}
}

// Shl shifts a left by n bits, n in [0,128).
func (a Uint128) Shl(n uint) Uint128 {
	if 64 <= n {
		return Uint128{a.Lo << (n - 64), 0}
	}
	if n == 0 {
		return a
	}
	return Uint128{a.Hi<<n | a.Lo>>(64-n), a.Lo << n}
}

// Shr shifts a right by n bits filling with zeros, n in [0,128).
func (a Uint128) Shr(n uint) Uint128 {
	if 64 <= n {
		return Uint128{0, a.Hi >> (n - 64)}
	}
	if n == 0 {
		return a
	}
	return Uint128{a.Hi >> n, a.Lo>>n | a.Hi<<(64-n)}
}

// Cmp returns -1, 0, or 1 when a is smaller than, equal to, or greater than b.
func (a Uint128) Cmp(b Uint128) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case b.Hi < a.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case b.Lo < a.Lo:
		return 1
	}
	return 0
}

// Lt is true when a < b.
func (a Uint128) Lt(b Uint128) bool {
	return a.Cmp(b) < 0
}

// Eq is true when a == b.
func (a Uint128) Eq(b Uint128) bool {
	return a == b
}

// IsZero is true when a == 0.
func (a Uint128) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

// Not returns the bitwise complement of a.
func (a Uint128) Not() Uint128 {
	return Uint128{^a.Hi, ^a.Lo}
}

// Neg returns the two's complement negation of a.
func (a Uint128) Neg() Uint128 {
	return a.Not().Add(Uint128{0, 1})
}

// DivRem returns the quotient and remainder of a/b. The divisor must not be
// zero. When the divisor fits 64 bits and the quotient fits 64 bits it uses
// the hardware division, otherwise it falls back to bit-at-a-time
// shift-and-subtract.
func (a Uint128) DivRem(b Uint128) (Uint128, Uint128) {
	if b.Hi == 0 {
		if a.Hi < b.Lo {
			quo, rem := bits.Div64(a.Hi, a.Lo, b.Lo)
			return Uint128{0, quo}, Uint128{0, rem}
		}
		quoHi := a.Hi / b.Lo
		quoLo, rem := bits.Div64(a.Hi%b.Lo, a.Lo, b.Lo)
		return Uint128{quoHi, quoLo}, Uint128{0, rem}
	}

	var quo, rem Uint128
	for bit := 127; 0 <= bit; bit-- {
		rem = rem.Shl(1)
		if bit < 64 {
			rem.Lo |= a.Lo >> uint(bit) & 1
		} else {
			rem.Lo |= a.Hi >> uint(bit-64) & 1
		}
		if !rem.Lt(b) {
			rem = rem.Sub(b)
			if bit < 64 {
				quo.Lo |= 1 << uint(bit)
			} else {
				quo.Hi |= 1 << uint(bit-64)
			}
		}
	}
	return quo, rem
}

// Add returns a+b.
func (a Int128) Add(b Int128) Int128 {
	return Int128(Uint128(a).Add(Uint128(b)))
}

// Sub returns a-b.
func (a Int128) Sub(b Int128) Int128 {
	return Int128(Uint128(a).Sub(Uint128(b)))
}

// Neg returns -a.
func (a Int128) Neg() Int128 {
	return Int128(Uint128(a).Neg())
}

// Mul returns the low 128 bits of a*b.
func (a Int128) Mul(b Int128) Int128 {
	return Int128(Uint128(a).Mul(Uint128(b)))
}

// Shl shifts a left by n bits, n in [0,128).
func (a Int128) Shl(n uint) Int128 {
	return Int128(Uint128(a).Shl(n))
}

// Sar shifts a right by n bits replicating the sign bit, n in [0,128).
func (a Int128) Sar(n uint) Int128 {
	if 64 <= n {
		hi := uint64(int64(a.Hi) >> 63)
		return Int128{hi, uint64(int64(a.Hi) >> (n - 64))}
	}
	if n == 0 {
		return a
	}
	return Int128{uint64(int64(a.Hi) >> n), a.Lo>>n | a.Hi<<(64-n)}
}

// IsNeg is true when a < 0.
func (a Int128) IsNeg() bool {
	return a.Hi>>63 != 0
}

// IsZero is true when a == 0.
func (a Int128) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

// Cmp returns -1, 0, or 1 when a is smaller than, equal to, or greater than b.
func (a Int128) Cmp(b Int128) int {
	if a == b {
		return 0
	}
	if a.Lt(b) {
		return -1
	}
	return 1
}

// Lt is true when a < b.
func (a Int128) Lt(b Int128) bool {
	an, bn := a.IsNeg(), b.IsNeg()
	if an != bn {
		return an
	}
	return Uint128(a).Lt(Uint128(b))
}

// DivRem returns the quotient and remainder of a/b with truncation towards
// zero, matching Go's native integer division. The divisor must not be zero.
func (a Int128) DivRem(b Int128) (Int128, Int128) {
	ua, ub := Uint128(a), Uint128(b)
	if a.IsNeg() {
		ua = ua.Neg()
	}
	if b.IsNeg() {
		ub = ub.Neg()
	}
	quo, rem := ua.DivRem(ub)
	if a.IsNeg() != b.IsNeg() {
		quo = quo.Neg()
	}
	if a.IsNeg() {
		rem = rem.Neg()
	}
	return Int128(quo), Int128(rem)
}

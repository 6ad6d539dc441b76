package raster

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/tdewolff/test"
)

func uint128Big(a Uint128) *big.Int {
	v := new(big.Int).SetUint64(a.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(a.Lo))
}

func int128Big(a Int128) *big.Int {
	v := uint128Big(Uint128(a))
	if a.IsNeg() {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

func TestUint128Arithmetic(t *testing.T) {
	a := Mul64x64(math.MaxUint64, math.MaxUint64)
	test.T(t, a, Uint128{math.MaxUint64 - 1, 1})

	test.T(t, Uint128From64(1).Add(Uint128{0, math.MaxUint64}), Uint128{1, 0})
	test.T(t, Uint128{1, 0}.Sub(Uint128From64(1)), Uint128{0, math.MaxUint64})
	test.T(t, Uint128From64(3).Mul(Uint128From64(5)), Uint128From64(15))

	test.T(t, Uint128From64(1).Shl(64), Uint128{1, 0})
	test.T(t, Uint128{1, 0}.Shr(64), Uint128From64(1))
	test.T(t, Uint128{1, 2}.Shl(0), Uint128{1, 2})
	test.T(t, Uint128From64(0xff).Shl(4), Uint128From64(0xff0))

	test.T(t, Uint128From64(0).IsZero(), true)
	test.T(t, Uint128From64(1).Neg(), Uint128{math.MaxUint64, math.MaxUint64})
}

func TestUint128Cmp(t *testing.T) {
	test.T(t, Uint128{0, 5}.Cmp(Uint128{0, 7}), -1)
	test.T(t, Uint128{1, 0}.Cmp(Uint128{0, math.MaxUint64}), 1)
	test.T(t, Uint128{1, 2}.Cmp(Uint128{1, 2}), 0)
	test.T(t, Uint128{0, 5}.Lt(Uint128{1, 0}), true)
	test.T(t, Uint128{1, 2}.Eq(Uint128{1, 2}), true)
}

func TestUint128DivRem(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a := Uint128{rnd.Uint64(), rnd.Uint64()}
		b := Uint128{rnd.Uint64() >> (rnd.Uint64() % 64), rnd.Uint64()}
		if i%3 == 0 {
			b.Hi = 0 // exercise the hardware division path
		}
		if b.IsZero() {
			continue
		}

		quo, rem := a.DivRem(b)
		wantQuo, wantRem := new(big.Int).QuoRem(uint128Big(a), uint128Big(b), new(big.Int))
		test.T(t, uint128Big(quo).String(), wantQuo.String())
		test.T(t, uint128Big(rem).String(), wantRem.String())
	}
}

func TestInt128Arithmetic(t *testing.T) {
	test.T(t, Int128From64(-1), Int128{math.MaxUint64, math.MaxUint64})
	test.T(t, Int128From64(-2).Neg(), Int128From64(2))
	test.T(t, Int128From64(5).Add(Int128From64(-7)), Int128From64(-2))
	test.T(t, Int128From64(5).Sub(Int128From64(7)), Int128From64(-2))
	test.T(t, MulInt64x64(-3, 5), Int128From64(-15))
	test.T(t, MulInt64x64(math.MinInt64, -1), Int128From64(math.MinInt64).Neg())

	test.T(t, Int128From64(-8).Sar(2), Int128From64(-2))
	test.T(t, Int128From64(-1).Sar(100), Int128From64(-1))
	test.T(t, Int128From64(1).Shl(100).Sar(100), Int128From64(1))

	test.T(t, Int128From64(-1).IsNeg(), true)
	test.T(t, Int128From64(0).IsZero(), true)
}

func TestInt128Cmp(t *testing.T) {
	test.T(t, Int128From64(-5).Cmp(Int128From64(3)), -1)
	test.T(t, Int128From64(3).Cmp(Int128From64(-5)), 1)
	test.T(t, Int128From64(-5).Cmp(Int128From64(-5)), 0)
	test.T(t, Int128From64(-5).Lt(Int128From64(-4)), true)
	test.T(t, Int128From64(math.MinInt64).Lt(Int128From64(math.MaxInt64)), true)
}

func TestInt128DivRem(t *testing.T) {
	var tts = []struct {
		a, b     int64
		quo, rem int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -3, -1},
		{7, -2, -3, 1},
		{-7, -2, 3, -1},
		{0, 5, 0, 0},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			quo, rem := Int128From64(tt.a).DivRem(Int128From64(tt.b))
			test.T(t, quo, Int128From64(tt.quo))
			test.T(t, rem, Int128From64(tt.rem))
		})
	}

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a := MulInt64x64(int64(rnd.Uint64()), int64(rnd.Uint64()>>20))
		b := Int128From64(int64(rnd.Uint64() >> (rnd.Uint64() % 62)))
		if b.IsZero() {
			continue
		}

		quo, rem := a.DivRem(b)
		wantQuo, wantRem := new(big.Int).QuoRem(int128Big(a), int128Big(b), new(big.Int))
		test.T(t, int128Big(quo).String(), wantQuo.String())
		test.T(t, int128Big(rem).String(), wantRem.String())
	}
}

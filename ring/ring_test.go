package ring

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/kyberq/barrett/utils/sampling"
	"github.com/stretchr/testify/require"
)

// domain is the number of non-negative int16 values.
const domain = 1 << 15

var testKey = []byte{0x4c, 0x61, 0x74, 0x74, 0x69, 0x63, 0x65, 0x2d, 0x33, 0x33, 0x32, 0x39}

func testString(opname string, p Parameters) string {
	return fmt.Sprintf("%s/Q=%d/k=%d/m=%d", opname, p.Modulus(), p.Shift(), p.BRedConstant())
}

func allParameters(t *testing.T) (params []Parameters) {
	for shift := uint(MinShift); shift <= MaxShift; shift++ {
		p, err := NewParameters(shift)
		require.NoError(t, err)
		params = append(params, p)
	}
	return
}

func TestRing(t *testing.T) {

	testNewParameters(t)
	testBRedConstant(t)
	testBRedGolden(t)
	testCRed(t)

	for _, p := range allParameters(t) {
		testReduce(p, t)
		testSafeBound(p, t)
		testReduceVec(p, t)
	}
}

func testNewParameters(t *testing.T) {

	t.Run("NewParameters", func(t *testing.T) {

		p, err := NewParameters(DefaultShift)
		require.NoError(t, err)
		require.Equal(t, DefaultParameters, p)
		require.Equal(t, uint(26), p.Shift())
		require.Equal(t, int16(Q), p.Modulus())

		_, err = NewParameters(MinShift - 1)
		require.Error(t, err)

		_, err = NewParameters(MaxShift + 1)
		require.Error(t, err)
	})
}

func testBRedConstant(t *testing.T) {

	t.Run("BRedConstant", func(t *testing.T) {

		require.Equal(t, int16(20159), DefaultParameters.BRedConstant())
		require.Equal(t, int16(5040), BRedConstant(24))
		require.Equal(t, int16(10079), BRedConstant(25))

		bigQ := big.NewRat(Q, 1)

		for shift := uint(MinShift); shift <= MaxShift; shift++ {

			// round(2^k / Q) computed with exact rationals
			want := new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), shift))
			want.Quo(want, bigQ)
			want.Add(want, big.NewRat(1, 2))
			wantInt := new(big.Int).Quo(want.Num(), want.Denom())

			require.Equalf(t, wantInt.Int64(), int64(BRedConstant(shift)), "shift=%d", shift)
		}

		require.Equal(t, int64(447), DefaultParameters.Error())
	})
}

func testBRedGolden(t *testing.T) {

	t.Run("BRed/Golden", func(t *testing.T) {

		require.Equal(t, int16(2144), int16(32105%Q))
		require.Equal(t, int16(2144), BRed(32105))
		require.Equal(t, int16(0), BRed(0))
		require.Equal(t, int16(3328), BRed(3328))
		require.Equal(t, int16(0), BRed(Q))
		require.Equal(t, int16(math.MaxInt16%Q), BRed(math.MaxInt16))

		for a := 0; a < domain; a++ {
			require.Equalf(t, int16(a%Q), BRed(int16(a)), "a=%d", a)
			require.Equalf(t, int16(a%Q), BRedCanonical(int16(a)), "a=%d", a)
		}
	})

	t.Run("BRed/Shift24", func(t *testing.T) {

		p, err := NewParameters(24)
		require.NoError(t, err)

		for _, a := range []int16{19973, 23302, 26631, 29960} {
			require.Equal(t, int16(Q-1), int16(a%Q))
			require.Equalf(t, int16(-1), p.Reduce(a), "a=%d", a)
			require.Equal(t, int16(Q-1), CRed(p.Reduce(a)))
		}
	})

	t.Run("BRed/Shift25", func(t *testing.T) {

		p, err := NewParameters(25)
		require.NoError(t, err)

		require.Equal(t, int16(Q), p.Reduce(Q))
		require.Equal(t, int16(Q+1), p.Reduce(23304))
		require.Equal(t, int16(0), CRed(p.Reduce(Q)))
	})

	t.Run("BRedVec", func(t *testing.T) {

		p1 := make([]int16, domain)
		p2 := make([]int16, domain)

		for i := range p1 {
			p1[i] = int16(i)
		}

		BRedVec(p1, p2)

		for i := range p1 {
			require.Equal(t, int16(i%Q), p2[i])
		}
	})
}

func testCRed(t *testing.T) {

	t.Run("CRed", func(t *testing.T) {
		for a := -Q; a < 2*Q; a++ {
			want := int16(((a % Q) + Q) % Q)
			require.Equalf(t, want, CRed(int16(a)), "a=%d", a)
		}
	})
}

func testReduce(p Parameters, t *testing.T) {

	t.Run(testString("Reduce/BoundedDeviation", p), func(t *testing.T) {

		for a := 0; a < domain; a++ {

			r := int(p.Reduce(int16(a)))
			d := r - a%Q

			require.Equalf(t, 0, (r-a)%Q, "a=%d r=%d", a, r)
			require.Containsf(t, []int{-Q, 0, Q}, d, "a=%d r=%d", a, r)
			require.Equalf(t, int16(a%Q), CRed(int16(r)), "a=%d r=%d", a, r)
		}
	})

	t.Run(testString("Reduce/Deterministic", p), func(t *testing.T) {
		for a := 0; a < domain; a += 7 {
			require.Equal(t, p.Reduce(int16(a)), p.Reduce(int16(a)))
		}
	})
}

func testSafeBound(p Parameters, t *testing.T) {

	t.Run(testString("SafeBound", p), func(t *testing.T) {

		bound := p.SafeBound()

		switch d := p.Error(); {
		case d > 0:
			// a = bound-1 is safe, a*d must stay below 2^k
			require.Less(t, (bound-1)*d, int64(1)<<p.Shift())
			require.GreaterOrEqual(t, bound*d, int64(1)<<p.Shift())
		case d < 0:
			require.Equal(t, int64(Q), bound)
		}

		for a := int64(0); a < domain && a < bound; a++ {
			require.Equalf(t, int16(a%Q), p.Reduce(int16(a)), "a=%d", a)
		}
	})
}

func testReduceVec(p Parameters, t *testing.T) {

	t.Run(testString("ReduceVec", p), func(t *testing.T) {

		prng, err := sampling.NewKeyedPRNG(testKey)
		require.NoError(t, err)

		for _, N := range []int{0, 1, 7, 8, 9, 256, 1023} {

			p1 := make([]int16, N)
			p2 := make([]int16, N)
			p3 := make([]int16, N)

			require.NoError(t, sampling.ReadInt16(prng, math.MaxInt16, p1))

			p.ReduceVec(p1, p2)

			for i := range p1 {
				require.Equal(t, p.Reduce(p1[i]), p2[i])
			}

			CRedVec(p2, p3)

			for i := range p1 {
				require.Equal(t, p1[i]%Q, p3[i])
			}
		}

		require.Panics(t, func() { p.ReduceVec(make([]int16, 8), make([]int16, 9)) })
		require.Panics(t, func() { CRedVec(make([]int16, 9), make([]int16, 8)) })
	})
}

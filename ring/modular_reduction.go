package ring

import (
	"fmt"
	"math"
)

// Q is the ML-KEM/Kyber prime 3329 = 13*2^8 + 1.
const Q = 3329

const (
	// DefaultShift is the shift width k of the default parameters.
	// 2*Q fits into 13 bits and a 24-bit radix is the textbook choice,
	// but with k = 24 the estimated quotient overshoots for a handful of
	// inputs of the 16-bit domain (the result is -1 instead of Q-1).
	// With k = 26 every input of [0, 2^15) reduces to its canonical residue.
	DefaultShift = 26

	// MinShift is the smallest supported shift width.
	// Below it the raw result can drift by more than one multiple of Q.
	MinShift = 14

	// MaxShift is the largest supported shift width.
	// Above it the Barrett constant no longer fits in an int16.
	MaxShift = 26
)

// DefaultParameters are the Barrett parameters for Q with a 2^26 radix.
var DefaultParameters = mustParameters(DefaultShift)

//==========================
//=== BARRETT REDUCTION  ===
//==========================

// Parameters stores the shift width k and the Barrett constant
// m = round(2^k / Q) derived from it. The two values are always
// derived together and cannot be set independently.
type Parameters struct {
	shift uint
	m     int16
}

// BRedConstant computes the Barrett constant round(2^shift / Q),
// i.e. floor((2^shift + floor(Q/2)) / Q).
func BRedConstant(shift uint) int16 {
	return int16(((int64(1) << shift) + Q/2) / Q)
}

// NewParameters derives the Barrett parameters for Q with a radix of 2^shift.
// Returns an error if shift is not in [MinShift, MaxShift].
func NewParameters(shift uint) (p Parameters, err error) {
	if shift < MinShift || shift > MaxShift {
		return Parameters{}, fmt.Errorf("invalid shift: %d is not in [%d, %d]", shift, MinShift, MaxShift)
	}
	return Parameters{shift: shift, m: BRedConstant(shift)}, nil
}

func mustParameters(shift uint) Parameters {
	p, err := NewParameters(shift)
	if err != nil {
		panic(fmt.Errorf("cannot NewParameters: %w", err))
	}
	return p
}

// Modulus returns Q.
func (p Parameters) Modulus() int16 {
	return Q
}

// Shift returns the shift width k.
func (p Parameters) Shift() uint {
	return p.shift
}

// BRedConstant returns the Barrett constant m.
func (p Parameters) BRedConstant() int16 {
	return p.m
}

// Error returns m*Q - 2^k. A positive value means m overestimates 2^k/Q
// (the estimated quotient can be one too large), a negative value means
// it underestimates it (the estimated quotient can be one too small).
func (p Parameters) Error() int64 {
	return int64(p.m)*Q - int64(1)<<p.shift
}

// SafeBound returns the exclusive bound B such that Reduce(a) is the
// canonical residue of a for every 0 <= a < B.
//
// Write a = qQ + r and d = Error(). Then a*m/2^k = q + (r*2^k + a*d)/(Q*2^k).
// If d > 0 the estimate overshoots iff r*2^k + a*d >= Q*2^k, which cannot
// happen while a*d < 2^k. If d < 0 the estimate undershoots as soon as a is
// a positive multiple of Q.
func (p Parameters) SafeBound() int64 {
	d := p.Error()
	switch {
	case d == 0:
		return math.MaxInt64
	case d < 0:
		return Q
	default:
		r := int64(1) << p.shift
		return (r + d - 1) / d
	}
}

// Reduce returns a value congruent to a mod Q using Barrett reduction.
// Assumes that 0 <= a.
// The result is not corrected: depending on the shift width it can be
// a mod Q, (a mod Q) - Q or (a mod Q) + Q. Use CRed for the canonical residue.
func (p Parameters) Reduce(a int16) int16 {
	t := (int32(a) * int32(p.m)) >> p.shift
	return int16(int32(a) - t*Q)
}

// BRed reduces a by Q with the default parameters.
// Assumes that 0 <= a.
// For the default parameters the result is in [0, Q-1] for all a in [0, 2^15).
func BRed(a int16) int16 {
	return DefaultParameters.Reduce(a)
}

// BRedCanonical is identical to BRed, except that the result is
// always corrected into [0, Q-1].
func BRedCanonical(a int16) int16 {
	return CRed(BRed(a))
}

//===============================
//==== CONDITIONAL REDUCTION ====
//===============================

// CRed returns the canonical residue of a, where
// a is required to be in the range [-Q, 2Q-1].
// This function is constant time.
func CRed(a int16) int16 {
	a += (a >> 15) & Q
	a -= Q
	a += (a >> 15) & Q
	return a
}

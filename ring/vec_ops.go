package ring

import (
	"fmt"
	"unsafe"
)

// ReduceVec evaluates p2 = p1 mod Q with Barrett reduction.
// p2 is not corrected and can be one multiple of Q away from the canonical residue,
// see Parameters.Reduce.
// p1 must be non-negative and p1, p2 must be of the same size.
// This function is constant time.
func (p Parameters) ReduceVec(p1, p2 []int16) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for j := 0; j < N-(N&7); j = j + 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8*/
		x := (*[8]int16)(unsafe.Pointer(&p1[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8*/
		z := (*[8]int16)(unsafe.Pointer(&p2[j]))

		z[0] = p.Reduce(x[0])
		z[1] = p.Reduce(x[1])
		z[2] = p.Reduce(x[2])
		z[3] = p.Reduce(x[3])
		z[4] = p.Reduce(x[4])
		z[5] = p.Reduce(x[5])
		z[6] = p.Reduce(x[6])
		z[7] = p.Reduce(x[7])
	}

	for i := N - (N & 7); i < N; i++ {
		p2[i] = p.Reduce(p1[i])
	}
}

// BRedVec evaluates p2 = p1 mod Q with the default parameters.
// p2 is ensured to be in the range [0, Q-1].
// p1 must be non-negative and p1, p2 must be of the same size.
func BRedVec(p1, p2 []int16) {
	DefaultParameters.ReduceVec(p1, p2)
}

// CRedVec evaluates p2 = CRed(p1).
// p1 must be in the range [-Q, 2Q-1] and p1, p2 must be of the same size.
// This function is constant time.
func CRedVec(p1, p2 []int16) {

	N := len(p1)

	if len(p2) != N {
		panic(fmt.Errorf("len(p1)=%d len(p2)=%d", N, len(p2)))
	}

	for j := 0; j < N-(N&7); j = j + 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8*/
		x := (*[8]int16)(unsafe.Pointer(&p1[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8*/
		z := (*[8]int16)(unsafe.Pointer(&p2[j]))

		z[0] = CRed(x[0])
		z[1] = CRed(x[1])
		z[2] = CRed(x[2])
		z[3] = CRed(x[3])
		z[4] = CRed(x[4])
		z[5] = CRed(x[5])
		z[6] = CRed(x[6])
		z[7] = CRed(x[7])
	}

	for i := N - (N & 7); i < N; i++ {
		p2[i] = CRed(p1[i])
	}
}

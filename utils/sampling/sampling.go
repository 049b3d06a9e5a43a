// Package sampling implements sampling of bytes and small integers.
package sampling

import (
	"encoding/binary"
	"fmt"
)

// RandInt16 returns a uniform value in [0, bound-1] read from prng.
// Values are drawn from 15 random bits and rejected when they fall outside the largest
// multiple of bound, so the result carries no modular bias.
func RandInt16(prng PRNG, bound int16) (int16, error) {

	if bound <= 0 {
		return 0, fmt.Errorf("invalid bound: %d is not positive", bound)
	}

	limit := (1 << 15) - (1<<15)%int32(bound)

	buf := []byte{0, 0}
	for {
		if _, err := prng.Read(buf); err != nil {
			return 0, fmt.Errorf("cannot RandInt16: %w", err)
		}

		if x := int32(binary.LittleEndian.Uint16(buf) & 0x7fff); x < limit {
			return int16(x % int32(bound)), nil
		}
	}
}

// ReadInt16 fills v with uniform values in [0, bound-1] read from prng.
func ReadInt16(prng PRNG, bound int16, v []int16) (err error) {
	for i := range v {
		if v[i], err = RandInt16(prng, bound); err != nil {
			return
		}
	}
	return
}

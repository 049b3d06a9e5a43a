// Package harness checks the Barrett reduction of the ring package against the
// true modulo operation over every non-negative int16 input.
package harness

import (
	"context"
	"fmt"

	"github.com/kyberq/barrett/ring"
	"golang.org/x/sync/errgroup"
)

// DomainSize is the number of inputs checked: the harness enumerates [0, DomainSize),
// i.e. every non-negative int16.
const DomainSize = 1 << 15

// checkInterval is the number of inputs evaluated between two context checks.
const checkInterval = 1 << 10

type shard struct {
	lo, hi     int
	correct    int
	mismatches []Mismatch
}

// eval reduces every input of [s.lo, s.hi) and writes the results in out[s.lo:s.hi].
func (s *shard) eval(ctx context.Context, p ring.Parameters, out []int16) error {
	for i := s.lo; i < s.hi; i++ {

		if (i-s.lo)%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		a := int16(i)
		expected := a % ring.Q
		actual := p.Reduce(a)
		out[i] = actual

		if actual == expected {
			s.correct++
		} else {
			s.mismatches = append(s.mismatches, Mismatch{Input: a, Expected: expected, Actual: actual})
		}
	}
	return nil
}

// Run enumerates the whole domain sequentially and returns the resulting Report.
func Run(p ring.Parameters) Report {
	out := make([]int16, DomainSize)
	s := &shard{lo: 0, hi: DomainSize}
	// context.Background is never cancelled
	_ = s.eval(context.Background(), p, out)
	return newReport(p, []*shard{s}, out)
}

// RunParallel is identical to Run, except that the domain is split into the given
// number of disjoint contiguous shards evaluated concurrently.
// The returned Report is equal to the one of Run.
// Returns an error if shards is not positive or if ctx is cancelled before completion.
func RunParallel(ctx context.Context, p ring.Parameters, shards int) (Report, error) {

	if shards < 1 || shards > DomainSize {
		return Report{}, fmt.Errorf("invalid number of shards: %d is not in [1, %d]", shards, DomainSize)
	}

	out := make([]int16, DomainSize)
	parts := make([]*shard, shards)

	size := (DomainSize + shards - 1) / shards

	g, gctx := errgroup.WithContext(ctx)

	for i := range parts {
		lo := min(i*size, DomainSize)
		hi := min(lo+size, DomainSize)
		parts[i] = &shard{lo: lo, hi: hi}

		s := parts[i]
		g.Go(func() error {
			return s.eval(gctx, p, out)
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("cannot RunParallel: %w", err)
	}

	return newReport(p, parts, out), nil
}

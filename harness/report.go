package harness

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/kyberq/barrett/ring"
	"github.com/montanaflynn/stats"
	"github.com/zeebo/blake3"
	"golang.org/x/exp/slices"
)

// Mismatch is an input for which the Barrett reduction differs from the canonical residue.
type Mismatch struct {
	Input    int16
	Expected int16
	Actual   int16
}

// Deviation returns (Actual - Expected) / Q.
// Within the supported shift widths it is always -1 or +1.
func (m Mismatch) Deviation() int {
	return (int(m.Actual) - int(m.Expected)) / ring.Q
}

// Congruent returns true if Actual = Expected mod Q.
func (m Mismatch) Congruent() bool {
	return (int(m.Actual)-int(m.Expected))%ring.Q == 0
}

// String returns the "<input>/<expected>/<actual>" representation of the mismatch.
func (m Mismatch) String() string {
	return fmt.Sprintf("%d/%d/%d", m.Input, m.Expected, m.Actual)
}

// Report is the outcome of an enumeration of the domain.
type Report struct {
	Params ring.Parameters

	// Total is the number of inputs checked.
	Total int

	// Correct is the number of inputs reduced to their canonical residue.
	Correct int

	// Mismatches lists, in increasing order of input, the inputs that were not.
	Mismatches []Mismatch

	// Digest is the blake3 hash of the reduction of every input, in input order.
	Digest [32]byte
}

func newReport(p ring.Parameters, shards []*shard, out []int16) (r Report) {

	r.Params = p
	r.Total = len(out)

	for _, s := range shards {
		r.Correct += s.correct
		r.Mismatches = append(r.Mismatches, s.mismatches...)
	}

	r.Digest = digest(out)

	return
}

func digest(v []int16) (sum [32]byte) {
	buf := make([]byte, 2*len(v))
	for i := range v {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v[i]))
	}
	return blake3.Sum256(buf)
}

// CanonicalDigest returns the Digest of a reduction that always returns
// the canonical residue, i.e. the hash of [i mod Q for i in the domain].
func CanonicalDigest() [32]byte {
	v := make([]int16, DomainSize)
	for i := range v {
		v[i] = int16(i % ring.Q)
	}
	return digest(v)
}

// Ratio returns the percentage of inputs reduced to their canonical residue.
func (r Report) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// Canonical returns true if every input was reduced to its canonical residue.
func (r Report) Canonical() bool {
	return len(r.Mismatches) == 0
}

// Bounded returns true if every mismatch is congruent to its expected value
// and at most one multiple of Q away from it.
func (r Report) Bounded() bool {
	for _, m := range r.Mismatches {
		if d := m.Deviation(); !m.Congruent() || d < -1 || d > 1 {
			return false
		}
	}
	return true
}

// Lookup returns the mismatch recorded for input a, if any.
func (r Report) Lookup(a int16) (Mismatch, bool) {
	i, found := slices.BinarySearchFunc(r.Mismatches, a, func(m Mismatch, a int16) int {
		return int(m.Input) - int(a)
	})
	if !found {
		return Mismatch{}, false
	}
	return r.Mismatches[i], true
}

// Deviations returns the number of inputs per deviation class
// (0 for a canonical result, -1 and +1 for a result one multiple of Q below or above).
func (r Report) Deviations() map[int]int {
	classes := map[int]int{0: r.Correct}
	for _, m := range r.Mismatches {
		classes[m.Deviation()]++
	}
	return classes
}

// Summary gathers statistics over the per-input deviation of a Report.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary computes the statistics of the per-input deviation (in multiples of Q) over the domain.
func (r Report) Summary() (s Summary, err error) {

	dev := make(stats.Float64Data, r.Correct, r.Total)
	for _, m := range r.Mismatches {
		dev = append(dev, float64(m.Deviation()))
	}

	if s.Mean, err = dev.Mean(); err != nil {
		return Summary{}, fmt.Errorf("cannot Summary: %w", err)
	}

	if s.StdDev, err = dev.StandardDeviationPopulation(); err != nil {
		return Summary{}, fmt.Errorf("cannot Summary: %w", err)
	}

	if s.Min, err = dev.Min(); err != nil {
		return Summary{}, fmt.Errorf("cannot Summary: %w", err)
	}

	if s.Max, err = dev.Max(); err != nil {
		return Summary{}, fmt.Errorf("cannot Summary: %w", err)
	}

	return
}

// WriteTo writes the report on w: one "<input>/<expected>/<actual>" line per mismatch
// followed by the line "Ratio(Correct/Total/Ratio): <correct>/<total>/<percentage>%".
func (r Report) WriteTo(w io.Writer) (n int64, err error) {

	var inc int

	for _, m := range r.Mismatches {
		if inc, err = fmt.Fprintln(w, m.String()); err != nil {
			return n + int64(inc), fmt.Errorf("cannot WriteTo: %w", err)
		}
		n += int64(inc)
	}

	ratio := strconv.FormatFloat(r.Ratio(), 'f', -1, 64)

	if inc, err = fmt.Fprintf(w, "Ratio(Correct/Total/Ratio): %d/%d/%s%%\n", r.Correct, r.Total, ratio); err != nil {
		return n + int64(inc), fmt.Errorf("cannot WriteTo: %w", err)
	}

	return n + int64(inc), nil
}

package axis

import (
	"iter"
	"math"
)

// Integer is a regular axis of unit-width bins, one per integer in [low, high].
// Bin i covers [low+i, low+i+1), so Edge(Bins()) is high+1.
type Integer struct {
	base
	low, high int
}

// NewInteger builds an integer axis with low ≤ high.
func NewInteger(low, high int, opts ...Option) (*Integer, error) {
	if low > high {
		return nil, invalid("integer_axis: low (%d) must not exceed high (%d)", low, high)
	}
	bins := high - low + 1
	if bins < 1 {
		return nil, invalid("integer_axis: range %d..%d is too wide", low, high)
	}
	o := collect(opts)
	return &Integer{
		base: base{label: o.label, bins: bins, uoflow: o.uoflow},
		low:  low,
		high: high,
	}, nil
}

func (a *Integer) Kind() Kind { return KindInteger }

// Low and High return the inclusive integer range.
func (a *Integer) Low() int  { return a.low }
func (a *Integer) High() int { return a.high }

// Len is Bins()+1, the number of unit edges.
func (a *Integer) Len() int { return a.bins + 1 }

// Locate floors x onto the integer grid. NaN locates to the overflow slot.
//
//go:nosplit
//go:inline
func (a *Integer) Locate(x float64) int {
	z := math.Floor(x) - float64(a.low)
	switch {
	case z < 0:
		return Underflow
	case z < float64(a.bins):
		return int(z)
	default:
		return a.bins
	}
}

// LocateInt is Locate for integer input without a float round trip.
//
//go:nosplit
//go:inline
func (a *Integer) LocateInt(n int) int {
	if n < a.low {
		return Underflow
	}
	if n > a.high {
		return a.bins
	}
	return n - a.low
}

// Value returns the integer edge low+i, clamped to the enumeration range.
func (a *Integer) Value(i int) int {
	i = max(0, min(i, a.bins))
	return a.low + i
}

// Edge returns low+i as a float. Indices outside [0, Bins()] return ∓Inf.
func (a *Integer) Edge(i int) float64 {
	if i < 0 {
		return math.Inf(-1)
	}
	if i > a.bins {
		return math.Inf(1)
	}
	return float64(a.low + i)
}

// Edges yields Edge(0) … Edge(Bins()).
func (a *Integer) Edges() iter.Seq[float64] { return edges(a) }

// Values yields low … high+1.
func (a *Integer) Values() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i <= a.bins; i++ {
			if !yield(a.low + i) {
				return
			}
		}
	}
}

func (a *Integer) Equal(other Axis) bool {
	o, ok := other.(*Integer)
	return ok && a.base.equal(&o.base) && a.low == o.low && a.high == o.high
}

func (a *Integer) String() string {
	return newCall(KindInteger).
		integer(a.low).integer(a.high).
		options(&a.base, true).
		done()
}

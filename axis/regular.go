package axis

import (
	"iter"
	"math"
)

// Regular splits [low, high) into Bins() equal-width bins.
type Regular struct {
	base
	low, high float64
}

// NewRegular builds a regular axis. bins must be ≥ 1 and low < high, both
// finite, with a finite span high-low.
func NewRegular(bins int, low, high float64, opts ...Option) (*Regular, error) {
	if bins < 1 {
		return nil, invalid("regular_axis: bins must be positive, got %d", bins)
	}
	if !finite(low) || !finite(high) {
		return nil, invalid("regular_axis: bounds must be finite")
	}
	if !(low < high) {
		return nil, invalid("regular_axis: low (%v) must be below high (%v)", low, high)
	}
	if !finite(high - low) {
		return nil, invalid("regular_axis: span of [%v, %v) overflows", low, high)
	}
	o := collect(opts)
	return &Regular{
		base: base{label: o.label, bins: bins, uoflow: o.uoflow},
		low:  low,
		high: high,
	}, nil
}

func (a *Regular) Kind() Kind { return KindRegular }

// Low and High return the range bounds.
func (a *Regular) Low() float64  { return a.low }
func (a *Regular) High() float64 { return a.high }

// Width is the uniform bin width.
func (a *Regular) Width() float64 { return (a.high - a.low) / float64(a.bins) }

// Len is Bins()+1, the number of edges.
func (a *Regular) Len() int { return a.bins + 1 }

// Locate maps x to its bin. NaN locates to the overflow slot.
//
//go:nosplit
//go:inline
func (a *Regular) Locate(x float64) int {
	z := (x - a.low) / (a.high - a.low)
	switch {
	case z < 0:
		return Underflow
	case z < 1:
		i := int(z * float64(a.bins))
		// z*bins may round up to bins for z just below 1.
		if i >= a.bins {
			return a.bins - 1
		}
		return i
	default:
		return a.bins
	}
}

// Edge returns the lower edge of bin i; Edge(Bins()) is High().
// Indices outside [0, Bins()] return ∓Inf.
func (a *Regular) Edge(i int) float64 {
	if i < 0 {
		return math.Inf(-1)
	}
	if i > a.bins {
		return math.Inf(1)
	}
	z := float64(i) / float64(a.bins)
	return (1-z)*a.low + z*a.high
}

// Edges yields Edge(0) … Edge(Bins()).
func (a *Regular) Edges() iter.Seq[float64] { return edges(a) }

func (a *Regular) Equal(other Axis) bool {
	o, ok := other.(*Regular)
	return ok && a.base.equal(&o.base) && a.low == o.low && a.high == o.high
}

func (a *Regular) String() string {
	return newCall(KindRegular).
		integer(a.bins).real(a.low).real(a.high).
		options(&a.base, true).
		done()
}

// edges is the shared restartable enumeration for numeric variants.
func edges(a Numeric) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := 0; i <= a.Bins(); i++ {
			if !yield(a.Edge(i)) {
				return
			}
		}
	}
}

package axis

import (
	"iter"
	"math"

	"ndhist/constants"
)

// Polar is a circular axis of period 2π starting at Start(). Values outside
// one period wrap around, so there are never underflow or overflow slots.
type Polar struct {
	base
	start float64
}

// NewPolar builds a polar axis with bins ≥ 1 and a finite start.
// WithUoflow is rejected, even with false.
func NewPolar(bins int, start float64, opts ...Option) (*Polar, error) {
	if bins < 1 {
		return nil, invalid("polar_axis: bins must be positive, got %d", bins)
	}
	if !finite(start) {
		return nil, invalid("polar_axis: start must be finite")
	}
	o := collect(opts)
	if o.uoflowSet {
		return nil, invalid("polar_axis: uoflow is not supported")
	}
	return &Polar{
		base:  base{label: o.label, bins: bins},
		start: start,
	}, nil
}

func (a *Polar) Kind() Kind { return KindPolar }

// Start is the phase of the first edge.
func (a *Polar) Start() float64 { return a.start }

// Len is Bins()+1; the last edge is Start()+2π.
func (a *Polar) Len() int { return a.bins + 1 }

// Locate wraps x into one period with a true (floored) modulo.
// NaN locates to bin 0.
//
//go:nosplit
//go:inline
func (a *Polar) Locate(x float64) int {
	z := (x - a.start) / constants.PolarPeriod
	f := z - math.Floor(z)
	if !(f >= 0) {
		return 0
	}
	i := int(f * float64(a.bins))
	// f rounds up to 1 for values a hair below a period boundary.
	if i >= a.bins {
		return a.bins - 1
	}
	return i
}

// Edge returns Start() + i·2π/Bins(). Indices outside [0, Bins()] return ∓Inf.
func (a *Polar) Edge(i int) float64 {
	if i < 0 {
		return math.Inf(-1)
	}
	if i > a.bins {
		return math.Inf(1)
	}
	return a.start + float64(i)*(constants.PolarPeriod/float64(a.bins))
}

// Edges yields Edge(0) … Edge(Bins()).
func (a *Polar) Edges() iter.Seq[float64] { return edges(a) }

func (a *Polar) Equal(other Axis) bool {
	o, ok := other.(*Polar)
	return ok && a.base.equal(&o.base) && a.start == o.start
}

func (a *Polar) String() string {
	c := newCall(KindPolar).integer(a.bins)
	if a.start != 0 {
		c.real(a.start)
	}
	return c.options(&a.base, false).done()
}

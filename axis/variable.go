package axis

import (
	"iter"
	"math"
	"slices"
	"sort"
)

// Variable is an axis with arbitrary bin edges.
//
// Edges are not checked for monotonicity. Locate on unsorted edges never
// panics, but the resulting bin assignment is unspecified.
type Variable struct {
	base
	edges []float64
}

// NewVariable builds a variable axis from at least two edges. The slice is copied.
func NewVariable(edges []float64, opts ...Option) (*Variable, error) {
	if len(edges) < 2 {
		return nil, invalid("variable_axis: need at least 2 edges, got %d", len(edges))
	}
	o := collect(opts)
	return &Variable{
		base:  base{label: o.label, bins: len(edges) - 1, uoflow: o.uoflow},
		edges: slices.Clone(edges),
	}, nil
}

func (a *Variable) Kind() Kind { return KindVariable }

// Len is Bins()+1, the number of edges.
func (a *Variable) Len() int { return len(a.edges) }

// Locate finds the first edge above x; intervals are right-open.
// NaN locates to the overflow slot.
//
//go:nosplit
//go:inline
func (a *Variable) Locate(x float64) int {
	// Upper bound: index of the first edge strictly greater than x.
	ub := sort.Search(len(a.edges), func(i int) bool { return a.edges[i] > x })
	if math.IsNaN(x) {
		return a.bins
	}
	return ub - 1
}

// Edge returns edge i. Indices outside [0, Bins()] return ∓Inf.
func (a *Variable) Edge(i int) float64 {
	if i < 0 {
		return math.Inf(-1)
	}
	if i >= len(a.edges) {
		return math.Inf(1)
	}
	return a.edges[i]
}

// Edges yields every edge in construction order.
func (a *Variable) Edges() iter.Seq[float64] { return slices.Values(a.edges) }

func (a *Variable) Equal(other Axis) bool {
	o, ok := other.(*Variable)
	if !ok || !a.base.equal(&o.base) || len(a.edges) != len(o.edges) {
		return false
	}
	for i, e := range a.edges {
		if !sameFloat(e, o.edges[i]) {
			return false
		}
	}
	return true
}

func (a *Variable) String() string {
	c := newCall(KindVariable)
	for _, e := range a.edges {
		c.real(e)
	}
	return c.options(&a.base, true).done()
}

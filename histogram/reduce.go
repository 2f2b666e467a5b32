package histogram

import (
	"fmt"
	"iter"
	"math/bits"

	"ndhist/axis"
	"ndhist/storage"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// BIN ITERATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// All yields every counter with its extended multi-index, in storage order
// (last axis fastest). Flow slots are included: index Bins() is overflow and
// Bins()+1 is underflow on axes with uoflow.
//
// The index slice is reused between steps; clone it to keep it.
func (h *Histogram) All() iter.Seq2[[]int, uint64] {
	return func(yield func([]int, uint64) bool) {
		idx := make([]int, len(h.axes))
		for linear := 0; linear < h.storage.Size(); linear++ {
			if !yield(idx, h.storage.At(linear)) {
				return
			}
			// Odometer step over the shape.
			for d := len(idx) - 1; d >= 0; d-- {
				idx[d]++
				if idx[d] < h.shape[d] {
					break
				}
				idx[d] = 0
			}
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PROJECTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Project keeps the listed axes, in the order given, and sums every counter
// over the dropped ones. Flow slots of dropped axes are summed in, so the
// result has the same Sum. h is not modified.
func (h *Histogram) Project(dims ...int) (*Histogram, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: projection needs at least one axis", ErrInvalidArgument)
	}
	seen := make([]bool, len(h.axes))
	kept := make([]axisRef, len(dims))
	for k, d := range dims {
		if d < 0 || d >= len(h.axes) {
			return nil, fmt.Errorf("%w: axis %d outside [0, %d)", ErrInvalidArgument, d, len(h.axes))
		}
		if seen[d] {
			return nil, fmt.Errorf("%w: axis %d listed twice", ErrInvalidArgument, d)
		}
		seen[d] = true
		kept[k].dim = d
	}

	axes := make([]axis.Axis, 0, len(dims))
	for _, k := range kept {
		axes = append(axes, h.axes[k.dim])
	}
	p, err := layout(axes)
	if err != nil {
		return nil, err
	}
	for k := range kept {
		kept[k].stride = p.strides[k]
	}

	sums := make([]uint64, p.size())
	for idx, v := range h.All() {
		if v == 0 {
			continue
		}
		j := 0
		for _, k := range kept {
			j += idx[k.dim] * k.stride
		}
		s, carry := bits.Add64(sums[j], v, 0)
		if carry != 0 {
			return nil, storage.ErrSaturated
		}
		sums[j] = s
	}
	p.storage = storage.FromValues(sums)
	return p, nil
}

// axisRef maps a kept source axis to its stride in the projection.
type axisRef struct {
	dim    int
	stride int
}

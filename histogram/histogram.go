// ════════════════════════════════════════════════════════════════════════════════════════════════
// 📊 HISTOGRAM ENGINE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: Multi-Dimensional Fill Engine
//
// Description:
//   Composes N axes into a row-major multi-index over adaptive counter storage.
//   Every fill resolves one coordinate per axis, remaps the bin into the axis's
//   storage extent and increments a single counter.
//
// Storage layout per axis (extended slots):
//   0 … bins-1   normal bins
//   bins         overflow   (only when the axis has uoflow)
//   bins+1       underflow  (only when the axis has uoflow)
//
//   Overflow precedes underflow. Snapshots depend on this ordering.
//
// Linear index:
//   Axis 0 varies slowest, the last axis fastest.
//
// Threading model:
//   Single writer, no internal locking. Wrap in a mutex for concurrent fills.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package histogram

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"ndhist/axis"
	"ndhist/storage"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// ERRORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidArgument is shared with the axis package so one errors.Is
	// check covers construction and fill failures alike.
	ErrInvalidArgument = axis.ErrInvalidArgument

	// ErrArity reports a coordinate or index count that differs from Dim().
	ErrArity = errors.New("wrong number of coordinates")

	// ErrAxesMismatch reports a merge between histograms with different axes.
	ErrAxesMismatch = errors.New("histogram axes differ")
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Histogram owns an ordered, immutable axis list and the counter storage.
type Histogram struct {
	axes    []axis.Axis
	shape   []int // extent of each axis in storage
	strides []int // row-major strides, last axis = 1
	storage *storage.Storage
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// New builds a histogram over at least one axis with all counters at zero
// and depth 1.
func New(axes ...axis.Axis) (*Histogram, error) {
	h, err := layout(axes)
	if err != nil {
		return nil, err
	}
	h.storage = storage.New(h.size())
	return h, nil
}

// layout validates the axis list and derives shape and strides.
func layout(axes []axis.Axis) (*Histogram, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("%w: histogram needs at least one axis", ErrInvalidArgument)
	}
	h := &Histogram{
		axes:    slices.Clone(axes),
		shape:   make([]int, len(axes)),
		strides: make([]int, len(axes)),
	}
	for i, a := range axes {
		if a == nil {
			return nil, fmt.Errorf("%w: axis %d is nil", ErrInvalidArgument, i)
		}
		h.shape[i] = axis.Extent(a)
	}
	stride := 1
	for i := len(axes) - 1; i >= 0; i-- {
		h.strides[i] = stride
		if stride > math.MaxInt/h.shape[i] {
			return nil, fmt.Errorf("%w: histogram has too many bins", ErrInvalidArgument)
		}
		stride *= h.shape[i]
	}
	return h, nil
}

func (h *Histogram) size() int {
	return h.strides[0] * h.shape[0]
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// READ ACCESSORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Dim is the number of axes.
func (h *Histogram) Dim() int { return len(h.axes) }

// Axis returns axis i. It panics when i is out of range, like a slice index.
func (h *Histogram) Axis(i int) axis.Axis { return h.axes[i] }

// Axes returns a copy of the axis list.
func (h *Histogram) Axes() []axis.Axis { return slices.Clone(h.axes) }

// Shape is the storage extent of axis i: its bins plus two when it has uoflow.
func (h *Histogram) Shape(i int) int { return h.shape[i] }

// Depth is the current counter width in bytes.
func (h *Histogram) Depth() int { return h.storage.Depth() }

// Sum totals every counter, flow slots included.
func (h *Histogram) Sum() uint64 { return h.storage.Sum() }

// Size is the total number of counters.
func (h *Histogram) Size() int { return h.storage.Size() }

// At reads the counter at one extended index per axis. A negative index
// counts from the end of the axis extent, so -1 is the underflow slot of an
// axis with uoflow.
func (h *Histogram) At(idx ...int) (uint64, error) {
	if len(idx) != len(h.axes) {
		return 0, fmt.Errorf("%w: At expects %d indices, got %d", ErrArity, len(h.axes), len(idx))
	}
	linear := 0
	for i, j := range idx {
		if j < 0 {
			j += h.shape[i]
		}
		if j < 0 || j >= h.shape[i] {
			return 0, fmt.Errorf("%w: index %d on axis %d (extent %d)", storage.ErrIndex, idx[i], i, h.shape[i])
		}
		linear += j * h.strides[i]
	}
	return h.storage.At(linear), nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// EQUALITY & MERGING
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Equal reports same dimension, pairwise-equal axes and equal counter
// values. Depth does not take part.
func (h *Histogram) Equal(o *Histogram) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.sameAxes(o) && h.storage.Equal(o.storage)
}

func (h *Histogram) sameAxes(o *Histogram) bool {
	if len(h.axes) != len(o.axes) {
		return false
	}
	for i, a := range h.axes {
		if !a.Equal(o.axes[i]) {
			return false
		}
	}
	return true
}

// Add returns a new histogram holding h + o. Both inputs are unchanged.
func (h *Histogram) Add(o *Histogram) (*Histogram, error) {
	if !h.sameAxes(o) {
		return nil, ErrAxesMismatch
	}
	m, err := h.storage.Merge(o.storage)
	if err != nil {
		return nil, err
	}
	return &Histogram{axes: h.axes, shape: h.shape, strides: h.strides, storage: m}, nil
}

// AddInPlace adds o into h, keeping h's axes. h.AddInPlace(h) doubles every count.
func (h *Histogram) AddInPlace(o *Histogram) error {
	if !h.sameAxes(o) {
		return ErrAxesMismatch
	}
	return h.storage.AddInPlace(o.storage)
}

// Clone returns an independent copy. Axes are immutable and shared.
func (h *Histogram) Clone() *Histogram {
	return &Histogram{axes: h.axes, shape: h.shape, strides: h.strides, storage: h.storage.Clone()}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// BUFFER EXPOSURE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Copy returns an owned snapshot of the counters typed to the current depth,
// shaped by the axis extents.
func (h *Histogram) Copy() storage.Buffer {
	b := h.storage.Copy()
	b.Shape = slices.Clone(h.shape)
	return b
}

// View aliases the live counters. It reflects later fills only until the next
// promotion; from then on it is a frozen snapshot of the old buffer.
func (h *Histogram) View() storage.Buffer {
	b := h.storage.View()
	b.Shape = slices.Clone(h.shape)
	return b
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TEXT FORM
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// String is the canonical form "histogram(<axis>, <axis>, ...)". Counts are
// not part of it.
func (h *Histogram) String() string {
	var sb strings.Builder
	sb.WriteString("histogram(")
	for i, a := range h.axes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

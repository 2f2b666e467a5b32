package histogram

import (
	"fmt"
	"math"

	"ndhist/axis"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SINGLE FILL
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Fill counts one observation with one coordinate per axis.
//
// Numeric axes accept any Go integer or float. A category axis accepts the
// category string, or an integer taken directly as the category position.
//
// A coordinate outside the range of an axis without uoflow drops the whole
// fill silently. Errors (wrong arity, wrong coordinate type, unknown
// category) leave the histogram untouched.
//
//go:registerparams
func (h *Histogram) Fill(coords ...any) error {
	if len(coords) != len(h.axes) {
		return fmt.Errorf("%w: fill expects %d coordinates, got %d", ErrArity, len(h.axes), len(coords))
	}
	linear, keep := 0, true
	for i, c := range coords {
		slot, ok, err := h.slot(i, c)
		if err != nil {
			return err
		}
		// Keep resolving after a discard so a bad coordinate still surfaces.
		keep = keep && ok
		linear += slot * h.strides[i]
	}
	if !keep {
		return nil
	}
	return h.storage.Increment(linear)
}

// slot resolves coordinate c on axis i to its extended slot. ok is false
// when the value falls outside an axis that has no flow slots.
//
//go:nosplit
//go:inline
func (h *Histogram) slot(i int, c any) (int, bool, error) {
	switch a := h.axes[i].(type) {
	case *axis.Category:
		return categorySlot(a, i, c)
	case *axis.Integer:
		if n, ok := asInt(c); ok {
			return extend(a, a.LocateInt(n))
		}
		x, ok := asFloat(c)
		if !ok {
			return 0, false, badType(i, a, c)
		}
		return extend(a, a.Locate(x))
	case *axis.Regular:
		return numericSlot(a, i, c)
	case *axis.Variable:
		return numericSlot(a, i, c)
	case *axis.Polar:
		return numericSlot(a, i, c)
	default:
		return 0, false, fmt.Errorf("%w: unsupported axis %T", ErrInvalidArgument, a)
	}
}

func numericSlot(a axis.Numeric, i int, c any) (int, bool, error) {
	x, ok := asFloat(c)
	if !ok {
		return 0, false, badType(i, a, c)
	}
	return extend(a, a.Locate(x))
}

func categorySlot(a *axis.Category, i int, c any) (int, bool, error) {
	if s, ok := c.(string); ok {
		pos, found := a.Locate(s)
		if !found {
			return 0, false, fmt.Errorf("%w: %q is not a category of axis %d", ErrInvalidArgument, s, i)
		}
		return pos, true, nil
	}
	n, ok := asInt(c)
	if !ok {
		return 0, false, badType(i, a, c)
	}
	if n < 0 || n >= a.Bins() {
		return 0, false, fmt.Errorf("%w: category position %d outside axis %d", ErrInvalidArgument, n, i)
	}
	return n, true, nil
}

// extend maps a Locate result onto the storage extent: overflow to bins,
// underflow to bins+1, or a discard when the axis has no flow slots.
//
//go:nosplit
//go:inline
func extend(a axis.Axis, b int) (int, bool, error) {
	bins := a.Bins()
	switch {
	case b >= 0 && b < bins:
		return b, true, nil
	case !a.Uoflow():
		return 0, false, nil
	case b < 0:
		return bins + 1, true, nil
	default:
		return bins, true, nil
	}
}

func badType(i int, a axis.Axis, c any) error {
	return fmt.Errorf("%w: coordinate %d of type %T does not fit %s", ErrInvalidArgument, i, c, a.Kind().Constructor())
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// BULK FILL
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// FillN applies Fill to every row in order. It stops at the first failing
// row; rows before it stay applied.
func (h *Histogram) FillN(rows [][]any) error {
	for r, row := range rows {
		if err := h.Fill(row...); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}
	return nil
}

// FillValues fills a one-dimensional histogram from a flat sequence of scalars.
func (h *Histogram) FillValues(xs []float64) error {
	if len(h.axes) != 1 {
		return fmt.Errorf("%w: FillValues needs a 1-d histogram, have %d axes", ErrArity, len(h.axes))
	}
	a := h.axes[0]
	num, ok := a.(axis.Numeric)
	if !ok {
		// Category: integral scalars are category positions.
		for r, x := range xs {
			if x != math.Trunc(x) || math.Abs(x) > math.MaxInt32 {
				return fmt.Errorf("row %d: %w: %v is not a category position", r, ErrInvalidArgument, x)
			}
			if err := h.Fill(int(x)); err != nil {
				return fmt.Errorf("row %d: %w", r, err)
			}
		}
		return nil
	}
	for r, x := range xs {
		slot, keep, _ := extend(num, num.Locate(x))
		if !keep {
			continue
		}
		if err := h.storage.Increment(slot); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// COORDINATE CONVERSION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

//go:nosplit
//go:inline
func asInt(c any) (int, bool) {
	switch v := c.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint:
		if v > uint(^uint(0)>>1) {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > uint64(^uint(0)>>1) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

//go:nosplit
//go:inline
func asFloat(c any) (float64, bool) {
	switch v := c.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	if n, ok := asInt(c); ok {
		return float64(n), true
	}
	return 0, false
}

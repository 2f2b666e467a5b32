// ════════════════════════════════════════════════════════════════════════════════════════════════
// 📦 ADAPTIVE COUNTER STORAGE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: Packed Counter Array With Word-Width Promotion
//
// Description:
//   A flat array of unsigned counters that share one word width (the depth).
//   Storage starts at one byte per counter and widens to 2, 4 and 8 bytes only
//   when an increment would overflow the current width.
//
// Design Principles:
//   - Exactly one typed buffer is live at a time; the depth tag selects it
//   - Promotion is an explicit state transition: allocate, copy, swap
//   - Values never depend on the depth; equality and serialization ignore it
//   - At depth 8 a saturated counter fails the increment instead of wrapping
//
// Threading model:
//   Single writer. Promotion reallocates the buffer, so concurrent increments
//   require external locking.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package storage

import (
	"errors"
	"math"
	"math/bits"

	"ndhist/constants"
	"ndhist/debug"
	"ndhist/utils"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// ERRORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

var (
	// ErrSaturated reports a counter that cannot grow beyond math.MaxUint64.
	ErrSaturated = errors.New("storage: counter saturated at widest word")

	// ErrSizeMismatch reports a merge between storages of different length.
	ErrSizeMismatch = errors.New("storage: size mismatch")

	// ErrIndex reports a linear index outside [0, Size()).
	ErrIndex = errors.New("storage: index out of range")
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// word is the closed set of counter types.
type word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Storage is a packed counter array. The zero value is an empty storage of
// size 0; use New for a usable one.
type Storage struct {
	size  int
	depth int // bytes per counter: 1, 2, 4 or 8

	// Exactly one of these is non-nil once size > 0.
	u8  []uint8
	u16 []uint16
	u32 []uint32
	u64 []uint64
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// New allocates size zeroed counters at the minimal depth.
func New(size int) *Storage {
	if size < 0 {
		size = 0
	}
	return &Storage{size: size, depth: constants.MinDepth, u8: make([]uint8, size)}
}

// FromValues builds a storage at the smallest depth that holds every value.
func FromValues(values []uint64) *Storage {
	var hi uint64
	for _, v := range values {
		hi = max(hi, v)
	}
	s := alloc(len(values), depthFor(hi))
	for i, v := range values {
		s.set(i, v)
	}
	return s
}

// alloc returns zeroed storage at an explicit depth.
func alloc(size, depth int) *Storage {
	s := &Storage{size: size, depth: depth}
	switch depth {
	case 1:
		s.u8 = make([]uint8, size)
	case 2:
		s.u16 = make([]uint16, size)
	case 4:
		s.u32 = make([]uint32, size)
	default:
		s.depth = constants.MaxDepth
		s.u64 = make([]uint64, size)
	}
	return s
}

// depthFor is the smallest word width in bytes able to hold v.
//
//go:nosplit
//go:inline
func depthFor(v uint64) int {
	switch {
	case v <= constants.MaxU8:
		return 1
	case v <= constants.MaxU16:
		return 2
	case v <= constants.MaxU32:
		return 4
	default:
		return 8
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// READ ACCESSORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Size is the number of counters.
func (s *Storage) Size() int { return s.size }

// Depth is the current word width in bytes.
func (s *Storage) Depth() int { return s.depth }

// At returns counter i widened to uint64. Out-of-range indices read as 0.
//
//go:nosplit
//go:inline
func (s *Storage) At(i int) uint64 {
	if i < 0 || i >= s.size {
		return 0
	}
	switch s.depth {
	case 1:
		return uint64(s.u8[i])
	case 2:
		return uint64(s.u16[i])
	case 4:
		return uint64(s.u32[i])
	default:
		return s.u64[i]
	}
}

// Sum totals every counter. The total saturates at math.MaxUint64.
func (s *Storage) Sum() uint64 {
	switch s.depth {
	case 1:
		return sum(s.u8)
	case 2:
		return sum(s.u16)
	case 4:
		return sum(s.u32)
	default:
		return sum(s.u64)
	}
}

func sum[W word](buf []W) uint64 {
	var total uint64
	for _, v := range buf {
		t, carry := bits.Add64(total, uint64(v), 0)
		if carry != 0 {
			return math.MaxUint64
		}
		total = t
	}
	return total
}

// Values returns a depth-independent copy of every counter.
func (s *Storage) Values() []uint64 {
	out := make([]uint64, s.size)
	switch s.depth {
	case 1:
		widenInto(out, s.u8)
	case 2:
		widenInto(out, s.u16)
	case 4:
		widenInto(out, s.u32)
	default:
		copy(out, s.u64)
	}
	return out
}

// Equal compares values one by one, ignoring depth.
func (s *Storage) Equal(o *Storage) bool {
	if s.size != o.size {
		return false
	}
	for i := 0; i < s.size; i++ {
		if s.At(i) != o.At(i) {
			return false
		}
	}
	return true
}

// Clone returns an independent storage with identical values and depth.
func (s *Storage) Clone() *Storage {
	c := alloc(s.size, s.depth)
	switch s.depth {
	case 1:
		copy(c.u8, s.u8)
	case 2:
		copy(c.u16, s.u16)
	case 4:
		copy(c.u32, s.u32)
	default:
		copy(c.u64, s.u64)
	}
	return c
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MUTATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Increment adds one to counter i, promoting the whole storage first when the
// counter sits at the maximum of the current width. At depth 8 a counter at
// math.MaxUint64 is left untouched and ErrSaturated is returned.
//
//go:nosplit
//go:inline
func (s *Storage) Increment(i int) error {
	if i < 0 || i >= s.size {
		return ErrIndex
	}
	for {
		switch s.depth {
		case 1:
			if s.u8[i] < constants.MaxU8 {
				s.u8[i]++
				return nil
			}
		case 2:
			if s.u16[i] < constants.MaxU16 {
				s.u16[i]++
				return nil
			}
		case 4:
			if s.u32[i] < constants.MaxU32 {
				s.u32[i]++
				return nil
			}
		default:
			if s.u64[i] < math.MaxUint64 {
				s.u64[i]++
				return nil
			}
			debug.DropMessage("STORAGE", "counter "+utils.Itoa(i)+" saturated")
			return ErrSaturated
		}
		s.Promote()
	}
}

// Promote widens every counter to the next word width. It returns false, and
// changes nothing, when the storage is already at the widest width.
// Views taken before a promotion keep pointing at the old buffer.
func (s *Storage) Promote() bool {
	switch s.depth {
	case 1:
		s.u16 = widen[uint8, uint16](s.u8)
		s.u8 = nil
		s.depth = 2
	case 2:
		s.u32 = widen[uint16, uint32](s.u16)
		s.u16 = nil
		s.depth = 4
	case 4:
		s.u64 = widen[uint32, uint64](s.u32)
		s.u32 = nil
		s.depth = 8
	default:
		return false
	}
	return true
}

func widen[F, T word](src []F) []T {
	dst := make([]T, len(src))
	for i, v := range src {
		dst[i] = T(v)
	}
	return dst
}

func widenInto[F word](dst []uint64, src []F) {
	for i, v := range src {
		dst[i] = uint64(v)
	}
}

// set stores v at i; the caller guarantees v fits the current depth.
func (s *Storage) set(i int, v uint64) {
	switch s.depth {
	case 1:
		s.u8[i] = uint8(v)
	case 2:
		s.u16[i] = uint16(v)
	case 4:
		s.u32[i] = uint32(v)
	default:
		s.u64[i] = v
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MERGING
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Merge returns the element-wise sum of s and o in a new storage whose depth
// is the smallest that holds the largest sum. Neither input is modified.
func (s *Storage) Merge(o *Storage) (*Storage, error) {
	if s.size != o.size {
		return nil, ErrSizeMismatch
	}
	sums := make([]uint64, s.size)
	var hi uint64
	for i := range sums {
		v, carry := bits.Add64(s.At(i), o.At(i), 0)
		if carry != 0 {
			return nil, ErrSaturated
		}
		sums[i] = v
		hi = max(hi, v)
	}
	m := alloc(s.size, depthFor(hi))
	for i, v := range sums {
		m.set(i, v)
	}
	return m, nil
}

// AddInPlace adds o into the live buffer of s, promoting first only when the
// largest sum needs a wider word. Depth never shrinks. s is unchanged on
// error. o may be s itself.
func (s *Storage) AddInPlace(o *Storage) error {
	if s.size != o.size {
		return ErrSizeMismatch
	}
	var hi uint64
	for i := 0; i < s.size; i++ {
		v, carry := bits.Add64(s.At(i), o.At(i), 0)
		if carry != 0 {
			return ErrSaturated
		}
		hi = max(hi, v)
	}
	for depthFor(hi) > s.depth {
		s.Promote()
	}
	// Element i of o is read before element i of s is written, so o == s is safe.
	for i := 0; i < s.size; i++ {
		s.set(i, s.At(i)+o.At(i))
	}
	return nil
}

package storage

import "slices"

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// EXTERNAL BUFFER EXPOSURE
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// Two operations with two different contracts:
//
//   Copy  — an owned snapshot. It never changes afterwards.
//   View  — a borrowed alias of the live buffer. It reflects later increments
//           only until the next promotion; after that it is a frozen snapshot
//           of the old buffer and silently stops tracking.
//
// ⚠️ A View is not synchronized with the owning storage.

// Buffer is a typed counter array plus the extents it is laid out in.
// Data holds exactly one of []uint8, []uint16, []uint32 or []uint64,
// matching Depth.
type Buffer struct {
	Depth int
	Shape []int
	data  any
}

// Data returns the typed slice.
func (b Buffer) Data() any { return b.data }

// Uint8 returns the slice when Depth is 1, else nil. The other width
// accessors follow the same rule.
func (b Buffer) Uint8() []uint8   { v, _ := b.data.([]uint8); return v }
func (b Buffer) Uint16() []uint16 { v, _ := b.data.([]uint16); return v }
func (b Buffer) Uint32() []uint32 { v, _ := b.data.([]uint32); return v }
func (b Buffer) Uint64() []uint64 { v, _ := b.data.([]uint64); return v }

// Len is the number of counters in the buffer.
func (b Buffer) Len() int {
	switch v := b.data.(type) {
	case []uint8:
		return len(v)
	case []uint16:
		return len(v)
	case []uint32:
		return len(v)
	case []uint64:
		return len(v)
	}
	return 0
}

// At reads counter i widened to uint64.
func (b Buffer) At(i int) uint64 {
	switch v := b.data.(type) {
	case []uint8:
		return uint64(v[i])
	case []uint16:
		return uint64(v[i])
	case []uint32:
		return uint64(v[i])
	case []uint64:
		return v[i]
	}
	return 0
}

// Values widens every counter to uint64.
func (b Buffer) Values() []uint64 {
	out := make([]uint64, b.Len())
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Copy returns an owned snapshot typed to the current depth.
func (s *Storage) Copy() Buffer {
	b := Buffer{Depth: s.depth, Shape: []int{s.size}}
	switch s.depth {
	case 1:
		b.data = slices.Clone(s.u8)
	case 2:
		b.data = slices.Clone(s.u16)
	case 4:
		b.data = slices.Clone(s.u32)
	default:
		b.data = slices.Clone(s.u64)
	}
	return b
}

// View returns an alias of the live buffer. See the contract above.
func (s *Storage) View() Buffer {
	b := Buffer{Depth: s.depth, Shape: []int{s.size}}
	switch s.depth {
	case 1:
		b.data = s.u8
	case 2:
		b.data = s.u16
	case 4:
		b.data = s.u32
	default:
		b.data = s.u64
	}
	return b
}

// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ CATEGORY FINGERPRINT INDEX
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: Fixed-Capacity Robin Hood Table
//
// Description:
//   Maps 32-bit category fingerprints to category positions. Built once when a
//   category axis is constructed and read on every category fill afterwards.
//
// Design Principles:
//   - Fixed capacity with power-of-2 sizing for fast modulo operations
//   - Robin Hood displacement keeps probe chains short
//   - First insertion wins: duplicate categories resolve to their first position
//   - Zero key is the empty sentinel; fingerprints are never zero
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package localidx

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Hash is a fixed-capacity Robin Hood map from fingerprint to position.
// Keys and values live in parallel arrays so probes only touch the key array.
type Hash struct {
	keys []uint32 // Fingerprints (0 = empty)
	vals []uint32 // Positions, parallel to keys
	mask uint32   // len(keys)-1
	size int      // Distinct fingerprints stored
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTOR
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// nextPow2 returns the smallest power of 2 ≥ n.
//
//go:nosplit
//go:inline
func nextPow2(n int) uint32 {
	s := uint32(1)
	for s < uint32(n) {
		s <<= 1
	}
	return s
}

// New creates a table able to hold capacity fingerprints at ≤50% load.
//
//go:inline
func New(capacity int) Hash {
	sz := nextPow2(capacity * 2)
	return Hash{
		keys: make([]uint32, sz),
		vals: make([]uint32, sz),
		mask: sz - 1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CORE OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Put inserts key → val unless key is already present.
// It returns the value now associated with key: val for a fresh insert,
// the earlier value otherwise.
//
// Key must be non-zero and the table must not be full.
//
//go:nosplit
//go:inline
//go:registerparams
func (h *Hash) Put(key, val uint32) uint32 {
	i := key & h.mask
	dist := uint32(0)

	for {
		k := h.keys[i]

		if k == 0 {
			h.keys[i], h.vals[i] = key, val
			h.size++
			return val
		}
		if k == key {
			return h.vals[i]
		}

		// Displace the occupant when it sits closer to home than we do.
		kDist := (i + h.mask + 1 - (k & h.mask)) & h.mask
		if kDist < dist {
			key, h.keys[i] = h.keys[i], key
			val, h.vals[i] = h.vals[i], val
			dist = kDist
		}

		i = (i + 1) & h.mask
		dist++
	}
}

// Get looks key up, terminating early once the Robin Hood invariant proves
// the key cannot be further along the chain.
//
//go:nosplit
//go:inline
//go:registerparams
func (h *Hash) Get(key uint32) (uint32, bool) {
	if len(h.keys) == 0 {
		return 0, false
	}
	i := key & h.mask
	dist := uint32(0)

	for {
		k := h.keys[i]

		if k == 0 {
			return 0, false
		}
		if k == key {
			return h.vals[i], true
		}

		kDist := (i + h.mask + 1 - (k & h.mask)) & h.mask
		if kDist < dist {
			return 0, false
		}

		i = (i + 1) & h.mask
		dist++
	}
}

// Len reports the number of distinct fingerprints stored.
func (h *Hash) Len() int { return h.size }

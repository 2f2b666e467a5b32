// Package localidx correctness tests: fingerprint table construction,
// first-insert-wins semantics, collision chains and miss termination.
package localidx

import (
	"math/rand"
	"testing"

	"ndhist/utils"
)

// -----------------------------------------------------------------------------
// ░░ Constructor and Allocation Semantics ░░
// -----------------------------------------------------------------------------

func TestNewHash(t *testing.T) {
	h := New(8)
	if h.mask != 15 {
		t.Fatalf("mask = %d, want 15", h.mask)
	}
	if len(h.keys) != 16 || len(h.vals) != 16 {
		t.Fatalf("expected 16-slot table, got keys=%d, vals=%d", len(h.keys), len(h.vals))
	}
	if h.Len() != 0 {
		t.Fatalf("fresh table Len = %d", h.Len())
	}
}

func TestZeroValueGetMisses(t *testing.T) {
	var h Hash
	if _, ok := h.Get(7); ok {
		t.Fatal("zero-value table must miss")
	}
}

// -----------------------------------------------------------------------------
// ░░ Put / Get Semantics ░░
// -----------------------------------------------------------------------------

func TestPutAndGet(t *testing.T) {
	h := New(16)
	for i := 1; i <= 16; i++ {
		h.Put(uint32(i), uint32(i*10))
	}
	for i := 1; i <= 16; i++ {
		v, ok := h.Get(uint32(i))
		if !ok || v != uint32(i*10) {
			t.Fatalf("Get(%d) = %d,%v ; want %d,true", i, v, ok, i*10)
		}
	}
	if h.Len() != 16 {
		t.Fatalf("Len = %d, want 16", h.Len())
	}
}

func TestFirstInsertWins(t *testing.T) {
	h := New(4)
	if got := h.Put(42, 0); got != 0 {
		t.Fatalf("first Put returned %d, want 0", got)
	}
	if got := h.Put(42, 3); got != 0 {
		t.Fatalf("duplicate Put returned %d, want earlier position 0", got)
	}
	if v, ok := h.Get(42); !ok || v != 0 {
		t.Fatalf("Get(42) = %d,%v ; want 0,true", v, ok)
	}
	if h.Len() != 1 {
		t.Fatalf("Len = %d, want 1", h.Len())
	}
}

// -----------------------------------------------------------------------------
// ░░ Collision Handling & Early Termination ░░
// -----------------------------------------------------------------------------

func TestCollisionChain(t *testing.T) {
	h := New(4)
	// All four keys share the same home slot.
	for i := 1; i <= 4; i++ {
		h.Put(uint32(i)<<29, uint32(i))
	}
	for i := 1; i <= 4; i++ {
		k := uint32(i) << 29
		if v, ok := h.Get(k); !ok || v != uint32(i) {
			t.Fatalf("Get(%d) = %d,%v ; want %d,true", k, v, ok, i)
		}
	}
}

func TestGetRobinHoodBound(t *testing.T) {
	h := New(4)
	h.Put(1, 10)
	h.Put(9, 20)
	h.Put(17, 30)
	h.Put(4, 40)
	if v, ok := h.Get(33); ok {
		t.Fatalf("expected miss via bound-check, got %d,true", v)
	}
}

// -----------------------------------------------------------------------------
// ░░ Category Fingerprints ░░
// -----------------------------------------------------------------------------

func TestCategoryFingerprints(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	cats := make([]string, 500)
	for i := range cats {
		b := make([]byte, 1+r.Intn(20))
		for j := range b {
			b[j] = byte('a' + r.Intn(26))
		}
		cats[i] = string(b)
	}

	h := New(len(cats))
	first := make(map[string]uint32)
	for i, c := range cats {
		h.Put(utils.Fingerprint32(c), uint32(i))
		if _, seen := first[c]; !seen {
			first[c] = uint32(i)
		}
	}
	for c, want := range first {
		got, ok := h.Get(utils.Fingerprint32(c))
		if !ok {
			t.Fatalf("category %q missing", c)
		}
		// A fingerprint collision may map to another category; it must then
		// point at a position whose string differs.
		if got != want && cats[got] == c {
			t.Fatalf("category %q at %d, want %d", c, got, want)
		}
	}
}

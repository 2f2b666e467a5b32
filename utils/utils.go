package utils

import (
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// S2b exposes the bytes of a string without copying.
// ⚠️ The returned slice must never be written to.
//
//go:nosplit
//go:inline
func S2b(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

///////////////////////////////////////////////////////////////////////////////
// Number Formatting — Canonical Text
///////////////////////////////////////////////////////////////////////////////

// Itoa renders a signed integer in base 10.
// Small non-negative values avoid strconv entirely.
//
//go:nosplit
//go:inline
func Itoa(n int) string {
	if n >= 0 && n < 10 {
		return digits[n : n+1]
	}
	var buf [20]byte
	return string(AppendInt(buf[:0], n))
}

const digits = "0123456789"

// AppendInt appends the base 10 form of n to dst.
//
//go:nosplit
//go:inline
func AppendInt(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	var tmp [20]byte
	i := len(tmp)
	for u > 0 {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		dst = append(dst, '-')
	}
	return append(dst, tmp[i:]...)
}

// Ftoa renders a float in its shortest round-trip form.
// Integral values print without a decimal point ("1", not "1.0").
//
//go:inline
func Ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64-Bit Reads
///////////////////////////////////////////////////////////////////////////////

// Load64 reads an unaligned 64-bit word from a byte slice.
//
//go:nosplit
//go:inline
func Load64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

///////////////////////////////////////////////////////////////////////////////
// Hash & Mixers — For Category Fingerprints
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value.
// Used to spread category fingerprints across the Robin Hood table.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Fingerprint32 reduces a string to a non-zero 32-bit key.
// Zero is reserved as the empty sentinel of localidx tables, so it is never returned.
// Collisions are possible; callers must confirm matches against the original string.
//
//go:nosplit
//go:inline
func Fingerprint32(s string) uint32 {
	b := S2b(s)
	h := uint64(len(b)) * 0x9e3779b97f4a7c15
	for len(b) >= 8 {
		h = Mix64(h ^ Load64(b))
		b = b[8:]
	}
	var tail uint64
	for i, c := range b {
		tail |= uint64(c) << (8 * uint(i))
	}
	h = Mix64(h ^ tail)
	k := uint32(h) ^ uint32(h>>32)
	if k == 0 {
		return 1
	}
	return k
}

///////////////////////////////////////////////////////////////////////////////
// Diagnostics Sink — Raw stderr
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg straight to file descriptor 2.
// It bypasses os.Stderr and fmt, so it never allocates; write errors are dropped.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	if len(msg) == 0 {
		return
	}
	_, _ = unix.Write(2, S2b(msg))
}

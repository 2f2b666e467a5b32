// ring.go
//
// Lock-free single-producer/single-consumer ring buffer. Producer and
// consumer cursors sit on separate cache lines, and every slot carries a
// sequence stamp so Push and Pop need one acquire load and one release
// store each.
//
// Slots hold values of T directly. A popped slot is zeroed before it is
// handed back to the producer, so the ring never pins consumed payloads.

package ring

import "sync/atomic"

// slot couples a payload with its sequence stamp.
type slot[T any] struct {
	seq atomic.Uint64 // position in the sequence space
	val T
}

// Ring is a fixed-capacity circular buffer for exactly one producer
// goroutine and one consumer goroutine.
type Ring[T any] struct {
	_    [64]byte // producer tail isolated on its own cache line
	tail uint64
	//lint:ignore U1000 padding keeps head and tail on different cache lines
	_pad1 [56]byte
	head  uint64
	//lint:ignore U1000 padding keeps the cursors away from metadata
	_pad2 [56]byte
	mask  uint64
	buf   []slot[T]
}

// New allocates a ring whose size must be a power of two; otherwise it
// panics so the masking arithmetic stays valid.
func New[T any](size int) *Ring[T] {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring[T]{
		mask: uint64(size - 1),
		buf:  make([]slot[T], size),
	}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}
	return r
}

// Cap is the number of slots.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Push enqueues v, returning false when the buffer is full.
// Only the producer goroutine may call it.
//
//go:nosplit
func (r *Ring[T]) Push(v T) bool {
	t := r.tail
	s := &r.buf[t&r.mask]
	if s.seq.Load() != t {
		return false // consumer has not reclaimed the slot yet
	}
	s.val = v
	s.seq.Store(t + 1)
	r.tail = t + 1
	return true
}

// Pop dequeues one value. ok is false when the buffer is empty.
// Only the consumer goroutine may call it.
//
//go:nosplit
func (r *Ring[T]) Pop() (v T, ok bool) {
	h := r.head
	s := &r.buf[h&r.mask]
	if s.seq.Load() != h+1 {
		return v, false // producer has not published the slot yet
	}
	v = s.val
	var zero T
	s.val = zero
	s.seq.Store(h + uint64(len(r.buf)))
	r.head = h + 1
	return v, true
}

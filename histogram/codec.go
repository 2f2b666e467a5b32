package histogram

import (
	"encoding/binary"
	"fmt"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"

	"ndhist/axis"
	"ndhist/storage"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// STRUCTURAL SNAPSHOT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Snapshot is the serialized form: the full axis list first, then every
// counter value in storage order. The counter width is deliberately absent;
// restoring picks the smallest width that holds the values.
type Snapshot struct {
	Axes   []axis.Snapshot `json:"axes"`
	Counts []uint64        `json:"counts"`
}

// Snapshot captures axes and counter values.
func (h *Histogram) Snapshot() Snapshot {
	s := Snapshot{Axes: make([]axis.Snapshot, len(h.axes)), Counts: h.storage.Values()}
	for i, a := range h.axes {
		s.Axes[i] = axis.ToSnapshot(a)
	}
	return s
}

// FromSnapshot rebuilds a histogram, validating axes and counter count.
func FromSnapshot(s Snapshot) (*Histogram, error) {
	axes := make([]axis.Axis, len(s.Axes))
	for i, as := range s.Axes {
		a, err := axis.FromSnapshot(as)
		if err != nil {
			return nil, fmt.Errorf("axis %d: %w", i, err)
		}
		axes[i] = a
	}
	h, err := layout(axes)
	if err != nil {
		return nil, err
	}
	if len(s.Counts) != h.size() {
		return nil, fmt.Errorf("%w: snapshot has %d counts, axes need %d", ErrInvalidArgument, len(s.Counts), h.size())
	}
	h.storage = storage.FromValues(s.Counts)
	return h, nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// JSON
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// MarshalJSON encodes the snapshot.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	return sonnet.Marshal(h.Snapshot())
}

// UnmarshalJSON replaces h with the decoded snapshot. h is unchanged on error.
func (h *Histogram) UnmarshalJSON(b []byte) error {
	var s Snapshot
	if err := sonnet.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	nh, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*h = *nh
	return nil
}

// Marshal serializes h.
func Marshal(h *Histogram) ([]byte, error) {
	return h.MarshalJSON()
}

// Unmarshal deserializes a histogram produced by Marshal.
func Unmarshal(b []byte) (*Histogram, error) {
	h := new(Histogram)
	if err := h.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return h, nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// FINGERPRINT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Fingerprint is the SHA3-256 digest of the canonical text form followed by
// every counter as a little-endian uint64. Equal histograms share a
// fingerprint whatever their depth.
func (h *Histogram) Fingerprint() [32]byte {
	d := sha3.New256()
	d.Write([]byte(h.String()))
	d.Write([]byte{0})
	var buf [8]byte
	for i := 0; i < h.storage.Size(); i++ {
		binary.LittleEndian.PutUint64(buf[:], h.storage.At(i))
		d.Write(buf[:])
	}
	var out [32]byte
	d.Sum(out[:0])
	return out
}

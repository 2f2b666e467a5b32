// ════════════════════════════════════════════════════════════════════════════════════════════════
// 📐 HISTOGRAM AXES
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: Axis Variants
//
// Description:
//   An axis maps an observed value to a bin index. Five variants exist and the set
//   is closed: Regular, Polar, Variable, Category and Integer. Every variant is
//   immutable after construction and safe to share between histograms.
//
// Locate contract:
//   - Numeric variants return a bin in [0, Bins()), Underflow (-1) below the range
//     or Bins() above it. Intervals are right-open: an internal edge belongs to
//     the upper bin.
//   - Polar wraps and never returns a sentinel.
//   - Category matches exact strings and reports absence with a false flag.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package axis

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"ndhist/constants"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// ERRORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ErrInvalidArgument is wrapped by every construction failure.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

// Underflow is returned by numeric Locate calls for values below the axis range.
// Values above the range locate to Bins().
const Underflow = constants.Underflow

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// VARIANT TAGS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Kind identifies an axis variant.
type Kind uint8

const (
	KindRegular Kind = iota
	KindPolar
	KindVariable
	KindCategory
	KindInteger
)

var kindNames = [...]string{
	KindRegular:  "regular",
	KindPolar:    "polar",
	KindVariable: "variable",
	KindCategory: "category",
	KindInteger:  "integer",
}

// String returns the short variant name used in snapshots.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Constructor returns the canonical constructor name, e.g. "regular_axis".
func (k Kind) Constructor() string {
	return k.String() + "_axis"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, invalid("unknown axis kind %q", s)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// INTERFACES
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Axis is implemented by *Regular, *Polar, *Variable, *Category and *Integer only.
type Axis interface {
	Kind() Kind
	Label() string
	// Bins is the number of normal bins.
	Bins() int
	// Uoflow reports whether the axis carries underflow and overflow slots.
	Uoflow() bool
	// Len is the length of the edge (or category) enumeration.
	Len() int
	Equal(other Axis) bool
	// String is the canonical constructor-call form.
	String() string

	sealed()
}

// Numeric is implemented by the four variants that locate real values.
type Numeric interface {
	Axis
	Locate(x float64) int
	// Edge returns the i-th bin edge, 0 ≤ i ≤ Bins().
	Edge(i int) float64
	Edges() iter.Seq[float64]
}

var (
	_ Numeric = (*Regular)(nil)
	_ Numeric = (*Polar)(nil)
	_ Numeric = (*Variable)(nil)
	_ Numeric = (*Integer)(nil)
	_ Axis    = (*Category)(nil)
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// OPTIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Option configures the named parameters shared by all constructors.
type Option func(*options)

type options struct {
	label     string
	uoflow    bool
	uoflowSet bool
}

// WithLabel attaches a label. The default is no label.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithUoflow toggles the underflow/overflow slots (default true).
// Polar and Category axes reject the option entirely.
func WithUoflow(enabled bool) Option {
	return func(o *options) {
		o.uoflow = enabled
		o.uoflowSet = true
	}
}

func collect(opts []Option) options {
	o := options{uoflow: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SHARED STATE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// base holds the attributes common to every variant.
type base struct {
	label  string
	bins   int
	uoflow bool
}

func (b *base) Label() string { return b.label }
func (b *base) Bins() int     { return b.bins }
func (b *base) Uoflow() bool  { return b.uoflow }
func (b *base) sealed()       {}

func (b *base) equal(o *base) bool {
	return b.label == o.label && b.bins == o.bins && b.uoflow == o.uoflow
}

// sameFloat treats two NaNs as equal so an axis always equals itself.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Extent is the number of storage slots an axis occupies: Bins() plus two
// flow slots when Uoflow() is set.
func Extent(a Axis) int {
	if a.Uoflow() {
		return a.Bins() + constants.FlowSlots
	}
	return a.Bins()
}

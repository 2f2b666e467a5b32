package axis

import (
	"iter"
	"slices"
	"strings"

	"ndhist/constants"
	"ndhist/localidx"
	"ndhist/utils"
)

// Category maps exact strings to bins. Duplicate categories are allowed; a
// value locates to its first occurrence. There are no flow slots.
type Category struct {
	base
	values []string
	index  localidx.Hash
}

// NewCategory builds a category axis from at least one category. A single
// argument containing ';' is split on it, so "A;B" equals {"A", "B"} and ";"
// equals {"", ""}. WithUoflow is rejected, even with false.
func NewCategory(categories []string, opts ...Option) (*Category, error) {
	if len(categories) == 1 && containsDelimiter(categories[0]) {
		categories = strings.Split(categories[0], constants.CategoryDelimiter)
	}
	if len(categories) == 0 {
		return nil, invalid("category_axis: need at least 1 category")
	}
	o := collect(opts)
	if o.uoflowSet {
		return nil, invalid("category_axis: uoflow is not supported")
	}
	a := &Category{
		base:   base{label: o.label, bins: len(categories)},
		values: slices.Clone(categories),
	}
	if len(a.values) >= constants.CategoryIndexMinScan {
		a.index = localidx.New(len(a.values))
		for i, v := range a.values {
			a.index.Put(utils.Fingerprint32(v), uint32(i))
		}
	}
	return a, nil
}

func (a *Category) Kind() Kind { return KindCategory }

// Len is Bins(), the number of categories.
func (a *Category) Len() int { return len(a.values) }

// Locate returns the position of the first category equal to v.
//
//go:nosplit
//go:inline
func (a *Category) Locate(v string) (int, bool) {
	if a.index.Len() > 0 {
		i, ok := a.index.Get(utils.Fingerprint32(v))
		if !ok {
			return 0, false
		}
		if a.values[i] == v {
			return int(i), true
		}
		// Fingerprint collision; fall through to the scan.
	}
	for i, c := range a.values {
		if c == v {
			return i, true
		}
	}
	return 0, false
}

// Value returns category i, or "" when i is out of range.
func (a *Category) Value(i int) string {
	if i < 0 || i >= len(a.values) {
		return ""
	}
	return a.values[i]
}

// Values yields the categories in construction order.
func (a *Category) Values() iter.Seq[string] { return slices.Values(a.values) }

func (a *Category) Equal(other Axis) bool {
	o, ok := other.(*Category)
	return ok && a.base.equal(&o.base) && slices.Equal(a.values, o.values)
}

func (a *Category) String() string {
	c := newCall(KindCategory)
	for _, v := range a.values {
		c.text(v)
	}
	return c.options(&a.base, false).done()
}

func containsDelimiter(s string) bool {
	return strings.Contains(s, constants.CategoryDelimiter)
}

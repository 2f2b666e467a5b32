package axis

import (
	"math"
	"strconv"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// STRUCTURAL SNAPSHOT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Snapshot is the full-attribute structural form of an axis. It is the unit
// of histogram serialization and is rebuilt through the regular constructors,
// so a snapshot can never produce an axis those constructors would refuse.
type Snapshot struct {
	Kind       string   `json:"kind"`
	Label      string   `json:"label,omitempty"`
	Uoflow     bool     `json:"uoflow"`
	Bins       int      `json:"bins,omitempty"`
	Low        *Float   `json:"low,omitempty"`
	High       *Float   `json:"high,omitempty"`
	Start      *Float   `json:"start,omitempty"`
	Edges      []Float  `json:"edges,omitempty"`
	Categories []string `json:"categories,omitempty"`
	IntLow     int      `json:"int_low,omitempty"`
	IntHigh    int      `json:"int_high,omitempty"`
}

// Float is a float64 whose JSON form survives NaN and ±Inf, which plain JSON
// numbers cannot carry. Non-finite values are written as strings.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	x := float64(f)
	switch {
	case math.IsNaN(x):
		return []byte(`"NaN"`), nil
	case math.IsInf(x, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(x, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, x, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	x, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return invalid("snapshot float %q", b)
	}
	*f = Float(x)
	return nil
}

func fptr(x float64) *Float {
	f := Float(x)
	return &f
}

func fval(f *Float, what string) (float64, error) {
	if f == nil {
		return 0, invalid("snapshot: missing %s", what)
	}
	return float64(*f), nil
}

// ToSnapshot captures every attribute of a.
func ToSnapshot(a Axis) Snapshot {
	s := Snapshot{Kind: a.Kind().String(), Label: a.Label(), Uoflow: a.Uoflow()}
	switch t := a.(type) {
	case *Regular:
		s.Bins, s.Low, s.High = t.bins, fptr(t.low), fptr(t.high)
	case *Polar:
		s.Bins, s.Start = t.bins, fptr(t.start)
	case *Variable:
		s.Edges = make([]Float, len(t.edges))
		for i, e := range t.edges {
			s.Edges[i] = Float(e)
		}
	case *Category:
		s.Categories = append([]string(nil), t.values...)
	case *Integer:
		s.IntLow, s.IntHigh = t.low, t.high
	}
	return s
}

// FromSnapshot rebuilds an axis, validating it like a fresh construction.
func FromSnapshot(s Snapshot) (Axis, error) {
	k, err := ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithLabel(s.Label)}
	switch k {
	case KindRegular:
		lo, err := fval(s.Low, "low")
		if err != nil {
			return nil, err
		}
		hi, err := fval(s.High, "high")
		if err != nil {
			return nil, err
		}
		return NewRegular(s.Bins, lo, hi, append(opts, WithUoflow(s.Uoflow))...)
	case KindPolar:
		if s.Uoflow {
			return nil, invalid("snapshot: polar axis with uoflow")
		}
		start, err := fval(s.Start, "start")
		if err != nil {
			return nil, err
		}
		return NewPolar(s.Bins, start, opts...)
	case KindVariable:
		edges := make([]float64, len(s.Edges))
		for i, e := range s.Edges {
			edges[i] = float64(e)
		}
		return NewVariable(edges, append(opts, WithUoflow(s.Uoflow))...)
	case KindCategory:
		if s.Uoflow {
			return nil, invalid("snapshot: category axis with uoflow")
		}
		// A lone category containing the delimiter would be split; snapshots
		// never need that sugar, so reject the ambiguity instead.
		if len(s.Categories) == 1 && containsDelimiter(s.Categories[0]) {
			return nil, invalid("snapshot: lone category %q contains the delimiter", s.Categories[0])
		}
		return NewCategory(s.Categories, opts...)
	default:
		return NewInteger(s.IntLow, s.IntHigh, append(opts, WithUoflow(s.Uoflow))...)
	}
}

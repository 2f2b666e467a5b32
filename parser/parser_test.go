package parser

import (
	"errors"
	"math"
	"testing"

	"ndhist/axis"
	"ndhist/histogram"
)

// -----------------------------------------------------------------------------
// ░░ Fixtures ░░
// -----------------------------------------------------------------------------

// must binds t and returns a checker that accepts a (value, error) call
// directly: must[axis.Axis](t)(axis.NewInteger(0, 1)).
func must[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
}

func canonicalAxes(t *testing.T) []axis.Axis {
	ax := must[axis.Axis](t)
	return []axis.Axis{
		ax(axis.NewRegular(4, 1.1, 2.2)),
		ax(axis.NewRegular(4, -1e-9, 3e21, axis.WithLabel("ra"), axis.WithUoflow(false))),
		ax(axis.NewRegular(2, -1, 1, axis.WithLabel(`it's a \ "path"`))),
		ax(axis.NewPolar(4, 0)),
		ax(axis.NewPolar(4, 1.5, axis.WithLabel("phi"))),
		ax(axis.NewVariable([]float64{-0.1, 0.2, 0.3})),
		ax(axis.NewVariable([]float64{math.Inf(-1), 0, math.Inf(1)}, axis.WithUoflow(false))),
		ax(axis.NewCategory([]string{"A"})),
		ax(axis.NewCategory([]string{"A", "B;C", "", "new\nline\ttab"}, axis.WithLabel("ca"))),
		ax(axis.NewCategory([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"})),
		ax(axis.NewInteger(-1, 1)),
		ax(axis.NewInteger(-5, 5, axis.WithLabel("ia"), axis.WithUoflow(false))),
	}
}

// -----------------------------------------------------------------------------
// ░░ Round Trip ░░
// -----------------------------------------------------------------------------

func TestParseAxisRoundTrip(t *testing.T) {
	for _, a := range canonicalAxes(t) {
		b, err := ParseAxis(a.String())
		if err != nil {
			t.Errorf("ParseAxis(%s): %v", a, err)
			continue
		}
		if !a.Equal(b) || a.String() != b.String() {
			t.Errorf("round trip %s -> %s", a, b)
		}
	}
}

func TestParseHistogramRoundTrip(t *testing.T) {
	h := must[*histogram.Histogram](t)(histogram.New(canonicalAxes(t)[:5]...))
	back, err := ParseHistogram(h.String())
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(h) || back.String() != h.String() {
		t.Fatalf("round trip %s -> %s", h, back)
	}
	if back.Sum() != 0 || back.Depth() != 1 {
		t.Fatal("parsed histogram must be empty")
	}
}

// -----------------------------------------------------------------------------
// ░░ Accepted Spellings ░░
// -----------------------------------------------------------------------------

func TestParseAxisSpellings(t *testing.T) {
	ax := must[axis.Axis](t)
	tests := []struct {
		name string
		in   string
		want axis.Axis
	}{
		{"double quotes", `regular_axis(4, 1.1, 2.2, label="ra")`, ax(axis.NewRegular(4, 1.1, 2.2, axis.WithLabel("ra")))},
		{"lowercase bool", `regular_axis(4, 1.1, 2.2, uoflow=false)`, ax(axis.NewRegular(4, 1.1, 2.2, axis.WithUoflow(false)))},
		{"explicit default", `integer_axis(-1, 1, uoflow=True)`, ax(axis.NewInteger(-1, 1))},
		{"whitespace", " integer_axis ( -1 ,\n1 ) ", ax(axis.NewInteger(-1, 1))},
		{"integral float", `integer_axis(-1.0, 1.0)`, ax(axis.NewInteger(-1, 1))},
		{"exponent", `regular_axis(2, -1e+2, 1E2)`, ax(axis.NewRegular(2, -100, 100))},
		{"empty label", `polar_axis(3, label='')`, ax(axis.NewPolar(3, 0))},
		{"bare inf", `variable_axis(-inf, 0, inf)`, ax(axis.NewVariable([]float64{math.Inf(-1), 0, math.Inf(1)}))},
		{"joined categories", `category_axis('A;B')`, ax(axis.NewCategory([]string{"A", "B"}))},
		{"keyword order", `variable_axis(0, 1, uoflow=False, label='v')`, ax(axis.NewVariable([]float64{0, 1}, axis.WithLabel("v"), axis.WithUoflow(false)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAxis(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseNaNEdge(t *testing.T) {
	a, err := ParseAxis("variable_axis(0, NaN)")
	if err != nil {
		t.Fatal(err)
	}
	v := a.(*axis.Variable)
	if !math.IsNaN(v.Edge(1)) {
		t.Fatalf("edge = %v", v.Edge(1))
	}
	if !a.Equal(must[axis.Axis](t)(ParseAxis(a.String()))) {
		t.Fatal("NaN edges must compare equal after a round trip")
	}
}

// -----------------------------------------------------------------------------
// ░░ Rejections ░░
// -----------------------------------------------------------------------------

func TestParseAxisRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"unknown constructor", "spiral_axis(3)"},
		{"histogram as axis", "histogram(integer_axis(0, 1))"},
		{"unknown keyword", "regular_axis(4, 0, 1, color='red')"},
		{"repeated keyword", "regular_axis(4, 0, 1, label='a', label='b')"},
		{"positional after keyword", "regular_axis(4, 0, label='a', 1)"},
		{"polar uoflow", "polar_axis(4, uoflow=True)"},
		{"polar uoflow false", "polar_axis(4, uoflow=False)"},
		{"category uoflow", "category_axis('A', uoflow=False)"},
		{"too few", "regular_axis(4, 0)"},
		{"too many", "integer_axis(0, 1, 2)"},
		{"fractional bins", "regular_axis(2.5, 0, 1)"},
		{"string bins", "regular_axis('4', 0, 1)"},
		{"numeric label", "integer_axis(0, 1, label=3)"},
		{"bad bool", "integer_axis(0, 1, uoflow=yes)"},
		{"unquoted category", "category_axis(A)"},
		{"no categories", "category_axis()"},
		{"one edge", "variable_axis(1)"},
		{"inverted range", "integer_axis(2, 1)"},
		{"overflowing span", "regular_axis(4, -1e308, 1e308)"},
		{"unterminated string", "category_axis('A)"},
		{"bad escape", `category_axis('\q')`},
		{"missing paren", "integer_axis(0, 1"},
		{"trailing input", "integer_axis(0, 1) x"},
		{"stray character", "integer_axis(0; 1)"},
		{"bad number", "regular_axis(4, 1.2.3, 5)"},
		{"nested axis", "integer_axis(integer_axis(0, 1), 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAxis(tt.in); !errors.Is(err, axis.ErrInvalidArgument) {
				t.Fatalf("ParseAxis(%q) err = %v, want ErrInvalidArgument", tt.in, err)
			}
		})
	}
}

func TestParseHistogramRejects(t *testing.T) {
	for _, in := range []string{
		"histogram()",
		"histogram(1)",
		"histogram(integer_axis(0, 1), label='h')",
		"integer_axis(0, 1)",
		"histogram(integer_axis(0, 1), spiral_axis(2))",
		"histogram(integer_axis(0, 1)",
	} {
		if _, err := ParseHistogram(in); !errors.Is(err, axis.ErrInvalidArgument) {
			t.Errorf("ParseHistogram(%q) err = %v, want ErrInvalidArgument", in, err)
		}
	}
}

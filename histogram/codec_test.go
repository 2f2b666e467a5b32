package histogram

import (
	"errors"
	"math/rand"
	"testing"

	"ndhist/axis"
)

// fiveAxes builds one histogram over every axis kind and fills it
// deterministically.
func fiveAxes(t *testing.T) *Histogram {
	t.Helper()
	cat, err := axis.NewCategory([]string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	ia := integerAxis(t, 0, 19, axis.WithLabel("ia"))
	ra := regularAxis(t, 20, 0, 20, axis.WithUoflow(false))
	va, err := axis.NewVariable([]float64{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	pa, err := axis.NewPolar(4, 0.1, axis.WithLabel("phi"))
	if err != nil {
		t.Fatal(err)
	}
	h := mustNew(t, cat, ia, ra, va, pa)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		mustFill(t, h, i%3, r.Intn(24)-2, r.Float64()*22-1, r.Float64()*3-0.5, r.Float64()*14-7)
	}
	for i := 0; i < 300; i++ {
		mustFill(t, h, "B", 3, 4.5, 0.5, 1.0)
	}
	return h
}

// -----------------------------------------------------------------------------
// ░░ JSON Round Trip ░░
// -----------------------------------------------------------------------------

func TestJSONRoundTrip(t *testing.T) {
	a := fiveAxes(t)
	if a.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", a.Depth())
	}
	raw, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Unmarshal(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("decoded histogram differs")
	}
	if a.String() != b.String() || a.Depth() != b.Depth() {
		t.Fatalf("decoded %s at depth %d", b, b.Depth())
	}
	if b.Axis(4).Label() != "phi" || b.Axis(1).Label() != "ia" {
		t.Fatal("labels lost")
	}
}

func TestJSONSmallestDepthOnRestore(t *testing.T) {
	h := mustNew(t, integerAxis(t, 0, 1))
	mustFill(t, h, 0)
	h.storage.Promote()
	h.storage.Promote()
	raw, err := h.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back Histogram
	if err := back.UnmarshalJSON(raw); err != nil {
		t.Fatal(err)
	}
	if back.Depth() != 1 || !back.Equal(h) {
		t.Fatalf("restored depth %d", back.Depth())
	}
}

func TestUnmarshalRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":        `{"axes": [`,
		"no axes":       `{"axes": [], "counts": []}`,
		"short counts":  `{"axes": [{"kind": "integer", "uoflow": true, "int_high": 1}], "counts": [0, 0]}`,
		"unknown kind":  `{"axes": [{"kind": "spiral"}], "counts": []}`,
		"bad regular":   `{"axes": [{"kind": "regular", "bins": 0, "low": 0, "high": 1}], "counts": []}`,
		"inverted ints": `{"axes": [{"kind": "integer", "int_low": 3, "int_high": 1}], "counts": []}`,
		"polar uoflow":  `{"axes": [{"kind": "polar", "uoflow": true, "bins": 2, "start": 0}], "counts": [0, 0]}`,
	}
	for name, in := range cases {
		if _, err := Unmarshal([]byte(in)); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want ErrInvalidArgument", name, err)
		}
	}
	ok := `{"axes": [{"kind": "integer", "uoflow": true, "int_high": 1}], "counts": [0, 3, 0, 1]}`
	h1, err := Unmarshal([]byte(ok))
	if err != nil {
		t.Fatal(err)
	}
	if at(t, h1, 1) != 3 || at(t, h1, -1) != 1 {
		t.Fatalf("hand-written snapshot decoded to %v", h1.Copy().Values())
	}

	h := fiveAxes(t)
	before := h.Fingerprint()
	if err := h.UnmarshalJSON([]byte(`{"axes": [`)); err == nil {
		t.Fatal("expected an error")
	}
	if h.Fingerprint() != before {
		t.Fatal("failed UnmarshalJSON must leave the receiver unchanged")
	}
}

// -----------------------------------------------------------------------------
// ░░ Fingerprint ░░
// -----------------------------------------------------------------------------

func TestFingerprint(t *testing.T) {
	a := fiveAxes(t)
	b := a.Clone()
	b.storage.Promote()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("fingerprint must not depend on depth")
	}
	mustFill(t, b, "A", 0, 0.0, 0.0, 0.0)
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("fingerprint must change with the counts")
	}

	x := mustNew(t, integerAxis(t, 0, 1))
	y := mustNew(t, integerAxis(t, 0, 1, axis.WithLabel("y")))
	if x.Fingerprint() == y.Fingerprint() {
		t.Fatal("fingerprint must cover the axes")
	}
}

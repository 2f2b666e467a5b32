package histogram

import (
	"testing"

	"ndhist/axis"
)

func benchHist(b *testing.B, axes ...axis.Axis) *Histogram {
	h, err := New(axes...)
	if err != nil {
		b.Fatal(err)
	}
	return h
}

func BenchmarkFillRegular1D(b *testing.B) {
	ra, _ := axis.NewRegular(100, 0, 1)
	h := benchHist(b, ra)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = h.Fill(float64(i%1000) / 1000)
	}
}

func BenchmarkFillMixed3D(b *testing.B) {
	ra, _ := axis.NewRegular(20, 0, 1)
	ia, _ := axis.NewInteger(0, 9)
	cat, _ := axis.NewCategory([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"})
	h := benchHist(b, ra, ia, cat)
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = h.Fill(float64(i%100)/100, i%12, names[i%10])
	}
}

func BenchmarkFillValues(b *testing.B) {
	va, _ := axis.NewVariable([]float64{0, 0.1, 0.3, 0.6, 1})
	h := benchHist(b, va)
	xs := seededValues(7, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.FillValues(xs)
	}
}

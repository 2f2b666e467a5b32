package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ndhist/axis"
	"ndhist/histogram"
)

// -----------------------------------------------------------------------------
// ░░ Fixtures ░░
// -----------------------------------------------------------------------------

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshots.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func sample(t *testing.T, fills int) *histogram.Histogram {
	t.Helper()
	ia, err := axis.NewInteger(-1, 1, axis.WithLabel("ia"))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := axis.NewCategory([]string{"up", "down"})
	if err != nil {
		t.Fatal(err)
	}
	h, err := histogram.New(ia, cat)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < fills; i++ {
		if err := h.Fill(i%5-2, i%2); err != nil {
			t.Fatal(err)
		}
	}
	return h
}

// -----------------------------------------------------------------------------
// ░░ Save / Load ░░
// -----------------------------------------------------------------------------

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	h := sample(t, 1000)
	if err := s.Save(ctx, "latency", h); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "latency")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(h) || got.Fingerprint() != h.Fingerprint() {
		t.Fatalf("loaded %s differs", got)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	if err := s.Save(ctx, "h", sample(t, 10)); err != nil {
		t.Fatal(err)
	}
	second := sample(t, 20)
	if err := s.Save(ctx, "h", second); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "h")
	if err != nil {
		t.Fatal(err)
	}
	if got.Sum() != 20 || !got.Equal(second) {
		t.Fatalf("Sum = %d, want the second save", got.Sum())
	}
	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("List = %d entries, want 1", len(entries))
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Save(context.Background(), "", sample(t, 1)); !errors.Is(err, histogram.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := openTemp(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// -----------------------------------------------------------------------------
// ░░ Listing & Deletion ░░
// -----------------------------------------------------------------------------

func TestListOrderedByName(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	for i, name := range []string{"gamma", "alpha", "beta"} {
		if err := s.Save(ctx, name, sample(t, i+1)); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		name string
		sum  uint64
	}{{"alpha", 2}, {"beta", 3}, {"gamma", 1}}
	if len(entries) != len(want) {
		t.Fatalf("List = %d entries", len(entries))
	}
	for i, w := range want {
		e := entries[i]
		if e.Name != w.name || e.Sum != w.sum || e.Dim != 2 || len(e.Fingerprint) != 64 || e.Updated.IsZero() {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	if err := s.Save(ctx, "h", sample(t, 3)); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "h"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "h"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after Delete err = %v", err)
	}
	if err := s.Delete(ctx, "h"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

// -----------------------------------------------------------------------------
// ░░ Integrity ░░
// -----------------------------------------------------------------------------

func TestLoadDetectsTampering(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	if err := s.Save(ctx, "h", sample(t, 50)); err != nil {
		t.Fatal(err)
	}

	// Valid JSON with one count changed.
	other, err := histogram.Marshal(sample(t, 51))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`UPDATE histograms SET snapshot = ? WHERE name = 'h'`, other); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "h"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("fingerprint mismatch err = %v, want ErrCorrupt", err)
	}

	if _, err := s.db.Exec(`UPDATE histograms SET snapshot = ? WHERE name = 'h'`, []byte(`{"axes": [`)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "h"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("undecodable snapshot err = %v, want ErrCorrupt", err)
	}
}

// -----------------------------------------------------------------------------
// ░░ Schema ░░
// -----------------------------------------------------------------------------

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	h := sample(t, 7)
	if err := s.Save(ctx, "h", h); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Load(ctx, "h")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(h) {
		t.Fatal("reopened store lost data")
	}
}

func TestNewerSchemaRejected(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	if _, err := s.db.Exec(`PRAGMA user_version = 99`); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(ctx, path); !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Save(ctx, "m", sample(t, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "m"); err != nil {
		t.Fatal(err)
	}
}

func TestCanceledContext(t *testing.T) {
	s, _ := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, "h", sample(t, 1)); err == nil {
		t.Fatal("Save with a canceled context must fail")
	}
}

package tempstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestSweepEmptiesStoreAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a", "b", "c")
	store := New(dir)

	first := store.Sweep(context.Background())
	if len(first) != 3 {
		t.Fatalf("expected 3 results, got %d", len(first))
	}
	for _, r := range first {
		if r.Outcome != Removed {
			t.Fatalf("expected %s removed, got %s (%v)", r.Name, r.Outcome, r.Err)
		}
	}
	if n := countEntries(t, dir); n != 0 {
		t.Fatalf("expected empty store after first sweep, got %d entries", n)
	}

	second := store.Sweep(context.Background())
	if len(second) != 0 {
		t.Fatalf("expected no results on second sweep, got %d", len(second))
	}
	if n := countEntries(t, dir); n != 0 {
		t.Fatalf("expected empty store after second sweep, got %d entries", n)
	}
}

func TestSweepMissingDirectory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"))
	if results := store.Sweep(context.Background()); results != nil {
		t.Fatalf("expected nil results for missing dir, got %v", results)
	}
}

func TestSweepContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one", "two")
	// A non-empty subdirectory cannot be removed with a plain remove.
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFiles(t, sub, "inner")

	results := New(dir).Sweep(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	var removed, failed int
	for _, r := range results {
		switch r.Outcome {
		case Removed:
			removed++
		case Failed:
			failed++
			if r.Name != "nested" || r.Err == nil {
				t.Fatalf("unexpected failure %+v", r)
			}
		}
	}
	if removed != 2 || failed != 1 {
		t.Fatalf("expected 2 removed and 1 failed, got %d and %d", removed, failed)
	}
}

func TestCreateEnsuresDirAndUsesUniqueNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmp")
	store := New(dir)

	f1, err := store.Create()
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	defer f1.Close()
	f2, err := store.Create()
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	defer f2.Close()

	if f1.Name() == f2.Name() {
		t.Fatalf("expected distinct paths, both %s", f1.Name())
	}
	if filepath.Dir(f1.Name()) != dir {
		t.Fatalf("expected file under %s, got %s", dir, f1.Name())
	}
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir on existing dir: %v", err)
	}
}

func TestRemoveIgnoresMissingFile(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Remove(filepath.Join(store.Dir(), "gone")); err != nil {
		t.Fatalf("expected nil for missing file, got %v", err)
	}
}

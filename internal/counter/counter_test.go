package counter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "annotation_counts.txt"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d labels", s.Len())
	}
}

func TestIncrement_StartsAtOne(t *testing.T) {
	s := New()
	if got := s.Increment("LG"); got != 1 {
		t.Fatalf("first increment = %d, want 1", got)
	}
	if got := s.Increment("LG"); got != 2 {
		t.Fatalf("second increment = %d, want 2", got)
	}
	if got := s.Count("HG"); got != 0 {
		t.Fatalf("absent label count = %d, want 0", got)
	}
}

func TestLoad_PriorCountsContinue(t *testing.T) {
	// Prior run left LG=5; the next annotation must get sequence 6.
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("LG=5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Increment("LG"); got != 6 {
		t.Fatalf("increment after LG=5 = %d, want 6", got)
	}
	if err := s.Persist(path); err != nil {
		t.Fatalf("persist: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "LG=6\n" {
		t.Fatalf("persisted file = %q, want %q", string(data), "LG=6\n")
	}
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "LG=3\nnot a counter line\nHG=abc\nStroma=-1\nHG=7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(s.BadLines()); got != 3 {
		t.Fatalf("bad lines = %d (%q), want 3", got, s.BadLines())
	}
	if s.Count("LG") != 3 || s.Count("HG") != 7 {
		t.Fatalf("counts LG=%d HG=%d, want 3 and 7", s.Count("LG"), s.Count("HG"))
	}
	if s.Count("Stroma") != 0 {
		t.Fatalf("negative count should be rejected, got %d", s.Count("Stroma"))
	}
}

func TestPersist_SortedAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	s := New()
	s.Increment("Stroma")
	s.Increment("HG")
	s.Increment("HG")
	s.Increment("LG")
	if err := s.Persist(path); err != nil {
		t.Fatalf("persist: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "HG=2\nLG=1\nStroma=1\n"
	if string(data) != want {
		t.Fatalf("persisted file = %q, want %q", string(data), want)
	}

	// persist(load(persist(s))) reproduces the same mapping
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	path2 := filepath.Join(dir, "second.txt")
	if err := loaded.Persist(path2); err != nil {
		t.Fatalf("second persist: %v", err)
	}
	data2, err := os.ReadFile(path2)
	if err != nil {
		t.Fatal(err)
	}
	if string(data2) != want {
		t.Fatalf("round-trip file = %q, want %q", string(data2), want)
	}
}

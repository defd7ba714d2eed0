// Package counter implements the durable per-label sequence counter that
// makes output folder numbering unique across runs and slides.
//
// The counter file is a tiny key-value store with explicit load, mutate and
// persist phases. It is written in full at the end of a run and carries no
// lock: two runs pointed at the same output directory can read the same base
// values and assign overlapping sequence numbers. Callers must ensure a
// single writer per output directory.
package counter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FileName is the counter file's name inside the output root.
const FileName = "annotation_counts.txt"

// Store is an in-memory label→count mapping loaded from and persisted to a
// counter file. Counts only ever increase. Labels must not contain '=' or
// line breaks, or the persisted line cannot be parsed back;
// annotation.NormalizeLabel produces safe labels.
type Store struct {
	counts map[string]int

	// Lines the loader could not parse, kept so callers can surface
	// corruption loudly.
	badLines []string
}

// New creates an empty store.
func New() *Store {
	return &Store{counts: make(map[string]int)}
}

// Load reads a counter file. A missing file yields an empty store, not an
// error. Malformed lines are skipped and recorded in BadLines.
func Load(path string) (*Store, error) {
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read counter file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, value, found := strings.Cut(line, "=")
		if !found {
			s.badLines = append(s.badLines, line)
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || count < 0 {
			s.badLines = append(s.badLines, line)
			continue
		}
		s.counts[strings.TrimSpace(label)] = count
	}

	return s, nil
}

// Count returns the current count for a label, zero if absent.
func (s *Store) Count(label string) int {
	return s.counts[label]
}

// Increment bumps the label's count and returns the new value. An absent
// label starts at zero, so its first increment returns 1.
func (s *Store) Increment(label string) int {
	s.counts[label]++
	return s.counts[label]
}

// Labels returns all labels in sorted order.
func (s *Store) Labels() []string {
	labels := make([]string, 0, len(s.counts))
	for label := range s.counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of labels in the store.
func (s *Store) Len() int {
	return len(s.counts)
}

// BadLines returns the malformed lines skipped during Load.
func (s *Store) BadLines() []string {
	return s.badLines
}

// Persist rewrites the counter file from the in-memory mapping, one
// label=count line per label, sorted by label for deterministic output.
func (s *Store) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create counter directory: %w", err)
	}

	var b strings.Builder
	for _, label := range s.Labels() {
		fmt.Fprintf(&b, "%s=%d\n", label, s.counts[label])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write counter file: %w", err)
	}
	return nil
}

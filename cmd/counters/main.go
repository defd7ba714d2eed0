// Command counters inspects the durable annotation counter file of an
// output directory.
//
// Usage: counters -dir <outputRoot> [-label <label>]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MaxencePelloux/THESIS-PANK/internal/counter"
)

func main() {
	dir := flag.String("dir", ".", "Output root directory containing the counter file")
	label := flag.String("label", "", "Show a single label only")
	flag.Parse()

	path := filepath.Join(*dir, counter.FileName)
	store, err := counter.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", path, err)
		os.Exit(1)
	}
	for _, line := range store.BadLines() {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed line: %q\n", line)
	}

	if *label != "" {
		fmt.Printf("%s=%d\n", *label, store.Count(*label))
		return
	}

	if store.Len() == 0 {
		fmt.Println("No counters recorded.")
		return
	}
	fmt.Printf("%-24s %8s\n", "Label", "Count")
	for _, l := range store.Labels() {
		fmt.Printf("%-24s %8d\n", l, store.Count(l))
	}
}

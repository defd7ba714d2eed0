// Command patchextract extracts fixed-size cell patches from annotated
// whole-slide images, numbering output folders with the durable per-label
// counter kept in the output directory.
//
// Usage: patchextract [options] <annotations.json> [<annotations.json> ...]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/MaxencePelloux/THESIS-PANK/internal/config"
	"github.com/MaxencePelloux/THESIS-PANK/internal/patch"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config file")
	outputRoot := flag.String("out", "", "Output root directory (overrides config)")
	basePixels := flag.Int("base", 0, "Patch side in pixels at desired magnification (overrides config)")
	desiredMag := flag.Float64("mag", 0, "Desired magnification (overrides config)")
	ext := flag.String("ext", "", "Patch image extension: jpg or png (overrides config)")
	strict := flag.Bool("strict", false, "Fail on any corrupt counter file entry")
	verbose := flag.Bool("v", false, "Verbose (debug) logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <annotations.json> ...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *outputRoot != "" {
		cfg.OutputRoot = *outputRoot
	}
	if *basePixels > 0 {
		cfg.BasePatchPixels = *basePixels
	}
	if *desiredMag > 0 {
		cfg.DesiredMagnification = *desiredMag
	}
	if *ext != "" {
		cfg.ImageExtension = *ext
	}
	if *strict {
		cfg.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	runner := patch.NewRunner(cfg, logger)
	report, err := runner.Run(flag.Args())
	if err != nil {
		logger.Error("run aborted", "error", err)
		os.Exit(1)
	}
	if report.TotalFailed() > 0 {
		os.Exit(2)
	}
}

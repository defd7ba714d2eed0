package patch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MaxencePelloux/THESIS-PANK/internal/annotation"
	"github.com/MaxencePelloux/THESIS-PANK/internal/config"
	"github.com/MaxencePelloux/THESIS-PANK/internal/counter"
	"github.com/MaxencePelloux/THESIS-PANK/internal/slide"
)

// Runner drives a whole extraction run: load counters, process each slide's
// annotations sequentially, persist counters. Processing is single-threaded;
// the counter file carries no lock, so only one run may target an output
// directory at a time.
type Runner struct {
	cfg *config.Config
	log *slog.Logger

	// OpenReader builds the region reader for a loaded slide. Defaults to
	// the Mat-backed reader.
	OpenReader func(s *slide.Slide) (RegionReader, error)
}

// NewRunner creates a Runner with the given configuration and logger.
func NewRunner(cfg *config.Config, log *slog.Logger) *Runner {
	return &Runner{
		cfg: cfg,
		log: log,
		OpenReader: func(s *slide.Slide) (RegionReader, error) {
			return slide.NewMatReader(s.Image)
		},
	}
}

// Run processes the given annotation documents. Only setup failures abort
// the run: an output root that cannot be created, or a corrupt counter file
// in strict mode. Per-slide and per-annotation failures are recorded in the
// report and processing moves to the next sibling.
func (r *Runner) Run(docPaths []string) (*RunReport, error) {
	if err := os.MkdirAll(r.cfg.OutputRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}

	counterPath := filepath.Join(r.cfg.OutputRoot, counter.FileName)
	counters, err := counter.Load(counterPath)
	if err != nil {
		if r.cfg.Strict {
			return nil, fmt.Errorf("failed to load counter file: %w", err)
		}
		// Starting from an empty mapping silently resets sequence
		// numbers, so say it loudly.
		r.log.Error("counter file unreadable, starting from empty counts",
			"path", counterPath, "error", err)
	}
	for _, line := range counters.BadLines() {
		if r.cfg.Strict {
			return nil, fmt.Errorf("malformed counter line %q in %s", line, counterPath)
		}
		r.log.Warn("skipping malformed counter line", "path", counterPath, "line", line)
	}

	report := &RunReport{}
	for _, docPath := range docPaths {
		report.Images = append(report.Images, r.processDocument(docPath, counters))
	}

	if err := counters.Persist(counterPath); err != nil {
		return report, fmt.Errorf("failed to persist counters: %w", err)
	}

	mean, stddev := report.YieldSummary()
	r.log.Info("run complete",
		"written", report.TotalWritten(),
		"skipped", report.TotalSkipped(),
		"failed", report.TotalFailed(),
		"yield_mean", mean,
		"yield_stddev", stddev)
	return report, nil
}

// processDocument handles one slide: resolve calibration once, then extract
// every annotation. Failures here never abort the run.
func (r *Runner) processDocument(docPath string, counters *counter.Store) ImageResult {
	result := ImageResult{Image: docPath}

	doc, err := annotation.Load(docPath)
	if err != nil {
		r.log.Error("skipping annotation document", "path", docPath, "error", err)
		result.Err = err
		return result
	}

	imagePath := doc.ImagePath(docPath)
	sl, err := slide.Load(imagePath)
	if err != nil {
		r.log.Error("skipping slide", "image", imagePath, "error", err)
		result.Err = err
		return result
	}
	result.Image = imagePath

	native := doc.Magnification
	if native <= 0 {
		native = sl.Magnification
	}
	params := ParamsFromConfig(r.cfg).WithMagnification(native)
	if params.MagnificationDefaulted {
		r.log.Warn("slide has no usable magnification, using default",
			"image", imagePath, "default", params.DefaultMagnification)
	}
	if params.DownsampleClamped {
		r.log.Warn("degenerate downsample factor, using 1.0", "image", imagePath)
	}
	r.log.Info("processing slide",
		"image", imagePath,
		"size", fmt.Sprintf("%dx%d", sl.Width(), sl.Height()),
		"downsample", params.Downsample,
		"patch_size", params.PatchSize)

	reader, err := r.OpenReader(sl)
	if err != nil {
		r.log.Error("skipping slide, cannot open region reader", "image", imagePath, "error", err)
		result.Err = err
		return result
	}
	if closer, ok := reader.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	for _, region := range doc.Annotations {
		ar := r.processAnnotation(sl, reader, region, params, counters)
		result.Annotations = append(result.Annotations, ar)
		r.log.Info("annotation processed",
			"image", imagePath,
			"label", ar.Label,
			"sequence", ar.Sequence,
			"folder", ar.Folder,
			"written", ar.Written(),
			"skipped", ar.Skipped(),
			"failed", ar.Failed())
	}

	r.log.Info("slide done", "image", imagePath, "skipped", result.Skipped())
	return result
}

// processAnnotation assigns the annotation its global sequence number, then
// plans and extracts its patches. The sequence number is consumed even when
// folder creation fails, keeping numbering strictly increasing.
func (r *Runner) processAnnotation(sl *slide.Slide, reader RegionReader,
	region annotation.Region, params Params, counters *counter.Store) AnnotationResult {

	sequence := counters.Increment(region.Label)
	folder := FolderName(region.Label, sequence)
	result := AnnotationResult{
		Label:    region.Label,
		Sequence: sequence,
		Folder:   folder,
	}

	dir := filepath.Join(r.cfg.OutputRoot, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		r.log.Error("skipping annotation, cannot create folder", "folder", dir, "error", err)
		for _, plan := range PlanWindows(region.Points, sl.Extent(), params) {
			result.Points = append(result.Points, PointResult{
				Point:   plan.Point,
				Outcome: OutcomeFailed,
				Err:     err,
			})
		}
		return result
	}

	localIndex := 0
	for _, plan := range PlanWindows(region.Points, sl.Extent(), params) {
		if !plan.InBounds {
			result.Points = append(result.Points, PointResult{
				Point:   plan.Point,
				Outcome: OutcomeOutOfBounds,
			})
			continue
		}

		name := PatchFileName(sl.Name(), region.Label,
			plan.Point.X, plan.Point.Y, localIndex, r.cfg.ImageExtension)
		localIndex++

		if err := WritePatch(reader, plan.Window, filepath.Join(dir, name)); err != nil {
			r.log.Error("failed to write patch", "file", name, "error", err)
			result.Points = append(result.Points, PointResult{
				Point:   plan.Point,
				Outcome: OutcomeFailed,
				Err:     err,
			})
			continue
		}
		result.Points = append(result.Points, PointResult{
			Point:   plan.Point,
			Outcome: OutcomeWritten,
			File:    name,
		})
	}

	return result
}

package patch

import (
	"gonum.org/v1/gonum/stat"

	"github.com/MaxencePelloux/THESIS-PANK/pkg/geometry"
)

// Outcome classifies what happened to one detection point.
type Outcome int

const (
	// OutcomeWritten means the patch file was extracted and written.
	OutcomeWritten Outcome = iota
	// OutcomeOutOfBounds means the window fell outside the image extent
	// and the point was skipped.
	OutcomeOutOfBounds
	// OutcomeFailed means extraction or writing failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeOutOfBounds:
		return "out-of-bounds"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PointResult records the outcome for one detection point.
type PointResult struct {
	Point   geometry.PointInt
	Outcome Outcome
	File    string // patch file name, set when written
	Err     error  // set when Outcome is OutcomeFailed
}

// AnnotationResult aggregates outcomes for one annotation instance.
type AnnotationResult struct {
	Label    string
	Sequence int    // global sequence number assigned to this instance
	Folder   string // output folder name
	Points   []PointResult
}

// Written returns the number of patches written for this annotation.
func (a *AnnotationResult) Written() int { return a.countOutcome(OutcomeWritten) }

// Skipped returns the number of out-of-bounds points for this annotation.
func (a *AnnotationResult) Skipped() int { return a.countOutcome(OutcomeOutOfBounds) }

// Failed returns the number of failed extractions for this annotation.
func (a *AnnotationResult) Failed() int { return a.countOutcome(OutcomeFailed) }

func (a *AnnotationResult) countOutcome(o Outcome) int {
	n := 0
	for _, p := range a.Points {
		if p.Outcome == o {
			n++
		}
	}
	return n
}

// ImageResult aggregates one slide's annotation results. Err is set when
// the slide could not be processed at all.
type ImageResult struct {
	Image       string
	Annotations []AnnotationResult
	Err         error
}

// Skipped returns the slide's total out-of-bounds point count.
func (r *ImageResult) Skipped() int {
	n := 0
	for i := range r.Annotations {
		n += r.Annotations[i].Skipped()
	}
	return n
}

// RunReport aggregates results for a whole run, making failure and skip
// counts a first-class output rather than log text.
type RunReport struct {
	Images []ImageResult
}

// TotalWritten returns the number of patches written across the run.
func (r *RunReport) TotalWritten() int {
	n := 0
	for i := range r.Images {
		for j := range r.Images[i].Annotations {
			n += r.Images[i].Annotations[j].Written()
		}
	}
	return n
}

// TotalSkipped returns the number of out-of-bounds points across the run.
func (r *RunReport) TotalSkipped() int {
	n := 0
	for i := range r.Images {
		n += r.Images[i].Skipped()
	}
	return n
}

// TotalFailed returns the number of failed extractions across the run.
func (r *RunReport) TotalFailed() int {
	n := 0
	for i := range r.Images {
		for j := range r.Images[i].Annotations {
			n += r.Images[i].Annotations[j].Failed()
		}
	}
	return n
}

// YieldSummary returns the mean and standard deviation of per-annotation
// patch yields across the run. Both are 0 for a run with no annotations.
func (r *RunReport) YieldSummary() (mean, stddev float64) {
	var yields []float64
	for i := range r.Images {
		for j := range r.Images[i].Annotations {
			yields = append(yields, float64(r.Images[i].Annotations[j].Written()))
		}
	}
	if len(yields) == 0 {
		return 0, 0
	}
	m, sd := stat.MeanStdDev(yields, nil)
	if len(yields) < 2 {
		return m, 0
	}
	return m, sd
}

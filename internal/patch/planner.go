package patch

import (
	"github.com/MaxencePelloux/THESIS-PANK/pkg/geometry"
)

// Window describes an axis-aligned square pixel region at source resolution,
// read back at the given downsample factor. Windows are derived values,
// consumed immediately by the writer.
type Window struct {
	X          int
	Y          int
	Size       int
	Downsample float64
}

// Plan pairs a detection point with its window and bounds classification.
type Plan struct {
	Point    geometry.PointInt
	Window   Window
	InBounds bool
}

// PlanWindows computes, for each detection point, the window centered on its
// truncated centroid and classifies it against the image extent. Edges are
// inclusive: a window touching x=0 or x+size=width exactly is in bounds.
// Out-of-bounds windows are never clipped; clipping would produce non-square
// or off-center patches, which is worse than omission. Host point order is
// preserved.
func PlanWindows(points []geometry.Point2D, extent geometry.RectInt, p Params) []Plan {
	plans := make([]Plan, 0, len(points))
	for _, pt := range points {
		c := pt.Truncate()
		w := Window{
			X:          c.X - p.HalfPatchSize,
			Y:          c.Y - p.HalfPatchSize,
			Size:       p.PatchSize,
			Downsample: p.Downsample,
		}
		inBounds := extent.Contains(w.X, w.Y) &&
			w.X+w.Size <= extent.Right() && w.Y+w.Size <= extent.Bottom()
		plans = append(plans, Plan{Point: c, Window: w, InBounds: inBounds})
	}
	return plans
}

package patch

import (
	"testing"

	"github.com/MaxencePelloux/THESIS-PANK/pkg/geometry"
)

var testExtent = geometry.RectInt{Width: 4000, Height: 3000}

func planOne(t *testing.T, x, y float64) Plan {
	t.Helper()
	p := DefaultParams().WithMagnification(40.0)
	plans := PlanWindows([]geometry.Point2D{{X: x, Y: y}}, testExtent, p)
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	return plans[0]
}

func TestPlanWindows_CenteredWindow(t *testing.T) {
	plan := planOne(t, 2000, 1500)
	if !plan.InBounds {
		t.Fatal("centered point should be in bounds")
	}
	if plan.Window.X != 1888 || plan.Window.Y != 1388 {
		t.Fatalf("window top-left = (%d,%d), want (1888,1388)", plan.Window.X, plan.Window.Y)
	}
	if plan.Window.Size != 224 {
		t.Fatalf("window size = %d, want 224", plan.Window.Size)
	}
}

func TestPlanWindows_NearEdgeSkippedNotClipped(t *testing.T) {
	// (100,100) puts the window top-left at (-12,-12).
	plan := planOne(t, 100, 100)
	if plan.InBounds {
		t.Fatal("point near edge should be out of bounds")
	}
	if plan.Window.X != -12 || plan.Window.Y != -12 {
		t.Fatalf("window must stay unclipped, got top-left (%d,%d)", plan.Window.X, plan.Window.Y)
	}
}

func TestPlanWindows_EdgesAreInclusive(t *testing.T) {
	// Windows touching the image edges exactly are in bounds.
	cases := []struct {
		name     string
		x, y     float64
		inBounds bool
	}{
		{"top-left corner exact", 112, 112, true},
		{"one past left edge", 111, 112, false},
		{"one past top edge", 112, 111, false},
		{"bottom-right corner exact", 3888, 2888, true},
		{"one past right edge", 3889, 2888, false},
		{"one past bottom edge", 3888, 2889, false},
	}
	for _, tc := range cases {
		plan := planOne(t, tc.x, tc.y)
		if plan.InBounds != tc.inBounds {
			t.Fatalf("%s: inBounds = %v, want %v", tc.name, plan.InBounds, tc.inBounds)
		}
	}
}

func TestPlanWindows_TruncatesCentroids(t *testing.T) {
	plan := planOne(t, 2000.9, 1500.7)
	if plan.Point.X != 2000 || plan.Point.Y != 1500 {
		t.Fatalf("centroid truncation gave (%d,%d), want (2000,1500)", plan.Point.X, plan.Point.Y)
	}
}

func TestPlanWindows_PreservesHostOrder(t *testing.T) {
	points := []geometry.Point2D{
		{X: 2000, Y: 1500},
		{X: 100, Y: 100},
		{X: 300, Y: 400},
	}
	p := DefaultParams().WithMagnification(40.0)
	plans := PlanWindows(points, testExtent, p)
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	for i, pt := range points {
		if plans[i].Point != pt.Truncate() {
			t.Fatalf("plan %d reordered: got %+v", i, plans[i].Point)
		}
	}
}

package gesture

import (
	"math"
	"testing"

	"aurora-compare/internal/scene"
	"aurora-compare/internal/viewport"
	"aurora-compare/pkg/geometry"
)

// rig builds a scene and an identity camera, so screen and world coincide
// and test points can be written in world units.
func rig(objs ...*scene.Object) (*scene.Scene, *Engine) {
	sc := scene.New()
	for _, o := range objs {
		sc.Add(o)
	}
	cam := viewport.NewCamera(1600, 1000)
	return sc, NewEngine(sc, cam, DefaultConfig())
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestScalePivotStaysFixedAcrossRotations(t *testing.T) {
	for _, rot := range []float64{0, 30, 45, 90, 123, -60} {
		o := &scene.Object{ID: "a", X: 100, Y: 100, Width: 200, Height: 150, Rotation: rot}
		sc, e := rig(o)
		sc.Select("a")

		// Pivot for the SE handle is the NW corner's world position.
		pivot := HandlePoint(o.Rect(), rot, HandleNW)
		start := HandlePoint(o.Rect(), rot, HandleSE)

		if !e.Begin(start) || e.Session().Kind != KindScale {
			t.Fatalf("rot %v: expected a scale gesture", rot)
		}
		e.Update(start.Add(geometry.NewPoint2D(40, 25)), false)
		e.End()

		after := HandlePoint(o.Rect(), o.Rotation, HandleNW)
		if !near(after.X, pivot.X, 0.01) || !near(after.Y, pivot.Y, 0.01) {
			t.Errorf("rot %v: pivot moved from %+v to %+v", rot, pivot, after)
		}
	}
}

func TestScaleCornerPreservesAspect(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 200, Height: 150}
	sc, e := rig(o)
	sc.Select("a")

	start := HandlePoint(o.Rect(), 0, HandleSE)
	if !e.Begin(start) {
		t.Fatal("expected a scale gesture")
	}
	e.Update(geometry.NewPoint2D(320, 190), false)
	e.End()

	if !near(o.Width/o.Height, 200.0/150.0, 1e-9) {
		t.Errorf("aspect = %v, want %v", o.Width/o.Height, 200.0/150.0)
	}
}

func TestScaleEdgeChangesOneAxis(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 200, Height: 150}
	sc, e := rig(o)
	sc.Select("a")

	// E handle at (200, 75); drag 50 to the right.
	if !e.Begin(geometry.NewPoint2D(200, 75)) {
		t.Fatal("expected a scale gesture")
	}
	e.Update(geometry.NewPoint2D(250, 75), false)
	e.End()

	if !near(o.Width, 250, 1e-9) || !near(o.Height, 150, 1e-9) {
		t.Errorf("size = %vx%v, want 250x150", o.Width, o.Height)
	}
	if !near(o.X, 0, 1e-9) {
		t.Errorf("left edge moved to %v", o.X)
	}
}

func TestScaleFloorsAtMinimumSize(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 200, Height: 150}
	sc, e := rig(o)
	sc.Select("a")

	// Drag the E handle far past the W pivot; width clamps at the floor
	// instead of collapsing or mirroring.
	if !e.Begin(geometry.NewPoint2D(200, 75)) {
		t.Fatal("expected a scale gesture")
	}
	e.Update(geometry.NewPoint2D(-500, 75), false)
	e.End()

	if !near(o.Width, scene.MinObjectSize, 1e-9) {
		t.Errorf("width = %v, want %v", o.Width, scene.MinObjectSize)
	}
	if !near(o.X, 0, 1e-9) {
		t.Errorf("pivot edge moved, X = %v", o.X)
	}
}

func TestScaleClickOffsetPreventsJump(t *testing.T) {
	o := &scene.Object{ID: "a", X: 100, Y: 100, Width: 200, Height: 150}
	sc, e := rig(o)
	sc.Select("a")
	before := o.Snapshot()

	// Press 4px off the exact handle position, then update in place: the
	// geometry must not change.
	start := HandlePoint(o.Rect(), 0, HandleSE).Add(geometry.NewPoint2D(3, -2.6))
	if !e.Begin(start) {
		t.Fatal("expected a scale gesture")
	}
	e.Update(start, false)
	e.End()

	after := o.Snapshot()
	if !near(after.X, before.X, 1e-9) || !near(after.Width, before.Width, 1e-9) ||
		!near(after.Y, before.Y, 1e-9) || !near(after.Height, before.Height, 1e-9) {
		t.Errorf("geometry jumped from %+v to %+v", before, after)
	}
}

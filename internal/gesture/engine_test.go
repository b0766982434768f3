package gesture

import (
	"testing"

	"aurora-compare/internal/scene"
	"aurora-compare/pkg/geometry"
)

func TestHitTestTopmostWins(t *testing.T) {
	a := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	b := &scene.Object{ID: "b", X: 50, Y: 50, Width: 100, Height: 100}
	_, e := rig(a, b)

	if got := e.HitTest(geometry.NewPoint2D(75, 75)); got != "b" {
		t.Errorf("hit = %q, want b (drawn on top)", got)
	}
	if got := e.HitTest(geometry.NewPoint2D(25, 25)); got != "a" {
		t.Errorf("hit = %q, want a", got)
	}
	if got := e.HitTest(geometry.NewPoint2D(400, 400)); got != "" {
		t.Errorf("hit = %q, want miss", got)
	}
}

func TestHitTestRespectsRotation(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 300, Height: 40, Rotation: 90}
	_, e := rig(o)

	// Inside the rotated strip, outside the unrotated one.
	if got := e.HitTest(geometry.NewPoint2D(150, 150)); got != "a" {
		t.Errorf("hit = %q, want a inside the rotated strip", got)
	}
	// Inside the unrotated rect, outside the rotated strip.
	if got := e.HitTest(geometry.NewPoint2D(10, 20)); got != "" {
		t.Errorf("hit = %q, want miss outside the rotated strip", got)
	}
}

func TestBeginOnEmptySpaceDeclines(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	_, e := rig(o)

	if e.Begin(geometry.NewPoint2D(500, 500)) {
		t.Error("empty space must decline so the host can pan")
	}
	if e.Active() {
		t.Error("declined begin must not open a session")
	}
}

func TestHandleHitRequiresSelection(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	sc, e := rig(o)

	corner := geometry.NewPoint2D(100, 100)
	if e.HandleHit(corner) != HandleNone {
		t.Error("unselected objects expose no handles")
	}
	sc.Select("a")
	if e.HandleHit(corner) != HandleSE {
		t.Error("selected object should expose the SE handle")
	}
}

func TestEndAlwaysReturnsToIdle(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	_, e := rig(o)

	if !e.Begin(geometry.NewPoint2D(50, 50)) {
		t.Fatal("expected a move gesture")
	}
	e.End()
	if e.Active() || e.Session() != nil {
		t.Error("End must return the engine to idle")
	}
	// Updates after End are ignored, not a panic.
	e.Update(geometry.NewPoint2D(60, 60), false)
	if o.X != 0 {
		t.Error("idle updates must not move objects")
	}
}

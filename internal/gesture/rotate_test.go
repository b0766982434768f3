package gesture

import (
	"testing"

	"aurora-compare/internal/scene"
	"aurora-compare/pkg/geometry"
)

// rotateRegionPoint returns a screen point inside the corner rotation ring:
// just outside the handle's hit circle, along the outward diagonal.
func rotateRegionPoint(rect geometry.Rect, rotation float64, h Handle, cfg Config) geometry.Point2D {
	corner := HandlePoint(rect, rotation, h)
	out := corner.Sub(rect.Center())
	dist := out.Distance(geometry.Point2D{})
	out = out.Scale((cfg.HandleSizePx + cfg.RotateRegionPx/2) / dist)
	return corner.Add(out)
}

func TestRotateFollowsPointer(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	sc, e := rig(o)
	sc.Select("a")

	start := rotateRegionPoint(o.Rect(), 0, HandleNE, e.cfg)
	if !e.Begin(start) || e.Session().Kind != KindRotate {
		t.Fatal("expected a rotate gesture")
	}

	target := geometry.RotatePoint(start, o.Center(), 30)
	e.Update(target, false)
	e.End()

	if !near(o.Rotation, 30, 1e-9) {
		t.Errorf("rotation = %v, want 30", o.Rotation)
	}
}

func TestRotateQuantizesWhenSnapping(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	sc, e := rig(o)
	sc.Select("a")

	start := rotateRegionPoint(o.Rect(), 0, HandleNE, e.cfg)
	if !e.Begin(start) {
		t.Fatal("expected a rotate gesture")
	}

	target := geometry.RotatePoint(start, o.Center(), 37)
	e.Update(target, true)
	e.End()

	if !near(o.Rotation, 45, 1e-9) {
		t.Errorf("rotation = %v, want 45 (nearest 15-degree step)", o.Rotation)
	}
}

func TestRotateQuantizesAbsoluteAngleNotDelta(t *testing.T) {
	o := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100, Rotation: 7}
	sc, e := rig(o)
	sc.Select("a")

	start := rotateRegionPoint(o.Rect(), 7, HandleNE, e.cfg)
	if !e.Begin(start) {
		t.Fatal("expected a rotate gesture")
	}

	target := geometry.RotatePoint(start, o.Center(), 5)
	e.Update(target, true)
	e.End()

	// 7 + 5 = 12 rounds to 15, not to 7 + round(5).
	if !near(o.Rotation, 15, 1e-9) {
		t.Errorf("rotation = %v, want 15", o.Rotation)
	}
}

func TestRotateHandlesOnRotatedObject(t *testing.T) {
	o := &scene.Object{ID: "a", X: 200, Y: 100, Width: 160, Height: 80, Rotation: 50}
	sc, e := rig(o)
	sc.Select("a")

	// The ring must follow the rotated corner, not the unrotated one.
	start := rotateRegionPoint(o.Rect(), 50, HandleNE, e.cfg)
	if !e.Begin(start) || e.Session().Kind != KindRotate {
		t.Fatal("expected a rotate gesture at the rotated corner")
	}
	target := geometry.RotatePoint(start, o.Center(), -20)
	e.Update(target, false)
	e.End()

	if !near(o.Rotation, 30, 1e-9) {
		t.Errorf("rotation = %v, want 30", o.Rotation)
	}
}

func TestShortestDelta(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{30, 30},
		{-30, -30},
		{190, -170},
		{-190, 170},
		{350, -10},
	}
	for _, c := range cases {
		if got := shortestDelta(c.in); !near(got, c.want, 1e-9) {
			t.Errorf("shortestDelta(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

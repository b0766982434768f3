package gesture

import (
	"testing"

	"aurora-compare/internal/scene"
	"aurora-compare/pkg/geometry"
)

func groupRig() (*scene.Object, *scene.Object, *Engine) {
	a := &scene.Object{ID: "a", X: 0, Y: 0, Width: 100, Height: 100}
	b := &scene.Object{ID: "b", X: 200, Y: 0, Width: 100, Height: 100}
	sc, e := rig(a, b)
	sc.SetSelection("a", "b")
	return a, b, e
}

func TestGroupScaleAboutPivot(t *testing.T) {
	a, b, e := groupRig()

	// Envelope (0,0,300,100); E handle at (300,50), pivot at (0,50).
	if !e.Begin(geometry.NewPoint2D(300, 50)) || e.Session().Kind != KindScale {
		t.Fatal("expected a group scale gesture")
	}
	if !e.Session().Group {
		t.Fatal("multi-selection should scale as a group")
	}
	e.Update(geometry.NewPoint2D(330, 50), false)
	e.End()

	// Factor 1.1 about x=0: a keeps its left edge on the pivot line.
	if !near(a.X, 0, 1e-6) || !near(a.Width, 110, 1e-6) {
		t.Errorf("a = (%v, w %v), want (0, w 110)", a.X, a.Width)
	}
	if !near(b.X, 220, 1e-6) || !near(b.Width, 110, 1e-6) {
		t.Errorf("b = (%v, w %v), want (220, w 110)", b.X, b.Width)
	}
	// Edge handle: the orthogonal axis is untouched.
	if !near(a.Height, 100, 1e-6) || !near(a.Y, 0, 1e-6) {
		t.Errorf("a vertical = (%v, h %v), want (0, h 100)", a.Y, a.Height)
	}
}

func TestGroupScaleClampsFactor(t *testing.T) {
	a, _, e := groupRig()

	if !e.Begin(geometry.NewPoint2D(300, 50)) {
		t.Fatal("expected a group scale gesture")
	}
	// A 2x drag clamps to the per-gesture maximum.
	e.Update(geometry.NewPoint2D(600, 50), false)
	e.End()

	want := 100 * e.cfg.GroupScaleMax
	if !near(a.Width, want, 1e-6) {
		t.Errorf("a.Width = %v, want %v", a.Width, want)
	}
}

func TestGroupScaleIdentityRoundTrip(t *testing.T) {
	a, b, e := groupRig()
	beforeA, beforeB := a.Snapshot(), b.Snapshot()

	if !e.Begin(geometry.NewPoint2D(300, 50)) {
		t.Fatal("expected a group scale gesture")
	}
	e.Update(geometry.NewPoint2D(340, 50), false)
	e.Update(geometry.NewPoint2D(300, 50), false)
	e.End()

	afterA, afterB := a.Snapshot(), b.Snapshot()
	for _, pair := range []struct{ before, after scene.Snapshot }{
		{beforeA, afterA}, {beforeB, afterB},
	} {
		if !near(pair.after.X, pair.before.X, 1e-6) ||
			!near(pair.after.Width, pair.before.Width, 1e-6) ||
			!near(pair.after.Rotation, pair.before.Rotation, 1e-6) {
			t.Errorf("identity transform changed geometry: %+v -> %+v", pair.before, pair.after)
		}
	}
}

func TestGroupRotateAboutEnvelopeCenter(t *testing.T) {
	a, b, e := groupRig()
	env := geometry.NewRect(0, 0, 300, 100)

	start := rotateRegionPoint(env, 0, HandleNE, e.cfg)
	if !e.Begin(start) || e.Session().Kind != KindRotate {
		t.Fatal("expected a group rotate gesture")
	}
	e.Update(geometry.RotatePoint(start, env.Center(), 20), false)
	e.End()

	if !near(a.Rotation, 20, 1e-6) || !near(b.Rotation, 20, 1e-6) {
		t.Errorf("rotations = %v, %v, want 20, 20", a.Rotation, b.Rotation)
	}
	// Member centers orbit the envelope center.
	wantA := geometry.RotatePoint(geometry.NewPoint2D(50, 50), env.Center(), 20)
	if !near(a.Center().X, wantA.X, 1e-6) || !near(a.Center().Y, wantA.Y, 1e-6) {
		t.Errorf("a center = %+v, want %+v", a.Center(), wantA)
	}
	// Sizes are untouched by a pure rotation.
	if !near(a.Width, 100, 1e-6) || !near(b.Height, 100, 1e-6) {
		t.Errorf("sizes changed under rotation: a.W=%v b.H=%v", a.Width, b.Height)
	}
}

func TestGroupRotateClampsToLimit(t *testing.T) {
	a, _, e := groupRig()
	env := geometry.NewRect(0, 0, 300, 100)

	start := rotateRegionPoint(env, 0, HandleNE, e.cfg)
	if !e.Begin(start) {
		t.Fatal("expected a group rotate gesture")
	}
	e.Update(geometry.RotatePoint(start, env.Center(), 90), false)
	e.End()

	if !near(a.Rotation, e.cfg.GroupRotateLimit, 1e-6) {
		t.Errorf("rotation = %v, want clamp at %v", a.Rotation, e.cfg.GroupRotateLimit)
	}
}

func TestGroupEnvelopeRecomputedAfterGesture(t *testing.T) {
	a, b, e := groupRig()

	start := rotateRegionPoint(geometry.NewRect(0, 0, 300, 100), 0, HandleNE, e.cfg)
	if !e.Begin(start) {
		t.Fatal("expected a group rotate gesture")
	}
	e.Update(geometry.RotatePoint(start, geometry.NewPoint2D(150, 50), 20), false)
	e.End()

	// The fresh envelope is the union of the members' rotated boxes, not
	// the start envelope carried over.
	want := a.AABB().Union(b.AABB())
	got := e.scene.SelectionBounds()
	if !near(got.X, want.X, 1e-6) || !near(got.Width, want.Width, 1e-6) {
		t.Errorf("envelope = %+v, want %+v", got, want)
	}
}

func TestFitAffineDecomposition(t *testing.T) {
	src := geometry.RotatedCorners(geometry.NewRect(10, 20, 200, 100), 0)
	var dst [4]geometry.Point2D
	for i, p := range src {
		scaled := geometry.NewPoint2D(p.X*1.5, p.Y*0.5)
		dst[i] = geometry.RotatePoint(scaled, geometry.Point2D{}, 25)
	}

	sX, sY, dR, ok := fitAffine(src, dst)
	if !ok {
		t.Fatal("fit failed")
	}
	if !near(sX, 1.5, 1e-9) || !near(sY, 0.5, 1e-9) || !near(dR, 25, 1e-9) {
		t.Errorf("decomposed (%v, %v, %v), want (1.5, 0.5, 25)", sX, sY, dR)
	}
}

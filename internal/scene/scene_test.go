package scene

import (
	"math"
	"testing"

	"aurora-compare/pkg/geometry"
)

func obj(id string, x, y, w, h float64) *Object {
	return &Object{ID: id, Path: id + ".png", X: x, Y: y, Width: w, Height: h}
}

func TestAddIsIdempotent(t *testing.T) {
	s := New()
	if !s.Add(obj("a", 0, 0, 100, 100)) {
		t.Fatal("first add should succeed")
	}
	if s.Add(obj("a", 50, 50, 200, 200)) {
		t.Error("duplicate id must be rejected")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
	if s.Get("a").X != 0 {
		t.Error("duplicate add must not overwrite the original")
	}
}

func TestAddAppendsToTop(t *testing.T) {
	s := New()
	s.Add(obj("a", 0, 0, 100, 100))
	s.Add(obj("b", 0, 0, 100, 100))
	order := s.Order()
	if order[len(order)-1] != "b" {
		t.Errorf("newest object should be on top, order = %v", order)
	}
}

func TestRemoveCleansUp(t *testing.T) {
	s := New()
	s.Add(obj("a", 0, 0, 100, 100))
	s.Add(obj("b", 0, 0, 100, 100))
	s.Select("a")

	if !s.Remove("a") {
		t.Fatal("remove should succeed")
	}
	if s.Get("a") != nil {
		t.Error("object still retrievable after remove")
	}
	if s.IsSelected("a") {
		t.Error("removed object still selected")
	}
	if len(s.Order()) != 1 || s.Order()[0] != "b" {
		t.Errorf("order = %v, want [b]", s.Order())
	}
	if s.Remove("a") {
		t.Error("removing a missing id should report false")
	}
}

func TestSetRectRejectsInvalid(t *testing.T) {
	o := obj("a", 10, 10, 100, 100)

	if o.SetRect(geometry.NewRect(0, 0, 30, 100)) {
		t.Error("width below the floor must be rejected")
	}
	if o.SetRect(geometry.Rect{X: math.NaN(), Width: 100, Height: 100}) {
		t.Error("non-finite rect must be rejected")
	}
	if o.X != 10 || o.Width != 100 {
		t.Error("rejected update must leave prior geometry")
	}

	if !o.SetRect(geometry.NewRect(5, 5, MinObjectSize, MinObjectSize)) {
		t.Error("rect at the floor must be accepted")
	}
}

func TestContainsRespectsRotation(t *testing.T) {
	o := obj("a", 0, 0, 200, 50)
	o.Rotation = 90

	// Point above the unrotated strip, inside the rotated one.
	p := geometry.NewPoint2D(100, -60)
	if !o.Contains(p) {
		t.Error("point should be inside after rotation")
	}
	o.Rotation = 0
	if o.Contains(p) {
		t.Error("point should be outside without rotation")
	}
}

func TestSelectionBoundsUsesRotatedBoxes(t *testing.T) {
	s := New()
	a := obj("a", 0, 0, 100, 100)
	b := obj("b", 300, 0, 200, 100)
	b.Rotation = 90
	s.Add(a)
	s.Add(b)
	s.SetSelection("a", "b")

	// b rotated 90: its AABB is centered at (400,50) with extents 100x200.
	want := geometry.NewRect(0, 0, 100, 100).Union(geometry.NewRect(350, -50, 100, 200))
	got := s.SelectionBounds()
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Width-want.Width) > 1e-9 ||
		math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Height-want.Height) > 1e-9 {
		t.Errorf("envelope = %+v, want %+v", got, want)
	}
}

func TestSelectionIgnoresUnknownIDs(t *testing.T) {
	s := New()
	s.Add(obj("a", 0, 0, 100, 100))
	s.SetSelection("a", "ghost")
	if s.SelectionCount() != 1 {
		t.Errorf("selection count = %d, want 1", s.SelectionCount())
	}
	if s.Select("ghost") {
		t.Error("selecting an unknown id should fail")
	}
}

func TestSelectionInDrawOrder(t *testing.T) {
	s := New()
	s.Add(obj("a", 0, 0, 100, 100))
	s.Add(obj("b", 0, 0, 100, 100))
	s.Add(obj("c", 0, 0, 100, 100))
	s.SetSelection("c", "a")

	sel := s.Selection()
	if len(sel) != 2 || sel[0] != "a" || sel[1] != "c" {
		t.Errorf("selection = %v, want [a c]", sel)
	}
}

func TestSnapshotRestore(t *testing.T) {
	o := obj("a", 10, 20, 100, 150)
	o.Rotation = 33
	snap := o.Snapshot()

	o.X, o.Rotation = 999, 720
	o.Restore(snap)
	if o.X != 10 || o.Rotation != 33 {
		t.Errorf("restore gave %+v", o)
	}
}

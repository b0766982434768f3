// Package scene holds the comparison canvas model: placed image objects,
// their draw order, and the current selection.
package scene

import (
	"aurora-compare/pkg/geometry"
)

// MinObjectSize is the floor for object width and height in world units.
const MinObjectSize = 50.0

// Object is one placed image on the canvas. Position and size are in world
// units; rotation is degrees about the object's own center and is kept
// unwrapped so continuous multi-turn rotations compare stably.
type Object struct {
	ID       string
	Path     string // key into the source cache; the object does not own it
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
}

// Rect returns the object's unrotated world rectangle.
func (o *Object) Rect() geometry.Rect {
	return geometry.NewRect(o.X, o.Y, o.Width, o.Height)
}

// Center returns the object's center in world coordinates.
func (o *Object) Center() geometry.Point2D {
	return o.Rect().Center()
}

// AABB returns the axis-aligned bounding box of the rotated object.
func (o *Object) AABB() geometry.Rect {
	return geometry.RotatedAABB(o.Rect(), o.Rotation)
}

// SetRect moves and resizes the object. The update is rejected when the new
// geometry is non-finite or below the minimum size, keeping the prior valid
// geometry.
func (o *Object) SetRect(r geometry.Rect) bool {
	if !r.IsFinite() || r.Width < MinObjectSize || r.Height < MinObjectSize {
		return false
	}
	o.X, o.Y, o.Width, o.Height = r.X, r.Y, r.Width, r.Height
	return true
}

// Contains reports whether the world point lies inside the rotated object.
func (o *Object) Contains(p geometry.Point2D) bool {
	return geometry.PointInRotatedRect(p, o.Rect(), o.Rotation)
}

// Snapshot is a value copy of an object's geometry, used as gesture
// start-state.
type Snapshot struct {
	X, Y, Width, Height, Rotation float64
}

// Snapshot captures the object's current geometry.
func (o *Object) Snapshot() Snapshot {
	return Snapshot{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height, Rotation: o.Rotation}
}

// Restore puts a snapshot's geometry back onto the object.
func (o *Object) Restore(s Snapshot) {
	o.X, o.Y, o.Width, o.Height, o.Rotation = s.X, s.Y, s.Width, s.Height, s.Rotation
}

// Scene is the set of placed objects with a back-to-front draw order and a
// selection set. All mutation happens on the UI goroutine.
type Scene struct {
	objects  map[string]*Object
	order    []string // draw order, back -> front
	selected map[string]bool
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		objects:  make(map[string]*Object),
		selected: make(map[string]bool),
	}
}

// Add places an object on top of the stack. Adding a duplicate id is a no-op
// and returns false.
func (s *Scene) Add(obj *Object) bool {
	if obj == nil || obj.ID == "" {
		return false
	}
	if _, exists := s.objects[obj.ID]; exists {
		return false
	}
	s.objects[obj.ID] = obj
	s.order = append(s.order, obj.ID)
	return true
}

// Remove deletes the object, its order entry, and its selection membership.
func (s *Scene) Remove(id string) bool {
	if _, exists := s.objects[id]; !exists {
		return false
	}
	delete(s.objects, id)
	delete(s.selected, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the object with the given id, or nil.
func (s *Scene) Get(id string) *Object {
	return s.objects[id]
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Order returns the draw order, back to front. The slice is shared; callers
// must not mutate it.
func (s *Scene) Order() []string {
	return s.order
}

// ForEach visits every object back to front.
func (s *Scene) ForEach(fn func(*Object)) {
	for _, id := range s.order {
		fn(s.objects[id])
	}
}

// ContentBounds returns the union of every object's rotated bounding box.
func (s *Scene) ContentBounds() geometry.Rect {
	var bounds geometry.Rect
	first := true
	for _, id := range s.order {
		box := s.objects[id].AABB()
		if first {
			bounds = box
			first = false
		} else {
			bounds = bounds.Union(box)
		}
	}
	return bounds
}

// Select adds an object to the selection. Returns true if it changed.
func (s *Scene) Select(id string) bool {
	if _, exists := s.objects[id]; !exists || s.selected[id] {
		return false
	}
	s.selected[id] = true
	return true
}

// Deselect removes an object from the selection.
func (s *Scene) Deselect(id string) bool {
	if !s.selected[id] {
		return false
	}
	delete(s.selected, id)
	return true
}

// SetSelection replaces the selection with the given ids.
func (s *Scene) SetSelection(ids ...string) {
	s.selected = make(map[string]bool)
	for _, id := range ids {
		if _, exists := s.objects[id]; exists {
			s.selected[id] = true
		}
	}
}

// ClearSelection empties the selection set.
func (s *Scene) ClearSelection() {
	s.selected = make(map[string]bool)
}

// IsSelected reports selection membership.
func (s *Scene) IsSelected(id string) bool {
	return s.selected[id]
}

// Selection returns the selected ids in draw order.
func (s *Scene) Selection() []string {
	var ids []string
	for _, id := range s.order {
		if s.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectionCount returns the number of selected objects.
func (s *Scene) SelectionCount() int {
	return len(s.selected)
}

// SelectionBounds returns the group envelope: the axis-aligned box around
// the rotated bounds of every selected object. Derived on demand, never
// stored.
func (s *Scene) SelectionBounds() geometry.Rect {
	var bounds geometry.Rect
	first := true
	for _, id := range s.order {
		if !s.selected[id] {
			continue
		}
		box := s.objects[id].AABB()
		if first {
			bounds = box
			first = false
		} else {
			bounds = bounds.Union(box)
		}
	}
	return bounds
}

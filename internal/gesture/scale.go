package gesture

import (
	"math"

	"aurora-compare/internal/scene"
	"aurora-compare/pkg/geometry"
)

// beginScale starts a resize drag from one of the eight handles. The pivot
// is the opposite corner or edge midpoint, resolved to world coordinates on
// the rotated box; it must occupy the same world point for the whole drag.
func (e *Engine) beginScale(world geometry.Point2D, h Handle) bool {
	rect, rotation, ok := e.selectionBox()
	if !ok {
		return false
	}
	targets := e.scene.Selection()
	group := len(targets) > 1

	pu, pv := h.pivotAnchor()
	pivot := anchorPoint(rect, rotation, pu, pv)

	// The pointer rarely lands on the handle's exact position. Record the
	// miss in the pivot-local frame so the box tracks the handle, not the
	// pointer, and the first update does not jump.
	exact := toPivotLocal(HandlePoint(rect, rotation, h), pivot, rotation)
	pointer := toPivotLocal(world, pivot, rotation)

	e.session = &Session{
		Kind:          KindScale,
		Handle:        h,
		Group:         group,
		Targets:       targets,
		StartWorld:    world,
		Snapshots:     e.snapshotTargets(targets),
		StartEnvelope: rect,
		Pivot:         pivot,
		ClickOffset:   exact.Sub(pointer),
	}
	return true
}

// updateScale recomputes the box from the pivot and the corrected pointer
// position. Corner handles preserve aspect; edge handles scale one axis.
// Both extents are floored so an object can never be resized away, and the
// pivot stays fixed by construction: the new center is laid out from the
// pivot, not from the old center.
func (e *Engine) updateScale(world geometry.Point2D) {
	s := e.session
	rect := s.StartEnvelope
	rotation := 0.0
	if !s.Group {
		rotation = s.Snapshots[s.Targets[0]].Rotation
	}

	v := toPivotLocal(world, s.Pivot, rotation).Add(s.ClickOffset)

	// du, dv point from the pivot toward the handle in the box's own axes.
	hu, hv := s.Handle.anchor()
	pu, pv := s.Handle.pivotAnchor()
	du := sign(hu - pu)
	dv := sign(hv - pv)

	newW, newH := rect.Width, rect.Height
	if du != 0 {
		newW = du * v.X
	}
	if dv != 0 {
		newH = dv * v.Y
	}

	if s.Handle.isCorner() {
		ratio := math.Max(newW/rect.Width, newH/rect.Height)
		ratio = math.Max(ratio, scene.MinObjectSize/rect.Width)
		ratio = math.Max(ratio, scene.MinObjectSize/rect.Height)
		newW = rect.Width * ratio
		newH = rect.Height * ratio
	} else {
		newW = math.Max(newW, scene.MinObjectSize)
		newH = math.Max(newH, scene.MinObjectSize)
	}

	if s.Group {
		e.applyGroupScale(rect, newW, newH, s.Handle)
		return
	}

	// Center sits halfway from the pivot toward the handle. When the
	// handle is on an edge, the orthogonal offset is the unchanged extent.
	offU := du * newW / 2
	offV := dv * newH / 2
	if du == 0 {
		offU = 0
	}
	if dv == 0 {
		offV = 0
	}
	center := s.Pivot.Add(geometry.RotatePoint(geometry.NewPoint2D(offU, offV), geometry.Point2D{}, rotation))

	obj := e.scene.Get(s.Targets[0])
	if obj == nil {
		return
	}
	obj.SetRect(geometry.NewRect(center.X-newW/2, center.Y-newH/2, newW, newH))
}

// toPivotLocal expresses a world point in the box's unrotated axes with the
// pivot at the origin.
func toPivotLocal(p, pivot geometry.Point2D, rotation float64) geometry.Point2D {
	return geometry.RotatePoint(p, pivot, -rotation).Sub(pivot)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

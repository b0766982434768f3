package gesture

import (
	"aurora-compare/pkg/geometry"
)

// Handle identifies one of the eight resize handles around an object or
// group envelope, or a corner rotation region.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleRotateNW
	HandleRotateNE
	HandleRotateSE
	HandleRotateSW
)

// ScaleHandles lists the resize handles in drawing order.
var ScaleHandles = []Handle{
	HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW,
}

// IsRotate reports whether the handle is a rotation region.
func (h Handle) IsRotate() bool {
	return h >= HandleRotateNW && h <= HandleRotateSW
}

// cornerOf maps a rotation region to its underlying corner handle.
func (h Handle) cornerOf() Handle {
	switch h {
	case HandleRotateNW:
		return HandleNW
	case HandleRotateNE:
		return HandleNE
	case HandleRotateSE:
		return HandleSE
	case HandleRotateSW:
		return HandleSW
	}
	return HandleNone
}

// anchor returns the handle's position on the unit box: (0,0) top-left
// through (1,1) bottom-right.
func (h Handle) anchor() (u, v float64) {
	switch h {
	case HandleNW:
		return 0, 0
	case HandleN:
		return 0.5, 0
	case HandleNE:
		return 1, 0
	case HandleE:
		return 1, 0.5
	case HandleSE:
		return 1, 1
	case HandleS:
		return 0.5, 1
	case HandleSW:
		return 0, 1
	case HandleW:
		return 0, 0.5
	}
	return 0.5, 0.5
}

// pivotAnchor returns the unit-box position of the pivot: the corner or
// edge midpoint opposite the handle, which must stay fixed during a scale.
func (h Handle) pivotAnchor() (u, v float64) {
	u, v = h.anchor()
	return 1 - u, 1 - v
}

// isCorner reports whether the handle sits on a corner (scales both axes).
func (h Handle) isCorner() bool {
	u, v := h.anchor()
	return u != 0.5 && v != 0.5
}

// anchorPoint resolves a unit-box anchor to a world point on a rotated rect.
func anchorPoint(rect geometry.Rect, rotation, u, v float64) geometry.Point2D {
	p := geometry.NewPoint2D(rect.X+u*rect.Width, rect.Y+v*rect.Height)
	return geometry.RotatePoint(p, rect.Center(), rotation)
}

// HandlePoint returns the world position of a handle on a rotated rect.
func HandlePoint(rect geometry.Rect, rotation float64, h Handle) geometry.Point2D {
	u, v := h.anchor()
	return anchorPoint(rect, rotation, u, v)
}

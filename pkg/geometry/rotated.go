package geometry

import (
	"math"
)

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// NormalizeDegrees maps an angle to the [0, 360) range.
// Stored rotations stay unwrapped; this is for display only.
func NormalizeDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// RotatePoint rotates p around center by the given angle in degrees
// (positive = clockwise in screen orientation, Y axis pointing down).
func RotatePoint(p, center Point2D, degrees float64) Point2D {
	if degrees == 0 {
		return p
	}
	rad := Radians(degrees)
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point2D{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// RotatedCorners returns the four corners of r rotated about its center,
// in top-left, top-right, bottom-right, bottom-left order.
func RotatedCorners(r Rect, degrees float64) [4]Point2D {
	c := r.Center()
	return [4]Point2D{
		RotatePoint(r.TopLeft(), c, degrees),
		RotatePoint(Point2D{X: r.X + r.Width, Y: r.Y}, c, degrees),
		RotatePoint(r.BottomRight(), c, degrees),
		RotatePoint(Point2D{X: r.X, Y: r.Y + r.Height}, c, degrees),
	}
}

// RotatedAABB returns the axis-aligned bounding box of r rotated about
// its center by the given angle in degrees.
func RotatedAABB(r Rect, degrees float64) Rect {
	if degrees == 0 {
		return r
	}
	corners := RotatedCorners(r, degrees)
	return BoundingBox(corners[:])
}

// PointInRotatedRect reports whether the world point p lies inside rect
// rotated about its center by the given angle. The point is un-rotated
// into the rectangle's local axis system and tested against the plain rect.
func PointInRotatedRect(p Point2D, rect Rect, degrees float64) bool {
	local := RotatePoint(p, rect.Center(), -degrees)
	return rect.Contains(local)
}

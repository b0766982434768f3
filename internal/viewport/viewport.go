// Package viewport owns the single affine mapping between world coordinates,
// where scene objects live, and screen coordinates, where the pointer
// operates. It also drives the eased fit/reset animation.
package viewport

import (
	"math"

	"aurora-compare/pkg/geometry"
)

const (
	// MinScale and MaxScale clamp interactive zoom.
	MinScale = 0.04
	MaxScale = 20.0

	// maxFitScale caps fit-to-content so small groups are not blown up
	// past readable size.
	maxFitScale = 1.2

	// animRate controls how fast the eased animation converges; the
	// remaining distance decays by this factor per second.
	animRate = 10.0

	// animEpsilon is the convergence threshold below which the animation
	// snaps to its exact target and halts.
	animEpsilon = 0.001
)

// Camera is the viewport transform: a uniform scale plus a screen-space pan
// offset. world -> screen is sx = wx*scale + panX, sy = wy*scale + panY.
type Camera struct {
	PanX  float64
	PanY  float64
	Scale float64

	viewW float64
	viewH float64

	anim *animation
}

type animation struct {
	targetPanX  float64
	targetPanY  float64
	targetScale float64
}

// NewCamera creates a camera at identity scale for the given view size.
func NewCamera(viewW, viewH float64) *Camera {
	return &Camera{Scale: 1.0, viewW: viewW, viewH: viewH}
}

// SetViewSize updates the camera when the canvas is resized.
func (c *Camera) SetViewSize(w, h float64) {
	c.viewW = w
	c.viewH = h
}

// ViewSize returns the current canvas size in screen units.
func (c *Camera) ViewSize() (w, h float64) {
	return c.viewW, c.viewH
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: p.X*c.Scale + c.PanX,
		Y: p.Y*c.Scale + c.PanY,
	}
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X - c.PanX) / c.Scale,
		Y: (p.Y - c.PanY) / c.Scale,
	}
}

// VisibleWorldRect returns the world rectangle covered by the canvas,
// expanded by screenBuffer pixels on all sides to avoid pop-in at the edges.
func (c *Camera) VisibleWorldRect(screenBuffer float64) geometry.Rect {
	tl := c.ScreenToWorld(geometry.NewPoint2D(-screenBuffer, -screenBuffer))
	br := c.ScreenToWorld(geometry.NewPoint2D(c.viewW+screenBuffer, c.viewH+screenBuffer))
	return geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
}

// PanBy shifts the view by a screen-space delta. Panning is screen-space,
// so no scale division is applied. Cancels any running animation.
func (c *Camera) PanBy(dxScreen, dyScreen float64) {
	c.anim = nil
	c.PanX += dxScreen
	c.PanY += dyScreen
}

// ZoomAt multiplies the scale by factor while holding the world point under
// screenPoint fixed. Cancels any running animation.
func (c *Camera) ZoomAt(screenPoint geometry.Point2D, factor float64) {
	c.anim = nil
	before := c.ScreenToWorld(screenPoint)

	c.Scale = clampScale(c.Scale * factor)

	// Recompute pan so screenPoint maps back to the same world point.
	c.PanX = screenPoint.X - before.X*c.Scale
	c.PanY = screenPoint.Y - before.Y*c.Scale
}

// SetScale sets an absolute zoom centered on the canvas midpoint.
func (c *Camera) SetScale(scale float64) {
	c.ZoomAt(geometry.NewPoint2D(c.viewW/2, c.viewH/2), clampScale(scale)/c.Scale)
}

// FitTarget computes the pan and scale that fit worldBox inside the view
// minus padding on all sides, capped at maxFitScale and centered.
func (c *Camera) FitTarget(worldBox geometry.Rect, padding float64) (panX, panY, scale float64) {
	if worldBox.Width <= 0 || worldBox.Height <= 0 {
		return c.PanX, c.PanY, c.Scale
	}

	availW := c.viewW - 2*padding
	availH := c.viewH - 2*padding
	if availW <= 0 || availH <= 0 {
		return c.PanX, c.PanY, c.Scale
	}

	scale = math.Min(availW/worldBox.Width, availH/worldBox.Height)
	if scale > maxFitScale {
		scale = maxFitScale
	}
	scale = clampScale(scale)

	center := worldBox.Center()
	panX = c.viewW/2 - center.X*scale
	panY = c.viewH/2 - center.Y*scale
	return panX, panY, scale
}

// FitToBounds applies a fit instantly.
func (c *Camera) FitToBounds(worldBox geometry.Rect, padding float64) {
	c.anim = nil
	c.PanX, c.PanY, c.Scale = c.FitTarget(worldBox, padding)
}

// AnimateFit starts an eased animation toward a fit of worldBox.
func (c *Camera) AnimateFit(worldBox geometry.Rect, padding float64) {
	panX, panY, scale := c.FitTarget(worldBox, padding)
	c.anim = &animation{targetPanX: panX, targetPanY: panY, targetScale: scale}
}

// Animating reports whether a fit/reset animation is in progress.
func (c *Camera) Animating() bool {
	return c.anim != nil
}

// CancelAnimation halts any running animation at the current transform.
func (c *Camera) CancelAnimation() {
	c.anim = nil
}

// Tick advances the animation by dt seconds, reading the live transform so
// a gesture arriving mid-animation takes over seamlessly. Returns true while
// the animation is still running.
func (c *Camera) Tick(dt float64) bool {
	if c.anim == nil {
		return false
	}
	a := c.anim

	// Exponential ease toward the target.
	t := 1 - math.Exp(-animRate*dt)
	c.PanX += (a.targetPanX - c.PanX) * t
	c.PanY += (a.targetPanY - c.PanY) * t
	c.Scale += (a.targetScale - c.Scale) * t

	panDist := math.Hypot(a.targetPanX-c.PanX, a.targetPanY-c.PanY)
	scaleDist := math.Abs(a.targetScale - c.Scale)
	if panDist < animEpsilon && scaleDist < animEpsilon {
		c.PanX = a.targetPanX
		c.PanY = a.targetPanY
		c.Scale = a.targetScale
		c.anim = nil
		return false
	}
	return true
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

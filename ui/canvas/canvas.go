// Package canvas provides the interactive comparison canvas widget: an
// infinite pannable, zoomable surface where image objects are moved, resized,
// rotated, and annotated.
package canvas

import (
	"image"
	"math"
	"time"

	"aurora-compare/internal/app"
	"aurora-compare/internal/gesture"
	"aurora-compare/internal/render"
	"aurora-compare/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	// zoomStep is the scale factor applied per wheel notch.
	zoomStep = 1.1

	// animMaxDuration bounds a camera fit animation; the exponential ease
	// converges and stops itself well before this.
	animMaxDuration = 3 * time.Second
)

// dragMode says what the current drag is doing.
type dragMode int

const (
	dragNone dragMode = iota
	dragGesture
	dragPan
	dragRubber
)

// CompareCanvas renders the scene through the camera and routes pointer
// input to the gesture engine, the viewport, or the rubber-band selector.
type CompareCanvas struct {
	widget.BaseWidget

	state    *app.State
	engine   *gesture.Engine
	renderer *render.Engine
	raster   *fynecanvas.Raster

	mode        dragMode
	rubberStart geometry.Point2D
	rubberEnd   geometry.Point2D

	// selectMode makes the next empty-space drag a rubber-band selection
	// instead of a pan.
	selectMode bool

	// rotationSnap quantizes rotate gestures to the configured step.
	rotationSnap bool

	// showAnnotations toggles marker rendering.
	showAnnotations bool

	// anim drives camera fit animations through the Fyne driver, so ticks
	// run on the same goroutine as pointer events and the camera is never
	// touched from a background goroutine.
	anim     *fyne.Animation
	animLast time.Time

	// onAnnotate is called when a right-click lands on an object, with the
	// owner id and the percent anchor under the pointer.
	onAnnotate func(imageID string, xPct, yPct float64)

	// onStatus receives human-readable state for the status bar.
	onStatus func(text string)
}

// New creates the canvas over the application state.
func New(state *app.State, cfg gesture.Config) *CompareCanvas {
	c := &CompareCanvas{
		state:           state,
		engine:          gesture.NewEngine(state.Scene, state.Camera, cfg),
		renderer:        render.NewEngine(state.Cache),
		showAnnotations: true,
	}
	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.ExtendBaseWidget(c)

	// Repaint when pixels finish decoding and when the model changes
	// under the UI.
	state.On(app.EventSourceReady, func(interface{}) { c.Refresh() })
	state.On(app.EventSessionLoaded, func(interface{}) {
		c.rebuildEngine(cfg)
		c.Refresh()
	})
	state.On(app.EventOrderChanged, func(interface{}) { c.Refresh() })
	state.On(app.EventSelectionChanged, func(interface{}) { c.Refresh() })
	state.On(app.EventAnnotationsChanged, func(interface{}) { c.Refresh() })
	return c
}

// rebuildEngine re-targets the gesture engine after the scene is replaced.
func (c *CompareCanvas) rebuildEngine(cfg gesture.Config) {
	c.engine = gesture.NewEngine(c.state.Scene, c.state.Camera, cfg)
}

// CreateRenderer implements fyne.Widget.
func (c *CompareCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// OnAnnotate registers the right-click annotation callback.
func (c *CompareCanvas) OnAnnotate(fn func(imageID string, xPct, yPct float64)) {
	c.onAnnotate = fn
}

// OnStatus registers the status text callback.
func (c *CompareCanvas) OnStatus(fn func(text string)) {
	c.onStatus = fn
}

// EnableSelectMode makes the next drag a rubber-band selection.
func (c *CompareCanvas) EnableSelectMode() {
	c.selectMode = true
}

// SetRotationSnap toggles rotation quantization.
func (c *CompareCanvas) SetRotationSnap(on bool) {
	c.rotationSnap = on
}

// RotationSnap reports whether rotation quantization is on.
func (c *CompareCanvas) RotationSnap() bool {
	return c.rotationSnap
}

// SetShowAnnotations toggles annotation markers.
func (c *CompareCanvas) SetShowAnnotations(on bool) {
	c.showAnnotations = on
	c.Refresh()
}

// draw produces the frame for the raster. Fyne calls this with the widget's
// pixel size.
func (c *CompareCanvas) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	// Decoded sizes queued by loader goroutines are applied here, before
	// the frame reads the scene.
	c.state.AdoptReadySizes()
	c.state.Camera.SetViewSize(float64(w), float64(h))

	notes := c.state.Notes
	if !c.showAnnotations {
		notes = nil
	}
	frame := c.renderer.Frame(w, h, c.state.Camera, c.state.Scene, notes, c.engine.Guides())

	if c.mode == dragRubber {
		drawRubberBand(frame, c.rubberStart, c.rubberEnd)
	}
	return frame
}

// Dragged routes a drag to the gesture engine, the rubber band, or the pan,
// decided once at drag start and kept for the whole drag.
func (c *CompareCanvas) Dragged(ev *fyne.DragEvent) {
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))

	if c.mode == dragNone {
		start := geometry.NewPoint2D(
			float64(ev.Position.X-ev.Dragged.DX),
			float64(ev.Position.Y-ev.Dragged.DY),
		)
		switch {
		case c.selectMode:
			c.mode = dragRubber
			c.rubberStart = start
			c.rubberEnd = pos
		case c.engine.Begin(start):
			c.mode = dragGesture
			c.state.Camera.CancelAnimation()
		default:
			c.mode = dragPan
		}
	}

	switch c.mode {
	case dragGesture:
		c.engine.Update(pos, c.rotationSnap)
	case dragPan:
		c.state.Camera.PanBy(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
	case dragRubber:
		c.rubberEnd = pos
	}
	c.Refresh()
}

// DragEnd commits the drag. The gesture engine always returns to idle here,
// even if an update misbehaved mid-drag.
func (c *CompareCanvas) DragEnd() {
	mode := c.mode
	c.mode = dragNone

	switch mode {
	case dragGesture:
		c.engine.End()
		c.state.SetModified(true)
	case dragRubber:
		c.selectMode = false
		c.commitRubberBand()
	}
	c.Refresh()
}

// commitRubberBand selects every object whose rotated bounds intersect the
// band's world rectangle.
func (c *CompareCanvas) commitRubberBand() {
	a := c.state.Camera.ScreenToWorld(c.rubberStart)
	b := c.state.Camera.ScreenToWorld(c.rubberEnd)
	band := geometry.NewRect(
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Abs(b.X-a.X),
		math.Abs(b.Y-a.Y),
	)

	var hit []string
	for _, id := range c.state.Scene.Order() {
		if c.state.Scene.Get(id).AABB().Intersects(band) {
			hit = append(hit, id)
		}
	}
	c.state.SetSelection(hit...)
}

// Tapped selects the object under the pointer, or clears the selection on
// empty space.
func (c *CompareCanvas) Tapped(ev *fyne.PointEvent) {
	p := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))

	if id := c.engine.HitTest(p); id != "" {
		c.state.SelectOnly(id)
		return
	}
	if c.engine.HandleHit(p) == gesture.HandleNone {
		c.state.ClearSelection()
	}
}

// DoubleTapped zooms to the object under the pointer, or to everything on
// empty space.
func (c *CompareCanvas) DoubleTapped(ev *fyne.PointEvent) {
	p := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	if id := c.engine.HitTest(p); id != "" {
		c.state.FitObject(id)
	} else {
		c.state.FitAll()
	}
	c.runCameraAnimation()
}

// TappedSecondary starts an annotation on the object under the pointer.
func (c *CompareCanvas) TappedSecondary(ev *fyne.PointEvent) {
	if c.onAnnotate == nil {
		return
	}
	p := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	id := c.engine.HitTest(p)
	if id == "" {
		return
	}
	obj := c.state.Scene.Get(id)

	// Percent anchor in the object's unrotated frame.
	world := c.state.Camera.ScreenToWorld(p)
	local := geometry.RotatePoint(world, obj.Center(), -obj.Rotation)
	xPct := (local.X - obj.X) / obj.Width * 100
	yPct := (local.Y - obj.Y) / obj.Height * 100

	c.state.Notes.SetPending(id, xPct, yPct)
	c.Refresh()
	c.onAnnotate(id, xPct, yPct)
}

// Scrolled zooms about the cursor, one step per wheel notch.
func (c *CompareCanvas) Scrolled(ev *fyne.ScrollEvent) {
	p := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))
	if ev.Scrolled.DY > 0 {
		c.state.Camera.ZoomAt(p, zoomStep)
	} else if ev.Scrolled.DY < 0 {
		c.state.Camera.ZoomAt(p, 1/zoomStep)
	}
	c.reportZoom()
	c.Refresh()
}

// ZoomIn zooms a step about the canvas center.
func (c *CompareCanvas) ZoomIn() {
	c.state.Camera.SetScale(c.state.Camera.Scale * zoomStep)
	c.reportZoom()
	c.Refresh()
}

// ZoomOut zooms a step out about the canvas center.
func (c *CompareCanvas) ZoomOut() {
	c.state.Camera.SetScale(c.state.Camera.Scale / zoomStep)
	c.reportZoom()
	c.Refresh()
}

// ResetZoom returns to 1:1 scale.
func (c *CompareCanvas) ResetZoom() {
	c.state.Camera.SetScale(1)
	c.reportZoom()
	c.Refresh()
}

// FitAll animates the camera to frame everything.
func (c *CompareCanvas) FitAll() {
	c.state.FitAll()
	c.runCameraAnimation()
}

// FitSelection animates the camera to frame the selection.
func (c *CompareCanvas) FitSelection() {
	c.state.FitSelection()
	c.runCameraAnimation()
}

// runCameraAnimation steps the camera toward its fit target once per frame
// until it converges. The Fyne driver invokes the callback on the event
// goroutine; a drag or scroll mid-flight cancels the camera animation and
// the next tick stops cleanly.
func (c *CompareCanvas) runCameraAnimation() {
	c.stopCameraAnimation()
	c.animLast = time.Now()

	c.anim = fyne.NewAnimation(animMaxDuration, func(float32) {
		now := time.Now()
		running := c.tickCamera(now.Sub(c.animLast).Seconds())
		c.animLast = now
		c.Refresh()
		if !running {
			c.stopCameraAnimation()
		}
	})
	c.anim.Curve = fyne.AnimationLinear
	c.anim.Start()
}

// tickCamera advances the camera animation by dt seconds and reports whether
// it is still converging.
func (c *CompareCanvas) tickCamera(dt float64) bool {
	running := c.state.Camera.Tick(dt)
	c.reportZoom()
	return running
}

func (c *CompareCanvas) stopCameraAnimation() {
	if c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
}

func (c *CompareCanvas) reportZoom() {
	if c.onStatus != nil {
		c.onStatus(formatZoom(c.state.Camera.Scale))
	}
}

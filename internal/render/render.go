// Package render rasterizes the comparison canvas into an RGBA frame: the
// dot grid, every visible image at the right detail level, selection
// decorations, snap guides, and annotation markers.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"aurora-compare/internal/annotation"
	"aurora-compare/internal/gesture"
	"aurora-compare/internal/scene"
	"aurora-compare/internal/source"
	"aurora-compare/internal/viewport"
	"aurora-compare/pkg/geometry"
)

const (
	// cullBuffer extends the visible world rect so objects sliding in at
	// the edge are already drawn.
	cullBuffer = 64.0

	// gridBaseSpacing is the dot grid pitch in world units; the pitch
	// doubles until dots are at least gridMinPx apart on screen.
	gridBaseSpacing = 100.0
	gridMinPx       = 15.0

	handleSizePx  = 8.0
	markerRadius  = 7.0
	dashOnPx      = 6.0
	dashOffPx     = 4.0
	borderWidth   = 1
	selectedWidth = 2
)

var (
	backgroundColor = color.RGBA{24, 24, 28, 255}
	gridColor       = color.RGBA{52, 52, 58, 255}
	borderColor     = color.RGBA{90, 90, 96, 255}
	selectionColor  = color.RGBA{64, 156, 255, 255}
	envelopeColor   = color.RGBA{64, 156, 255, 200}
	handleFill      = color.RGBA{245, 245, 245, 255}
	guideColor      = color.RGBA{255, 120, 40, 255}
	placeholderFill = color.RGBA{40, 40, 46, 255}
	markerFill      = color.RGBA{255, 196, 0, 255}
	markerRing      = color.RGBA{30, 30, 30, 255}
	pendingFill     = color.RGBA{255, 90, 90, 255}
)

// Engine draws frames from the live model. It holds no per-frame state; a
// frame is a pure function of its inputs.
type Engine struct {
	cache *source.Cache
}

// NewEngine creates a render engine reading pixels from the given cache.
func NewEngine(cache *source.Cache) *Engine {
	return &Engine{cache: cache}
}

// Frame renders a w x h frame of the scene as seen through the camera.
// guides may be nil; notes may be nil when annotations are hidden.
func (e *Engine) Frame(w, h int, cam *viewport.Camera, sc *scene.Scene, notes *annotation.Store, guides []gesture.SnapGuide) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	drawGrid(out, cam)

	visible := visibleObjects(cam, sc)
	for _, obj := range visible {
		e.drawObject(out, cam, obj)
	}
	for _, obj := range visible {
		drawBorder(out, cam, obj, sc.IsSelected(obj.ID))
	}

	if sc.SelectionCount() > 1 {
		drawEnvelope(out, cam, sc.SelectionBounds())
	} else if sc.SelectionCount() == 1 {
		obj := sc.Get(sc.Selection()[0])
		drawHandles(out, cam, obj.Rect(), obj.Rotation)
	}

	for _, g := range guides {
		drawGuide(out, cam, g)
	}

	if notes != nil {
		e.drawMarkers(out, cam, sc, notes)
	}
	return out
}

// visibleObjects returns the objects whose rotated bounds intersect the
// buffered view, in draw order. Everything else is culled before any pixel
// work.
func visibleObjects(cam *viewport.Camera, sc *scene.Scene) []*scene.Object {
	view := cam.VisibleWorldRect(cullBuffer)
	var out []*scene.Object
	sc.ForEach(func(obj *scene.Object) {
		if obj.AABB().Intersects(view) {
			out = append(out, obj)
		}
	})
	return out
}

// drawObject composites one image by walking the destination pixels of its
// screen-space bounds and inverse-transforming each into the detail level.
// Sampling backwards avoids holes that forward-mapping a rotated source
// would leave.
func (e *Engine) drawObject(out *image.RGBA, cam *viewport.Camera, obj *scene.Object) {
	src := e.cache.Peek(obj.Path)
	if src == nil || !src.Ready() {
		drawPlaceholder(out, cam, obj)
		return
	}

	level := src.Level(cam.Scale)
	if level == nil {
		drawPlaceholder(out, cam, obj)
		return
	}
	lb := level.Bounds()

	minX, minY, maxX, maxY := screenBounds(out, cam, obj)
	center := obj.Center()
	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			world := cam.ScreenToWorld(geometry.NewPoint2D(float64(px)+0.5, float64(py)+0.5))
			local := geometry.RotatePoint(world, center, -obj.Rotation)

			u := (local.X - obj.X) / obj.Width
			v := (local.Y - obj.Y) / obj.Height
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}

			sx := lb.Min.X + int(u*float64(lb.Dx()))
			sy := lb.Min.Y + int(v*float64(lb.Dy()))
			out.Set(px, py, level.At(sx, sy))
		}
	}
}

// drawPlaceholder fills the object's footprint while its pixels are still
// loading or failed to decode.
func drawPlaceholder(out *image.RGBA, cam *viewport.Camera, obj *scene.Object) {
	minX, minY, maxX, maxY := screenBounds(out, cam, obj)
	center := obj.Center()
	rect := obj.Rect()
	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			world := cam.ScreenToWorld(geometry.NewPoint2D(float64(px)+0.5, float64(py)+0.5))
			local := geometry.RotatePoint(world, center, -obj.Rotation)
			if rect.Contains(local) {
				out.Set(px, py, placeholderFill)
			}
		}
	}
}

// screenBounds clips the object's rotated screen-space box to the frame.
func screenBounds(out *image.RGBA, cam *viewport.Camera, obj *scene.Object) (minX, minY, maxX, maxY int) {
	box := obj.AABB()
	tl := cam.WorldToScreen(box.TopLeft())
	br := cam.WorldToScreen(box.BottomRight())

	b := out.Bounds()
	minX = clampInt(int(math.Floor(tl.X)), b.Min.X, b.Max.X)
	minY = clampInt(int(math.Floor(tl.Y)), b.Min.Y, b.Max.Y)
	maxX = clampInt(int(math.Ceil(br.X)), b.Min.X, b.Max.X)
	maxY = clampInt(int(math.Ceil(br.Y)), b.Min.Y, b.Max.Y)
	return minX, minY, maxX, maxY
}

// drawGrid places a dot at every grid crossing inside the view. The pitch
// doubles until the screen distance between dots clears gridMinPx, so the
// grid thins out instead of dissolving as the user zooms away.
func drawGrid(out *image.RGBA, cam *viewport.Camera) {
	spacing := gridBaseSpacing
	for spacing*cam.Scale < gridMinPx {
		spacing *= 2
		if spacing > 1e9 {
			return
		}
	}

	view := cam.VisibleWorldRect(0)
	startX := math.Floor(view.X/spacing) * spacing
	startY := math.Floor(view.Y/spacing) * spacing
	for wy := startY; wy <= view.Y+view.Height; wy += spacing {
		for wx := startX; wx <= view.X+view.Width; wx += spacing {
			p := cam.WorldToScreen(geometry.NewPoint2D(wx, wy))
			setPixelSafe(out, int(p.X), int(p.Y), gridColor)
		}
	}
}

// drawBorder outlines the rotated object: a subtle hairline normally, the
// accent color and doubled width when selected.
func drawBorder(out *image.RGBA, cam *viewport.Camera, obj *scene.Object, selected bool) {
	col := borderColor
	width := borderWidth
	if selected {
		col = selectionColor
		width = selectedWidth
	}

	corners := geometry.RotatedCorners(obj.Rect(), obj.Rotation)
	for i := range corners {
		a := cam.WorldToScreen(corners[i])
		b := cam.WorldToScreen(corners[(i+1)%4])
		drawLine(out, a, b, col, width, false)
	}
}

// drawEnvelope outlines the group selection box with its handles.
func drawEnvelope(out *image.RGBA, cam *viewport.Camera, env geometry.Rect) {
	corners := geometry.RotatedCorners(env, 0)
	for i := range corners {
		a := cam.WorldToScreen(corners[i])
		b := cam.WorldToScreen(corners[(i+1)%4])
		drawLine(out, a, b, envelopeColor, 1, true)
	}
	drawHandles(out, cam, env, 0)
}

// drawHandles places the eight resize squares on the rotated box.
func drawHandles(out *image.RGBA, cam *viewport.Camera, rect geometry.Rect, rotation float64) {
	for _, h := range gesture.ScaleHandles {
		p := cam.WorldToScreen(gesture.HandlePoint(rect, rotation, h))
		half := int(handleSizePx / 2)
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				setPixelSafe(out, int(p.X)+dx, int(p.Y)+dy, handleFill)
			}
		}
		// 1px outline keeps the square visible over light images.
		for d := -half; d <= half; d++ {
			setPixelSafe(out, int(p.X)+d, int(p.Y)-half, selectionColor)
			setPixelSafe(out, int(p.X)+d, int(p.Y)+half, selectionColor)
			setPixelSafe(out, int(p.X)-half, int(p.Y)+d, selectionColor)
			setPixelSafe(out, int(p.X)+half, int(p.Y)+d, selectionColor)
		}
	}
}

// drawGuide renders one snap guide as a dashed world-space line.
func drawGuide(out *image.RGBA, cam *viewport.Camera, g gesture.SnapGuide) {
	var a, b geometry.Point2D
	if g.Vertical {
		a = cam.WorldToScreen(geometry.NewPoint2D(g.Position, g.From))
		b = cam.WorldToScreen(geometry.NewPoint2D(g.Position, g.To))
	} else {
		a = cam.WorldToScreen(geometry.NewPoint2D(g.From, g.Position))
		b = cam.WorldToScreen(geometry.NewPoint2D(g.To, g.Position))
	}
	drawLine(out, a, b, guideColor, 1, true)
}

// drawMarkers renders annotation pins for every visible note, plus the
// pending placement.
func (e *Engine) drawMarkers(out *image.RGBA, cam *viewport.Camera, sc *scene.Scene, notes *annotation.Store) {
	for _, a := range notes.All() {
		if !notes.Visible(a, sc, cam.Scale) {
			continue
		}
		p := cam.WorldToScreen(a.WorldPosition(sc.Get(a.ImageID)))
		drawMarker(out, p, markerFill)
	}
	if pend := notes.Pending(); pend != nil {
		if owner := sc.Get(pend.ImageID); owner != nil {
			a := annotation.Annotation{ImageID: pend.ImageID, XPercent: pend.XPercent, YPercent: pend.YPercent}
			p := cam.WorldToScreen(a.WorldPosition(owner))
			drawMarker(out, p, pendingFill)
		}
	}
}

func drawMarker(out *image.RGBA, p geometry.Point2D, fill color.RGBA) {
	cx, cy := int(p.X), int(p.Y)
	r := int(markerRadius)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= (r-2)*(r-2):
				setPixelSafe(out, cx+dx, cy+dy, fill)
			case d2 <= r*r:
				setPixelSafe(out, cx+dx, cy+dy, markerRing)
			}
		}
	}
}

// drawLine draws a screen-space segment with the given width, optionally
// dashed.
func drawLine(out *image.RGBA, a, b geometry.Point2D, col color.RGBA, width int, dashed bool) {
	length := a.Distance(b)
	if length < 1 {
		setPixelSafe(out, int(a.X), int(a.Y), col)
		return
	}
	steps := int(length) + 1
	dx := (b.X - a.X) / float64(steps)
	dy := (b.Y - a.Y) / float64(steps)

	dashPeriod := dashOnPx + dashOffPx
	for i := 0; i <= steps; i++ {
		if dashed && math.Mod(float64(i), dashPeriod) >= dashOnPx {
			continue
		}
		x := a.X + dx*float64(i)
		y := a.Y + dy*float64(i)
		for w := 0; w < width; w++ {
			setPixelSafe(out, int(x)+w, int(y), col)
			setPixelSafe(out, int(x), int(y)+w, col)
		}
	}
}

func setPixelSafe(out *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(out.Bounds()) {
		out.SetRGBA(x, y, col)
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

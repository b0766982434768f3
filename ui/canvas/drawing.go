package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"aurora-compare/pkg/geometry"
)

var (
	rubberFill   = color.RGBA{64, 156, 255, 36}
	rubberBorder = color.RGBA{64, 156, 255, 200}
)

// drawRubberBand paints the translucent selection rectangle directly over
// the rendered frame, in screen coordinates.
func drawRubberBand(frame *image.RGBA, a, b geometry.Point2D) {
	x1 := int(math.Min(a.X, b.X))
	y1 := int(math.Min(a.Y, b.Y))
	x2 := int(math.Max(a.X, b.X))
	y2 := int(math.Max(a.Y, b.Y))

	bounds := frame.Bounds()
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if !image.Pt(x, y).In(bounds) {
				continue
			}
			onEdge := x == x1 || x == x2 || y == y1 || y == y2
			if onEdge {
				frame.SetRGBA(x, y, rubberBorder)
			} else {
				blendOver(frame, x, y, rubberFill)
			}
		}
	}
}

// blendOver alpha-composites src over the frame pixel.
func blendOver(frame *image.RGBA, x, y int, src color.RGBA) {
	dst := frame.RGBAAt(x, y)
	a := float64(src.A) / 255
	frame.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*(1-a)),
		G: uint8(float64(src.G)*a + float64(dst.G)*(1-a)),
		B: uint8(float64(src.B)*a + float64(dst.B)*(1-a)),
		A: 255,
	})
}

// formatZoom renders a scale as a percentage for the status bar.
func formatZoom(scale float64) string {
	return fmt.Sprintf("%.0f%%", scale*100)
}

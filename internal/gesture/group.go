package gesture

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"aurora-compare/internal/scene"
	"aurora-compare/pkg/geometry"
)

// Group transforms are expressed as an affine map of the start envelope and
// then decomposed into scale and rotation before being pushed down onto the
// members. Fitting the map from the envelope corners keeps the member update
// independent of which handle produced the new envelope.

// applyGroupScale scales every selected member about the gesture pivot so
// the group envelope reaches newW x newH. Per-gesture factors are clamped;
// a resize of the crowd is an adjustment, not a redesign.
func (e *Engine) applyGroupScale(startEnv geometry.Rect, newW, newH float64, h Handle) {
	fx := clampFactor(newW/startEnv.Width, e.cfg.GroupScaleMin, e.cfg.GroupScaleMax)
	fy := clampFactor(newH/startEnv.Height, e.cfg.GroupScaleMin, e.cfg.GroupScaleMax)
	if h.isCorner() {
		// Corner drags preserve aspect; keep it through the clamp.
		fx = math.Min(fx, fy)
		fy = fx
	}

	pivot := e.session.Pivot
	src := geometry.RotatedCorners(startEnv, 0)
	var dst [4]geometry.Point2D
	for i, p := range src {
		dst[i] = geometry.Point2D{
			X: pivot.X + (p.X-pivot.X)*fx,
			Y: pivot.Y + (p.Y-pivot.Y)*fy,
		}
	}
	e.applyGroupFit(src, dst, pivot)
}

// applyGroupRotate rotates every selected member about the envelope center
// by delta degrees.
func (e *Engine) applyGroupRotate(center geometry.Point2D, delta float64) {
	src := geometry.RotatedCorners(e.session.StartEnvelope, 0)
	var dst [4]geometry.Point2D
	for i, p := range src {
		dst[i] = geometry.RotatePoint(p, center, delta)
	}
	e.applyGroupFit(src, dst, center)
}

// applyGroupFit fits the affine map taking src corners to dst corners,
// decomposes it into per-axis scale and rotation, and applies those to each
// member's start snapshot about the fixed point.
func (e *Engine) applyGroupFit(src, dst [4]geometry.Point2D, fixed geometry.Point2D) {
	sX, sY, dR, ok := fitAffine(src, dst)
	if !ok {
		return
	}

	for id, snap := range e.session.Snapshots {
		obj := e.scene.Get(id)
		if obj == nil {
			continue
		}
		c := geometry.NewPoint2D(snap.X+snap.Width/2, snap.Y+snap.Height/2)
		local := geometry.NewPoint2D((c.X-fixed.X)*sX, (c.Y-fixed.Y)*sY)
		nc := fixed.Add(geometry.RotatePoint(local, geometry.Point2D{}, dR))

		w := math.Max(snap.Width*sX, scene.MinObjectSize)
		h := math.Max(snap.Height*sY, scene.MinObjectSize)
		if obj.SetRect(geometry.NewRect(nc.X-w/2, nc.Y-h/2, w, h)) {
			obj.Rotation = snap.Rotation + dR
		}
	}
}

// fitAffine solves the least-squares affine map from src to dst corners and
// decomposes the linear part into per-axis scale and a rotation in degrees.
// The two coordinate rows are independent 4x3 systems solved by QR.
func fitAffine(src, dst [4]geometry.Point2D) (sX, sY, dR float64, ok bool) {
	A := mat.NewDense(4, 3, nil)
	bx := mat.NewVecDense(4, nil)
	by := mat.NewVecDense(4, nil)
	for i, p := range src {
		A.SetRow(i, []float64{p.X, p.Y, 1})
		bx.SetVec(i, dst[i].X)
		by.SetVec(i, dst[i].Y)
	}

	var qr mat.QR
	qr.Factorize(A)

	var rowX, rowY mat.VecDense
	if err := qr.SolveVecTo(&rowX, false, bx); err != nil {
		return 0, 0, 0, false
	}
	if err := qr.SolveVecTo(&rowY, false, by); err != nil {
		return 0, 0, 0, false
	}

	// Linear part [[a b], [c d]]: columns are the images of the unit axes.
	a, b := rowX.AtVec(0), rowX.AtVec(1)
	c, d := rowY.AtVec(0), rowY.AtVec(1)

	sX = math.Hypot(a, c)
	sY = math.Hypot(b, d)
	if sX == 0 || sY == 0 {
		return 0, 0, 0, false
	}
	dR = geometry.Degrees(math.Atan2(c, a))
	return sX, sY, dR, true
}

func clampFactor(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}

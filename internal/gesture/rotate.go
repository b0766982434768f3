package gesture

import (
	"math"

	"aurora-compare/pkg/geometry"
)

// beginRotate starts a rotation drag from a corner rotation region. A single
// object rotates about its own center; a multi-selection rotates about the
// group envelope center with the angle clamped per gesture.
func (e *Engine) beginRotate(world geometry.Point2D, h Handle) bool {
	targets := e.scene.Selection()
	if len(targets) == 0 {
		return false
	}

	group := len(targets) > 1
	var center geometry.Point2D
	var startRot float64
	env := e.scene.SelectionBounds()
	if group {
		center = env.Center()
	} else {
		obj := e.scene.Get(targets[0])
		center = obj.Center()
		startRot = obj.Rotation
	}

	e.session = &Session{
		Kind:          KindRotate,
		Handle:        h,
		Group:         group,
		Targets:       targets,
		StartWorld:    world,
		Snapshots:     e.snapshotTargets(targets),
		StartEnvelope: env,
		StartAngle:    pointerAngle(world, center),
		StartRotation: startRot,
	}
	return true
}

// updateRotate applies the pointer's angular delta since drag start. The
// stored rotation stays unwrapped; quantizing rounds the resulting angle to
// the configured step, not the delta, so snapped values land on 0, 15, 30...
func (e *Engine) updateRotate(world geometry.Point2D, snap bool) {
	s := e.session

	if s.Group {
		center := s.StartEnvelope.Center()
		delta := shortestDelta(pointerAngle(world, center) - s.StartAngle)
		delta = clampAngle(delta, e.cfg.GroupRotateLimit)
		if snap {
			delta = math.Round(delta/e.cfg.RotateSnapStep) * e.cfg.RotateSnapStep
		}
		e.applyGroupRotate(center, delta)
		return
	}

	obj := e.scene.Get(s.Targets[0])
	if obj == nil {
		return
	}
	delta := shortestDelta(pointerAngle(world, obj.Center()) - s.StartAngle)
	rotation := s.StartRotation + delta
	if snap {
		rotation = math.Round(rotation/e.cfg.RotateSnapStep) * e.cfg.RotateSnapStep
	}
	obj.Rotation = rotation
}

// shortestDelta maps an angular difference into [-180, 180) so crossing the
// atan2 seam mid-drag does not spin the object a full turn.
func shortestDelta(delta float64) float64 {
	d := math.Mod(delta+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// clampAngle limits a delta to [-limit, limit] degrees.
func clampAngle(delta, limit float64) float64 {
	if delta > limit {
		return limit
	}
	if delta < -limit {
		return -limit
	}
	return delta
}

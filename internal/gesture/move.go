package gesture

import (
	"aurora-compare/pkg/geometry"
)

// beginMove starts a move of the hit object, or of the whole selection when
// the hit object belongs to a multi-selection.
func (e *Engine) beginMove(world geometry.Point2D, id string) bool {
	targets := []string{id}
	group := false
	if e.scene.IsSelected(id) && e.scene.SelectionCount() > 1 {
		targets = e.scene.Selection()
		group = true
	}

	env := e.scene.Get(targets[0]).AABB()
	for _, tid := range targets[1:] {
		env = env.Union(e.scene.Get(tid).AABB())
	}

	e.session = &Session{
		Kind:          KindMove,
		Group:         group,
		Targets:       targets,
		StartWorld:    world,
		Snapshots:     e.snapshotTargets(targets),
		StartEnvelope: env,
	}
	return true
}

// updateMove repositions every target from its snapshot by the pointer delta,
// nudged by whatever snap the moved envelope finds against non-target
// siblings. Group moves snap as one block, so members never snap apart.
func (e *Engine) updateMove(world geometry.Point2D) {
	s := e.session
	delta := world.Sub(s.StartWorld)

	proposed := geometry.NewRect(
		s.StartEnvelope.X+delta.X,
		s.StartEnvelope.Y+delta.Y,
		s.StartEnvelope.Width,
		s.StartEnvelope.Height,
	)

	// Snap distances are screen-tuned; convert per update so stickiness
	// feels the same at every zoom.
	threshold := e.cfg.SnapThresholdPx / e.cam.Scale
	proximity := e.cfg.SnapProximityPx / e.cam.Scale

	var others []geometry.Rect
	for _, id := range e.scene.Order() {
		if _, isTarget := s.Snapshots[id]; isTarget {
			continue
		}
		others = append(others, e.scene.Get(id).AABB())
	}

	dx, dy, guides := computeSnap(proposed, others, threshold, proximity)

	for id, snap := range s.Snapshots {
		obj := e.scene.Get(id)
		if obj == nil {
			continue
		}
		obj.X = snap.X + delta.X + dx
		obj.Y = snap.Y + delta.Y + dy
	}
	e.guides = guides
}

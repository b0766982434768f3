// Package gesture converts pointer drags into move, resize, and rotate
// updates for one object or a multi-object group, including pivot-preserving
// scaling and proximity snapping. The engine is a pure state machine over
// the scene and camera; it knows nothing about input event shapes.
package gesture

import (
	"math"

	"aurora-compare/internal/scene"
	"aurora-compare/internal/viewport"
	"aurora-compare/pkg/geometry"
)

// Kind is the active gesture state.
type Kind int

const (
	KindIdle Kind = iota
	KindMove
	KindRotate
	KindScale
)

// Session is the start-state of one drag, created on pointer-down and
// discarded on pointer-up. A drag owns its gesture end to end.
type Session struct {
	Kind   Kind
	Handle Handle
	Group  bool

	// Targets are the edited object ids; one entry unless Group.
	Targets []string

	// StartWorld is the pointer's world position at drag start.
	StartWorld geometry.Point2D

	// Snapshots hold each target's geometry at drag start.
	Snapshots map[string]scene.Snapshot

	// StartEnvelope is the group envelope (or single object AABB) at
	// drag start.
	StartEnvelope geometry.Rect

	// Pivot is the world point that must not move during a scale.
	Pivot geometry.Point2D

	// ClickOffset corrects the gap between where the pointer landed and
	// the handle's exact position, in the pivot-local axis system.
	ClickOffset geometry.Point2D

	// StartAngle is the pointer's angle about the rotation center at
	// drag start, in degrees.
	StartAngle float64

	// StartRotation is the single target's rotation at drag start.
	StartRotation float64
}

// Engine is the interactive transform state machine.
type Engine struct {
	scene *scene.Scene
	cam   *viewport.Camera
	cfg   Config

	session *Session
	guides  []SnapGuide
}

// NewEngine creates an engine over the given scene and camera.
func NewEngine(sc *scene.Scene, cam *viewport.Camera, cfg Config) *Engine {
	return &Engine{scene: sc, cam: cam, cfg: cfg}
}

// Config returns the active feel constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the feel constants outside of an active gesture.
func (e *Engine) SetConfig(cfg Config) {
	if e.session == nil {
		e.cfg = cfg
	}
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool {
	return e.session != nil
}

// Session returns the in-progress gesture, or nil when idle.
func (e *Engine) Session() *Session {
	return e.session
}

// Guides returns the snap guides produced by the current move gesture.
func (e *Engine) Guides() []SnapGuide {
	return e.guides
}

// HitTest returns the topmost object under the screen point, or "". A cheap
// screen-space box pre-check rejects most objects before the exact rotated
// test, which stays authoritative.
func (e *Engine) HitTest(screen geometry.Point2D) string {
	world := e.cam.ScreenToWorld(screen)
	tolWorld := e.cfg.HitTolerancePx / e.cam.Scale

	order := e.scene.Order()
	for i := len(order) - 1; i >= 0; i-- {
		obj := e.scene.Get(order[i])
		if !obj.AABB().Expand(tolWorld).Contains(world) {
			continue
		}
		if obj.Contains(world) {
			return obj.ID
		}
	}
	return ""
}

// HandleHit returns the handle under the screen point for the current
// selection: the single selected object's rotated handles, or the group
// envelope's axis-aligned handles when several objects are selected.
func (e *Engine) HandleHit(screen geometry.Point2D) Handle {
	rect, rotation, ok := e.selectionBox()
	if !ok {
		return HandleNone
	}

	// Resize handles win over the surrounding rotation regions.
	for _, h := range ScaleHandles {
		hp := e.cam.WorldToScreen(HandlePoint(rect, rotation, h))
		if hp.Distance(screen) <= e.cfg.HandleSizePx {
			return h
		}
	}
	for _, h := range []Handle{HandleRotateNW, HandleRotateNE, HandleRotateSE, HandleRotateSW} {
		hp := e.cam.WorldToScreen(HandlePoint(rect, rotation, h.cornerOf()))
		d := hp.Distance(screen)
		if d > e.cfg.HandleSizePx && d <= e.cfg.HandleSizePx+e.cfg.RotateRegionPx {
			return h
		}
	}
	return HandleNone
}

// selectionBox returns the box the handles decorate: the object rect and
// rotation for a single selection, the envelope (rotation 0) for a group.
func (e *Engine) selectionBox() (geometry.Rect, float64, bool) {
	switch e.scene.SelectionCount() {
	case 0:
		return geometry.Rect{}, 0, false
	case 1:
		obj := e.scene.Get(e.scene.Selection()[0])
		return obj.Rect(), obj.Rotation, true
	default:
		return e.scene.SelectionBounds(), 0, true
	}
}

// Begin starts a gesture at the screen point: a scale or rotate when a
// selection handle is under the pointer, otherwise a move of the hit object
// (or of the whole selection when the hit object belongs to it). Returns
// false when the pointer touches neither a handle nor an object; the host
// treats that drag as a viewport pan or rubber-band.
func (e *Engine) Begin(screen geometry.Point2D) bool {
	if e.session != nil {
		return true // a drag owns its gesture end to end
	}
	world := e.cam.ScreenToWorld(screen)

	if h := e.HandleHit(screen); h != HandleNone {
		if h.IsRotate() {
			return e.beginRotate(world, h)
		}
		return e.beginScale(world, h)
	}

	id := e.HitTest(screen)
	if id == "" {
		return false
	}
	return e.beginMove(world, id)
}

// Update advances the active gesture to the new pointer position.
// snapRotation quantizes rotation gestures to the configured step.
func (e *Engine) Update(screen geometry.Point2D, snapRotation bool) {
	if e.session == nil {
		return
	}
	world := e.cam.ScreenToWorld(screen)
	if !world.IsFinite() {
		return
	}

	switch e.session.Kind {
	case KindMove:
		e.updateMove(world)
	case KindRotate:
		e.updateRotate(world, snapRotation)
	case KindScale:
		e.updateScale(world)
	}
}

// End terminates the gesture and clears transient aids. It always returns
// the engine to idle, so a failed update mid-drag cannot leave the tool
// stuck. Group selections get their envelope recomputed fresh from the
// updated member boxes simply because the envelope is never stored.
func (e *Engine) End() {
	e.session = nil
	e.guides = nil
}

// snapshotTargets records start geometry for the given ids.
func (e *Engine) snapshotTargets(ids []string) map[string]scene.Snapshot {
	snaps := make(map[string]scene.Snapshot, len(ids))
	for _, id := range ids {
		if obj := e.scene.Get(id); obj != nil {
			snaps[id] = obj.Snapshot()
		}
	}
	return snaps
}

// pointerAngle returns the angle of p about center, in degrees.
func pointerAngle(p, center geometry.Point2D) float64 {
	return geometry.Degrees(math.Atan2(p.Y-center.Y, p.X-center.X))
}

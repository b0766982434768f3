package gesture

// Config holds the interaction feel constants. They are tuned values, not
// invariants, and may be overridden from preferences.
type Config struct {
	// SnapThresholdPx is the snap stickiness in screen pixels; converted
	// to world units per gesture so it is zoom-independent.
	SnapThresholdPx float64

	// SnapProximityPx limits snapping to siblings whose orthogonal extent
	// is plausibly adjacent, in screen pixels.
	SnapProximityPx float64

	// HandleSizePx is the screen-space half-size of a resize handle's hit
	// region.
	HandleSizePx float64

	// RotateRegionPx extends outward past each corner handle as the
	// rotation hit region.
	RotateRegionPx float64

	// RotateSnapStep quantizes rotation, in degrees, when snapping is
	// requested.
	RotateSnapStep float64

	// HitTolerancePx pads the cheap screen-space pre-check for move hit
	// testing.
	HitTolerancePx float64

	// Group transform clamps per gesture.
	GroupScaleMin    float64
	GroupScaleMax    float64
	GroupRotateLimit float64 // degrees, symmetric
}

// DefaultConfig returns the tuned interaction constants.
func DefaultConfig() Config {
	return Config{
		SnapThresholdPx:  15,
		SnapProximityPx:  200,
		HandleSizePx:     10,
		RotateRegionPx:   14,
		RotateSnapStep:   15,
		HitTolerancePx:   3,
		GroupScaleMin:    0.85,
		GroupScaleMax:    1.15,
		GroupRotateLimit: 30,
	}
}

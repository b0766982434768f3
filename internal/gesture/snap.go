package gesture

import (
	"math"

	"aurora-compare/pkg/geometry"
)

// SnapGuide is one alignment line to draw while a snap is active. Vertical
// guides sit at X = Position and span Y in [From, To]; horizontal guides
// the reverse.
type SnapGuide struct {
	Vertical bool
	Position float64
	From     float64
	To       float64
}

// snapCandidate is one possible edge alignment on a single axis.
type snapCandidate struct {
	delta float64 // world offset that makes the edges coincide
	line  float64 // guide position after snapping
	other geometry.Rect
}

// computeSnap returns the world-space correction that aligns the moving
// envelope with nearby sibling edges, and the guides to render. Each axis
// snaps independently to the nearest candidate within threshold; siblings
// whose orthogonal extent is further than proximity away are ignored so
// distant objects do not yank the drag. All distances are world units.
func computeSnap(moving geometry.Rect, others []geometry.Rect, threshold, proximity float64) (dx, dy float64, guides []SnapGuide) {
	bestX := snapCandidate{delta: math.Inf(1)}
	bestY := snapCandidate{delta: math.Inf(1)}

	for _, o := range others {
		if intervalGap(moving.Y, moving.Y+moving.Height, o.Y, o.Y+o.Height) <= proximity {
			for _, c := range axisCandidates(moving.X, moving.X+moving.Width, o.X, o.X+o.Width) {
				if math.Abs(c.delta) < math.Abs(bestX.delta) {
					c.other = o
					bestX = c
				}
			}
		}
		if intervalGap(moving.X, moving.X+moving.Width, o.X, o.X+o.Width) <= proximity {
			for _, c := range axisCandidates(moving.Y, moving.Y+moving.Height, o.Y, o.Y+o.Height) {
				if math.Abs(c.delta) < math.Abs(bestY.delta) {
					c.other = o
					bestY = c
				}
			}
		}
	}

	if math.Abs(bestX.delta) <= threshold {
		dx = bestX.delta
	}
	if math.Abs(bestY.delta) <= threshold {
		dy = bestY.delta
	}

	snapped := geometry.NewRect(moving.X+dx, moving.Y+dy, moving.Width, moving.Height)
	if math.Abs(bestX.delta) <= threshold {
		guides = append(guides, SnapGuide{
			Vertical: true,
			Position: bestX.line,
			From:     math.Min(snapped.Y, bestX.other.Y),
			To:       math.Max(snapped.Y+snapped.Height, bestX.other.Y+bestX.other.Height),
		})
	}
	if math.Abs(bestY.delta) <= threshold {
		guides = append(guides, SnapGuide{
			Vertical: false,
			Position: bestY.line,
			From:     math.Min(snapped.X, bestY.other.X),
			To:       math.Max(snapped.X+snapped.Width, bestY.other.X+bestY.other.Width),
		})
	}
	return dx, dy, guides
}

// axisCandidates pairs the moving interval's low, center, and high against
// the sibling's: low-low, low-high, high-low, high-high, center-center.
func axisCandidates(lo, hi, oLo, oHi float64) []snapCandidate {
	center := (lo + hi) / 2
	oCenter := (oLo + oHi) / 2
	return []snapCandidate{
		{delta: oLo - lo, line: oLo},
		{delta: oHi - lo, line: oHi},
		{delta: oLo - hi, line: oLo},
		{delta: oHi - hi, line: oHi},
		{delta: oCenter - center, line: oCenter},
	}
}

// intervalGap returns the distance between two 1D intervals, zero when they
// overlap.
func intervalGap(aLo, aHi, bLo, bHi float64) float64 {
	if aHi < bLo {
		return bLo - aHi
	}
	if bHi < aLo {
		return aLo - bHi
	}
	return 0
}

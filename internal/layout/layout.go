// Package layout computes the initial, non-overlapping placement of images
// added to the comparison canvas.
package layout

import (
	"aurora-compare/pkg/geometry"
)

const (
	// RowHeight is the display height every image is normalized to when
	// first placed; the user resizes freely afterwards.
	RowHeight = 600.0

	// Gutter is the world-unit spacing between placed images.
	Gutter = 40.0

	// maxRowWidth wraps placement to a new row once a row grows wider
	// than this, keeping the arrangement roughly rectangular.
	maxRowWidth = 4 * RowHeight
)

// Item is one image to place, identified by its scene object id.
type Item struct {
	ID   string
	Size geometry.Size // intrinsic pixel size; zero means unknown
}

// Place computes a compact shelf arrangement: images are scaled to a common
// row height preserving aspect ratio and packed left to right, wrapping to a
// new row when the running width exceeds the limit. The result is guaranteed
// non-overlapping for distinct ids.
func Place(items []Item) map[string]geometry.Rect {
	placed := make(map[string]geometry.Rect, len(items))

	x, y := 0.0, 0.0
	rowWidth := 0.0
	for _, item := range items {
		if _, dup := placed[item.ID]; dup {
			continue
		}

		w, h := item.Size.Width, item.Size.Height
		if w <= 0 || h <= 0 {
			// Unknown intrinsic size: reserve a square slot.
			w, h = RowHeight, RowHeight
		}
		dispW := w * RowHeight / h

		if rowWidth > 0 && rowWidth+dispW > maxRowWidth {
			x = 0
			y += RowHeight + Gutter
			rowWidth = 0
		}

		placed[item.ID] = geometry.NewRect(x, y, dispW, RowHeight)
		x += dispW + Gutter
		rowWidth += dispW + Gutter
	}
	return placed
}

// Merge overlays persisted or override positions onto a computed placement.
// An override wins for its id; computed entries without an override remain.
func Merge(computed, overrides map[string]geometry.Rect) map[string]geometry.Rect {
	merged := make(map[string]geometry.Rect, len(computed))
	for id, r := range computed {
		merged[id] = r
	}
	for id, r := range overrides {
		if !r.IsFinite() || r.Width <= 0 || r.Height <= 0 {
			continue
		}
		merged[id] = r
	}
	return merged
}

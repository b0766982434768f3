// Package annotation implements point notes pinned to image objects. A note
// is anchored in percent coordinates of its owner, so it rides along through
// every move, resize, and rotation without per-gesture bookkeeping.
package annotation

import (
	"fmt"
	"sort"
	"time"

	"aurora-compare/internal/scene"
	"aurora-compare/pkg/geometry"
)

// MinVisibleScale hides markers below this zoom; at far-out overview scales
// they would collapse into unreadable clutter.
const MinVisibleScale = 0.3

// Annotation is one note pinned to a point on an image object. XPercent and
// YPercent are in [0, 100] of the owner's unrotated rectangle.
type Annotation struct {
	ID        string    `json:"id"`
	ImageID   string    `json:"imageId"`
	XPercent  float64   `json:"xPercent"`
	YPercent  float64   `json:"yPercent"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// WorldPosition resolves the annotation's anchor to world coordinates on the
// owner's rotated rectangle.
func (a Annotation) WorldPosition(owner *scene.Object) geometry.Point2D {
	p := geometry.NewPoint2D(
		owner.X+a.XPercent/100*owner.Width,
		owner.Y+a.YPercent/100*owner.Height,
	)
	return geometry.RotatePoint(p, owner.Center(), owner.Rotation)
}

// Pending is the single in-flight placement: the anchor is fixed on pointer
// release but the note is not committed until text is entered.
type Pending struct {
	ImageID  string
	XPercent float64
	YPercent float64
}

// Store holds all annotations for a session.
type Store struct {
	notes map[string]*Annotation
	seq   int

	pending *Pending
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{notes: make(map[string]*Annotation)}
}

// Add inserts a note with the given anchor and text, clamping the anchor
// into [0, 100]. Returns the stored annotation.
func (s *Store) Add(imageID string, xPct, yPct float64, text string) *Annotation {
	s.seq++
	a := &Annotation{
		ID:        fmt.Sprintf("note-%d", s.seq),
		ImageID:   imageID,
		XPercent:  clampPercent(xPct),
		YPercent:  clampPercent(yPct),
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.notes[a.ID] = a
	return a
}

// Restore inserts a note loaded from a session file, keeping its id and
// timestamp. The sequence counter advances past restored ids so new notes
// never collide.
func (s *Store) Restore(a Annotation) {
	a.XPercent = clampPercent(a.XPercent)
	a.YPercent = clampPercent(a.YPercent)
	stored := a
	s.notes[a.ID] = &stored

	var n int
	if _, err := fmt.Sscanf(a.ID, "note-%d", &n); err == nil && n > s.seq {
		s.seq = n
	}
}

// Remove deletes a note by id.
func (s *Store) Remove(id string) bool {
	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	return true
}

// RemoveForImage deletes every note owned by the image and returns how many
// were removed. Called when the owner leaves the scene.
func (s *Store) RemoveForImage(imageID string) int {
	var removed int
	for id, a := range s.notes {
		if a.ImageID == imageID {
			delete(s.notes, id)
			removed++
		}
	}
	if s.pending != nil && s.pending.ImageID == imageID {
		s.pending = nil
	}
	return removed
}

// Edit replaces a note's text.
func (s *Store) Edit(id, text string) bool {
	a, ok := s.notes[id]
	if !ok {
		return false
	}
	a.Text = text
	return true
}

// Get returns a note by id, or nil.
func (s *Store) Get(id string) *Annotation {
	return s.notes[id]
}

// ForImage returns the image's notes, oldest first.
func (s *Store) ForImage(imageID string) []*Annotation {
	var out []*Annotation
	for _, a := range s.notes {
		if a.ImageID == imageID {
			out = append(out, a)
		}
	}
	sortByAge(out)
	return out
}

// All returns every note, oldest first.
func (s *Store) All() []*Annotation {
	out := make([]*Annotation, 0, len(s.notes))
	for _, a := range s.notes {
		out = append(out, a)
	}
	sortByAge(out)
	return out
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// Clear drops every note and the pending placement.
func (s *Store) Clear() {
	s.notes = make(map[string]*Annotation)
	s.pending = nil
}

// SetPending starts a placement at the given percent anchor; any previous
// uncommitted placement is discarded.
func (s *Store) SetPending(imageID string, xPct, yPct float64) {
	s.pending = &Pending{ImageID: imageID, XPercent: clampPercent(xPct), YPercent: clampPercent(yPct)}
}

// Pending returns the in-flight placement, or nil.
func (s *Store) Pending() *Pending {
	return s.pending
}

// CommitPending turns the placement into a stored note. Empty text cancels
// instead; a note with nothing to say is not worth a marker.
func (s *Store) CommitPending(text string) *Annotation {
	p := s.pending
	s.pending = nil
	if p == nil || text == "" {
		return nil
	}
	return s.Add(p.ImageID, p.XPercent, p.YPercent, text)
}

// CancelPending discards the in-flight placement.
func (s *Store) CancelPending() {
	s.pending = nil
}

// Visible reports whether the note's marker should be drawn: the view must
// be zoomed in past MinVisibleScale, the owner must exist, and no object
// stacked above the owner may cover the anchor point.
func (s *Store) Visible(a *Annotation, sc *scene.Scene, scale float64) bool {
	if scale < MinVisibleScale {
		return false
	}
	owner := sc.Get(a.ImageID)
	if owner == nil {
		return false
	}
	p := a.WorldPosition(owner)
	for _, id := range sc.ObjectsAbove(a.ImageID) {
		if sc.Get(id).Contains(p) {
			return false
		}
	}
	return true
}

func sortByAge(notes []*Annotation) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

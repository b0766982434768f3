// Package app provides application state, events, and session lifecycle for
// the comparison canvas.
package app

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sync"
	"time"

	"aurora-compare/internal/annotation"
	"aurora-compare/internal/layout"
	"aurora-compare/internal/scene"
	"aurora-compare/internal/session"
	"aurora-compare/internal/source"
	"aurora-compare/internal/viewport"
	"aurora-compare/pkg/geometry"
)

// FitPadding is the screen-pixel margin kept around content on fit-to-view.
const FitPadding = 60.0

// State holds the live model: the scene, camera, pixel cache, and
// annotations, plus the session bookkeeping around them.
type State struct {
	mu sync.RWMutex

	// Session
	SessionPath    string
	SessionName    string
	SessionCreated time.Time
	Modified       bool

	Scene  *scene.Scene
	Camera *viewport.Camera
	Cache  *source.Cache
	Notes  *annotation.Store

	nextID int

	// pendingSizes queues paths whose decode finished off the scene-owning
	// goroutine; AdoptReadySizes applies them from the caller's side.
	pendingSizes []string

	// watchPaths is a snapshot of the scene's image paths, safe to read from
	// the file watcher goroutine.
	watchPaths []string

	listeners map[EventType][]EventListener
}

// EventType identifies application events.
type EventType int

const (
	EventSessionLoaded EventType = iota
	EventSessionSaved
	EventObjectAdded
	EventObjectRemoved
	EventSelectionChanged
	EventOrderChanged
	EventSourceReady
	EventAnnotationsChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates the application state with an empty scene.
func NewState() *State {
	s := &State{
		Scene:     scene.New(),
		Camera:    viewport.NewCamera(1600, 1000),
		Cache:     source.NewCache(source.DefaultMaxEntries),
		Notes:     annotation.NewStore(),
		listeners: make(map[EventType][]EventListener),
	}
	// The callback runs on the loader goroutine, so it may not touch the
	// scene; it queues the path and lets the UI adopt the size next frame.
	s.Cache.OnReady(func(path string) {
		s.mu.Lock()
		s.pendingSizes = append(s.pendingSizes, path)
		s.mu.Unlock()
		s.Emit(EventSourceReady, path)
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// AddImages places the given files on the canvas below any existing content
// and starts decoding them. Files already on the canvas are added again as
// independent objects sharing the cached pixels. Returns the new object ids.
func (s *State) AddImages(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	var items []layout.Item
	ids := make([]string, 0, len(paths))
	byID := make(map[string]string, len(paths))
	for _, path := range paths {
		src := s.Cache.Get(path)
		id := s.newObjectID()
		ids = append(ids, id)
		byID[id] = path

		var size geometry.Size
		if src.Ready() {
			size = src.Size()
		}
		items = append(items, layout.Item{ID: id, Size: size})
	}

	placed := layout.Place(items)

	// Shift the arrangement below whatever is already on the canvas.
	offsetY := 0.0
	if s.Scene.Len() > 0 {
		bounds := s.Scene.ContentBounds()
		offsetY = bounds.Y + bounds.Height + layout.Gutter
	}

	for _, id := range ids {
		rect, ok := placed[id]
		if !ok {
			continue
		}
		obj := &scene.Object{
			ID:     id,
			Path:   byID[id],
			X:      rect.X,
			Y:      rect.Y + offsetY,
			Width:  rect.Width,
			Height: rect.Height,
		}
		s.Scene.Add(obj)
		s.Emit(EventObjectAdded, id)
	}

	// A fast decode can finish before its object exists; correct any slot
	// whose pixels are already in.
	for _, path := range paths {
		s.adoptIntrinsicSize(path)
	}

	s.refreshWatchedPaths()
	s.SetModified(true)
	return ids
}

// AdoptReadySizes applies the intrinsic sizes of freshly decoded images to
// their placeholder slots. Decodes complete on loader goroutines, which only
// queue the path; the geometry change happens here, on the goroutine that
// owns the scene.
func (s *State) AdoptReadySizes() {
	s.mu.Lock()
	pending := s.pendingSizes
	s.pendingSizes = nil
	s.mu.Unlock()

	for _, path := range pending {
		s.adoptIntrinsicSize(path)
	}
}

// adoptIntrinsicSize fixes the aspect ratio of objects that were placed
// before their image decoded. Only untouched square slots are corrected;
// anything the user resized is left alone.
func (s *State) adoptIntrinsicSize(path string) {
	src := s.Cache.Peek(path)
	if src == nil || !src.Ready() {
		return
	}
	size := src.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}

	s.Scene.ForEach(func(obj *scene.Object) {
		if obj.Path != path {
			return
		}
		if obj.Width != layout.RowHeight || obj.Height != layout.RowHeight {
			return
		}
		// Fit inside the reserved square so neighbors stay clear.
		if size.Width >= size.Height {
			obj.Height = layout.RowHeight * size.Height / size.Width
		} else {
			obj.Width = layout.RowHeight * size.Width / size.Height
		}
	})
}

// RemoveObject deletes the object and its annotations.
func (s *State) RemoveObject(id string) bool {
	if !s.Scene.Remove(id) {
		return false
	}
	if s.Notes.RemoveForImage(id) > 0 {
		s.Emit(EventAnnotationsChanged, nil)
	}
	s.refreshWatchedPaths()
	s.SetModified(true)
	s.Emit(EventObjectRemoved, id)
	s.Emit(EventSelectionChanged, s.Scene.Selection())
	return true
}

// RemoveSelection deletes every selected object.
func (s *State) RemoveSelection() int {
	ids := s.Scene.Selection()
	for _, id := range ids {
		s.RemoveObject(id)
	}
	return len(ids)
}

// SelectOnly makes id the sole selection.
func (s *State) SelectOnly(id string) {
	s.Scene.SetSelection(id)
	s.Emit(EventSelectionChanged, s.Scene.Selection())
}

// ToggleSelect adds or removes id from the selection.
func (s *State) ToggleSelect(id string) {
	if s.Scene.IsSelected(id) {
		s.Scene.Deselect(id)
	} else {
		s.Scene.Select(id)
	}
	s.Emit(EventSelectionChanged, s.Scene.Selection())
}

// SetSelection replaces the selection.
func (s *State) SetSelection(ids ...string) {
	s.Scene.SetSelection(ids...)
	s.Emit(EventSelectionChanged, s.Scene.Selection())
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() {
	s.Scene.ClearSelection()
	s.Emit(EventSelectionChanged, s.Scene.Selection())
}

// BringToFront raises the object just above the topmost sibling it overlaps.
func (s *State) BringToFront(id string) {
	if s.Scene.BringToFront(id) {
		s.SetModified(true)
		s.Emit(EventOrderChanged, id)
	}
}

// SendToBack lowers the object just below the bottom sibling it overlaps.
func (s *State) SendToBack(id string) {
	if s.Scene.SendToBack(id) {
		s.SetModified(true)
		s.Emit(EventOrderChanged, id)
	}
}

// MoveUp raises the object one meaningful step.
func (s *State) MoveUp(id string) {
	if s.Scene.MoveUp(id) {
		s.SetModified(true)
		s.Emit(EventOrderChanged, id)
	}
}

// MoveDown lowers the object one meaningful step.
func (s *State) MoveDown(id string) {
	if s.Scene.MoveDown(id) {
		s.SetModified(true)
		s.Emit(EventOrderChanged, id)
	}
}

// FitAll animates the camera to frame every object.
func (s *State) FitAll() {
	if s.Scene.Len() == 0 {
		return
	}
	s.Camera.AnimateFit(s.Scene.ContentBounds(), FitPadding)
}

// FitObject animates the camera to frame one object.
func (s *State) FitObject(id string) {
	obj := s.Scene.Get(id)
	if obj == nil {
		return
	}
	s.Camera.AnimateFit(obj.AABB(), FitPadding)
}

// FitSelection animates the camera to frame the selected objects, or
// everything when nothing is selected.
func (s *State) FitSelection() {
	if s.Scene.SelectionCount() == 0 {
		s.FitAll()
		return
	}
	s.Camera.AnimateFit(s.Scene.SelectionBounds(), FitPadding)
}

// AddAnnotation commits a note on the object at the given percent anchor.
func (s *State) AddAnnotation(imageID string, xPct, yPct float64, text string) *annotation.Annotation {
	if s.Scene.Get(imageID) == nil {
		return nil
	}
	a := s.Notes.Add(imageID, xPct, yPct, text)
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, a.ID)
	return a
}

// EditAnnotation replaces a note's text.
func (s *State) EditAnnotation(id, text string) bool {
	if !s.Notes.Edit(id, text) {
		return false
	}
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, id)
	return true
}

// RemoveAnnotation deletes a note.
func (s *State) RemoveAnnotation(id string) bool {
	if !s.Notes.Remove(id) {
		return false
	}
	s.SetModified(true)
	s.Emit(EventAnnotationsChanged, id)
	return true
}

// NewSession discards the current canvas.
func (s *State) NewSession() {
	s.mu.Lock()
	s.SessionPath = ""
	s.SessionName = ""
	s.SessionCreated = time.Time{}
	s.mu.Unlock()

	s.Scene = scene.New()
	s.Notes.Clear()
	s.Camera = viewport.NewCamera(s.Camera.ViewSize())
	s.refreshWatchedPaths()
	s.SetModified(false)
	s.Emit(EventSessionLoaded, "")
}

// SaveSession writes the canvas to path. The creation time is stamped on the
// first save and carried unchanged afterwards.
func (s *State) SaveSession(path string) error {
	s.mu.RLock()
	created := s.SessionCreated
	s.mu.RUnlock()
	if created.IsZero() {
		created = time.Now()
	}

	f := &session.File{
		Manifest: session.Manifest{Name: s.sessionNameFor(path), Created: created},
		Viewport: session.ViewportState{
			Scale: s.Camera.Scale,
			PanX:  s.Camera.PanX,
			PanY:  s.Camera.PanY,
		},
		Order: append([]string(nil), s.Scene.Order()...),
	}
	s.Scene.ForEach(func(obj *scene.Object) {
		f.Objects = append(f.Objects, session.ObjectRecord{
			ID:       obj.ID,
			Path:     obj.Path,
			X:        obj.X,
			Y:        obj.Y,
			Width:    obj.Width,
			Height:   obj.Height,
			Rotation: obj.Rotation,
		})
	})
	for _, a := range s.Notes.All() {
		f.Annotations = append(f.Annotations, *a)
	}

	if err := session.Save(path, f); err != nil {
		return err
	}

	s.mu.Lock()
	s.SessionPath = path
	s.SessionName = f.Manifest.Name
	s.SessionCreated = created
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionSaved, path)
	return nil
}

// LoadSession replaces the canvas with the file's contents. Records that
// fail validation are skipped with a log line; one bad entry does not take
// the session down.
func (s *State) LoadSession(path string) error {
	f, err := session.Load(path)
	if err != nil {
		return err
	}

	sc := scene.New()
	for _, rec := range f.Objects {
		if !validRecord(rec) {
			log.Printf("session: skipping invalid object %q in %s", rec.ID, path)
			continue
		}
		sc.Add(&scene.Object{
			ID:       rec.ID,
			Path:     rec.Path,
			X:        rec.X,
			Y:        rec.Y,
			Width:    rec.Width,
			Height:   rec.Height,
			Rotation: rec.Rotation,
		})
		s.Cache.Get(rec.Path)
		s.bumpObjectID(rec.ID)
	}
	sc.SetOrder(f.Order)

	s.Notes.Clear()
	for _, a := range f.Annotations {
		if sc.Get(a.ImageID) == nil {
			log.Printf("session: skipping annotation %q for unknown object %q", a.ID, a.ImageID)
			continue
		}
		s.Notes.Restore(a)
	}

	s.Scene = sc
	s.Camera.Scale = clampLoadedScale(f.Viewport.Scale)
	s.Camera.PanX = f.Viewport.PanX
	s.Camera.PanY = f.Viewport.PanY
	s.Camera.CancelAnimation()
	s.refreshWatchedPaths()

	s.mu.Lock()
	s.SessionPath = path
	s.SessionName = f.Manifest.Name
	s.SessionCreated = f.Manifest.Created
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionLoaded, path)
	s.Emit(EventSelectionChanged, s.Scene.Selection())
	s.Emit(EventAnnotationsChanged, nil)
	return nil
}

// ImagePaths returns the distinct file paths referenced by the scene. It
// walks the live scene, so it must run on the goroutine that owns it; other
// goroutines use WatchedPaths.
func (s *State) ImagePaths() []string {
	seen := make(map[string]bool)
	var paths []string
	s.Scene.ForEach(func(obj *scene.Object) {
		if !seen[obj.Path] {
			seen[obj.Path] = true
			paths = append(paths, obj.Path)
		}
	})
	return paths
}

// WatchedPaths returns the last published snapshot of the scene's image
// paths. Safe to call from any goroutine; the file watcher polls it.
func (s *State) WatchedPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.watchPaths...)
}

// refreshWatchedPaths publishes a fresh path snapshot after the scene's
// object set changed.
func (s *State) refreshWatchedPaths() {
	paths := s.ImagePaths()
	s.mu.Lock()
	s.watchPaths = paths
	s.mu.Unlock()
}

// ReloadImage drops the cached pixels for path and decodes it again. Used
// when the file changes on disk.
func (s *State) ReloadImage(path string) {
	s.Cache.Invalidate(path)
	s.Cache.Get(path)
}

func (s *State) sessionNameFor(path string) string {
	s.mu.RLock()
	name := s.SessionName
	s.mu.RUnlock()
	if name != "" {
		return name
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func (s *State) newObjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("img-%d", s.nextID)
}

// bumpObjectID advances the id counter past loaded ids so new objects never
// collide with session contents.
func (s *State) bumpObjectID(id string) {
	var n int
	if _, err := fmt.Sscanf(id, "img-%d", &n); err == nil {
		s.mu.Lock()
		if n > s.nextID {
			s.nextID = n
		}
		s.mu.Unlock()
	}
}

func validRecord(rec session.ObjectRecord) bool {
	if rec.ID == "" || rec.Path == "" {
		return false
	}
	for _, v := range []float64{rec.X, rec.Y, rec.Width, rec.Height, rec.Rotation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return rec.Width >= scene.MinObjectSize && rec.Height >= scene.MinObjectSize
}

func clampLoadedScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	if scale < viewport.MinScale {
		return viewport.MinScale
	}
	if scale > viewport.MaxScale {
		return viewport.MaxScale
	}
	return scale
}

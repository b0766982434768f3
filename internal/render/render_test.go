package render

import (
	"image"
	"image/color"
	"testing"
	"time"

	"aurora-compare/internal/annotation"
	"aurora-compare/internal/gesture"
	"aurora-compare/internal/scene"
	"aurora-compare/internal/source"
	"aurora-compare/internal/viewport"
	"aurora-compare/pkg/geometry"
)

// solidLoader decodes every path to a solid-color image.
func solidLoader(w, h int, col color.RGBA) source.LoaderFunc {
	return func(path string) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, col)
			}
		}
		return img, nil
	}
}

// readyCache returns a cache with the path already decoded.
func readyCache(t *testing.T, path string, loader source.LoaderFunc) *source.Cache {
	t.Helper()
	cache := source.NewCache(8)
	cache.SetLoader(loader)

	done := make(chan string, 1)
	cache.OnReady(func(p string) { done <- p })
	cache.Get(path)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("decode did not finish")
	}
	return cache
}

func TestVisibleObjectsCulls(t *testing.T) {
	cam := viewport.NewCamera(800, 600)
	sc := scene.New()
	sc.Add(&scene.Object{ID: "in", X: 100, Y: 100, Width: 200, Height: 200})
	sc.Add(&scene.Object{ID: "edge", X: 790, Y: 100, Width: 200, Height: 200})
	sc.Add(&scene.Object{ID: "buffered", X: 820, Y: 100, Width: 200, Height: 200})
	sc.Add(&scene.Object{ID: "out", X: 5000, Y: 5000, Width: 200, Height: 200})

	got := visibleObjects(cam, sc)
	ids := make(map[string]bool)
	for _, o := range got {
		ids[o.ID] = true
	}
	if len(got) != 3 || !ids["in"] || !ids["edge"] || !ids["buffered"] {
		t.Errorf("visible = %v, want in/edge/buffered", ids)
	}
}

func TestVisibleObjectsUsesRotatedBounds(t *testing.T) {
	cam := viewport.NewCamera(800, 600)
	sc := scene.New()
	// Unrotated this strip lies fully right of the buffered view; rotated
	// 90 degrees its envelope swings back inside.
	strip := &scene.Object{ID: "strip", X: 900, Y: 100, Width: 60, Height: 600, Rotation: 90}
	sc.Add(strip)

	if got := visibleObjects(cam, sc); len(got) != 1 {
		t.Fatalf("rotated strip should be visible, got %d objects", len(got))
	}
	strip.Rotation = 0
	if got := visibleObjects(cam, sc); len(got) != 0 {
		t.Error("unrotated strip should cull")
	}
}

func TestFrameDrawsDecodedPixels(t *testing.T) {
	red := color.RGBA{200, 30, 30, 255}
	cache := readyCache(t, "a.png", solidLoader(100, 100, red))
	e := NewEngine(cache)

	cam := viewport.NewCamera(200, 200)
	sc := scene.New()
	sc.Add(&scene.Object{ID: "a", Path: "a.png", X: 10, Y: 10, Width: 100, Height: 100})

	out := e.Frame(200, 200, cam, sc, nil, nil)

	if got := out.RGBAAt(60, 60); got != red {
		t.Errorf("interior pixel = %v, want %v", got, red)
	}
	if got := out.RGBAAt(190, 190); got != backgroundColor {
		t.Errorf("exterior pixel = %v, want background", got)
	}
}

func TestFramePlaceholderWhenNotLoaded(t *testing.T) {
	cache := source.NewCache(8) // nothing decoded; Peek misses
	e := NewEngine(cache)

	cam := viewport.NewCamera(200, 200)
	sc := scene.New()
	sc.Add(&scene.Object{ID: "a", Path: "missing.png", X: 10, Y: 10, Width: 100, Height: 100})

	out := e.Frame(200, 200, cam, sc, nil, nil)
	if got := out.RGBAAt(60, 60); got != placeholderFill {
		t.Errorf("pixel = %v, want placeholder", got)
	}
}

func TestFrameSamplesThroughRotation(t *testing.T) {
	red := color.RGBA{200, 30, 30, 255}
	cache := readyCache(t, "a.png", solidLoader(300, 40, red))
	e := NewEngine(cache)

	cam := viewport.NewCamera(400, 400)
	sc := scene.New()
	sc.Add(&scene.Object{ID: "a", Path: "a.png", X: 20, Y: 100, Width: 300, Height: 40, Rotation: 90})

	out := e.Frame(400, 400, cam, sc, nil, nil)

	// Center of the rotated strip: filled. A point inside the unrotated
	// footprint but outside the rotated strip: background.
	if got := out.RGBAAt(170, 240); got != red {
		t.Errorf("rotated interior = %v, want %v", got, red)
	}
	if got := out.RGBAAt(40, 110); got == red {
		t.Error("unrotated footprint should not be painted after rotation")
	}
}

func TestFrameDrawsSelectionHandles(t *testing.T) {
	cache := source.NewCache(8)
	e := NewEngine(cache)

	cam := viewport.NewCamera(300, 300)
	sc := scene.New()
	sc.Add(&scene.Object{ID: "a", Path: "a.png", X: 50, Y: 50, Width: 100, Height: 100})
	sc.Select("a")

	out := e.Frame(300, 300, cam, sc, nil, nil)
	// The SE handle square is centered on the corner at (150, 150).
	if got := out.RGBAAt(150, 150); got != handleFill {
		t.Errorf("handle pixel = %v, want %v", got, handleFill)
	}
}

func TestFrameDrawsSnapGuide(t *testing.T) {
	cache := source.NewCache(8)
	e := NewEngine(cache)

	cam := viewport.NewCamera(200, 200)
	sc := scene.New()

	guides := []gesture.SnapGuide{{Vertical: true, Position: 80, From: 10, To: 190}}
	out := e.Frame(200, 200, cam, sc, nil, guides)
	if got := out.RGBAAt(80, 10); got != guideColor {
		t.Errorf("guide start pixel = %v, want %v", got, guideColor)
	}
}

func TestFrameDrawsAnnotationMarker(t *testing.T) {
	cache := source.NewCache(8)
	e := NewEngine(cache)

	cam := viewport.NewCamera(300, 300)
	sc := scene.New()
	sc.Add(&scene.Object{ID: "img", Path: "a.png", X: 0, Y: 0, Width: 200, Height: 200})

	notes := annotation.NewStore()
	notes.Add("img", 50, 50, "center") // world (100, 100)

	out := e.Frame(300, 300, cam, sc, notes, nil)
	if got := out.RGBAAt(100, 100); got != markerFill {
		t.Errorf("marker pixel = %v, want %v", got, markerFill)
	}
}

func TestFrameHidesMarkersAtOverviewZoom(t *testing.T) {
	cache := source.NewCache(8)
	e := NewEngine(cache)

	cam := viewport.NewCamera(300, 300)
	cam.ZoomAt(geometry.NewPoint2D(0, 0), 0.1)

	sc := scene.New()
	sc.Add(&scene.Object{ID: "img", Path: "a.png", X: 0, Y: 0, Width: 2000, Height: 2000})
	notes := annotation.NewStore()
	notes.Add("img", 50, 50, "center") // world (1000, 1000) -> screen (100, 100)

	out := e.Frame(300, 300, cam, sc, notes, nil)
	if got := out.RGBAAt(100, 100); got == markerFill {
		t.Error("markers must hide below the zoom floor")
	}
}

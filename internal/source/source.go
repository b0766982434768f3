// Package source provides image loading and the pre-reduced level ladder
// used for fast minification on the comparison canvas.
package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"aurora-compare/pkg/geometry"

	"github.com/disintegration/imaging"

	_ "github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const (
	// fullResScale is the zoom level at or above which the full-resolution
	// image is always used instead of a reduced level.
	fullResScale = 0.8

	// minLevelEdge stops the reduction ladder once the shorter edge would
	// fall below this, matching the minimum useful thumbnail size.
	minLevelEdge = 256
)

// Level is one pre-filtered reduction of a source image.
type Level struct {
	Reduction float64 // e.g. 0.5 for the half-resolution copy
	Image     image.Image
}

// loadState tracks the asynchronous decode of a source.
type loadState int

const (
	stateLoading loadState = iota
	stateReady
	stateFailed
)

// Source is one decoded image plus its reduction ladder. A Source is shared
// read-only by every scene object that references the same file; levels are
// never mutated after Build, so readers only need the ready flag.
type Source struct {
	Path string

	mu     sync.Mutex
	state  loadState
	err    error
	full   image.Image
	levels []Level
	size   geometry.Size
}

// Ready reports whether the image has finished decoding successfully.
func (s *Source) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateReady
}

// Failed reports whether the decode failed permanently.
func (s *Source) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateFailed
}

// Err returns the decode error, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Size returns the intrinsic image size in pixels, or zero until ready.
func (s *Source) Size() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Levels returns the reduction ladder (excluding full resolution).
func (s *Source) Levels() []Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels
}

// Level selects the image best suited for rendering at the given canvas
// scale: full resolution at scale >= 0.8, otherwise the precomputed
// reduction whose factor is closest to the scale in log space. Returns nil
// until ready.
func (s *Source) Level(scale float64) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateReady {
		return nil
	}
	if scale >= fullResScale || len(s.levels) == 0 {
		return s.full
	}

	best := s.levels[0]
	bestDist := math.Abs(math.Log(best.Reduction) - math.Log(scale))
	for _, lv := range s.levels[1:] {
		d := math.Abs(math.Log(lv.Reduction) - math.Log(scale))
		if d < bestDist {
			best = lv
			bestDist = d
		}
	}
	return best.Image
}

// complete installs the decode result and builds the reduction ladder.
func (s *Source) complete(img image.Image, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = stateFailed
		s.err = err
		return
	}

	s.full = img
	b := img.Bounds()
	s.size = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	s.levels = buildLevels(img)
	s.state = stateReady
}

// buildLevels derives the ladder of Lanczos-filtered reductions at factors
// 1/2, 1/4, 1/8, ... stopping once the shorter edge drops below minLevelEdge.
func buildLevels(img image.Image) []Level {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var levels []Level
	factor := 0.5
	for {
		lw := int(float64(w) * factor)
		lh := int(float64(h) * factor)
		if lw < minLevelEdge || lh < minLevelEdge {
			break
		}
		reduced := imaging.Resize(img, lw, lh, imaging.Lanczos)
		levels = append(levels, Level{Reduction: factor, Image: reduced})
		factor /= 2
	}
	return levels
}

// Decode reads and decodes an image file. Format support comes from the
// registered decoders: png, jpeg, gif, bmp, tiff, and webp.
func Decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

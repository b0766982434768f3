// Package session persists a comparison canvas to disk: the placed objects,
// their stacking order, the viewport, and annotations, as versioned JSON.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"aurora-compare/internal/annotation"
)

// CurrentVersion is written to every saved file. Loaders accept the current
// version plus the unversioned legacy layout.
const CurrentVersion = 1

// Extension is the session file suffix.
const Extension = ".acmp"

// Manifest describes the session itself.
type Manifest struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// ViewportState is the saved camera transform.
type ViewportState struct {
	Scale float64 `json:"scale"`
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
}

// ObjectRecord is one placed image.
type ObjectRecord struct {
	ID       string  `json:"id"`
	Path     string  `json:"path"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
}

// File is the on-disk session layout. Order lists object ids back to front;
// ids missing from Order stack on top in record order when loading.
type File struct {
	Version     int                     `json:"version"`
	Manifest    Manifest                `json:"manifest"`
	Viewport    ViewportState           `json:"viewport"`
	Objects     []ObjectRecord          `json:"objects"`
	Order       []string                `json:"order"`
	Annotations []annotation.Annotation `json:"annotations,omitempty"`
}

// legacyFile is the pre-versioning layout: a flat document with the camera
// fields at top level and the objects under "images".
type legacyFile struct {
	Name   string         `json:"name"`
	Scale  float64        `json:"scale"`
	PanX   float64        `json:"panX"`
	PanY   float64        `json:"panY"`
	Images []ObjectRecord `json:"images"`
}

// Save writes the session to path as indented JSON.
func Save(path string, f *File) error {
	f.Version = CurrentVersion
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads a session file, falling back to the legacy layout for files
// written before the format was versioned.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	switch {
	case f.Version == CurrentVersion:
		return &f, nil
	case f.Version > CurrentVersion:
		return nil, fmt.Errorf("session version %d is newer than supported version %d", f.Version, CurrentVersion)
	}

	// Version 0: the field was absent, so this is either a legacy file or
	// not a session at all.
	var legacy legacyFile
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if len(legacy.Images) == 0 {
		return nil, fmt.Errorf("unrecognized session format in %s", path)
	}
	return upgradeLegacy(&legacy), nil
}

// upgradeLegacy converts the flat layout. Legacy files had no explicit
// stacking order; record order was draw order.
func upgradeLegacy(l *legacyFile) *File {
	f := &File{
		Version:  CurrentVersion,
		Manifest: Manifest{Name: l.Name},
		Viewport: ViewportState{Scale: l.Scale, PanX: l.PanX, PanY: l.PanY},
		Objects:  l.Images,
	}
	if f.Viewport.Scale == 0 {
		f.Viewport.Scale = 1
	}
	for _, rec := range l.Images {
		f.Order = append(f.Order, rec.ID)
	}
	return f
}

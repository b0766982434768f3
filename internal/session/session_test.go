package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"aurora-compare/internal/annotation"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare"+Extension)

	saved := &File{
		Manifest: Manifest{Name: "board revisions", Created: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
		Viewport: ViewportState{Scale: 0.5, PanX: 120, PanY: -40},
		Objects: []ObjectRecord{
			{ID: "a", Path: "/scans/rev1.png", X: 0, Y: 0, Width: 800, Height: 600},
			{ID: "b", Path: "/scans/rev2.png", X: 840, Y: 0, Width: 800, Height: 600, Rotation: 12.5},
		},
		Order: []string{"a", "b"},
		Annotations: []annotation.Annotation{
			{ID: "note-1", ImageID: "b", XPercent: 40, YPercent: 60, Text: "missing pad", CreatedAt: time.Date(2026, 8, 1, 12, 5, 0, 0, time.UTC)},
		},
	}
	if err := Save(path, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", loaded.Version, CurrentVersion)
	}
	if loaded.Manifest.Name != "board revisions" {
		t.Errorf("name = %q", loaded.Manifest.Name)
	}
	if !loaded.Manifest.Created.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("created = %v", loaded.Manifest.Created)
	}
	if len(loaded.Objects) != 2 || loaded.Objects[1].Rotation != 12.5 {
		t.Errorf("objects = %+v", loaded.Objects)
	}
	if len(loaded.Order) != 2 || loaded.Order[0] != "a" {
		t.Errorf("order = %v", loaded.Order)
	}
	if len(loaded.Annotations) != 1 || loaded.Annotations[0].Text != "missing pad" {
		t.Errorf("annotations = %+v", loaded.Annotations)
	}
	if loaded.Viewport.Scale != 0.5 || loaded.Viewport.PanX != 120 {
		t.Errorf("viewport = %+v", loaded.Viewport)
	}
}

func TestLoadLegacyFlatLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old"+Extension)
	legacy := `{
  "name": "old session",
  "scale": 0.75,
  "panX": 10,
  "panY": 20,
  "images": [
    {"id": "x", "path": "/scans/x.png", "x": 0, "y": 0, "width": 400, "height": 300},
    {"id": "y", "path": "/scans/y.png", "x": 440, "y": 0, "width": 400, "height": 300}
  ]
}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Version != CurrentVersion {
		t.Errorf("upgraded version = %d, want %d", f.Version, CurrentVersion)
	}
	if f.Manifest.Name != "old session" || f.Viewport.Scale != 0.75 {
		t.Errorf("upgraded header = %+v %+v", f.Manifest, f.Viewport)
	}
	if len(f.Objects) != 2 {
		t.Fatalf("objects = %+v", f.Objects)
	}
	// Legacy record order becomes stacking order.
	if len(f.Order) != 2 || f.Order[0] != "x" || f.Order[1] != "y" {
		t.Errorf("order = %v", f.Order)
	}
}

func TestLoadLegacyDefaultsScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old"+Extension)
	legacy := `{"images": [{"id": "x", "path": "/x.png", "width": 100, "height": 100}]}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Viewport.Scale != 1 {
		t.Errorf("scale = %v, want default 1", f.Viewport.Scale)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future"+Extension)
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("a newer version must be rejected, not misread")
	}
}

func TestLoadRejectsUnrecognizedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.json")
	if err := os.WriteFile(path, []byte(`{"hello": "world"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("arbitrary JSON is not a session")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope"+Extension)); err == nil {
		t.Error("missing file must error")
	}
}

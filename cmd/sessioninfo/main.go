// Command sessioninfo prints a summary of a saved comparison session.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"aurora-compare/internal/session"
)

func main() {
	verbose := flag.Bool("v", false, "List every object and annotation")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Printf("Usage: sessioninfo [-v] <session%s>\n", session.Extension)
		os.Exit(1)
	}
	path := flag.Arg(0)

	f, err := session.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load session: %v\n", err)
		os.Exit(1)
	}

	name := f.Manifest.Name
	if name == "" {
		name = filepath.Base(path)
	}
	fmt.Printf("Session: %s (format version %d)\n", name, f.Version)
	if !f.Manifest.Created.IsZero() {
		fmt.Printf("Created: %s\n", f.Manifest.Created.Format("2006-01-02 15:04"))
	}
	fmt.Printf("View: %.0f%% zoom, pan (%.0f, %.0f)\n",
		f.Viewport.Scale*100, f.Viewport.PanX, f.Viewport.PanY)
	fmt.Printf("Objects: %d, annotations: %d\n", len(f.Objects), len(f.Annotations))

	if !*verbose {
		return
	}

	byID := make(map[string]session.ObjectRecord, len(f.Objects))
	for _, rec := range f.Objects {
		byID[rec.ID] = rec
	}

	fmt.Printf("\n%-10s %-28s %10s %10s %10s %10s %8s\n",
		"ID", "File", "X", "Y", "W", "H", "Rot")
	// Order lists ids back to front.
	for _, id := range f.Order {
		rec, ok := byID[id]
		if !ok {
			fmt.Printf("%-10s (missing object record)\n", id)
			continue
		}
		fmt.Printf("%-10s %-28s %10.1f %10.1f %10.1f %10.1f %8.1f\n",
			rec.ID, filepath.Base(rec.Path), rec.X, rec.Y, rec.Width, rec.Height, rec.Rotation)
	}

	if len(f.Annotations) > 0 {
		fmt.Printf("\nAnnotations:\n")
		for _, a := range f.Annotations {
			fmt.Printf("  %-10s on %-10s at (%.1f%%, %.1f%%): %s\n",
				a.ID, a.ImageID, a.XPercent, a.YPercent, a.Text)
		}
	}
}

// Aurora Compare is an interactive canvas for comparing images side by side:
// drop scans or photos on an infinite surface, then move, resize, rotate, and
// annotate them to line up the differences.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"aurora-compare/internal/app"
	"aurora-compare/internal/version"
	"aurora-compare/ui/mainwindow"
	"aurora-compare/ui/prefs"
)

// watchInterval is how often on-disk image files are re-checked for edits
// made in external tools.
const watchInterval = 2 * time.Second

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("aurora-compare %s starting", version.Version)

	fyneApp := fyneapp.NewWithID("io.aurora.compare")
	appPrefs := prefs.Load()
	state := app.NewState()

	win := mainwindow.New(fyneApp, state, appPrefs)

	// A session file on the command line wins over the remembered one.
	sessionPath := ""
	if len(os.Args) > 1 {
		sessionPath = os.Args[1]
	} else if last := appPrefs.String(prefs.KeyLastSession); last != "" {
		if _, err := os.Stat(last); err == nil {
			sessionPath = last
		}
	}
	if sessionPath != "" {
		if err := state.LoadSession(sessionPath); err != nil {
			log.Printf("session: cannot load %s: %v", sessionPath, err)
		}
	}

	watcher := app.NewImageWatcher(state.WatchedPaths, watchInterval)
	watcher.OnChange(func(path string) {
		log.Printf("image changed on disk, reloading: %s", path)
		state.ReloadImage(path)
	})
	watcher.Start()
	defer watcher.Stop()

	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		log.Printf("prefs: save failed: %v", err)
	}
}

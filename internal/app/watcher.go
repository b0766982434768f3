package app

import (
	"os"
	"sync"
	"time"
)

// ImageWatcher polls the modification times of the image files on the canvas
// and triggers a callback when one changes on disk, so an edit in an external
// tool shows up without re-adding the image. Polling keeps the watcher
// portable; the interval is coarse because scans change at human speed.
type ImageWatcher struct {
	mu       sync.Mutex
	paths    func() []string
	interval time.Duration
	modTimes map[string]time.Time
	stopCh   chan struct{}
	running  bool

	onChange func(path string) // called from the watcher goroutine
}

// NewImageWatcher creates a watcher over the paths returned by the given
// function, re-evaluated every cycle so objects added later are picked up.
func NewImageWatcher(paths func() []string, interval time.Duration) *ImageWatcher {
	return &ImageWatcher{
		paths:    paths,
		interval: interval,
		modTimes: make(map[string]time.Time),
	}
}

// OnChange sets the callback invoked when a watched file's mtime advances.
// The callback runs on the watcher goroutine; hosts must marshal to the UI
// themselves.
func (w *ImageWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins polling in a background goroutine.
func (w *ImageWatcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	go w.watchLoop(stop)
}

// Stop halts the polling goroutine.
func (w *ImageWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

func (w *ImageWatcher) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll stats every watched file and fires the callback for those whose
// mtime moved forward. A file seen for the first time just records its
// baseline; a missing file is ignored until it reappears.
func (w *ImageWatcher) poll() {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	for _, path := range w.paths() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		w.mu.Lock()
		prev, seen := w.modTimes[path]
		w.modTimes[path] = info.ModTime()
		w.mu.Unlock()

		if seen && info.ModTime().After(prev) && callback != nil {
			callback(path)
		}
	}
}

// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"aurora-compare/internal/app"
	"aurora-compare/internal/session"
	"aurora-compare/internal/source"
	"aurora-compare/internal/version"
	"aurora-compare/ui/canvas"
	"aurora-compare/ui/panels"
	"aurora-compare/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	canvas      *canvas.CompareCanvas
	objects     *panels.ObjectsPanel
	annotations *panels.AnnotationPanel

	zoomLabel    *widget.Label
	sessionLabel *widget.Label
}

// New creates the main window over the application state.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Aurora Compare")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreWindowSize()

	win.SetCloseIntercept(mw.confirmThen(func() {
		mw.saveWindowSize()
		win.Close()
	}))
	return mw
}

// setupUI builds the canvas, side panels, toolbar, and status bar.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state, mw.prefs.GestureConfig())
	mw.canvas.SetRotationSnap(mw.prefs.Bool(prefs.KeyRotationSnap, false))

	mw.zoomLabel = widget.NewLabel("100%")
	mw.sessionLabel = widget.NewLabel("untitled")
	mw.canvas.OnStatus(func(text string) {
		mw.zoomLabel.SetText(text)
	})
	mw.canvas.OnAnnotate(mw.promptAnnotation)

	mw.objects = panels.NewObjectsPanel(mw.state, func(id string) {
		mw.state.FitObject(id)
		mw.canvas.Refresh()
	})
	mw.annotations = panels.NewAnnotationPanel(mw.state)

	side := container.NewAppTabs(
		container.NewTabItem("Objects", mw.objects),
		container.NewTabItem("Notes", mw.annotations),
	)

	statusBar := container.NewHBox(mw.sessionLabel, widget.NewSeparator(), mw.zoomLabel)
	split := container.NewHSplit(mw.canvas, side)
	split.Offset = 0.78

	content := container.NewBorder(mw.createToolbar(), statusBar, nil, nil, split)
	mw.SetContent(content)
}

// createToolbar builds the top toolbar.
func (mw *MainWindow) createToolbar() *widget.Toolbar {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), mw.addImages),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), mw.canvas.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), mw.canvas.ZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), mw.canvas.FitAll),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.CheckButtonIcon(), mw.canvas.EnableSelectMode),
	)
}

// setupMenus builds the menu bar.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Session", mw.confirmThen(mw.newSession)),
		fyne.NewMenuItem("Open Session...", mw.confirmThen(mw.openSession)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.saveSession),
		fyne.NewMenuItem("Save As...", mw.saveSessionAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Images...", mw.addImages),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Select All", func() {
			mw.state.SetSelection(mw.state.Scene.Order()...)
		}),
		fyne.NewMenuItem("Clear Selection", mw.state.ClearSelection),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", func() {
			mw.state.RemoveSelection()
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Actual Size", mw.canvas.ResetZoom),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Fit Everything", mw.canvas.FitAll),
		fyne.NewMenuItem("Fit Selection", mw.canvas.FitSelection),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Rotation Snap", func() {
			on := !mw.canvas.RotationSnap()
			mw.canvas.SetRotationSnap(on)
			mw.prefs.SetBool(prefs.KeyRotationSnap, on)
		}),
	)

	arrangeMenu := fyne.NewMenu("Arrange",
		fyne.NewMenuItem("Bring to Front", mw.forSelection(mw.state.BringToFront)),
		fyne.NewMenuItem("Send to Back", mw.forSelection(mw.state.SendToBack)),
		fyne.NewMenuItem("Move Up", mw.forSelection(mw.state.MoveUp)),
		fyne.NewMenuItem("Move Down", mw.forSelection(mw.state.MoveDown)),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Aurora Compare",
				fmt.Sprintf("Aurora Compare %s\nSide-by-side image comparison", version.Version),
				mw.Window)
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, arrangeMenu, helpMenu))
}

// forSelection applies fn to every selected object.
func (mw *MainWindow) forSelection(fn func(id string)) func() {
	return func() {
		for _, id := range mw.state.Scene.Selection() {
			fn(id)
		}
	}
}

// setupEventHandlers keeps the status bar in sync with the model.
func (mw *MainWindow) setupEventHandlers() {
	update := func(interface{}) { mw.updateTitle() }
	mw.state.On(app.EventModified, update)
	mw.state.On(app.EventSessionLoaded, update)
	mw.state.On(app.EventSessionSaved, update)
	mw.updateTitle()
}

func (mw *MainWindow) updateTitle() {
	name := mw.state.SessionName
	if name == "" {
		name = "untitled"
	}
	if mw.state.Modified {
		name += " *"
	}
	mw.sessionLabel.SetText(name)
	mw.SetTitle("Aurora Compare - " + name)
}

// confirmThen runs fn, first asking about unsaved changes if any.
func (mw *MainWindow) confirmThen(fn func()) func() {
	return func() {
		if !mw.state.Modified {
			fn()
			return
		}
		dialog.ShowConfirm("Unsaved Changes",
			"The session has unsaved changes. Discard them?",
			func(ok bool) {
				if ok {
					fn()
				}
			}, mw.Window)
	}
}

func (mw *MainWindow) newSession() {
	mw.state.NewSession()
}

// addImages opens the file picker and places the chosen image on the canvas.
func (mw *MainWindow) addImages() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		mw.state.AddImages([]string{path})
		mw.canvas.FitAll()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(source.SupportedFormats()))
	mw.setStartDir(fd)
	fd.Show()
}

func (mw *MainWindow) openSession() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if err := mw.state.LoadSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		mw.prefs.SetString(prefs.KeyLastSession, path)
		mw.canvas.Refresh()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{session.Extension}))
	mw.setStartDir(fd)
	fd.Show()
}

func (mw *MainWindow) saveSession() {
	if mw.state.SessionPath == "" {
		mw.saveSessionAs()
		return
	}
	if err := mw.state.SaveSession(mw.state.SessionPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) saveSessionAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()

		if filepath.Ext(path) == "" {
			path += session.Extension
		}
		if err := mw.state.SaveSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		mw.prefs.SetString(prefs.KeyLastSession, path)
	}, mw.Window)
	fd.SetFileName("comparison" + session.Extension)
	mw.setStartDir(fd)
	fd.Show()
}

// promptAnnotation asks for note text after a right-click placement.
func (mw *MainWindow) promptAnnotation(imageID string, xPct, yPct float64) {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("What stands out here?")

	dialog.ShowForm("Add Note", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Note", entry)},
		func(ok bool) {
			if !ok {
				mw.state.Notes.CancelPending()
				mw.canvas.Refresh()
				return
			}
			if a := mw.state.Notes.CommitPending(entry.Text); a != nil {
				mw.state.SetModified(true)
				mw.state.Emit(app.EventAnnotationsChanged, a.ID)
			}
			mw.canvas.Refresh()
		}, mw.Window)
}

// setStartDir points a file dialog at the last used directory.
func (mw *MainWindow) setStartDir(fd *dialog.FileDialog) {
	dir := mw.prefs.String(prefs.KeyLastDir)
	if dir == "" {
		return
	}
	uri, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		log.Printf("prefs: cannot open last directory %s: %v", dir, err)
		return
	}
	fd.SetLocation(uri)
}

func (mw *MainWindow) restoreWindowSize() {
	w := float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1400))
	h := float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 900))
	mw.Resize(fyne.NewSize(w, h))
}

func (mw *MainWindow) saveWindowSize() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("prefs: save failed: %v", err)
	}
}

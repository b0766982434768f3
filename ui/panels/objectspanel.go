// Package panels provides the side panel widgets: the object list and the
// annotation editor.
package panels

import (
	"fmt"
	"path/filepath"

	"aurora-compare/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ObjectsPanel lists the scene's objects top-first with stacking and
// framing controls.
type ObjectsPanel struct {
	widget.BaseWidget

	state *app.State
	list  *widget.List
	ids   []string // list row -> object id, front first

	// onFit asks the canvas to frame an object.
	onFit func(id string)
}

// NewObjectsPanel creates the object list panel.
func NewObjectsPanel(state *app.State, onFit func(id string)) *ObjectsPanel {
	p := &ObjectsPanel{state: state, onFit: onFit}

	p.list = widget.NewList(
		func() int { return len(p.ids) },
		func() fyne.CanvasObject {
			return widget.NewLabel("object")
		},
		func(i widget.ListItemID, item fyne.CanvasObject) {
			if i < 0 || i >= len(p.ids) {
				return
			}
			obj := state.Scene.Get(p.ids[i])
			if obj == nil {
				return
			}
			label := item.(*widget.Label)
			label.SetText(fmt.Sprintf("%s  (%.0fx%.0f)", filepath.Base(obj.Path), obj.Width, obj.Height))
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && i < len(p.ids) {
			state.SelectOnly(p.ids[i])
		}
	}

	refresh := func(interface{}) { p.reload() }
	state.On(app.EventObjectAdded, refresh)
	state.On(app.EventObjectRemoved, refresh)
	state.On(app.EventOrderChanged, refresh)
	state.On(app.EventSessionLoaded, refresh)
	state.On(app.EventSelectionChanged, func(interface{}) { p.syncSelection() })

	p.reload()
	p.ExtendBaseWidget(p)
	return p
}

// reload rebuilds the row mapping from the scene's draw order, front first.
func (p *ObjectsPanel) reload() {
	order := p.state.Scene.Order()
	p.ids = p.ids[:0]
	for i := len(order) - 1; i >= 0; i-- {
		p.ids = append(p.ids, order[i])
	}
	p.list.Refresh()
}

// syncSelection mirrors a single canvas selection into the list.
func (p *ObjectsPanel) syncSelection() {
	sel := p.state.Scene.Selection()
	if len(sel) != 1 {
		p.list.UnselectAll()
		return
	}
	for i, id := range p.ids {
		if id == sel[0] {
			p.list.Select(i)
			return
		}
	}
}

// selectedID returns the id of the selected object when exactly one is
// selected.
func (p *ObjectsPanel) selectedID() string {
	sel := p.state.Scene.Selection()
	if len(sel) == 1 {
		return sel[0]
	}
	return ""
}

// CreateRenderer implements fyne.Widget.
func (p *ObjectsPanel) CreateRenderer() fyne.WidgetRenderer {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MoveUpIcon(), func() {
			if id := p.selectedID(); id != "" {
				p.state.MoveUp(id)
			}
		}),
		widget.NewToolbarAction(theme.MoveDownIcon(), func() {
			if id := p.selectedID(); id != "" {
				p.state.MoveDown(id)
			}
		}),
		widget.NewToolbarAction(theme.UploadIcon(), func() {
			if id := p.selectedID(); id != "" {
				p.state.BringToFront(id)
			}
		}),
		widget.NewToolbarAction(theme.DownloadIcon(), func() {
			if id := p.selectedID(); id != "" {
				p.state.SendToBack(id)
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() {
			if id := p.selectedID(); id != "" && p.onFit != nil {
				p.onFit(id)
			}
		}),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if id := p.selectedID(); id != "" {
				p.state.RemoveObject(id)
			}
		}),
	)

	content := container.NewBorder(toolbar, nil, nil, nil, p.list)
	return widget.NewSimpleRenderer(content)
}

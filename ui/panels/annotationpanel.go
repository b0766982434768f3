package panels

import (
	"fmt"

	"aurora-compare/internal/annotation"
	"aurora-compare/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// AnnotationPanel lists the notes on the selected object and edits their
// text.
type AnnotationPanel struct {
	widget.BaseWidget

	state  *app.State
	editor *annotation.Editor

	list  *widget.List
	notes []*annotation.Annotation
	entry *widget.Entry
}

// NewAnnotationPanel creates the annotation editor panel.
func NewAnnotationPanel(state *app.State) *AnnotationPanel {
	p := &AnnotationPanel{
		state:  state,
		editor: annotation.NewEditor(),
	}

	p.entry = widget.NewMultiLineEntry()
	p.entry.SetPlaceHolder("Note text")
	p.entry.Disable()

	p.list = widget.NewList(
		func() int { return len(p.notes) },
		func() fyne.CanvasObject {
			return widget.NewLabel("note")
		},
		func(i widget.ListItemID, item fyne.CanvasObject) {
			if i < 0 || i >= len(p.notes) {
				return
			}
			a := p.notes[i]
			item.(*widget.Label).SetText(fmt.Sprintf("(%.0f%%, %.0f%%)  %s", a.XPercent, a.YPercent, a.Text))
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		if i < 0 || i >= len(p.notes) {
			return
		}
		a := p.notes[i]
		p.editor.Click(a.ID)
		p.editor.StartEdit(a.ID)
		p.entry.Enable()
		p.entry.SetText(a.Text)
	}
	p.list.OnUnselected = func(widget.ListItemID) {
		p.editor.FinishEdit()
		p.editor.Dismiss()
		p.entry.Disable()
	}

	refresh := func(interface{}) { p.reload() }
	state.On(app.EventAnnotationsChanged, refresh)
	state.On(app.EventSelectionChanged, refresh)
	state.On(app.EventSessionLoaded, refresh)

	p.reload()
	p.ExtendBaseWidget(p)
	return p
}

// reload shows the notes for the selected object, or every note when
// nothing is selected.
func (p *AnnotationPanel) reload() {
	sel := p.state.Scene.Selection()
	if len(sel) == 1 {
		p.notes = p.state.Notes.ForImage(sel[0])
	} else {
		p.notes = p.state.Notes.All()
	}
	p.list.Refresh()
}

// saveEdit commits the entry text to the note being edited.
func (p *AnnotationPanel) saveEdit() {
	if p.editor.State() != annotation.StateEditing {
		return
	}
	id := p.editor.Active()
	p.editor.FinishEdit()
	p.state.EditAnnotation(id, p.entry.Text)
}

// deleteSelected removes the note being edited.
func (p *AnnotationPanel) deleteSelected() {
	id := p.editor.Active()
	if id == "" {
		return
	}
	p.editor.FinishEdit()
	p.editor.Dismiss()
	p.entry.SetText("")
	p.entry.Disable()
	p.state.RemoveAnnotation(id)
}

// CreateRenderer implements fyne.Widget.
func (p *AnnotationPanel) CreateRenderer() fyne.WidgetRenderer {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), p.saveEdit),
		widget.NewToolbarAction(theme.DeleteIcon(), p.deleteSelected),
	)
	content := container.NewBorder(toolbar, p.entry, nil, nil, p.list)
	return widget.NewSimpleRenderer(content)
}

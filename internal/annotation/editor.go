package annotation

// EditState is the popover lifecycle for one note.
type EditState int

const (
	// StateIdle: no popover.
	StateIdle EditState = iota
	// StateHovering: popover shown because the pointer is over the marker;
	// it closes when the pointer leaves.
	StateHovering
	// StateSticky: the marker was clicked; the popover stays open until
	// dismissed.
	StateSticky
	// StateEditing: the text field is active.
	StateEditing
)

// Editor tracks which note's popover is open and why. One popover at a
// time; hovering a second marker moves it.
type Editor struct {
	state  EditState
	active string
}

// NewEditor creates an editor in the idle state.
func NewEditor() *Editor {
	return &Editor{}
}

// State returns the current popover state.
func (e *Editor) State() EditState {
	return e.state
}

// Active returns the note id the popover belongs to, or "".
func (e *Editor) Active() string {
	return e.active
}

// Hover opens or moves the hover popover. Sticky and editing popovers are
// not stolen by a passing pointer.
func (e *Editor) Hover(id string) {
	if e.state == StateSticky || e.state == StateEditing {
		return
	}
	e.state = StateHovering
	e.active = id
}

// Leave closes a hover popover; sticky and editing survive the pointer
// leaving.
func (e *Editor) Leave() {
	if e.state == StateHovering {
		e.reset()
	}
}

// Click pins the popover open, or dismisses it when the pinned marker is
// clicked again.
func (e *Editor) Click(id string) {
	if e.state == StateSticky && e.active == id {
		e.reset()
		return
	}
	if e.state == StateEditing {
		return
	}
	e.state = StateSticky
	e.active = id
}

// Dismiss closes the popover from a click elsewhere. An active edit is kept;
// it ends only through FinishEdit.
func (e *Editor) Dismiss() {
	if e.state == StateEditing {
		return
	}
	e.reset()
}

// StartEdit activates the text field for the open popover's note.
func (e *Editor) StartEdit(id string) {
	e.state = StateEditing
	e.active = id
}

// FinishEdit ends text entry, leaving the popover pinned.
func (e *Editor) FinishEdit() {
	if e.state != StateEditing {
		return
	}
	e.state = StateSticky
}

func (e *Editor) reset() {
	e.state = StateIdle
	e.active = ""
}

// Package button forwards press and release of the discrete controls.
package button

// ID names a discrete control.
type ID int

const (
	Up ID = iota
	Down
	A
	B
)

// All lists every discrete control in display order.
var All = []ID{Up, Down, A, B}

func (id ID) String() string {
	switch id {
	case Up:
		return "up"
	case Down:
		return "down"
	case A:
		return "a"
	case B:
		return "b"
	}
	return "unknown"
}

// Button holds the active state of one control and reports every press and
// release synchronously.
type Button struct {
	id     ID
	active bool
	emit   func(active bool)
}

// New returns an inactive button. emit must not be nil.
func New(id ID, emit func(active bool)) *Button {
	return &Button{id: id, emit: emit}
}

// ID returns the control this button tracks.
func (b *Button) ID() ID {
	return b.id
}

// Active reports whether the button is held.
func (b *Button) Active() bool {
	return b.active
}

// Press marks the button active.
func (b *Button) Press() {
	b.active = true
	b.emit(true)
}

// Release marks the button inactive. Cancel is handled the same way.
func (b *Button) Release() {
	b.active = false
	b.emit(false)
}

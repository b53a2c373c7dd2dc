package stick

// Capturer claims and releases exclusive delivery of a pointer's events to a
// control region. It is implemented by whatever owns the rendered control.
type Capturer interface {
	Capture(pointerID int)
	Release(pointerID int)
}

// Session is the pointer currently dragging a joystick.
type Session struct {
	ID     int
	Active bool
}

// Tracker is the gesture state machine of a single joystick. It is idle until
// a press claims it and dragging until the same pointer is released or
// cancelled. Events from any other pointer are ignored.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	norm    *Normalizer
	capture Capturer

	session Session
	offset  Offset
	vector  Vector
}

// NewTracker returns an idle tracker. capture may be nil.
func NewTracker(norm *Normalizer, capture Capturer) *Tracker {
	return &Tracker{norm: norm, capture: capture}
}

// SetNormalizer replaces the normalizer. The current offset and vector are
// kept until the next event recomputes them.
func (t *Tracker) SetNormalizer(n *Normalizer) {
	if n != nil {
		t.norm = n
	}
}

// Session returns the current pointer session.
func (t *Tracker) Session() Session {
	return t.session
}

// Dragging is true while a pointer owns the joystick.
func (t *Tracker) Dragging() bool {
	return t.session.Active
}

// Offset is the handle displacement for the renderer.
func (t *Tracker) Offset() Offset {
	return t.offset
}

// Vector is the latest normalized direction.
func (t *Tracker) Vector() Vector {
	return t.vector
}

// Press starts a drag for pointerID. It returns false, changing nothing, if
// the control has no bounds yet or another pointer already owns the joystick.
func (t *Tracker) Press(pointerID int, pt Point, b *Bounds) bool {
	if b == nil || t.session.Active {
		return false
	}

	t.session = Session{ID: pointerID, Active: true}
	if t.capture != nil {
		t.capture.Capture(pointerID)
	}
	t.offset, t.vector = t.norm.Normalize(pt, *b)
	return true
}

// Move updates the vector if pointerID owns the joystick.
func (t *Tracker) Move(pointerID int, pt Point, b *Bounds) bool {
	if !t.owns(pointerID) || b == nil {
		return false
	}
	t.offset, t.vector = t.norm.Normalize(pt, *b)
	return true
}

// Release ends the drag owned by pointerID and returns the joystick to
// neutral.
func (t *Tracker) Release(pointerID int) bool {
	if !t.owns(pointerID) {
		return false
	}
	if t.capture != nil {
		t.capture.Release(pointerID)
	}
	t.session = Session{}
	t.offset = Offset{}
	t.vector = Vector{}
	return true
}

// Cancel is handled exactly like Release.
func (t *Tracker) Cancel(pointerID int) bool {
	return t.Release(pointerID)
}

func (t *Tracker) owns(pointerID int) bool {
	return t.session.Active && t.session.ID == pointerID
}

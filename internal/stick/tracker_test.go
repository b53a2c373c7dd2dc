package stick_test

import (
	"testing"

	"github.com/soar/touchjoy/internal/stick"
	"github.com/soar/touchjoy/internal/test"
)

type captureLog struct {
	captured []int
	released []int
}

func (c *captureLog) Capture(id int) { c.captured = append(c.captured, id) }
func (c *captureLog) Release(id int) { c.released = append(c.released, id) }

func newTracker(t *testing.T) (*stick.Tracker, *captureLog) {
	t.Helper()
	log := &captureLog{}
	return stick.NewTracker(mustNormalizer(t, stick.DefaultParams(), 1), log), log
}

func TestTrackerDrag(t *testing.T) {
	tr, log := newTracker(t)
	b := bounds

	test.ExpectFailure(t, tr.Dragging())
	test.ExpectSuccess(t, tr.Press(7, at(30, 0), &b))
	test.ExpectSuccess(t, tr.Dragging())
	test.ExpectEquality(t, tr.Session(), stick.Session{ID: 7, Active: true})
	test.ExpectApproximate(t, tr.Vector().DX, 0.6, tolerance)

	test.ExpectSuccess(t, tr.Move(7, at(0, -40), &b))
	test.ExpectApproximate(t, tr.Vector().DY, 0.8, tolerance)
	test.ExpectEquality(t, tr.Vector().DX, 0.0)
	test.ExpectApproximate(t, tr.Offset().Y, -40, tolerance)

	test.ExpectSuccess(t, tr.Release(7))
	test.ExpectFailure(t, tr.Dragging())
	test.ExpectEquality(t, tr.Vector(), stick.Vector{})
	test.ExpectEquality(t, tr.Offset(), stick.Offset{})
	test.ExpectEquality(t, tr.Session(), stick.Session{})

	test.ExpectEquality(t, len(log.captured), 1)
	test.ExpectEquality(t, len(log.released), 1)
	test.ExpectEquality(t, log.released[0], 7)
}

func TestTrackerForeignPointer(t *testing.T) {
	tr, log := newTracker(t)
	b := bounds

	tr.Press(1, at(-45, 0), &b)
	before := tr.Vector()

	// a second finger can neither steal, move nor release the joystick
	test.ExpectFailure(t, tr.Press(2, at(0, 45), &b))
	test.ExpectFailure(t, tr.Move(2, at(0, 45), &b))
	test.ExpectFailure(t, tr.Release(2))
	test.ExpectFailure(t, tr.Cancel(2))

	test.ExpectEquality(t, tr.Vector(), before)
	test.ExpectEquality(t, tr.Session().ID, 1)
	test.ExpectEquality(t, len(log.captured), 1)
	test.ExpectEquality(t, len(log.released), 0)
}

func TestTrackerIdleEvents(t *testing.T) {
	tr, _ := newTracker(t)
	b := bounds

	test.ExpectFailure(t, tr.Move(1, at(20, 20), &b))
	test.ExpectFailure(t, tr.Release(1))
	test.ExpectEquality(t, tr.Vector(), stick.Vector{})
}

func TestTrackerUnmounted(t *testing.T) {
	tr, log := newTracker(t)

	test.ExpectFailure(t, tr.Press(1, at(30, 0), nil))
	test.ExpectFailure(t, tr.Dragging())
	test.ExpectEquality(t, len(log.captured), 0)

	// once mounted the next press succeeds
	b := bounds
	test.ExpectSuccess(t, tr.Press(1, at(30, 0), &b))

	// a move without geometry keeps the last vector
	test.ExpectFailure(t, tr.Move(1, at(0, 0), nil))
	test.ExpectApproximate(t, tr.Vector().DX, 0.6, tolerance)
}

func TestTrackerCancel(t *testing.T) {
	tr, log := newTracker(t)
	b := bounds

	tr.Press(3, at(50, 50), &b)
	test.ExpectSuccess(t, tr.Vector().Moving())
	test.ExpectSuccess(t, tr.Cancel(3))
	test.ExpectEquality(t, tr.Vector(), stick.Vector{})
	test.ExpectEquality(t, log.released[0], 3)

	// the joystick is free again
	test.ExpectSuccess(t, tr.Press(4, at(10, 10), &b))
}

func TestTrackerGeometryPerEvent(t *testing.T) {
	tr, _ := newTracker(t)
	b := bounds

	tr.Press(1, at(30, 0), &b)

	// the control moved 30px to the right mid-drag: same pointer, now centered
	moved := stick.Bounds{Left: b.Left + 30, Top: b.Top, Width: b.Width, Height: b.Height}
	tr.Move(1, at(30, 0), &moved)
	test.ExpectEquality(t, tr.Vector(), stick.Vector{})
}

func TestTrackerRescale(t *testing.T) {
	tr, _ := newTracker(t)
	b := bounds

	tr.Press(1, at(30, 0), &b)
	tr.SetNormalizer(mustNormalizer(t, stick.DefaultParams(), 2))
	tr.Move(1, at(30, 0), &b)
	test.ExpectApproximate(t, tr.Vector().DX, 0.3, tolerance)

	// nil is ignored
	tr.SetNormalizer(nil)
	tr.Move(1, at(30, 0), &b)
	test.ExpectApproximate(t, tr.Vector().DX, 0.3, tolerance)
}

package gamepad

import (
	"sync"
	"time"

	"github.com/soar/touchjoy/internal/button"
	"github.com/soar/touchjoy/internal/meter"
)

// Stick selects one of the two joysticks.
type Stick int

const (
	LeftStick Stick = iota
	RightStick
)

// Recorder keeps the pad state of one player up to date from control surface
// callbacks and publishes a snapshot after every change.
type Recorder struct {
	state   PadState
	meters  [2]*meter.Frequency
	now     func() time.Time
	changes chan<- PadState
	mu      sync.Mutex
}

// NewRecorder returns a recorder for playerIndex publishing to changes. window
// is the number of emissions the stick rate is averaged over.
func NewRecorder(playerIndex int, window int, changes chan<- PadState) *Recorder {
	return &Recorder{
		state:   PadState{PlayerIndex: playerIndex},
		meters:  [2]*meter.Frequency{meter.NewFrequency(window), meter.NewFrequency(window)},
		now:     time.Now,
		changes: changes,
	}
}

// SetNowFunc overrides the clock used by the rate meters.
func (r *Recorder) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		r.now = fn
	}
}

// State returns a snapshot of the current state.
func (r *Recorder) State() PadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetConnected marks the player's touch surface as attached or gone. A
// disconnect returns everything to neutral.
func (r *Recorder) SetConnected(connected bool) {
	r.update(func(s *PadState) {
		if !connected {
			*s = PadState{PlayerIndex: s.PlayerIndex}
			r.meters[LeftStick].Reset()
			r.meters[RightStick].Reset()
			return
		}
		s.Connected = true
	})
}

// SetStick records an emitted joystick sample.
func (r *Recorder) SetStick(which Stick, dx, dy float64) {
	r.update(func(s *PadState) {
		st := r.stick(s, which)
		st.Position = Vector{X: dx, Y: dy}
		st.RateHz = r.meters[which].Trigger(r.now())
	})
}

// SetHandle records the rendered handle offset of a joystick.
func (r *Recorder) SetHandle(which Stick, x, y float64) {
	r.update(func(s *PadState) {
		r.stick(s, which).Handle = Vector{X: x, Y: y}
	})
}

// SetButton records a button transition.
func (r *Recorder) SetButton(id button.ID, active bool) {
	r.update(func(s *PadState) {
		switch id {
		case button.Up:
			s.Buttons.Up = active
		case button.Down:
			s.Buttons.Down = active
		case button.A:
			s.Buttons.A = active
		case button.B:
			s.Buttons.B = active
		}
	})
}

// SetVisible records the activity flag of the surface.
func (r *Recorder) SetVisible(visible bool) {
	r.update(func(s *PadState) {
		s.Visible = visible
	})
}

func (r *Recorder) stick(s *PadState, which Stick) *StickState {
	if which == RightStick {
		return &s.Sticks.Right
	}
	return &s.Sticks.Left
}

func (r *Recorder) update(fn func(*PadState)) {
	r.mu.Lock()
	fn(&r.state)
	s := r.state
	r.mu.Unlock()

	r.emitState(s)
}

func (r *Recorder) emitState(s PadState) {
	select {
	case r.changes <- s:
	default:
		// Drop if channel is full to avoid blocking the surface loop
	}
}

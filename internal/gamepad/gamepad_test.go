package gamepad_test

import (
	"testing"
	"time"

	"github.com/soar/touchjoy/internal/button"
	"github.com/soar/touchjoy/internal/gamepad"
	"github.com/soar/touchjoy/internal/test"
)

func TestComputeDelta(t *testing.T) {
	var a gamepad.PadState
	b := a

	test.ExpectSuccess(t, gamepad.ComputeDelta(a, b).IsEmpty())

	b.Connected = true
	b.Buttons.A = true
	d := gamepad.ComputeDelta(a, b)
	test.ExpectFailure(t, d.IsEmpty())
	test.ExpectSuccess(t, d.Connected != nil && *d.Connected)
	test.ExpectSuccess(t, d.Buttons != nil && d.Buttons.A)
	test.ExpectSuccess(t, d.Sticks == nil)
	test.ExpectSuccess(t, d.Visible == nil)

	// jitter below the threshold is not a change
	a = b
	a.Sticks.Left.Position = gamepad.Vector{X: 0.5}
	b = a
	b.Sticks.Left.Position = gamepad.Vector{X: 0.505}
	b.Sticks.Left.RateHz = 30
	test.ExpectSuccess(t, gamepad.ComputeDelta(a, b).IsEmpty())

	// but returning to rest always is
	a.Sticks.Right.Position = gamepad.Vector{Y: 0.005}
	b = a
	b.Sticks.Right.Position = gamepad.Vector{}
	d = gamepad.ComputeDelta(a, b)
	test.ExpectSuccess(t, d.Sticks != nil)
}

func TestRecorder(t *testing.T) {
	changes := make(chan gamepad.PadState, 16)
	r := gamepad.NewRecorder(2, 4, changes)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.SetNowFunc(func() time.Time { return now })

	r.SetConnected(true)
	s := <-changes
	test.ExpectEquality(t, s.PlayerIndex, 2)
	test.ExpectSuccess(t, s.Connected)

	r.SetStick(gamepad.LeftStick, 0, 0.8)
	now = now.Add(100 * time.Millisecond)
	r.SetStick(gamepad.LeftStick, 0.1, 0.7)
	<-changes
	s = <-changes
	test.ExpectEquality(t, s.Sticks.Left.Position, gamepad.Vector{X: 0.1, Y: 0.7})
	test.ExpectApproximate(t, s.Sticks.Left.RateHz, 10, 1e-9)
	test.ExpectEquality(t, s.Sticks.Right, gamepad.StickState{})

	r.SetHandle(gamepad.RightStick, 12, -4)
	s = <-changes
	test.ExpectEquality(t, s.Sticks.Right.Handle, gamepad.Vector{X: 12, Y: -4})

	r.SetButton(button.Down, true)
	r.SetVisible(true)
	<-changes
	s = <-changes
	test.ExpectSuccess(t, s.Buttons.Down)
	test.ExpectSuccess(t, s.Visible)

	r.SetConnected(false)
	s = <-changes
	test.ExpectEquality(t, s, gamepad.PadState{PlayerIndex: 2})
	test.ExpectEquality(t, r.State(), s)
}

func TestRecorderDropsWhenFull(t *testing.T) {
	changes := make(chan gamepad.PadState, 1)
	r := gamepad.NewRecorder(1, 0, changes)

	// must not block
	r.SetButton(button.A, true)
	r.SetButton(button.B, true)
	r.SetButton(button.Up, true)

	test.ExpectEquality(t, len(changes), 1)
	test.ExpectSuccess(t, r.State().Buttons.Up)
}

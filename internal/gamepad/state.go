// Package gamepad holds the pad state produced by a touch control surface and
// the changes between two states.
package gamepad

import "math"

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type StickState struct {
	Position Vector  `json:"position"` // normalized, y up
	Handle   Vector  `json:"handle"`   // handle offset in px, y down
	RateHz   float64 `json:"rateHz"`   // measured emission rate
}

type ButtonState struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
	A    bool `json:"a"`
	B    bool `json:"b"`
}

type SticksState struct {
	Left  StickState `json:"left"`
	Right StickState `json:"right"`
}

type PadState struct {
	PlayerIndex int         `json:"playerIndex"`
	Connected   bool        `json:"connected"`
	Visible     bool        `json:"visible"`
	Buttons     ButtonState `json:"buttons"`
	Sticks      SticksState `json:"sticks"`
}

type DeltaChanges struct {
	Connected *bool        `json:"connected,omitempty"`
	Visible   *bool        `json:"visible,omitempty"`
	Buttons   *ButtonState `json:"buttons,omitempty"`
	Sticks    *SticksState `json:"sticks,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.Visible == nil &&
		d.Buttons == nil &&
		d.Sticks == nil
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func vectorEqual(a, b Vector) bool {
	return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y)
}

// stickEqual ignores the measured rate, which changes on every emission.
// Positions that return to exactly zero always count as a change so that a
// release is never swallowed by the threshold.
func stickEqual(a, b StickState) bool {
	if (a.Position == Vector{}) != (b.Position == Vector{}) {
		return false
	}
	return vectorEqual(a.Position, b.Position) && vectorEqual(a.Handle, b.Handle)
}

func ComputeDelta(old, new_ PadState) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.Visible != new_.Visible {
		d.Visible = &new_.Visible
	}
	if old.Buttons != new_.Buttons {
		d.Buttons = &new_.Buttons
	}
	if !stickEqual(old.Sticks.Left, new_.Sticks.Left) || !stickEqual(old.Sticks.Right, new_.Sticks.Right) {
		d.Sticks = &new_.Sticks
	}

	return d
}

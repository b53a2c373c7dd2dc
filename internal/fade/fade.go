// Package fade tracks whether the control surface has been used recently.
package fade

import "time"

// DefaultDelay is how long the surface stays visible after the last release.
const DefaultDelay = 3 * time.Second

// Tracker is either active or fading towards a deadline. It starts hidden.
// Only the latest scheduled deadline counts.
type Tracker struct {
	delay    time.Duration
	visible  bool
	pending  bool
	deadline time.Time
}

// New returns a hidden tracker. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Tracker {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Tracker{delay: delay}
}

// Delay returns the idle time before the surface fades.
func (t *Tracker) Delay() time.Duration {
	return t.delay
}

// Visible reports the current visibility flag.
func (t *Tracker) Visible() bool {
	return t.visible
}

// Pending is true while a fade is scheduled.
func (t *Tracker) Pending() bool {
	return t.pending
}

// Activate marks the surface visible and cancels any pending fade. It
// returns true if visibility changed.
func (t *Tracker) Activate() bool {
	t.pending = false
	if t.visible {
		return false
	}
	t.visible = true
	return true
}

// Schedule starts the fade countdown from now, replacing any earlier one,
// and returns the new deadline.
func (t *Tracker) Schedule(now time.Time) time.Time {
	t.pending = true
	t.deadline = now.Add(t.delay)
	return t.deadline
}

// Expire hides the surface if the pending deadline has passed. It returns
// true if visibility changed.
func (t *Tracker) Expire(now time.Time) bool {
	if !t.pending || now.Before(t.deadline) {
		return false
	}
	t.pending = false
	if !t.visible {
		return false
	}
	t.visible = false
	return true
}

// Package meter estimates how often an event occurs.
package meter

import "time"

// DefaultWindow is the number of recent events averaged over.
const DefaultWindow = 20

// Frequency measures the rate of triggered events in Hz by averaging the
// intervals between the most recent events.
type Frequency struct {
	window int
	stamps []time.Time
	hz     float64
}

// NewFrequency returns a meter over the last window events. A window below 2
// uses DefaultWindow.
func NewFrequency(window int) *Frequency {
	if window < 2 {
		window = DefaultWindow
	}
	return &Frequency{window: window, stamps: make([]time.Time, 0, window)}
}

// Trigger records an event at now and returns the updated estimate.
func (f *Frequency) Trigger(now time.Time) float64 {
	if len(f.stamps) == f.window {
		copy(f.stamps, f.stamps[1:])
		f.stamps = f.stamps[:f.window-1]
	}
	f.stamps = append(f.stamps, now)

	if len(f.stamps) < 2 {
		return f.hz
	}

	// the mean of consecutive intervals is the total span over their count
	span := f.stamps[len(f.stamps)-1].Sub(f.stamps[0])
	if span <= 0 {
		return f.hz
	}
	avg := span.Seconds() / float64(len(f.stamps)-1)
	f.hz = 1 / avg
	return f.hz
}

// Hz is the latest estimate.
func (f *Frequency) Hz() float64 {
	return f.hz
}

// Reset forgets all recorded events.
func (f *Frequency) Reset() {
	f.stamps = f.stamps[:0]
	f.hz = 0
}

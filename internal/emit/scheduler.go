// Package emit samples joystick vectors at a bounded rate and forwards them to
// the host, independently of how often pointer events arrive.
package emit

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soar/touchjoy/internal/stick"
)

// ErrRate is returned for a rate that is negative or not a number.
var ErrRate = errors.New("invalid joystick rate")

// DefaultRateHz is the sampling rate used when nothing is configured.
const DefaultRateHz = 30

// tickSlack absorbs scheduling jitter between ticks so that a 60Hz tick
// source reliably produces 30Hz samples.
const tickSlack = 2 * time.Millisecond

// Policy decides which samples reach the host.
type Policy int

const (
	// Always emits every sample, including repeated neutral ones.
	Always Policy = iota
	// OnChange emits while the joystick is moving plus a single neutral sample
	// when it comes to rest.
	OnChange
)

func (p Policy) String() string {
	switch p {
	case Always:
		return "always"
	case OnChange:
		return "on_change"
	}
	return "unknown"
}

// ParsePolicy returns the policy named by s.
func ParsePolicy(s string) (Policy, bool) {
	switch strings.ToLower(s) {
	case "always":
		return Always, true
	case "on_change", "onchange":
		return OnChange, true
	}
	return 0, false
}

// Source reads the current vector of a joystick.
type Source func() stick.Vector

// Sink receives emitted samples.
type Sink func(dx, dy float64)

// Channel is the emission state of one joystick.
type Channel struct {
	source Source
	sink   Sink

	wasActive bool
	last      time.Time
	sampled   bool
}

// Scheduler owns one Channel per joystick. Tick must be called from a single
// goroutine.
type Scheduler struct {
	policy   Policy
	interval time.Duration
	channels []*Channel
	stopped  bool
}

// NewScheduler returns a scheduler for the policy. A rateHz of 0 samples on
// every tick.
func NewScheduler(policy Policy, rateHz float64) (*Scheduler, error) {
	if math.IsNaN(rateHz) || math.IsInf(rateHz, 0) || rateHz < 0 {
		return nil, errors.Wrapf(ErrRate, "%v Hz", rateHz)
	}
	switch policy {
	case Always, OnChange:
	default:
		return nil, errors.Errorf("unknown emission policy %d", policy)
	}

	s := &Scheduler{policy: policy}
	if rateHz > 0 {
		interval := float64(time.Second) / rateHz
		if interval >= math.MaxInt64 {
			return nil, errors.Wrapf(ErrRate, "%v Hz is below the slowest representable rate", rateHz)
		}
		s.interval = time.Duration(interval)
	}
	return s, nil
}

// Interval is the minimum time between two samples of a channel. Zero means
// uncapped.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Policy returns the emission policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Add registers a joystick.
func (s *Scheduler) Add(source Source, sink Sink) *Channel {
	c := &Channel{source: source, sink: sink}
	s.channels = append(s.channels, c)
	return c
}

// Empty is true when no joystick is registered. An empty scheduler never
// needs a tick source.
func (s *Scheduler) Empty() bool {
	return len(s.channels) == 0
}

// Stop prevents any further emission.
func (s *Scheduler) Stop() {
	s.stopped = true
}

// Stopped is true after Stop.
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

// Tick samples every channel that is due at now.
func (s *Scheduler) Tick(now time.Time) {
	if s.stopped {
		return
	}
	for _, c := range s.channels {
		if !c.due(now, s.interval) {
			continue
		}
		c.last = now
		c.sampled = true
		c.sample(s.policy)
	}
}

func (c *Channel) due(now time.Time, interval time.Duration) bool {
	if interval == 0 || !c.sampled {
		return true
	}
	return now.Sub(c.last) >= interval-tickSlack
}

func (c *Channel) sample(policy Policy) {
	v := c.source()

	if policy == Always {
		c.sink(v.DX, v.DY)
		return
	}

	switch {
	case v.Moving():
		c.wasActive = true
		c.sink(v.DX, v.DY)
	case c.wasActive:
		c.wasActive = false
		c.sink(0, 0)
	}
}

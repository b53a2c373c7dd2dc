package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called. Tickers and timers
// created from it fire synchronously inside Advance. Like the time package,
// a tick is dropped if the previous one has not been received yet.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
	timers  []*manualTimer
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing any ticker or timer that falls
// due on the way.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.now.Add(d)
	for {
		next, fire := m.nextDue(target)
		if fire == nil {
			break
		}
		m.now = next
		fire()
	}
	m.now = target
}

// nextDue finds the earliest pending deadline that is not after target.
func (m *Manual) nextDue(target time.Time) (time.Time, func()) {
	var (
		when time.Time
		fire func()
	)

	for _, t := range m.tickers {
		if t.stopped || t.next.After(target) {
			continue
		}
		if fire == nil || t.next.Before(when) {
			t := t
			when = t.next
			fire = func() {
				send(t.c, t.next)
				t.next = t.next.Add(t.period)
			}
		}
	}

	for _, t := range m.timers {
		if !t.armed || t.deadline.After(target) {
			continue
		}
		if fire == nil || t.deadline.Before(when) {
			t := t
			when = t.deadline
			fire = func() {
				t.armed = false
				send(t.c, t.deadline)
			}
		}
	}

	return when, fire
}

func send(c chan time.Time, v time.Time) {
	select {
	case c <- v:
	default:
	}
}

func (m *Manual) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		clock:  m,
		c:      make(chan time.Time, 1),
		period: d,
		next:   m.now.Add(d),
	}
	m.tickers = append(m.tickers, t)
	return t
}

func (m *Manual) NewTimer(d time.Duration) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{
		clock:    m,
		c:        make(chan time.Time, 1),
		deadline: m.now.Add(d),
		armed:    true,
	}
	m.timers = append(m.timers, t)
	return t
}

type manualTicker struct {
	clock   *Manual
	c       chan time.Time
	period  time.Duration
	next    time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

type manualTimer struct {
	clock    *Manual
	c        chan time.Time
	deadline time.Time
	armed    bool
}

func (t *manualTimer) C() <-chan time.Time { return t.c }

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.armed
	t.armed = false
	return was
}

func (t *manualTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.armed
	t.armed = true
	t.deadline = t.clock.now.Add(d)
	return was
}

// Package surface assembles joysticks, buttons, the emission scheduler and the
// activity fade into one on-screen control surface.
//
// All state is owned by a single goroutine. Run serializes pointer events,
// emission ticks and fade deadlines onto it. Dispatch, Tick, ExpireFade and
// SetScale are exposed for callers that drive the surface themselves, such as
// tests with a manual clock, and must not be called concurrently with Run.
package surface

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/soar/touchjoy/internal/button"
	"github.com/soar/touchjoy/internal/clock"
	"github.com/soar/touchjoy/internal/emit"
	"github.com/soar/touchjoy/internal/fade"
	"github.com/soar/touchjoy/internal/stick"
)

// ErrConfig is returned by New for unusable settings.
var ErrConfig = errors.New("invalid surface configuration")

const eventQueue = 64

// Config holds the numeric settings of a surface.
type Config struct {
	Stick  stick.Params
	Scale  float64
	RateHz float64
	Policy emit.Policy

	// TickInterval is the period of the emission tick, normally one display
	// frame. RateHz further limits how often samples reach the host.
	TickInterval time.Duration
	FadeDelay    time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Stick:        stick.DefaultParams(),
		Scale:        1,
		RateHz:       emit.DefaultRateHz,
		Policy:       emit.OnChange,
		TickInterval: time.Second / 60,
		FadeDelay:    fade.DefaultDelay,
	}
}

// Callbacks connect the surface to the host. A nil joystick or button
// callback removes that control from the surface entirely.
type Callbacks struct {
	OnLeftJoystickMove  func(dx, dy float64)
	OnRightJoystickMove func(dx, dy float64)
	OnUp                func(active bool)
	OnDown              func(active bool)
	OnButtonA           func(active bool)
	OnButtonB           func(active bool)

	// OnHandle reports the handle offset of a joystick for rendering.
	OnHandle func(r Region, off stick.Offset)
	// OnVisibility reports changes of the activity flag.
	OnVisibility func(visible bool)
}

// Capturer claims and releases pointer capture on a rendered region.
type Capturer interface {
	Capture(r Region, pointerID int)
	Release(r Region, pointerID int)
}

// Option configures a Surface.
type Option func(*Surface)

// WithClock replaces the real clock.
func WithClock(c clock.Clock) Option {
	return func(s *Surface) {
		s.clock = c
	}
}

// WithCapturer delegates pointer capture.
func WithCapturer(c Capturer) Option {
	return func(s *Surface) {
		s.capture = c
	}
}

// Surface is a dual joystick and button control surface.
type Surface struct {
	cfg     Config
	cb      Callbacks
	clock   clock.Clock
	capture Capturer

	sticks  map[Region]*stick.Tracker
	buttons map[Region]*button.Button
	sched   *emit.Scheduler
	fade    *fade.Tracker

	fadeTimer clock.Timer

	events  chan Event
	scales  chan *stick.Normalizer
	done    chan struct{}
	stopped bool
}

// New validates cfg and builds a surface with a region for every callback
// that is set. Errors wrap ErrConfig, stick.ErrConfig or emit.ErrRate.
func New(cfg Config, cb Callbacks, opts ...Option) (*Surface, error) {
	if cfg.TickInterval <= 0 {
		return nil, errors.Wrapf(ErrConfig, "tick interval %v is not positive", cfg.TickInterval)
	}
	if cfg.FadeDelay <= 0 {
		return nil, errors.Wrapf(ErrConfig, "fade delay %v is not positive", cfg.FadeDelay)
	}

	norm, err := stick.NewNormalizer(cfg.Stick, cfg.Scale)
	if err != nil {
		return nil, err
	}
	sched, err := emit.NewScheduler(cfg.Policy, cfg.RateHz)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		cfg:     cfg,
		cb:      cb,
		clock:   clock.Real(),
		sticks:  make(map[Region]*stick.Tracker),
		buttons: make(map[Region]*button.Button),
		sched:   sched,
		fade:    fade.New(cfg.FadeDelay),
		events:  make(chan Event, eventQueue),
		scales:  make(chan *stick.Normalizer, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.addStick(Left, norm, cb.OnLeftJoystickMove)
	s.addStick(Right, norm, cb.OnRightJoystickMove)
	s.addButton(Up, button.Up, cb.OnUp)
	s.addButton(Down, button.Down, cb.OnDown)
	s.addButton(A, button.A, cb.OnButtonA)
	s.addButton(B, button.B, cb.OnButtonB)

	return s, nil
}

func (s *Surface) addStick(r Region, norm *stick.Normalizer, sink func(dx, dy float64)) {
	if sink == nil {
		return
	}

	var capture stick.Capturer
	if s.capture != nil {
		capture = regionCapture{region: r, c: s.capture}
	}
	t := stick.NewTracker(norm, capture)
	s.sticks[r] = t
	s.sched.Add(t.Vector, sink)
}

func (s *Surface) addButton(r Region, id button.ID, sink func(active bool)) {
	if sink == nil {
		return
	}
	s.buttons[r] = button.New(id, sink)
}

// regionCapture binds a tracker's capture requests to its region.
type regionCapture struct {
	region Region
	c      Capturer
}

func (rc regionCapture) Capture(id int) { rc.c.Capture(rc.region, id) }
func (rc regionCapture) Release(id int) { rc.c.Release(rc.region, id) }

// Has reports whether the region exists on this surface.
func (s *Surface) Has(r Region) bool {
	if r.IsJoystick() {
		_, ok := s.sticks[r]
		return ok
	}
	_, ok := s.buttons[r]
	return ok
}

// Config returns the configuration the surface was built with.
func (s *Surface) Config() Config {
	return s.cfg
}

// Visible reports the activity flag.
func (s *Surface) Visible() bool {
	return s.fade.Visible()
}

// Vector returns the current vector of a joystick region.
func (s *Surface) Vector(r Region) stick.Vector {
	if t, ok := s.sticks[r]; ok {
		return t.Vector()
	}
	return stick.Vector{}
}

// ButtonActive returns the state of a button region.
func (s *Surface) ButtonActive(r Region) bool {
	if b, ok := s.buttons[r]; ok {
		return b.Active()
	}
	return false
}

// Dispatch applies a pointer event and returns true if it changed any
// state. Events for absent regions and stale pointers are dropped.
func (s *Surface) Dispatch(ev Event) bool {
	if s.stopped {
		return false
	}

	if t, ok := s.sticks[ev.Region]; ok {
		return s.dispatchStick(ev, t)
	}
	if b, ok := s.buttons[ev.Region]; ok {
		return s.dispatchButton(ev, b)
	}
	return false
}

func (s *Surface) dispatchStick(ev Event, t *stick.Tracker) bool {
	var changed bool

	switch ev.Kind {
	case Press:
		s.activate()
		changed = t.Press(ev.PointerID, ev.Point, ev.Bounds)
	case Move:
		changed = t.Move(ev.PointerID, ev.Point, ev.Bounds)
	case Release:
		changed = t.Release(ev.PointerID)
	case Cancel:
		changed = t.Cancel(ev.PointerID)
	}

	// Every lifted pointer starts the fade, including one the tracker never
	// accepted, such as a press before the control was mounted.
	if ev.Kind == Release || ev.Kind == Cancel {
		s.scheduleFade()
	}
	if !changed {
		return false
	}
	if s.cb.OnHandle != nil {
		s.cb.OnHandle(ev.Region, t.Offset())
	}
	return true
}

func (s *Surface) dispatchButton(ev Event, b *button.Button) bool {
	switch ev.Kind {
	case Press:
		s.activate()
		b.Press()
	case Release, Cancel:
		b.Release()
		s.scheduleFade()
	default:
		return false
	}
	return true
}

func (s *Surface) activate() {
	if s.fade.Activate() && s.cb.OnVisibility != nil {
		s.cb.OnVisibility(true)
	}
}

func (s *Surface) scheduleFade() {
	s.fade.Schedule(s.clock.Now())
	if s.fadeTimer == nil {
		s.fadeTimer = s.clock.NewTimer(s.fade.Delay())
		return
	}
	s.fadeTimer.Reset(s.fade.Delay())
}

// Tick runs one emission cycle.
func (s *Surface) Tick(now time.Time) {
	if s.stopped {
		return
	}
	s.sched.Tick(now)
}

// ExpireFade hides the surface if its fade deadline has passed.
func (s *Surface) ExpireFade(now time.Time) {
	if s.stopped {
		return
	}
	if s.fade.Expire(now) && s.cb.OnVisibility != nil {
		s.cb.OnVisibility(false)
	}
}

// SetScale rebuilds the joystick normalization for a new scale factor. An
// invalid factor leaves the surface unchanged.
func (s *Surface) SetScale(scale float64) error {
	n, err := stick.NewNormalizer(s.cfg.Stick, scale)
	if err != nil {
		return err
	}
	s.applyNormalizer(n)
	return nil
}

func (s *Surface) applyNormalizer(n *stick.Normalizer) {
	for _, t := range s.sticks {
		t.SetNormalizer(n)
	}
}

// Post queues an event for Run. It blocks while the queue is full and
// drops the event once the surface has been torn down.
func (s *Surface) Post(ev Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// PostScale validates the scale factor and queues it for Run. The error is
// returned to the caller straight away.
func (s *Surface) PostScale(scale float64) error {
	n, err := stick.NewNormalizer(s.cfg.Stick, scale)
	if err != nil {
		return err
	}

	// only the most recent scale matters
	select {
	case <-s.scales:
	default:
	}
	select {
	case s.scales <- n:
	case <-s.done:
	}
	return nil
}

// Done is closed once Run has returned.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

// Run drives the surface until ctx is cancelled. The emission ticker only
// runs when at least one joystick exists. No callback fires after Run
// returns. Run must only be called once.
func (s *Surface) Run(ctx context.Context) {
	defer s.teardown()

	var tickC <-chan time.Time
	if !s.sched.Empty() {
		ticker := s.clock.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()
		tickC = ticker.C()
	}

	for {
		var fadeC <-chan time.Time
		if s.fadeTimer != nil {
			fadeC = s.fadeTimer.C()
		}

		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.Dispatch(ev)
		case n := <-s.scales:
			s.applyNormalizer(n)
		case now := <-tickC:
			s.Tick(now)
		case now := <-fadeC:
			s.ExpireFade(now)
		}
	}
}

func (s *Surface) teardown() {
	s.stopped = true
	s.sched.Stop()
	if s.fadeTimer != nil {
		s.fadeTimer.Stop()
	}
	close(s.done)
}

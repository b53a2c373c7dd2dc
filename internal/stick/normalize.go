// Package stick turns raw pointer positions over an on-screen joystick into
// normalized direction vectors.
package stick

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrConfig is returned when the normalizer parameters cannot produce a
// usable effective radius or dead zone.
var ErrConfig = errors.New("invalid joystick configuration")

// Default values for Params.
const (
	DefaultMaxRadius  = 50.0
	DefaultDeadZone   = 0.1
	DefaultMaxOutside = 0.35
)

// DeadZoneRule selects how a component is compared against the dead zone.
type DeadZoneRule int

const (
	// Inclusive zeroes components where |v| <= deadZone.
	Inclusive DeadZoneRule = iota
	// Exclusive zeroes components where |v| < deadZone.
	Exclusive
)

func (r DeadZoneRule) String() string {
	switch r {
	case Inclusive:
		return "inclusive"
	case Exclusive:
		return "exclusive"
	}
	return "unknown"
}

// ParseDeadZoneRule returns the rule named by s.
func ParseDeadZoneRule(s string) (DeadZoneRule, bool) {
	switch strings.ToLower(s) {
	case "inclusive":
		return Inclusive, true
	case "exclusive":
		return Exclusive, true
	}
	return 0, false
}

// Point is a position in client pixels.
type Point struct {
	X float64
	Y float64
}

// Bounds is the bounding box of a control element, in client pixels.
type Bounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Center returns the middle of the bounding box.
func (b Bounds) Center() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Offset is the clamped displacement of the handle from the control center,
// in pixels. Screen coordinates: Y grows downwards.
type Offset struct {
	X float64
	Y float64
}

// Vector is a normalized joystick direction. Both components are in [-1, 1]
// and DY is positive upwards.
type Vector struct {
	DX float64
	DY float64
}

// Moving is true if either component is nonzero.
func (v Vector) Moving() bool {
	return v.DX != 0 || v.DY != 0
}

// Params holds the constants of the normalization.
type Params struct {
	MaxRadius float64
	DeadZone  float64

	// Overshoot lets the handle travel MaxOutside beyond MaxRadius.
	Overshoot  bool
	MaxOutside float64

	Rule DeadZoneRule
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		MaxRadius:  DefaultMaxRadius,
		DeadZone:   DefaultDeadZone,
		MaxOutside: DefaultMaxOutside,
		Rule:       Inclusive,
	}
}

// Normalizer maps pointer positions to offsets and vectors for a fixed
// effective radius.
type Normalizer struct {
	params Params
	radius float64
}

// NewNormalizer validates p against the scale factor and returns a Normalizer.
// The error wraps ErrConfig.
func NewNormalizer(p Params, scale float64) (*Normalizer, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return nil, errors.Wrapf(ErrConfig, "scale factor %v is not positive", scale)
	}

	radius := p.MaxRadius * scale
	if p.Overshoot {
		if math.IsNaN(p.MaxOutside) || p.MaxOutside < 0 {
			return nil, errors.Wrapf(ErrConfig, "overshoot allowance %v is negative", p.MaxOutside)
		}
		radius *= 1 + p.MaxOutside
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, errors.Wrapf(ErrConfig, "effective radius %v is not positive (max radius %v, scale %v)", radius, p.MaxRadius, scale)
	}

	if math.IsNaN(p.DeadZone) || p.DeadZone < 0 || p.DeadZone >= 1 {
		return nil, errors.Wrapf(ErrConfig, "dead zone %v is outside [0, 1)", p.DeadZone)
	}

	switch p.Rule {
	case Inclusive, Exclusive:
	default:
		return nil, errors.Wrapf(ErrConfig, "unknown dead zone rule %d", p.Rule)
	}

	return &Normalizer{params: p, radius: radius}, nil
}

// Radius is the effective radius: the pixel distance that maps to a
// magnitude of 1.
func (n *Normalizer) Radius() float64 {
	return n.radius
}

// Params returns the parameters the normalizer was built with.
func (n *Normalizer) Params() Params {
	return n.params
}

// Normalize computes the handle offset and the normalized vector for a
// pointer at pt over a control with bounds b.
func (n *Normalizer) Normalize(pt Point, b Bounds) (Offset, Vector) {
	c := b.Center()
	dx := pt.X - c.X
	dy := pt.Y - c.Y

	distance := math.Hypot(dx, dy)
	if distance == 0 {
		return Offset{}, Vector{}
	}
	angle := math.Atan2(dy, dx)

	limited := math.Min(distance, n.radius)
	off := Offset{
		X: math.Cos(angle) * limited,
		Y: math.Sin(angle) * limited,
	}

	v := Vector{
		DX: clamp(n.ApplyDeadZone(off.X / n.radius)),
		DY: clamp(n.ApplyDeadZone(-off.Y / n.radius)),
	}
	return off, v
}

// ApplyDeadZone returns exactly 0 if v is inside the dead zone.
func (n *Normalizer) ApplyDeadZone(v float64) float64 {
	a := math.Abs(v)
	switch n.params.Rule {
	case Exclusive:
		if a < n.params.DeadZone {
			return 0
		}
	default:
		if a <= n.params.DeadZone {
			return 0
		}
	}
	return v
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	// folds -0 into 0
	if v == 0 {
		return 0
	}
	return v
}

package stick_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/soar/touchjoy/internal/stick"
	"github.com/soar/touchjoy/internal/test"
)

const tolerance = 1e-9

// a 100x100 control whose center sits at (150, 250)
var bounds = stick.Bounds{Left: 100, Top: 200, Width: 100, Height: 100}

func at(dx, dy float64) stick.Point {
	c := bounds.Center()
	return stick.Point{X: c.X + dx, Y: c.Y + dy}
}

func mustNormalizer(t *testing.T, p stick.Params, scale float64) *stick.Normalizer {
	t.Helper()
	n, err := stick.NewNormalizer(p, scale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return n
}

func TestNormalizeScenario(t *testing.T) {
	n := mustNormalizer(t, stick.DefaultParams(), 1)

	off, v := n.Normalize(at(30, 0), bounds)
	test.ExpectApproximate(t, v.DX, 0.6, tolerance)
	test.ExpectEquality(t, v.DY, 0.0)
	test.ExpectApproximate(t, off.X, 30, tolerance)

	// screen-up is positive
	_, v = n.Normalize(at(0, -40), bounds)
	test.ExpectEquality(t, v.DX, 0.0)
	test.ExpectApproximate(t, v.DY, 0.8, tolerance)
}

func TestNormalizeCenter(t *testing.T) {
	n := mustNormalizer(t, stick.DefaultParams(), 1)
	off, v := n.Normalize(bounds.Center(), bounds)
	test.ExpectEquality(t, off, stick.Offset{})
	test.ExpectEquality(t, v, stick.Vector{})
	test.ExpectFailure(t, v.Moving())
}

func TestNormalizeClamp(t *testing.T) {
	n := mustNormalizer(t, stick.DefaultParams(), 1)

	off, v := n.Normalize(at(300, -400), bounds)
	test.ExpectApproximate(t, math.Hypot(off.X, off.Y), 50, tolerance)
	test.ExpectApproximate(t, v.DX, 0.6, tolerance)
	test.ExpectApproximate(t, v.DY, 0.8, tolerance)

	for _, p := range []stick.Point{at(1e6, 0), at(-1e6, 0), at(0, 1e6), at(0, -1e6), at(-1e6, 1e6)} {
		_, v := n.Normalize(p, bounds)
		if math.Abs(v.DX) > 1 || math.Abs(v.DY) > 1 {
			t.Errorf("vector %v outside unit range", v)
		}
	}
}

func TestNormalizeMagnitude(t *testing.T) {
	n := mustNormalizer(t, stick.DefaultParams(), 2)
	r := n.Radius()
	test.ExpectApproximate(t, r, 100, tolerance)

	// both components stay clear of the dead zone so the magnitude is preserved
	for _, d := range []float64{30, 50, 75, 100} {
		for _, deg := range []float64{30, 45, 135, 225, 300} {
			a := deg * math.Pi / 180
			raw := stick.Point{X: math.Cos(a) * d, Y: math.Sin(a) * d}
			_, v := n.Normalize(at(raw.X, raw.Y), bounds)
			test.ExpectApproximate(t, math.Hypot(v.DX, v.DY), d/r, 1e-9)
		}
	}
}

func TestDeadZoneExactZero(t *testing.T) {
	n := mustNormalizer(t, stick.DefaultParams(), 1)

	// 4px is 0.08 of the radius
	_, v := n.Normalize(at(4, -40), bounds)
	test.ExpectEquality(t, v.DX, 0.0)
	test.ExpectApproximate(t, v.DY, 0.8, tolerance)

	_, v = n.Normalize(at(-3, 2), bounds)
	test.ExpectEquality(t, v, stick.Vector{})
	test.ExpectEquality(t, math.Signbit(v.DX), false)
	test.ExpectEquality(t, math.Signbit(v.DY), false)
}

func TestDeadZoneRule(t *testing.T) {
	p := stick.DefaultParams()

	// exactly on the threshold: 5px of 50px
	n := mustNormalizer(t, p, 1)
	_, v := n.Normalize(at(5, 0), bounds)
	test.ExpectEquality(t, v.DX, 0.0)

	p.Rule = stick.Exclusive
	n = mustNormalizer(t, p, 1)
	_, v = n.Normalize(at(5, 0), bounds)
	test.ExpectApproximate(t, v.DX, 0.1, tolerance)

	_, v = n.Normalize(at(4.9, 0), bounds)
	test.ExpectEquality(t, v.DX, 0.0)
}

func TestOvershoot(t *testing.T) {
	p := stick.DefaultParams()
	p.Overshoot = true

	n := mustNormalizer(t, p, 1)
	test.ExpectApproximate(t, n.Radius(), 67.5, tolerance)

	off, v := n.Normalize(at(100, 0), bounds)
	test.ExpectApproximate(t, off.X, 67.5, tolerance)
	test.ExpectApproximate(t, v.DX, 1, tolerance)

	_, v = n.Normalize(at(0, 33.75), bounds)
	test.ExpectApproximate(t, v.DY, -0.5, tolerance)
}

func TestNormalizerConfigErrors(t *testing.T) {
	bad := []struct {
		name  string
		mod   func(*stick.Params)
		scale float64
	}{
		{name: "zero scale", mod: func(*stick.Params) {}, scale: 0},
		{name: "negative scale", mod: func(*stick.Params) {}, scale: -1},
		{name: "nan scale", mod: func(*stick.Params) {}, scale: math.NaN()},
		{name: "zero radius", mod: func(p *stick.Params) { p.MaxRadius = 0 }, scale: 1},
		{name: "negative radius", mod: func(p *stick.Params) { p.MaxRadius = -5 }, scale: 1},
		{name: "dead zone too large", mod: func(p *stick.Params) { p.DeadZone = 1 }, scale: 1},
		{name: "negative dead zone", mod: func(p *stick.Params) { p.DeadZone = -0.1 }, scale: 1},
		{name: "negative overshoot", mod: func(p *stick.Params) { p.Overshoot = true; p.MaxOutside = -2 }, scale: 1},
		{name: "unknown rule", mod: func(p *stick.Params) { p.Rule = stick.DeadZoneRule(9) }, scale: 1},
	}

	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			p := stick.DefaultParams()
			tc.mod(&p)
			n, err := stick.NewNormalizer(p, tc.scale)
			test.ExpectFailure(t, err)
			test.ExpectSuccess(t, errors.Is(err, stick.ErrConfig))
			test.ExpectSuccess(t, n == nil)
		})
	}
}

func TestParseDeadZoneRule(t *testing.T) {
	r, ok := stick.ParseDeadZoneRule("Exclusive")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, r, stick.Exclusive)

	r, ok = stick.ParseDeadZoneRule("inclusive")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, r.String(), "inclusive")

	_, ok = stick.ParseDeadZoneRule("radial")
	test.ExpectFailure(t, ok)
}

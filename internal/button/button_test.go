package button_test

import (
	"testing"

	"github.com/soar/touchjoy/internal/button"
	"github.com/soar/touchjoy/internal/test"
)

func TestButton(t *testing.T) {
	var got []bool
	b := button.New(button.A, func(active bool) {
		got = append(got, active)
	})

	test.ExpectEquality(t, b.ID().String(), "a")
	test.ExpectFailure(t, b.Active())

	b.Press()
	test.ExpectSuccess(t, b.Active())
	test.ExpectEquality(t, len(got), 1)
	test.ExpectEquality(t, got[0], true)

	b.Release()
	test.ExpectFailure(t, b.Active())
	test.ExpectEquality(t, len(got), 2)
	test.ExpectEquality(t, got[1], false)
}

func TestButtonNames(t *testing.T) {
	names := []string{"up", "down", "a", "b"}
	for i, id := range button.All {
		test.ExpectEquality(t, id.String(), names[i])
	}
	test.ExpectEquality(t, button.ID(99).String(), "unknown")
}

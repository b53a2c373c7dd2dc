package fade_test

import (
	"testing"
	"time"

	"github.com/soar/touchjoy/internal/fade"
	"github.com/soar/touchjoy/internal/test"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFade(t *testing.T) {
	f := fade.New(0)
	test.ExpectEquality(t, f.Delay(), fade.DefaultDelay)
	test.ExpectFailure(t, f.Visible())

	test.ExpectSuccess(t, f.Activate())
	test.ExpectFailure(t, f.Activate())
	test.ExpectSuccess(t, f.Visible())

	deadline := f.Schedule(epoch)
	test.ExpectEquality(t, deadline, epoch.Add(3*time.Second))
	test.ExpectSuccess(t, f.Pending())

	test.ExpectFailure(t, f.Expire(epoch.Add(2999*time.Millisecond)))
	test.ExpectSuccess(t, f.Visible())

	test.ExpectSuccess(t, f.Expire(deadline))
	test.ExpectFailure(t, f.Visible())
	test.ExpectFailure(t, f.Pending())

	// nothing pending any more
	test.ExpectFailure(t, f.Expire(deadline.Add(time.Hour)))
}

func TestFadeActivityCancels(t *testing.T) {
	f := fade.New(time.Second)
	f.Activate()
	f.Schedule(epoch)

	// a press before the deadline keeps the surface visible
	f.Activate()
	test.ExpectFailure(t, f.Expire(epoch.Add(2*time.Second)))
	test.ExpectSuccess(t, f.Visible())
}

func TestFadeSupersede(t *testing.T) {
	f := fade.New(time.Second)
	f.Activate()
	f.Schedule(epoch)
	f.Schedule(epoch.Add(800 * time.Millisecond))

	// the first deadline no longer applies
	test.ExpectFailure(t, f.Expire(epoch.Add(time.Second)))
	test.ExpectSuccess(t, f.Expire(epoch.Add(1800*time.Millisecond)))
}

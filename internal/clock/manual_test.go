package clock_test

import (
	"testing"
	"time"

	"github.com/soar/touchjoy/internal/clock"
	"github.com/soar/touchjoy/internal/test"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualTicker(t *testing.T) {
	c := clock.NewManual(epoch)
	tk := c.NewTicker(10 * time.Millisecond)

	c.Advance(5 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatalf("ticker fired early")
	default:
	}

	c.Advance(5 * time.Millisecond)
	got := <-tk.C()
	test.ExpectEquality(t, got, epoch.Add(10*time.Millisecond))

	// an unreceived tick causes later ones to be dropped
	c.Advance(30 * time.Millisecond)
	got = <-tk.C()
	test.ExpectEquality(t, got, epoch.Add(20*time.Millisecond))
	select {
	case <-tk.C():
		t.Fatalf("expected dropped ticks")
	default:
	}

	tk.Stop()
	c.Advance(time.Second)
	select {
	case <-tk.C():
		t.Fatalf("stopped ticker fired")
	default:
	}
}

func TestManualTimerReset(t *testing.T) {
	c := clock.NewManual(epoch)
	tm := c.NewTimer(100 * time.Millisecond)

	c.Advance(60 * time.Millisecond)
	test.ExpectSuccess(t, tm.Reset(100*time.Millisecond))

	c.Advance(60 * time.Millisecond)
	select {
	case <-tm.C():
		t.Fatalf("superseded deadline fired")
	default:
	}

	c.Advance(40 * time.Millisecond)
	got := <-tm.C()
	test.ExpectEquality(t, got, epoch.Add(160*time.Millisecond))
	test.ExpectFailure(t, tm.Stop())
	test.ExpectEquality(t, c.Now(), epoch.Add(160*time.Millisecond))
}

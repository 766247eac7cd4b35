package clock

import (
	"testing"
	"time"
)

func TestFakeClock_AfterFunc(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFake(start)

	fired := 0
	c.AfterFunc(10*time.Second, func() { fired++ })

	c.Advance(9 * time.Second)
	if fired != 0 {
		t.Fatalf("callback fired early: %d", fired)
	}
	if c.PendingCount() != 1 {
		t.Errorf("PendingCount() = %d, want 1", c.PendingCount())
	}

	c.Advance(1 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	c.Advance(time.Hour)
	if fired != 1 {
		t.Errorf("one-shot callback fired %d times", fired)
	}
	if got := c.Now(); !got.Equal(start.Add(time.Hour + 10*time.Second)) {
		t.Errorf("Now() = %v", got)
	}
}

func TestFakeClock_Stop(t *testing.T) {
	c := NewFake(time.Now())

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop() on pending timer = false, want true")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}

	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", c.PendingCount())
	}
}

func TestFakeClock_Order(t *testing.T) {
	c := NewFake(time.Now())

	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestFakeClock_NonPositiveDelay(t *testing.T) {
	c := NewFake(time.Now())

	fired := false
	timer := c.AfterFunc(0, func() { fired = true })
	if !fired {
		t.Error("zero-delay callback did not run immediately")
	}
	if timer.Stop() {
		t.Error("Stop() after immediate fire = true, want false")
	}
}

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeFiresInDueOrder(t *testing.T) {
	c := NewFake(epoch)
	var got []string
	c.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	c.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	c.Advance(200 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after 200ms got %v, want [a b]", got)
	}
	if c.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", c.Pending())
	}

	c.Advance(100 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("after 300ms got %v", got)
	}
	if !c.Now().Equal(epoch.Add(300 * time.Millisecond)) {
		t.Errorf("Now() = %v", c.Now())
	}
}

func TestFakeChainedTimersWithinWindow(t *testing.T) {
	c := NewFake(epoch)
	var fired []time.Time
	c.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, c.Now())
		c.AfterFunc(100*time.Millisecond, func() {
			fired = append(fired, c.Now())
		})
	})

	c.Advance(time.Second)
	if len(fired) != 2 {
		t.Fatalf("fired %d callbacks, want 2", len(fired))
	}
	if !fired[1].Equal(epoch.Add(200 * time.Millisecond)) {
		t.Errorf("chained callback ran at %v, want +200ms", fired[1])
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Fatal("Stop() on pending timer returned false")
	}
	if tm.Stop() {
		t.Error("second Stop() returned true")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

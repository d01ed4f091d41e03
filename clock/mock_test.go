package clock_test

import (
	"testing"
	"time"

	"github.com/krisalay/swr-cache/clock"
)

func TestMockNowAdvances(t *testing.T) {
	start := time.Unix(1000, 0)
	m := clock.NewMock(start)

	if !m.Now().Equal(start) {
		t.Fatalf("expected frozen start time")
	}

	m.Advance(3 * time.Second)
	if got := m.Now(); !got.Equal(start.Add(3 * time.Second)) {
		t.Fatalf("expected start+3s, got %v", got)
	}
}

func TestMockTimerFiresOnAdvance(t *testing.T) {
	m := clock.NewMock(time.Unix(1000, 0))
	timer := m.NewTimer(500 * time.Millisecond)

	select {
	case <-timer.C():
		t.Fatalf("timer fired before its deadline")
	default:
	}

	m.Advance(499 * time.Millisecond)
	select {
	case <-timer.C():
		t.Fatalf("timer fired 1ms early")
	default:
	}

	m.Advance(1 * time.Millisecond)
	select {
	case at := <-timer.C():
		if !at.Equal(time.Unix(1000, 0).Add(500 * time.Millisecond)) {
			t.Fatalf("unexpected fire time %v", at)
		}
	default:
		t.Fatalf("timer should have fired at its deadline")
	}
}

func TestMockTimerStop(t *testing.T) {
	m := clock.NewMock(time.Unix(1000, 0))
	timer := m.NewTimer(time.Second)

	if !timer.Stop() {
		t.Fatalf("stop before firing should report true")
	}

	m.Advance(2 * time.Second)
	select {
	case <-timer.C():
		t.Fatalf("stopped timer must not fire")
	default:
	}

	if timer.Stop() {
		t.Fatalf("second stop should report false")
	}
}

func TestMockNonPositiveTimerFiresImmediately(t *testing.T) {
	m := clock.NewMock(time.Unix(1000, 0))
	timer := m.NewTimer(0)

	select {
	case <-timer.C():
	default:
		t.Fatalf("zero-duration timer should be ready immediately")
	}
}

func TestMockBlockUntil(t *testing.T) {
	m := clock.NewMock(time.Unix(1000, 0))

	armed := make(chan struct{})
	go func() {
		<-armed
		m.NewTimer(time.Second)
	}()

	close(armed)
	m.BlockUntil(1) // returns once the goroutine has armed its timer

	m.Advance(time.Second)
}

package clock

import (
	"sync"
	"time"
)

/*
Mock is a manually driven Clock for tests.

Time only moves when Advance is called. Timers armed through NewTimer fire
during the Advance call that carries the mock past their deadline, on the
goroutine calling Advance, so a test controls exactly when "later" happens.
*/
type Mock struct {
	mu     sync.Mutex
	cond   *sync.Cond
	now    time.Time
	timers []*mockTimer
}

// NewMock returns a Mock frozen at start.
func NewMock(start time.Time) *Mock {
	m := &Mock{now: start}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Now returns the mock's current instant.
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

/*
NewTimer arms a timer that fires when the mock advances past now+d.
A non-positive d fires the timer immediately, matching time.NewTimer.
*/
func (m *Mock) NewTimer(d time.Duration) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &mockTimer{
		clock: m,
		at:    m.now.Add(d),
		ch:    make(chan time.Time, 1),
	}

	if d <= 0 {
		t.fired = true
		t.ch <- m.now
	} else {
		m.timers = append(m.timers, t)
	}

	// Wake anyone blocked in BlockUntil.
	m.cond.Broadcast()

	return t
}

/*
Advance moves the mock forward by d and fires every armed timer whose
deadline has been reached, in arming order.
*/
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)

	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.at.After(m.now) {
			t.fired = true
			t.ch <- m.now
			continue
		}
		live = append(live, t)
	}
	m.timers = live
	m.cond.Broadcast()
}

/*
BlockUntil waits until at least n timers are armed and still pending.

Tests use this to make sure the code under test has reached its timeout
race before the test advances time past the deadline.
*/
func (m *Mock) BlockUntil(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.pendingLocked() < n {
		m.cond.Wait()
	}
}

func (m *Mock) pendingLocked() int {
	count := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

type mockTimer struct {
	clock   *Mock
	at      time.Time
	ch      chan time.Time
	fired   bool
	stopped bool
}

func (t *mockTimer) C() <-chan time.Time {
	return t.ch
}

func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

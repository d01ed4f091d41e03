package events_test

import (
	"sync"
	"testing"

	"github.com/krisalay/swr-cache/events"
)

// recorder collects delivered events so tests can assert on them after
// Close has flushed the queue.
type recorder struct {
	mu   sync.Mutex
	seen []events.Event
}

func (r *recorder) observe(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, ev)
}

func (r *recorder) events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.seen...)
}

func TestDeliversInEmitOrder(t *testing.T) {
	rec := &recorder{}
	d := events.NewDispatcher(rec.observe, 16)

	keys := []string{"a", "b", "c", "d", "e"}
	for _, k := range keys {
		d.Emit(events.Event{Type: events.Hit, Key: k})
	}
	d.Close()

	seen := rec.events()
	if len(seen) != len(keys) {
		t.Fatalf("expected %d events, got %d", len(keys), len(seen))
	}
	for i, k := range keys {
		if seen[i].Key != k {
			t.Fatalf("event %d: expected key %q, got %q", i, k, seen[i].Key)
		}
	}
}

func TestDropsUnderPressure(t *testing.T) {
	gate := make(chan struct{})
	first := make(chan struct{})
	var once sync.Once

	d := events.NewDispatcher(func(events.Event) {
		once.Do(func() { close(first) })
		<-gate
	}, 1)

	// First event occupies the observer, second fills the buffer.
	d.Emit(events.Event{Type: events.Hit, Key: "1"})
	<-first
	d.Emit(events.Event{Type: events.Hit, Key: "2"})

	// Buffer is full now; this one must be dropped, not block.
	d.Emit(events.Event{Type: events.Hit, Key: "3"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}

	close(gate)
	d.Close()
}

func TestCloseFlushesQueued(t *testing.T) {
	rec := &recorder{}
	d := events.NewDispatcher(rec.observe, 64)

	for i := 0; i < 20; i++ {
		d.Emit(events.Event{Type: events.RefreshStarted, Key: "k"})
	}
	d.Close()

	if got := len(rec.events()); got != 20 {
		t.Fatalf("close must flush the queue: expected 20, got %d", got)
	}
}

func TestEmitAfterCloseIsDiscarded(t *testing.T) {
	rec := &recorder{}
	d := events.NewDispatcher(rec.observe, 4)
	d.Close()

	// Must neither panic nor deliver.
	d.Emit(events.Event{Type: events.Miss, Key: "late"})

	if got := len(rec.events()); got != 0 {
		t.Fatalf("expected no deliveries after close, got %d", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	d := events.NewDispatcher(nil, 4)
	d.Close()
	d.Close()
}

func TestNilObserverIsSafe(t *testing.T) {
	d := events.NewDispatcher(nil, 4)
	d.Emit(events.Event{Type: events.Stale, Key: "k"})
	d.Close()
}

func TestTypeStrings(t *testing.T) {
	cases := map[events.Type]string{
		events.Hit:              "hit",
		events.Stale:            "stale",
		events.Miss:             "miss",
		events.RefreshStarted:   "refresh_started",
		events.RefreshSucceeded: "refresh_succeeded",
		events.RefreshFailed:    "refresh_failed",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

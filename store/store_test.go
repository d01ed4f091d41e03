package store_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/krisalay/swr-cache/store"
	"github.com/krisalay/swr-cache/types"
)

//
// ================= VALUE / TIMESTAMP PAIR =================
//

func TestSetAndGet(t *testing.T) {
	s := store.New[string](4)
	at := time.Unix(100, 0)

	s.Set("k", "v", at)

	ent, ok := s.Get("k")
	if !ok {
		t.Fatalf("expected entry for k")
	}
	if !ent.HasValue || ent.Value != "v" || !ent.ComputedAt.Equal(at) {
		t.Fatalf("unexpected entry: %+v", ent)
	}
}

func TestGetMissing(t *testing.T) {
	s := store.New[string](4)

	if _, ok := s.Get("nope"); ok {
		t.Fatalf("expected no entry")
	}
}

func TestSetReplacesPair(t *testing.T) {
	s := store.New[string](4)

	s.Set("k", "old", time.Unix(100, 0))
	s.Set("k", "new", time.Unix(200, 0))

	ent, _ := s.Get("k")
	if ent.Value != "new" || !ent.ComputedAt.Equal(time.Unix(200, 0)) {
		t.Fatalf("expected replaced pair, got %+v", ent)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
}

func TestSetPreservesPending(t *testing.T) {
	s := store.New[string](4)
	f := types.NewFlight[string]()

	s.AttachPending("k", f)
	s.Set("k", "v", time.Unix(100, 0))

	ent, _ := s.Get("k")
	if ent.Pending != f {
		t.Fatalf("set must not clear an unrelated pending handle")
	}
	if !ent.HasValue || ent.Value != "v" {
		t.Fatalf("unexpected entry: %+v", ent)
	}
}

//
// ================= PENDING HANDLE LIFECYCLE =================
//

func TestAttachPendingJoinsExisting(t *testing.T) {
	s := store.New[string](4)
	f1 := types.NewFlight[string]()
	f2 := types.NewFlight[string]()

	got, started := s.AttachPending("k", f1)
	if !started || got != f1 {
		t.Fatalf("first attach should win")
	}

	got, started = s.AttachPending("k", f2)
	if started {
		t.Fatalf("second attach should join, not start")
	}
	if got != f1 {
		t.Fatalf("joiner must receive the pending handle")
	}
}

func TestReplacePendingSwapsHandle(t *testing.T) {
	s := store.New[string](4)
	f1 := types.NewFlight[string]()
	f2 := types.NewFlight[string]()

	s.AttachPending("k", f1)
	s.ReplacePending("k", f2)

	ent, _ := s.Get("k")
	if ent.Pending != f2 {
		t.Fatalf("replace must install the new handle")
	}
}

func TestDetachPendingIdentityGuard(t *testing.T) {
	s := store.New[string](4)
	f1 := types.NewFlight[string]()
	f2 := types.NewFlight[string]()

	s.AttachPending("k", f1)
	s.ReplacePending("k", f2)

	// f1 was superseded; its detach must not clear f2.
	if s.DetachPending("k", f1) {
		t.Fatalf("stale detach must be a no-op")
	}
	if ent, _ := s.Get("k"); ent.Pending != f2 {
		t.Fatalf("newer handle lost to a stale detach")
	}

	if !s.DetachPending("k", f2) {
		t.Fatalf("owner detach should clear the slot")
	}
	if _, ok := s.Get("k"); ok {
		t.Fatalf("record with no value and no pending should be removed")
	}
}

func TestDetachKeepsValue(t *testing.T) {
	s := store.New[string](4)
	f := types.NewFlight[string]()

	s.Set("k", "v", time.Unix(100, 0))
	s.AttachPending("k", f)
	s.DetachPending("k", f)

	ent, ok := s.Get("k")
	if !ok || ent.Value != "v" || ent.Pending != nil {
		t.Fatalf("detach must keep the value, got %+v ok=%v", ent, ok)
	}
}

//
// ================= CONCURRENCY =================
//

func TestConcurrentAttachSingleWinner(t *testing.T) {
	s := store.New[string](4)

	const callers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, started := s.AttachPending("k", types.NewFlight[string]())
			if started {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winning attach, got %d", winners)
	}
}

func TestLenAcrossShards(t *testing.T) {
	s := store.New[int](8)

	for i := 0; i < 100; i++ {
		s.Set(fmt.Sprintf("key-%d", i), i, time.Unix(int64(i), 0))
	}

	if s.Len() != 100 {
		t.Fatalf("expected 100 records, got %d", s.Len())
	}
}

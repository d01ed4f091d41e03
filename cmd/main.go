package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/krisalay/swr-cache"
	"github.com/krisalay/swr-cache/api"
)

// ================= METRICS =================

type Metrics struct {
	mu        sync.Mutex
	hits      int
	stales    int
	misses    int
	refreshes int
	failures  int
}

func (m *Metrics) Hit()     { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *Metrics) Stale()   { m.mu.Lock(); m.stales++; m.mu.Unlock() }
func (m *Metrics) Miss()    { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *Metrics) Refresh() { m.mu.Lock(); m.refreshes++; m.mu.Unlock() }
func (m *Metrics) Failure() { m.mu.Lock(); m.failures++; m.mu.Unlock() }

func (m *Metrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS      : %d\n", m.hits)
	fmt.Printf("STALE     : %d\n", m.stales)
	fmt.Printf("MISSES    : %d\n", m.misses)
	fmt.Printf("REFRESHES : %d\n", m.refreshes)
	fmt.Printf("FAILURES  : %d\n", m.failures)
}

// ================= SLOW UPSTREAM =================

// lookup simulates an expensive upstream call.
func lookup(key string, delay time.Duration) func() (string, error) {
	return func() (string, error) {
		time.Sleep(delay)
		return fmt.Sprintf("value-of-%s@%s", key, time.Now().Format("15:04:05.000")), nil
	}
}

// ================= MAIN =================

func main() {
	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	// ---------------- System Config ----------------
	fmt.Println("SHARDS          : 4")
	fmt.Println("EXPIRES IN      : 800ms")
	fmt.Println("TIMEOUT         : 150ms")

	metrics := &Metrics{}

	c := cache.New[string](
		cache.WithShards(4),
		cache.WithMetrics(metrics),
	)

	opts := api.Options{
		ExpiresIn: 800 * time.Millisecond,
		Timeout:   150 * time.Millisecond,
	}

	// ====================================================
	fmt.Println("\n==================== 1) FIRST COMPUTE ====================")
	res, _ := c.GetOrCompute(ctx, "a", lookup("a", 50*time.Millisecond), opts)
	fmt.Println("CACHE  → GET a =", res.Value)

	// ====================================================
	fmt.Println("\n==================== 2) FRESH HIT ====================")
	res, _ = c.GetOrCompute(ctx, "a", lookup("a", 50*time.Millisecond), opts)
	fmt.Println("CACHE  → GET a =", res.Value, "(no upstream call)")

	// ====================================================
	fmt.Println("\n==================== 3) DEDUP ====================")

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			r, _ := c.GetOrCompute(ctx, "b", lookup("b", 100*time.Millisecond), api.Options{ExpiresIn: 800 * time.Millisecond})
			fmt.Printf("GOROUTINE-%d → GET b = %v\n", id, r.Value)
		}(i)
	}
	wg.Wait()
	fmt.Println("CACHE  → 5 callers, 1 upstream call")

	// ====================================================
	fmt.Println("\n==================== 4) STALE FALLBACK ====================")

	time.Sleep(900 * time.Millisecond) // let "a" expire

	res, _ = c.GetOrCompute(ctx, "a", lookup("a", 400*time.Millisecond), opts)
	fmt.Printf("CACHE  → GET a = %v (expired=%v, refresh still running)\n", res.Value, res.Expired)

	time.Sleep(500 * time.Millisecond) // background refresh lands

	res, _ = c.GetOrCompute(ctx, "a", lookup("a", 50*time.Millisecond), opts)
	fmt.Printf("CACHE  → GET a = %v (expired=%v, refreshed)\n", res.Value, res.Expired)

	// ====================================================
	fmt.Println("\n==================== 5) ABSENT UNDER TIMEOUT ====================")

	res, _ = c.GetOrCompute(ctx, "cold", lookup("cold", 400*time.Millisecond), opts)
	fmt.Printf("CACHE  → GET cold = %q (found=%v)\n", res.Value, res.Found)

	time.Sleep(500 * time.Millisecond)

	res, _ = c.GetOrCompute(ctx, "cold", lookup("cold", 50*time.Millisecond), opts)
	fmt.Printf("CACHE  → GET cold = %v (found=%v, filled in background)\n", res.Value, res.Found)

	// ====================================================
	fmt.Println("\n==================== 6) FORCE REFRESH ====================")

	res, _ = c.GetOrCompute(ctx, "a", lookup("a", 50*time.Millisecond), api.Options{
		ExpiresIn:    800 * time.Millisecond,
		ForceRefresh: true,
	})
	fmt.Println("CACHE  → GET a (forced) =", res.Value)

	// ====================================================
	fmt.Println("\n==================== 7) SET / PEEK ====================")

	c.Set("manual", "hand-made")
	if peeked, ok := c.Peek("manual", time.Minute); ok {
		fmt.Println("CACHE  → PEEK manual =", peeked.Value)
	}
	fmt.Println("CACHE  → LEN =", c.Len())

	// ====================================================
	metrics.Print()

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	c.Close()
	fmt.Println("SYSTEM → cache closed cleanly")
}

package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/swr-cache"
	"github.com/krisalay/swr-cache/api"
)

// ================= METRICS =================

type atomicMetrics struct {
	hits, stales, misses, refreshes, failures atomic.Int64
}

func (m *atomicMetrics) Hit()     { m.hits.Add(1) }
func (m *atomicMetrics) Stale()   { m.stales.Add(1) }
func (m *atomicMetrics) Miss()    { m.misses.Add(1) }
func (m *atomicMetrics) Refresh() { m.refreshes.Add(1) }
func (m *atomicMetrics) Failure() { m.failures.Add(1) }

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	// ---------------- Cache Config ----------------
	const (
		shards      = 8
		preloadKeys = 100000
		goroutines  = 200
		opsPerG     = 5000
	)

	opts := api.Options{
		ExpiresIn: 60 * time.Second,
		Timeout:   50 * time.Millisecond,
	}

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("Expires In   :", opts.ExpiresIn)
	fmt.Println("Timeout      :", opts.Timeout)
	fmt.Println("---------------------------------")

	metrics := &atomicMetrics{}

	c := cache.New[string](
		cache.WithShards(shards),
		cache.WithMetrics(metrics),
	)

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading cache...")
	for i := 0; i < preloadKeys; i++ {
		c.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
	}
	fmt.Println("Preload complete.")

	// ---------------- Warmup ----------------
	fmt.Println("Warming up cache...")
	for i := 0; i < 10000; i++ {
		key := fmt.Sprintf("key-%d", i%preloadKeys)
		c.GetOrCompute(ctx, key, func() (string, error) { return key, nil }, opts)
	}
	fmt.Println("Warmup complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	g := new(errgroup.Group)
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < opsPerG; j++ {
				key := fmt.Sprintf("key-%d", j%preloadKeys)
				if _, err := c.GetOrCompute(ctx, key, func() (string, error) {
					return key, nil
				}, opts); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Println("BENCHMARK FAILED:", err)
		return
	}

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hits             : %d\n", metrics.hits.Load())
	fmt.Printf("Stale Served     : %d\n", metrics.stales.Load())
	fmt.Printf("Misses           : %d\n", metrics.misses.Load())
	fmt.Printf("Refreshes        : %d\n", metrics.refreshes.Load())
	fmt.Printf("Failures         : %d\n", metrics.failures.Load())
	fmt.Println("=========================================")

	c.Close()
}

package prom_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/krisalay/swr-cache/prom"
)

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := prom.NewMetrics(reg, "test")

	m.Hit()
	m.Hit()
	m.Stale()
	m.Miss()
	m.Refresh()
	m.Refresh()
	m.Refresh()
	m.Failure()

	cases := []struct {
		name    string
		counter prometheus.Counter
		want    float64
	}{
		{"hits", m.Hits, 2},
		{"stales", m.Stales, 1},
		{"misses", m.Misses, 1},
		{"refreshes", m.Refreshes, 3},
		{"failures", m.Failures, 1},
	}
	for _, c := range cases {
		if got := testutil.ToFloat64(c.counter); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestRegistersUnderNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom.NewMetrics(reg, "swrdemo")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 5 {
		t.Fatalf("expected 5 metric families, got %d", len(families))
	}
	for _, fam := range families {
		name := fam.GetName()
		if len(name) < len("swrdemo_") || name[:len("swrdemo_")] != "swrdemo_" {
			t.Fatalf("metric %q missing namespace prefix", name)
		}
	}
}

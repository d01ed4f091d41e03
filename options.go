package cache

import (
	"io"
	"log/slog"

	"github.com/krisalay/swr-cache/clock"
	"github.com/krisalay/swr-cache/events"
	"github.com/krisalay/swr-cache/store"
	"github.com/krisalay/swr-cache/types"
)

// settings collects everything New can be handed before the cache is
// assembled. None of it depends on the value type, so options stay free
// of type parameters.
type settings struct {
	shards      int
	eventBuffer int
	clock       clock.Clock
	metrics     types.Metrics
	logger      *slog.Logger
	observer    events.Observer
}

func defaultSettings() settings {
	return settings{
		shards:      store.DefaultShards,
		eventBuffer: events.DefaultBuffer,
		clock:       clock.System(),
		metrics:     types.NoopMetrics{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option customizes a cache at construction time.
type Option func(*settings)

// WithShards sets how many shards the entry store is spread across.
// Values below one keep the default.
func WithShards(n int) Option {
	return func(s *settings) {
		s.shards = n
	}
}

// WithClock swaps the time source. Tests use this to drive freshness
// windows and timeouts deterministically.
func WithClock(clk clock.Clock) Option {
	return func(s *settings) {
		if clk != nil {
			s.clock = clk
		}
	}
}

// WithMetrics registers a metrics sink for cache activity.
func WithMetrics(m types.Metrics) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger routes the cache's internal logging. By default logs are
// discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer for cache events. Delivery is
// asynchronous and events may be dropped under pressure; see
// events.Dispatcher.
func WithObserver(obs events.Observer) Option {
	return func(s *settings) {
		s.observer = obs
	}
}

// WithEventBuffer sets the event queue size between the cache and the
// observer. Values below one keep the default.
func WithEventBuffer(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.eventBuffer = n
		}
	}
}
